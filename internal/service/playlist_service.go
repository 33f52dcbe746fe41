package service

import (
	"context"
	"fmt"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/pkg/utils"
)

type PlaylistService struct {
	tx        domain.Transactor
	playlists domain.PlaylistRepository
	life      lifecycle[domain.Playlist, *domain.Playlist]
	song      lifecycle[domain.Song, *domain.Song]
	now       Clock
}

func NewPlaylistService(tx domain.Transactor, playlists domain.PlaylistRepository, songs domain.SongRepository, now Clock) *PlaylistService {
	return &PlaylistService{
		tx: tx, playlists: playlists, now: now,
		life: lifecycle[domain.Playlist, *domain.Playlist]{what: "playlist", store: playlists, now: now},
		song: lifecycle[domain.Song, *domain.Song]{what: "song", store: songs, now: now},
	}
}

type PlaylistInput struct {
	Name        *string
	Description *string
	CoverURL    *string
	IsPublic    *bool
}

// visible 公开歌单任何人可见；私有歌单仅本人与管理员
func (s *PlaylistService) visible(ctx context.Context, p *auth.Principal, id string) (*domain.Playlist, error) {
	pl, err := s.life.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pl.IsPublic || p.Owns(pl.UserID) {
		return pl, nil
	}
	if p == nil {
		return nil, fmt.Errorf("playlist %s is private: %w", id, domain.ErrUnauthorized)
	}
	return nil, fmt.Errorf("playlist %s is private: %w", id, domain.ErrForbidden)
}

// owned 仅所有者（allowAdmin 时管理员也可）
func (s *PlaylistService) owned(pl *domain.Playlist, p *auth.Principal, allowAdmin bool) error {
	if p == nil {
		return domain.ErrUnauthorized
	}
	if pl.UserID == p.UserID || (allowAdmin && p.IsAdmin()) {
		return nil
	}
	return fmt.Errorf("playlist %s belongs to another user: %w", pl.ID, domain.ErrForbidden)
}

func (s *PlaylistService) page(ctx context.Context, q domain.PlaylistQuery) (domain.Page[domain.Playlist], error) {
	items, total, err := s.playlists.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Playlist]{}, err
	}
	return domain.NewPage(items, q.Pagination, total), nil
}

func (s *PlaylistService) ListMine(ctx context.Context, p *auth.Principal, pg domain.Pagination, search string) (domain.Page[domain.Playlist], error) {
	if p == nil {
		return domain.Page[domain.Playlist]{}, domain.ErrUnauthorized
	}
	return s.page(ctx, domain.PlaylistQuery{ListQuery: listQuery(pg, search, false), UserID: p.UserID})
}

func (s *PlaylistService) ListAll(ctx context.Context, pg domain.Pagination, search string) (domain.Page[domain.Playlist], error) {
	return s.page(ctx, domain.PlaylistQuery{ListQuery: listQuery(pg, search, true)})
}

func (s *PlaylistService) Get(ctx context.Context, p *auth.Principal, id string) (*domain.Playlist, error) {
	return s.visible(ctx, p, id)
}

func (s *PlaylistService) Songs(ctx context.Context, p *auth.Principal, id string, pg domain.Pagination) (domain.Page[domain.Song], error) {
	if _, err := s.visible(ctx, p, id); err != nil {
		return domain.Page[domain.Song]{}, err
	}
	pg = pg.Normalize()
	items, total, err := s.playlists.Songs(ctx, id, pg)
	if err != nil {
		return domain.Page[domain.Song]{}, err
	}
	return domain.NewPage(items, pg, total), nil
}

func (s *PlaylistService) Create(ctx context.Context, p *auth.Principal, in PlaylistInput) (*domain.Playlist, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	var name string
	if in.Name != nil {
		name = *in.Name
	}
	name, err := required("name", name)
	if err != nil {
		return nil, err
	}
	pl := &domain.Playlist{ID: utils.NewID(), UserID: p.UserID, Name: name, Lifecycle: domain.ActiveLifecycle()}
	set(&pl.Description, in.Description)
	set(&pl.CoverURL, in.CoverURL)
	set(&pl.IsPublic, in.IsPublic)
	if err := s.playlists.Create(ctx, pl); err != nil {
		return nil, err
	}
	return pl, nil
}

func (s *PlaylistService) Update(ctx context.Context, p *auth.Principal, id string, in PlaylistInput) (*domain.Playlist, error) {
	pl, err := s.life.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.owned(pl, p, false); err != nil {
		return nil, err
	}
	if in.Name != nil {
		if pl.Name, err = required("name", *in.Name); err != nil {
			return nil, err
		}
	}
	set(&pl.Description, in.Description)
	set(&pl.CoverURL, in.CoverURL)
	set(&pl.IsPublic, in.IsPublic)
	if err := s.playlists.Update(ctx, pl); err != nil {
		return nil, err
	}
	return pl, nil
}

func (s *PlaylistService) SoftDelete(ctx context.Context, p *auth.Principal, id string) error {
	pl, err := s.life.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.owned(pl, p, true); err != nil {
		return err
	}
	return s.life.softDelete(ctx, id)
}

func (s *PlaylistService) Restore(ctx context.Context, p *auth.Principal, id string) (*domain.Playlist, error) {
	pl, err := s.life.getAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.owned(pl, p, true); err != nil {
		return nil, err
	}
	return s.life.restore(ctx, id, nil)
}

func (s *PlaylistService) HardDelete(ctx context.Context, id string) error {
	return s.life.hardDelete(ctx, id)
}

// AddSong 已在歌单中时不变
func (s *PlaylistService) AddSong(ctx context.Context, p *auth.Principal, id, songID string) error {
	return s.tx.Tx(ctx, func(ctx context.Context) error {
		pl, err := s.life.get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.owned(pl, p, false); err != nil {
			return err
		}
		if _, err := s.song.get(ctx, songID); err != nil {
			return err
		}
		return s.playlists.AddSong(ctx, id, songID, s.now())
	})
}

func (s *PlaylistService) RemoveSong(ctx context.Context, p *auth.Principal, id, songID string) error {
	pl, err := s.life.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.owned(pl, p, false); err != nil {
		return err
	}
	return s.playlists.RemoveSong(ctx, id, songID)
}
