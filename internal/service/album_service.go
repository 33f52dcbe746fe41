package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"go-music-api/internal/domain"
	"go-music-api/pkg/utils"
)

type AlbumService struct {
	tx      domain.Transactor
	albums  domain.AlbumRepository
	artists domain.ArtistRepository
	songs   domain.SongRepository
	life    lifecycle[domain.Album, *domain.Album]
}

func NewAlbumService(tx domain.Transactor, albums domain.AlbumRepository, artists domain.ArtistRepository,
	songs domain.SongRepository, now Clock) *AlbumService {
	return &AlbumService{
		tx: tx, albums: albums, artists: artists, songs: songs,
		life: lifecycle[domain.Album, *domain.Album]{what: "album", store: albums, now: now},
	}
}

type AlbumInput struct {
	Title       *string
	ReleaseDate *time.Time
	CoverURL    *string
	SpotifyID   *string
	ArtistIDs   []string // 仅创建时使用
}

type AlbumWithArtists struct {
	domain.Album
	Artists []domain.Artist
}

type AlbumDetail struct {
	AlbumWithArtists
	Songs []domain.Song
}

func (s *AlbumService) withArtists(ctx context.Context, albums []domain.Album) ([]AlbumWithArtists, error) {
	byAlbum, err := s.artists.ForAlbums(ctx, lo.Map(albums, func(a domain.Album, _ int) string { return a.ID }))
	if err != nil {
		return nil, err
	}
	return lo.Map(albums, func(a domain.Album, _ int) AlbumWithArtists {
		return AlbumWithArtists{Album: a, Artists: byAlbum[a.ID]}
	}), nil
}

func (s *AlbumService) List(ctx context.Context, p domain.Pagination, search string, includeDeleted bool) (domain.Page[AlbumWithArtists], error) {
	q := listQuery(p, search, includeDeleted)
	items, total, err := s.albums.List(ctx, q)
	if err != nil {
		return domain.Page[AlbumWithArtists]{}, err
	}
	views, err := s.withArtists(ctx, items)
	if err != nil {
		return domain.Page[AlbumWithArtists]{}, err
	}
	return domain.NewPage(views, q.Pagination, total), nil
}

func (s *AlbumService) Get(ctx context.Context, id string) (*AlbumDetail, error) {
	a, err := s.life.get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.withArtists(ctx, []domain.Album{*a})
	if err != nil {
		return nil, err
	}
	songs, err := s.songs.ForAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AlbumDetail{AlbumWithArtists: views[0], Songs: songs}, nil
}

func (s *AlbumService) Songs(ctx context.Context, id string) ([]domain.Song, error) {
	if _, err := s.life.get(ctx, id); err != nil {
		return nil, err
	}
	return s.songs.ForAlbum(ctx, id)
}

// activeArtists 所有 ID 都必须对应有效歌手
func activeArtists(ctx context.Context, repo domain.ArtistRepository, ids []string) ([]string, error) {
	ids = lo.Uniq(ids)
	found, err := repo.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		have := lo.Map(found, func(a domain.Artist, _ int) string { return a.ID })
		missing := lo.Filter(ids, func(id string, _ int) bool { return !lo.Contains(have, id) })
		return nil, fmt.Errorf("artists %v: %w", missing, domain.ErrNotFound)
	}
	return ids, nil
}

func (s *AlbumService) Create(ctx context.Context, in AlbumInput) (*AlbumDetail, error) {
	var title string
	if in.Title != nil {
		title = *in.Title
	}
	title, err := required("title", title)
	if err != nil {
		return nil, err
	}
	a := &domain.Album{ID: utils.NewID(), Title: title, ReleaseDate: in.ReleaseDate, Lifecycle: domain.ActiveLifecycle()}
	set(&a.CoverURL, in.CoverURL)
	set(&a.SpotifyID, in.SpotifyID)
	err = s.tx.Tx(ctx, func(ctx context.Context) error {
		ids, err := activeArtists(ctx, s.artists, in.ArtistIDs)
		if err != nil {
			return err
		}
		if err := s.albums.Create(ctx, a); err != nil {
			return err
		}
		for _, id := range ids {
			if err := s.albums.AddArtist(ctx, a.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, a.ID)
}

func (s *AlbumService) Update(ctx context.Context, id string, in AlbumInput) (*AlbumDetail, error) {
	a, err := s.life.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if a.Title, err = required("title", *in.Title); err != nil {
			return nil, err
		}
	}
	if in.ReleaseDate != nil {
		a.ReleaseDate = in.ReleaseDate
	}
	set(&a.CoverURL, in.CoverURL)
	set(&a.SpotifyID, in.SpotifyID)
	if err := s.albums.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *AlbumService) SoftDelete(ctx context.Context, id string) error {
	return s.life.softDelete(ctx, id)
}

func (s *AlbumService) Restore(ctx context.Context, id string) (*domain.Album, error) {
	return s.life.restore(ctx, id, nil)
}

func (s *AlbumService) HardDelete(ctx context.Context, id string) error {
	return s.life.hardDelete(ctx, id)
}

func (s *AlbumService) AddArtist(ctx context.Context, albumID, artistID string) (*AlbumDetail, error) {
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		if _, err := s.life.get(ctx, albumID); err != nil {
			return err
		}
		if _, err := activeArtists(ctx, s.artists, []string{artistID}); err != nil {
			return err
		}
		return s.albums.AddArtist(ctx, albumID, artistID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, albumID)
}

func (s *AlbumService) RemoveArtist(ctx context.Context, albumID, artistID string) (*AlbumDetail, error) {
	if _, err := s.life.get(ctx, albumID); err != nil {
		return nil, err
	}
	if err := s.albums.RemoveArtist(ctx, albumID, artistID); err != nil {
		return nil, err
	}
	return s.Get(ctx, albumID)
}
