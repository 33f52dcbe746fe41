package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"go-music-api/internal/domain"
	"go-music-api/pkg/utils"
)

type SongService struct {
	tx      domain.Transactor
	songs   domain.SongRepository
	artists domain.ArtistRepository
	lyrics  domain.LyricsRepository
	life    lifecycle[domain.Song, *domain.Song]
	album   lifecycle[domain.Album, *domain.Album]
}

func NewSongService(tx domain.Transactor, songs domain.SongRepository, artists domain.ArtistRepository,
	albums domain.AlbumRepository, lyrics domain.LyricsRepository, now Clock) *SongService {
	return &SongService{
		tx: tx, songs: songs, artists: artists, lyrics: lyrics,
		life:  lifecycle[domain.Song, *domain.Song]{what: "song", store: songs, now: now},
		album: lifecycle[domain.Album, *domain.Album]{what: "album", store: albums, now: now},
	}
}

type SongInput struct {
	Title       *string
	AlbumID     *string // 指向空串表示解除专辑
	DurationSec *int
	TrackNumber *int
	FileURL     *string
	CoverURL    *string
	ArtistIDs   []string // 仅创建时使用
}

type SongWithArtists struct {
	domain.Song
	Artists []domain.Artist
}

type SongPlays struct {
	SongWithArtists
	Plays int64
}

func (s *SongService) withArtists(ctx context.Context, songs []domain.Song) ([]SongWithArtists, error) {
	bySong, err := s.artists.ForSongs(ctx, lo.Map(songs, func(x domain.Song, _ int) string { return x.ID }))
	if err != nil {
		return nil, err
	}
	return lo.Map(songs, func(x domain.Song, _ int) SongWithArtists {
		return SongWithArtists{Song: x, Artists: bySong[x.ID]}
	}), nil
}

func (s *SongService) List(ctx context.Context, p domain.Pagination, search string, includeDeleted bool) (domain.Page[SongWithArtists], error) {
	q := listQuery(p, search, includeDeleted)
	items, total, err := s.songs.List(ctx, q)
	if err != nil {
		return domain.Page[SongWithArtists]{}, err
	}
	views, err := s.withArtists(ctx, items)
	if err != nil {
		return domain.Page[SongWithArtists]{}, err
	}
	return domain.NewPage(views, q.Pagination, total), nil
}

func (s *SongService) Get(ctx context.Context, id string) (*SongWithArtists, error) {
	so, err := s.life.get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.withArtists(ctx, []domain.Song{*so})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *SongService) Lyrics(ctx context.Context, id string) ([]domain.Lyrics, error) {
	if _, err := s.life.get(ctx, id); err != nil {
		return nil, err
	}
	return s.lyrics.ForSong(ctx, id)
}

func (s *SongService) MostPlayed(ctx context.Context, limit int) ([]SongPlays, error) {
	if limit < 1 || limit > domain.MaxLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d: %w", domain.MaxLimit, domain.ErrInvalid)
	}
	top, err := s.songs.MostPlayed(ctx, limit)
	if err != nil {
		return nil, err
	}
	views, err := s.withArtists(ctx, lo.Map(top, func(x domain.SongPlays, _ int) domain.Song { return x.Song }))
	if err != nil {
		return nil, err
	}
	return lo.Map(views, func(v SongWithArtists, i int) SongPlays {
		return SongPlays{SongWithArtists: v, Plays: top[i].Plays}
	}), nil
}

// applyAlbum 空串解除所属专辑
func (s *SongService) applyAlbum(ctx context.Context, so *domain.Song, albumID *string) error {
	if albumID == nil {
		return nil
	}
	if *albumID == "" {
		so.AlbumID = nil
		return nil
	}
	if _, err := s.album.get(ctx, *albumID); err != nil {
		return err
	}
	id := *albumID
	so.AlbumID = &id
	return nil
}

func (s *SongService) Create(ctx context.Context, in SongInput) (*SongWithArtists, error) {
	var title, file string
	if in.Title != nil {
		title = *in.Title
	}
	if in.FileURL != nil {
		file = *in.FileURL
	}
	title, err := required("title", title)
	if err != nil {
		return nil, err
	}
	if file, err = required("fileUrl", file); err != nil {
		return nil, err
	}
	so := &domain.Song{ID: utils.NewID(), Title: title, FileURL: file, Lifecycle: domain.ActiveLifecycle()}
	set(&so.DurationSec, in.DurationSec)
	set(&so.TrackNumber, in.TrackNumber)
	set(&so.CoverURL, in.CoverURL)
	err = s.tx.Tx(ctx, func(ctx context.Context) error {
		if err := s.applyAlbum(ctx, so, in.AlbumID); err != nil {
			return err
		}
		ids, err := activeArtists(ctx, s.artists, in.ArtistIDs)
		if err != nil {
			return err
		}
		if err := s.songs.Create(ctx, so); err != nil {
			return err
		}
		for _, id := range ids {
			if err := s.songs.AddArtist(ctx, so.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, so.ID)
}

func (s *SongService) Update(ctx context.Context, id string, in SongInput) (*SongWithArtists, error) {
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		so, err := s.life.get(ctx, id)
		if err != nil {
			return err
		}
		if in.Title != nil {
			if so.Title, err = required("title", *in.Title); err != nil {
				return err
			}
		}
		if in.FileURL != nil {
			if so.FileURL, err = required("fileUrl", *in.FileURL); err != nil {
				return err
			}
		}
		if err := s.applyAlbum(ctx, so, in.AlbumID); err != nil {
			return err
		}
		set(&so.DurationSec, in.DurationSec)
		set(&so.TrackNumber, in.TrackNumber)
		set(&so.CoverURL, in.CoverURL)
		return s.songs.Update(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SongService) SoftDelete(ctx context.Context, id string) error {
	return s.life.softDelete(ctx, id)
}

func (s *SongService) Restore(ctx context.Context, id string) (*domain.Song, error) {
	return s.life.restore(ctx, id, nil)
}

func (s *SongService) HardDelete(ctx context.Context, id string) error {
	return s.life.hardDelete(ctx, id)
}

// AddArtist 重复添加无副作用
func (s *SongService) AddArtist(ctx context.Context, songID, artistID string) (*SongWithArtists, error) {
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		if _, err := s.life.get(ctx, songID); err != nil {
			return err
		}
		if _, err := activeArtists(ctx, s.artists, []string{artistID}); err != nil {
			return err
		}
		return s.songs.AddArtist(ctx, songID, artistID)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, songID)
}

func (s *SongService) RemoveArtist(ctx context.Context, songID, artistID string) (*SongWithArtists, error) {
	if _, err := s.life.get(ctx, songID); err != nil {
		return nil, err
	}
	if err := s.songs.RemoveArtist(ctx, songID, artistID); err != nil {
		return nil, err
	}
	return s.Get(ctx, songID)
}
