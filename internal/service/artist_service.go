package service

import (
	"context"
	"fmt"
	"strings"

	"go-music-api/internal/domain"
	"go-music-api/pkg/utils"
)

type ArtistService struct {
	tx      domain.Transactor
	artists domain.ArtistRepository
	genres  domain.GenreRepository
	albums  domain.AlbumRepository
	songs   domain.SongRepository
	life    lifecycle[domain.Artist, *domain.Artist]
	genre   lifecycle[domain.Genre, *domain.Genre]
}

func NewArtistService(tx domain.Transactor, artists domain.ArtistRepository, genres domain.GenreRepository,
	albums domain.AlbumRepository, songs domain.SongRepository, now Clock) *ArtistService {
	return &ArtistService{
		tx: tx, artists: artists, genres: genres, albums: albums, songs: songs,
		life:  lifecycle[domain.Artist, *domain.Artist]{what: "artist", store: artists, now: now},
		genre: lifecycle[domain.Genre, *domain.Genre]{what: "genre", store: genres, now: now},
	}
}

type ArtistInput struct {
	Name      *string
	Bio       *string
	Photo     *string
	SpotifyID *string
}

// checkSpotifyID 有效歌手中 spotifyId 唯一，空值不参与
func (s *ArtistService) checkSpotifyID(ctx context.Context, spotifyID, selfID string) error {
	if spotifyID == "" {
		return nil
	}
	a, err := s.artists.FindActiveBySpotifyID(ctx, spotifyID)
	if err != nil {
		return err
	}
	if a != nil && a.ID != selfID {
		return fmt.Errorf("spotify id %s already used by artist %s: %w", spotifyID, a.ID, domain.ErrConflict)
	}
	return nil
}

func (s *ArtistService) List(ctx context.Context, p domain.Pagination, search string, includeDeleted bool) (domain.Page[domain.Artist], error) {
	q := listQuery(p, search, includeDeleted)
	items, total, err := s.artists.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Artist]{}, err
	}
	return domain.NewPage(items, q.Pagination, total), nil
}

func (s *ArtistService) Get(ctx context.Context, id string) (*domain.Artist, error) {
	return s.life.get(ctx, id)
}

func (s *ArtistService) Genres(ctx context.Context, id string) ([]domain.Genre, error) {
	if _, err := s.life.get(ctx, id); err != nil {
		return nil, err
	}
	return s.genres.ForArtist(ctx, id)
}

func (s *ArtistService) Albums(ctx context.Context, id string, p domain.Pagination) (domain.Page[domain.Album], error) {
	if _, err := s.life.get(ctx, id); err != nil {
		return domain.Page[domain.Album]{}, err
	}
	p = p.Normalize()
	items, total, err := s.albums.ForArtist(ctx, id, p)
	if err != nil {
		return domain.Page[domain.Album]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s *ArtistService) Songs(ctx context.Context, id string, p domain.Pagination) (domain.Page[domain.Song], error) {
	if _, err := s.life.get(ctx, id); err != nil {
		return domain.Page[domain.Song]{}, err
	}
	p = p.Normalize()
	items, total, err := s.songs.ForArtist(ctx, id, p)
	if err != nil {
		return domain.Page[domain.Song]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s *ArtistService) Create(ctx context.Context, in ArtistInput) (*domain.Artist, error) {
	var name string
	if in.Name != nil {
		name = *in.Name
	}
	name, err := required("name", name)
	if err != nil {
		return nil, err
	}
	a := &domain.Artist{ID: utils.NewID(), Name: name, Lifecycle: domain.ActiveLifecycle()}
	set(&a.Bio, in.Bio)
	set(&a.Photo, in.Photo)
	set(&a.SpotifyID, in.SpotifyID)
	a.SpotifyID = strings.TrimSpace(a.SpotifyID)
	err = s.tx.Tx(ctx, func(ctx context.Context) error {
		if err := s.checkSpotifyID(ctx, a.SpotifyID, ""); err != nil {
			return err
		}
		return s.artists.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ArtistService) Update(ctx context.Context, id string, in ArtistInput) (*domain.Artist, error) {
	var out *domain.Artist
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		a, err := s.life.get(ctx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			if a.Name, err = required("name", *in.Name); err != nil {
				return err
			}
		}
		set(&a.Bio, in.Bio)
		set(&a.Photo, in.Photo)
		if in.SpotifyID != nil {
			a.SpotifyID = strings.TrimSpace(*in.SpotifyID)
			if err := s.checkSpotifyID(ctx, a.SpotifyID, a.ID); err != nil {
				return err
			}
		}
		if err := s.artists.Update(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

func (s *ArtistService) SoftDelete(ctx context.Context, id string) error {
	return s.life.softDelete(ctx, id)
}

func (s *ArtistService) Restore(ctx context.Context, id string) (*domain.Artist, error) {
	var out *domain.Artist
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		a, err := s.life.restore(ctx, id, func(a *domain.Artist) error {
			return s.checkSpotifyID(ctx, a.SpotifyID, a.ID)
		})
		out = a
		return err
	})
	return out, err
}

func (s *ArtistService) HardDelete(ctx context.Context, id string) error {
	return s.life.hardDelete(ctx, id)
}

// AddGenre 重复添加无副作用
func (s *ArtistService) AddGenre(ctx context.Context, artistID, genreID string) ([]domain.Genre, error) {
	var out []domain.Genre
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		if _, err := s.life.get(ctx, artistID); err != nil {
			return err
		}
		if _, err := s.genre.get(ctx, genreID); err != nil {
			return err
		}
		if err := s.artists.AddGenre(ctx, artistID, genreID); err != nil {
			return err
		}
		var err error
		out, err = s.genres.ForArtist(ctx, artistID)
		return err
	})
	return out, err
}

func (s *ArtistService) RemoveGenre(ctx context.Context, artistID, genreID string) ([]domain.Genre, error) {
	var out []domain.Genre
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		if _, err := s.life.get(ctx, artistID); err != nil {
			return err
		}
		if err := s.artists.RemoveGenre(ctx, artistID, genreID); err != nil {
			return err
		}
		var err error
		out, err = s.genres.ForArtist(ctx, artistID)
		return err
	})
	return out, err
}
