package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"go-music-api/internal/core/cache"
	"go-music-api/internal/domain"
	"go-music-api/internal/integration/musixmatch"
	"go-music-api/internal/integration/spotify"
	"go-music-api/pkg/utils"
)

// SpotifyAPI 只读目录接口
type SpotifyAPI interface {
	Search(ctx context.Context, q string, types []string, limit int) (*spotify.SearchResult, error)
	GetArtist(ctx context.Context, id string) (*spotify.Artist, error)
	GetAlbum(ctx context.Context, id string) (*spotify.Album, error)
	GetTrack(ctx context.Context, id string) (*spotify.Track, error)
}

type SpotifyService struct {
	tx      domain.Transactor
	api     SpotifyAPI
	cache   *cache.Cache
	ttl     time.Duration
	artists domain.ArtistRepository
	genres  *GenreService
}

func NewSpotifyService(tx domain.Transactor, api SpotifyAPI, c *cache.Cache, ttl time.Duration,
	artists domain.ArtistRepository, genres *GenreService) *SpotifyService {
	return &SpotifyService{tx: tx, api: api, cache: c, ttl: ttl, artists: artists, genres: genres}
}

// mapIntegrationErr 不存在为 404，未配置为 503，其余保持 500
func mapIntegrationErr(err error) error {
	switch {
	case errors.Is(err, spotify.ErrNotFound), errors.Is(err, musixmatch.ErrNotFound):
		return fmt.Errorf("%v: %w", err, domain.ErrNotFound)
	case errors.Is(err, spotify.ErrNotConfigured), errors.Is(err, musixmatch.ErrNotConfigured):
		return fmt.Errorf("%v: %w", err, domain.ErrUnavailable)
	}
	return err
}

func cached[T any](s *SpotifyService, ctx context.Context, key string, load func(context.Context) (*T, error)) (*T, error) {
	v, err := cache.GetOrLoadJSON(s.cache, ctx, "spotify:"+key, s.ttl, load)
	if err != nil {
		return nil, mapIntegrationErr(err)
	}
	if v == nil {
		return nil, fmt.Errorf("spotify %s: %w", key, domain.ErrNotFound)
	}
	return v, nil
}

func (s *SpotifyService) Search(ctx context.Context, q, typ string, limit int) (*spotify.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("q is required: %w", domain.ErrInvalid)
	}
	if limit < 1 || limit > 50 {
		return nil, fmt.Errorf("limit must be between 1 and 50: %w", domain.ErrInvalid)
	}
	var types []string
	for _, t := range strings.Split(typ, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t == "" {
			continue
		}
		if t != "artist" && t != "album" && t != "track" {
			return nil, fmt.Errorf("unknown search type %q: %w", t, domain.ErrInvalid)
		}
		types = append(types, t)
	}
	types = lo.Uniq(types)
	key := "search:" + strings.ToLower(q) + "|" + strings.Join(types, ",") + "|" + strconv.Itoa(limit)
	return cached(s, ctx, key, func(ctx context.Context) (*spotify.SearchResult, error) {
		return s.api.Search(ctx, q, types, limit)
	})
}

func (s *SpotifyService) Artist(ctx context.Context, id string) (*spotify.Artist, error) {
	return cached(s, ctx, "artist:"+id, func(ctx context.Context) (*spotify.Artist, error) {
		return s.api.GetArtist(ctx, id)
	})
}

func (s *SpotifyService) Album(ctx context.Context, id string) (*spotify.Album, error) {
	return cached(s, ctx, "album:"+id, func(ctx context.Context) (*spotify.Album, error) {
		return s.api.GetAlbum(ctx, id)
	})
}

func (s *SpotifyService) Track(ctx context.Context, id string) (*spotify.Track, error) {
	return cached(s, ctx, "track:"+id, func(ctx context.Context) (*spotify.Track, error) {
		return s.api.GetTrack(ctx, id)
	})
}

type ImportedArtist struct {
	Artist domain.Artist
	Genres []domain.Genre
}

// ImportArtist 建立本地歌手并关联流派（缺失则创建）；同一 spotifyId 只能导入一次
func (s *SpotifyService) ImportArtist(ctx context.Context, spotifyID string) (*ImportedArtist, error) {
	existing, err := s.artists.FindActiveBySpotifyID(ctx, spotifyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("spotify artist %s already imported as %s: %w", spotifyID, existing.ID, domain.ErrConflict)
	}
	sa, err := s.Artist(ctx, spotifyID)
	if err != nil {
		return nil, err
	}

	out := &ImportedArtist{Artist: domain.Artist{
		ID:        utils.NewID(),
		Name:      sa.Name,
		Photo:     spotify.BestImage(sa.Images),
		SpotifyID: sa.ID,
		Lifecycle: domain.ActiveLifecycle(),
	}}
	titles := lo.Uniq(lo.Map(sa.Genres, func(g string, _ int) string { return strings.TrimSpace(g) }))
	err = s.tx.Tx(ctx, func(ctx context.Context) error {
		if err := s.artists.Create(ctx, &out.Artist); err != nil {
			return err
		}
		for _, title := range titles {
			if title == "" {
				continue
			}
			g, err := s.genres.FindOrCreate(ctx, title)
			if err != nil {
				return err
			}
			if err := s.artists.AddGenre(ctx, out.Artist.ID, g.ID); err != nil {
				return err
			}
			out.Genres = append(out.Genres, *g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
