package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"go-music-api/internal/domain"
)

type SearchService struct {
	songs   *SongService
	artists domain.ArtistRepository
	albums  *AlbumService
}

func NewSearchService(songs *SongService, artists domain.ArtistRepository, albums *AlbumService) *SearchService {
	return &SearchService{songs: songs, artists: artists, albums: albums}
}

type SearchResult struct {
	Songs   []SongWithArtists
	Artists []domain.Artist
	Albums  []AlbumWithArtists
}

// Search 三类并发查询，只含有效记录
func (s *SearchService) Search(ctx context.Context, q string, limit int) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("q is required: %w", domain.ErrInvalid)
	}
	pg := domain.Pagination{Page: 1, Limit: limit}.Normalize()
	var out SearchResult
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.songs.List(ctx, pg, q, false)
		out.Songs = p.Data
		return err
	})
	g.Go(func() error {
		items, _, err := s.artists.List(ctx, listQuery(pg, q, false))
		out.Artists = items
		return err
	})
	g.Go(func() error {
		p, err := s.albums.List(ctx, pg, q, false)
		out.Albums = p.Data
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
