package service

import (
	"context"
	"fmt"

	"go-music-api/internal/domain"
	"go-music-api/pkg/utils"
)

type GenreService struct {
	tx      domain.Transactor
	genres  domain.GenreRepository
	artists domain.ArtistRepository
	life    lifecycle[domain.Genre, *domain.Genre]
}

func NewGenreService(tx domain.Transactor, genres domain.GenreRepository, artists domain.ArtistRepository, now Clock) *GenreService {
	return &GenreService{
		tx: tx, genres: genres, artists: artists,
		life: lifecycle[domain.Genre, *domain.Genre]{what: "genre", store: genres, now: now},
	}
}

type GenreInput struct {
	Title       *string
	Description *string
}

// checkTitle 有效流派中标题唯一（忽略大小写）
func (s *GenreService) checkTitle(ctx context.Context, title, selfID string) error {
	g, err := s.genres.FindActiveByTitle(ctx, title)
	if err != nil {
		return err
	}
	if g != nil && g.ID != selfID {
		return fmt.Errorf("genre %q already exists: %w", title, domain.ErrConflict)
	}
	return nil
}

func (s *GenreService) List(ctx context.Context, p domain.Pagination, search string, includeDeleted bool) (domain.Page[domain.Genre], error) {
	q := listQuery(p, search, includeDeleted)
	items, total, err := s.genres.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Genre]{}, err
	}
	return domain.NewPage(items, q.Pagination, total), nil
}

func (s *GenreService) Get(ctx context.Context, id string) (*domain.Genre, error) {
	return s.life.get(ctx, id)
}

func (s *GenreService) Artists(ctx context.Context, id string, p domain.Pagination) (domain.Page[domain.Artist], error) {
	if _, err := s.life.get(ctx, id); err != nil {
		return domain.Page[domain.Artist]{}, err
	}
	p = p.Normalize()
	items, total, err := s.artists.ForGenre(ctx, id, p)
	if err != nil {
		return domain.Page[domain.Artist]{}, err
	}
	return domain.NewPage(items, p, total), nil
}

func (s *GenreService) Create(ctx context.Context, in GenreInput) (*domain.Genre, error) {
	var title string
	if in.Title != nil {
		title = *in.Title
	}
	title, err := required("title", title)
	if err != nil {
		return nil, err
	}
	g := &domain.Genre{ID: utils.NewID(), Title: title, Lifecycle: domain.ActiveLifecycle()}
	set(&g.Description, in.Description)
	err = s.tx.Tx(ctx, func(ctx context.Context) error {
		if err := s.checkTitle(ctx, title, ""); err != nil {
			return err
		}
		return s.genres.Create(ctx, g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// FindOrCreate 导入时按标题复用已有流派
func (s *GenreService) FindOrCreate(ctx context.Context, title string) (*domain.Genre, error) {
	g, err := s.genres.FindActiveByTitle(ctx, title)
	if err != nil || g != nil {
		return g, err
	}
	return s.Create(ctx, GenreInput{Title: &title})
}

func (s *GenreService) Update(ctx context.Context, id string, in GenreInput) (*domain.Genre, error) {
	var out *domain.Genre
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		g, err := s.life.get(ctx, id)
		if err != nil {
			return err
		}
		if in.Title != nil {
			title, err := required("title", *in.Title)
			if err != nil {
				return err
			}
			if err := s.checkTitle(ctx, title, g.ID); err != nil {
				return err
			}
			g.Title = title
		}
		set(&g.Description, in.Description)
		out = g
		return s.genres.Update(ctx, g)
	})
	return out, err
}

func (s *GenreService) SoftDelete(ctx context.Context, id string) error {
	return s.life.softDelete(ctx, id)
}

func (s *GenreService) Restore(ctx context.Context, id string) (*domain.Genre, error) {
	var out *domain.Genre
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		g, err := s.life.restore(ctx, id, func(g *domain.Genre) error {
			return s.checkTitle(ctx, g.Title, g.ID)
		})
		out = g
		return err
	})
	return out, err
}

func (s *GenreService) HardDelete(ctx context.Context, id string) error {
	return s.life.hardDelete(ctx, id)
}
