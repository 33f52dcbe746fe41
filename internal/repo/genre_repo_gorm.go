package repo

import (
	"context"

	"gorm.io/gorm"

	"go-music-api/internal/domain"
)

type GenreRepo struct{ entity[domain.Genre] }

func NewGenreRepo(s *Store) *GenreRepo { return &GenreRepo{entity[domain.Genre]{s}} }

func (r *GenreRepo) FindActiveByTitle(ctx context.Context, title string) (*domain.Genre, error) {
	return findOne[domain.Genre](r.s.conn(ctx), "LOWER(title) = LOWER(?) AND status = ?", title, domain.StatusActive)
}

func (r *GenreRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Genre, int64, error) {
	return r.list(ctx, q, "title", "title asc", nil)
}

func (r *GenreRepo) ForArtist(ctx context.Context, artistID string) ([]domain.Genre, error) {
	out := []domain.Genre{}
	err := r.s.conn(ctx).
		Joins("JOIN artist_genres ag ON ag.genre_id = genres.id").
		Where("ag.artist_id = ? AND genres.status = ?", artistID, domain.StatusActive).
		Order("genres.title asc").
		Find(&out).Error
	return out, err
}

func (r *GenreRepo) HardDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.s.write(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("genre_id = ?", id).Delete(&domain.ArtistGenre{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Genre{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}
