package repo

import (
	"context"

	"go-music-api/internal/domain"
)

type LyricsRepo struct{ entity[domain.Lyrics] }

func NewLyricsRepo(s *Store) *LyricsRepo { return &LyricsRepo{entity[domain.Lyrics]{s}} }

func (r *LyricsRepo) FindActive(ctx context.Context, songID string, lang domain.Language) (*domain.Lyrics, error) {
	return findOne[domain.Lyrics](r.s.conn(ctx), "song_id = ? AND language = ? AND status = ?", songID, lang, domain.StatusActive)
}

func (r *LyricsRepo) ForSong(ctx context.Context, songID string) ([]domain.Lyrics, error) {
	out := []domain.Lyrics{}
	err := r.s.conn(ctx).
		Where("song_id = ? AND status = ?", songID, domain.StatusActive).
		Order("language asc").
		Find(&out).Error
	return out, err
}

func (r *LyricsRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Lyrics, int64, error) {
	return r.list(ctx, q, "", "created_at desc", nil)
}

func (r *LyricsRepo) HardDelete(ctx context.Context, id string) (bool, error) {
	res := r.s.conn(ctx).Where("id = ?", id).Delete(&domain.Lyrics{})
	return res.RowsAffected > 0, res.Error
}
