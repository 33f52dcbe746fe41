package repo

import (
	"context"

	"gorm.io/gorm"

	"go-music-api/internal/domain"
)

type UserRepo struct{ entity[domain.User] }

func NewUserRepo(s *Store) *UserRepo { return &UserRepo{entity[domain.User]{s}} }

func (r *UserRepo) FindActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	return findOne[domain.User](r.s.conn(ctx), "LOWER(username) = LOWER(?) AND status = ?", username, domain.StatusActive)
}

func (r *UserRepo) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](r.s.conn(ctx), "LOWER(email) = LOWER(?) AND status = ?", email, domain.StatusActive)
}

func (r *UserRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.User, int64, error) {
	return r.list(ctx, q, "username", "created_at desc", nil)
}

// HardDelete 同时删除其歌单（含歌单曲目）与播放记录
func (r *UserRepo) HardDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.s.write(ctx, func(tx *gorm.DB) error {
		sub := tx.Model(&domain.Playlist{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("playlist_id IN (?)", sub).Delete(&domain.PlaylistSong{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Playlist{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.RecentTrack{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.User{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}
