package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-music-api/internal/domain"
)

type PlaylistRepo struct{ entity[domain.Playlist] }

func NewPlaylistRepo(s *Store) *PlaylistRepo { return &PlaylistRepo{entity[domain.Playlist]{s}} }

func (r *PlaylistRepo) List(ctx context.Context, q domain.PlaylistQuery) ([]domain.Playlist, int64, error) {
	var scope func(*gorm.DB) *gorm.DB
	if q.UserID != "" {
		scope = func(tx *gorm.DB) *gorm.DB { return tx.Where("user_id = ?", q.UserID) }
	}
	return r.list(ctx, q.ListQuery, "name", "created_at desc", scope)
}

// AddSong 新曲目追加在末尾
func (r *PlaylistRepo) AddSong(ctx context.Context, playlistID, songID string, at time.Time) error {
	return r.s.write(ctx, func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&domain.PlaylistSong{}).
			Select("COALESCE(MAX(position), 0) + 1").
			Where("playlist_id = ?", playlistID).
			Scan(&next).Error; err != nil {
			return err
		}
		return link(tx, &domain.PlaylistSong{PlaylistID: playlistID, SongID: songID, Position: next, AddedAt: at})
	})
}

func (r *PlaylistRepo) RemoveSong(ctx context.Context, playlistID, songID string) error {
	return r.s.conn(ctx).Where("playlist_id = ? AND song_id = ?", playlistID, songID).Delete(&domain.PlaylistSong{}).Error
}

func (r *PlaylistRepo) Songs(ctx context.Context, playlistID string, p domain.Pagination) ([]domain.Song, int64, error) {
	tx := r.s.conn(ctx).Model(&domain.Song{}).
		Joins("JOIN playlist_songs ps ON ps.song_id = songs.id").
		Where("ps.playlist_id = ? AND songs.status = ?", playlistID, domain.StatusActive)
	return paginate[domain.Song](tx, p, "ps.position asc")
}

func (r *PlaylistRepo) HardDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.s.write(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&domain.PlaylistSong{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Playlist{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}
