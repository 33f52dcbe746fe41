package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-music-api/internal/domain"
	"go-music-api/pkg/utils"
)

type RecentTrackRepo struct{ s *Store }

func NewRecentTrackRepo(s *Store) *RecentTrackRepo { return &RecentTrackRepo{s: s} }

func (r *RecentTrackRepo) Record(ctx context.Context, userID, songID string, at time.Time) (*domain.RecentTrack, error) {
	var out *domain.RecentTrack
	err := r.s.write(ctx, func(tx *gorm.DB) error {
		row := domain.RecentTrack{ID: utils.NewID(), UserID: userID, SongID: songID, PlayedAt: at, PlayCount: 1}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "song_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"played_at":  at,
				"play_count": gorm.Expr("recent_tracks.play_count + 1"),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		out, err = findOne[domain.RecentTrack](tx, "user_id = ? AND song_id = ?", userID, songID)
		return err
	})
	return out, err
}

type recentRow struct {
	domain.Song
	TrackID   string
	PlayedAt  time.Time
	PlayCount int64
}

func (r *RecentTrackRepo) ForUser(ctx context.Context, userID string, p domain.Pagination) ([]domain.RecentPlay, int64, error) {
	base := r.s.conn(ctx).Table("recent_tracks rt").
		Joins("JOIN songs ON songs.id = rt.song_id").
		Where("rt.user_id = ? AND songs.status = ?", userID, domain.StatusActive).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []recentRow
	err := base.
		Select("songs.*, rt.id AS track_id, rt.played_at AS played_at, rt.play_count AS play_count").
		Order("rt.played_at desc").
		Offset(p.Offset()).Limit(p.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.RecentPlay, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RecentPlay{
			Track: domain.RecentTrack{ID: row.TrackID, UserID: userID, SongID: row.Song.ID, PlayedAt: row.PlayedAt, PlayCount: row.PlayCount},
			Song:  row.Song,
		})
	}
	return out, total, nil
}

func (r *RecentTrackRepo) Remove(ctx context.Context, userID, songID string) (bool, error) {
	res := r.s.conn(ctx).Where("user_id = ? AND song_id = ?", userID, songID).Delete(&domain.RecentTrack{})
	return res.RowsAffected > 0, res.Error
}

func (r *RecentTrackRepo) Clear(ctx context.Context, userID string) (int64, error) {
	res := r.s.conn(ctx).Where("user_id = ?", userID).Delete(&domain.RecentTrack{})
	return res.RowsAffected, res.Error
}
