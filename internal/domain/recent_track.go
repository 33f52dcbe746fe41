package domain

import (
	"context"
	"time"
)

// RecentTrack 每个 (user, song) 一行：最近播放时间 + 累计次数
type RecentTrack struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:uk_recent_user_song" json:"userId"`
	SongID    string    `gorm:"size:36;not null;uniqueIndex:uk_recent_user_song;index" json:"songId"`
	PlayedAt  time.Time `gorm:"not null;index" json:"playedAt"`
	PlayCount int64     `gorm:"not null;default:1" json:"playCount"`
}

func (RecentTrack) TableName() string { return "recent_tracks" }

// RecentPlay 历史列表项（带歌曲）
type RecentPlay struct {
	Track RecentTrack
	Song  Song
}

type RecentTrackRepository interface {
	// Record 不存在则插入，存在则刷新 played_at 并累加 play_count
	Record(ctx context.Context, userID, songID string, at time.Time) (*RecentTrack, error)
	// ForUser 只返回有效歌曲，按最近播放倒序
	ForUser(ctx context.Context, userID string, p Pagination) ([]RecentPlay, int64, error)
	Remove(ctx context.Context, userID, songID string) (bool, error)
	Clear(ctx context.Context, userID string) (int64, error)
}
