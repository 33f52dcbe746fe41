package domain

import (
	"context"
	"time"
)

type Playlist struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	UserID      string `gorm:"size:36;not null;index" json:"userId"`
	Name        string `gorm:"size:191;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	CoverURL    string `gorm:"size:512" json:"coverUrl"`
	IsPublic    bool   `gorm:"not null;default:false" json:"isPublic"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Playlist) TableName() string { return "playlists" }

type PlaylistSong struct {
	PlaylistID string    `gorm:"primaryKey;size:36"`
	SongID     string    `gorm:"primaryKey;size:36;index"`
	Position   int       `gorm:"not null;default:0"`
	AddedAt    time.Time `gorm:"not null"`
}

func (PlaylistSong) TableName() string { return "playlist_songs" }

// PlaylistQuery 按所有者过滤；UserID 为空表示不限
type PlaylistQuery struct {
	ListQuery
	UserID string
}

type PlaylistRepository interface {
	Create(ctx context.Context, p *Playlist) error
	FindByID(ctx context.Context, id string) (*Playlist, error)
	List(ctx context.Context, q PlaylistQuery) ([]Playlist, int64, error)
	Update(ctx context.Context, p *Playlist) error
	HardDelete(ctx context.Context, id string) (bool, error)

	// AddSong 已存在时不做任何事
	AddSong(ctx context.Context, playlistID, songID string, at time.Time) error
	RemoveSong(ctx context.Context, playlistID, songID string) error
	Songs(ctx context.Context, playlistID string, p Pagination) ([]Song, int64, error)
}
