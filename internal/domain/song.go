package domain

import (
	"context"
	"time"
)

type Song struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Title       string  `gorm:"size:191;not null;index" json:"title"`
	AlbumID     *string `gorm:"size:36;index" json:"albumId,omitempty"`
	DurationSec int     `gorm:"not null;default:0" json:"durationSec"`
	TrackNumber int     `gorm:"not null;default:0" json:"trackNumber"`
	FileURL     string  `gorm:"size:1024;not null" json:"fileUrl"`
	CoverURL    string  `gorm:"size:512" json:"coverUrl"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Song) TableName() string { return "songs" }

type SongArtist struct {
	SongID   string `gorm:"primaryKey;size:36"`
	ArtistID string `gorm:"primaryKey;size:36;index"`
}

func (SongArtist) TableName() string { return "song_artists" }

// SongPlays 播放次数聚合结果
type SongPlays struct {
	Song  Song
	Plays int64
}

type SongRepository interface {
	Create(ctx context.Context, s *Song) error
	FindByID(ctx context.Context, id string) (*Song, error)
	List(ctx context.Context, q ListQuery) ([]Song, int64, error)
	Update(ctx context.Context, s *Song) error
	HardDelete(ctx context.Context, id string) (bool, error)

	AddArtist(ctx context.Context, songID, artistID string) error
	RemoveArtist(ctx context.Context, songID, artistID string) error
	ForArtist(ctx context.Context, artistID string, p Pagination) ([]Song, int64, error)
	ForAlbum(ctx context.Context, albumID string) ([]Song, error)
	MostPlayed(ctx context.Context, limit int) ([]SongPlays, error)
}
