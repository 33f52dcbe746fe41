package domain

import (
	"context"
	"time"
)

type Album struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:191;not null;index" json:"title"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	CoverURL    string     `gorm:"size:512" json:"coverUrl"`
	SpotifyID   string     `gorm:"size:64;index" json:"spotifyId"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Album) TableName() string { return "albums" }

type AlbumArtist struct {
	AlbumID  string `gorm:"primaryKey;size:36"`
	ArtistID string `gorm:"primaryKey;size:36;index"`
}

func (AlbumArtist) TableName() string { return "album_artists" }

type AlbumRepository interface {
	Create(ctx context.Context, a *Album) error
	FindByID(ctx context.Context, id string) (*Album, error)
	FindActiveByIDs(ctx context.Context, ids []string) ([]Album, error)
	List(ctx context.Context, q ListQuery) ([]Album, int64, error)
	Update(ctx context.Context, a *Album) error
	HardDelete(ctx context.Context, id string) (bool, error)

	AddArtist(ctx context.Context, albumID, artistID string) error
	RemoveArtist(ctx context.Context, albumID, artistID string) error
	ForArtist(ctx context.Context, artistID string, p Pagination) ([]Album, int64, error)
}
