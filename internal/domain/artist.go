package domain

import (
	"context"
	"time"
)

type Artist struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Name      string `gorm:"size:191;not null;index" json:"name"`
	Bio       string `gorm:"type:text" json:"bio"`
	Photo     string `gorm:"size:512" json:"photo"`
	SpotifyID string `gorm:"size:64;index" json:"spotifyId"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Artist) TableName() string { return "artists" }

// ArtistGenre 关联表：只从 artist 一侧维护
type ArtistGenre struct {
	ArtistID string `gorm:"primaryKey;size:36"`
	GenreID  string `gorm:"primaryKey;size:36;index"`
}

func (ArtistGenre) TableName() string { return "artist_genres" }

type ArtistRepository interface {
	Create(ctx context.Context, a *Artist) error
	FindByID(ctx context.Context, id string) (*Artist, error)
	FindActiveByIDs(ctx context.Context, ids []string) ([]Artist, error)
	FindActiveBySpotifyID(ctx context.Context, spotifyID string) (*Artist, error)
	List(ctx context.Context, q ListQuery) ([]Artist, int64, error)
	Update(ctx context.Context, a *Artist) error
	HardDelete(ctx context.Context, id string) (bool, error)

	AddGenre(ctx context.Context, artistID, genreID string) error
	RemoveGenre(ctx context.Context, artistID, genreID string) error
	ForGenre(ctx context.Context, genreID string, p Pagination) ([]Artist, int64, error)
	ForAlbums(ctx context.Context, albumIDs []string) (map[string][]Artist, error)
	ForSongs(ctx context.Context, songIDs []string) (map[string][]Artist, error)
}
