package domain

import (
	"context"
	"time"
)

type Genre struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Title       string `gorm:"size:128;not null;index" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Genre) TableName() string { return "genres" }

type GenreRepository interface {
	Create(ctx context.Context, g *Genre) error
	FindByID(ctx context.Context, id string) (*Genre, error)
	FindActiveByTitle(ctx context.Context, title string) (*Genre, error)
	List(ctx context.Context, q ListQuery) ([]Genre, int64, error)
	Update(ctx context.Context, g *Genre) error
	HardDelete(ctx context.Context, id string) (bool, error)
	// ForArtist 某歌手的有效流派
	ForArtist(ctx context.Context, artistID string) ([]Genre, error)
}
