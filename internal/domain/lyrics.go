package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Language string

const (
	LangEN Language = "EN"
	LangES Language = "ES"
	LangFR Language = "FR"
	LangDE Language = "DE"
	LangIT Language = "IT"
	LangPT Language = "PT"
	LangJA Language = "JA"
	LangKO Language = "KO"
	LangZH Language = "ZH"
	LangVI Language = "VI"
	LangRU Language = "RU"
)

var languages = map[Language]struct{}{
	LangEN: {}, LangES: {}, LangFR: {}, LangDE: {}, LangIT: {}, LangPT: {},
	LangJA: {}, LangKO: {}, LangZH: {}, LangVI: {}, LangRU: {},
}

func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := languages[l]; !ok {
		return "", fmt.Errorf("unknown language %q: %w", s, ErrInvalid)
	}
	return l, nil
}

const (
	LyricsSourceManual     = "manual"
	LyricsSourceMusixmatch = "musixmatch"
)

// LyricLine TimeMs 为空表示非同步歌词
type LyricLine struct {
	TimeMs *int64 `json:"timeMs,omitempty"`
	Text   string `json:"text"`
}

type Lyrics struct {
	ID       string      `gorm:"primaryKey;size:36" json:"id"`
	SongID   string      `gorm:"size:36;not null;index" json:"songId"`
	Language Language    `gorm:"size:8;not null" json:"language"`
	Lines    []LyricLine `gorm:"type:text;serializer:json" json:"lines"`
	Source   string      `gorm:"size:32;not null;default:manual" json:"source"`
	Lifecycle
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Lyrics) TableName() string { return "lyrics" }

type LyricsRepository interface {
	Create(ctx context.Context, l *Lyrics) error
	FindByID(ctx context.Context, id string) (*Lyrics, error)
	FindActive(ctx context.Context, songID string, lang Language) (*Lyrics, error)
	ForSong(ctx context.Context, songID string) ([]Lyrics, error)
	List(ctx context.Context, q ListQuery) ([]Lyrics, int64, error)
	Update(ctx context.Context, l *Lyrics) error
	HardDelete(ctx context.Context, id string) (bool, error)
}
