package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"go-music-api/internal/core/cache"
	"go-music-api/internal/domain"
	"go-music-api/internal/integration/musixmatch"
	"go-music-api/pkg/utils"
)

// LyricsFinder 外部歌词来源
type LyricsFinder interface {
	FindLyrics(ctx context.Context, title, artist string) (*musixmatch.Result, error)
}

type LyricsService struct {
	tx      domain.Transactor
	lyrics  domain.LyricsRepository
	artists domain.ArtistRepository
	finder  LyricsFinder
	cache   *cache.Cache
	ttl     time.Duration
	life    lifecycle[domain.Lyrics, *domain.Lyrics]
	song    lifecycle[domain.Song, *domain.Song]
}

func NewLyricsService(tx domain.Transactor, lyrics domain.LyricsRepository, songs domain.SongRepository,
	artists domain.ArtistRepository, finder LyricsFinder, c *cache.Cache, ttl time.Duration, now Clock) *LyricsService {
	return &LyricsService{
		tx: tx, lyrics: lyrics, artists: artists, finder: finder, cache: c, ttl: ttl,
		life: lifecycle[domain.Lyrics, *domain.Lyrics]{what: "lyrics", store: lyrics, now: now},
		song: lifecycle[domain.Song, *domain.Song]{what: "song", store: songs, now: now},
	}
}

type LyricsInput struct {
	SongID   string
	Language domain.Language
	Lines    []domain.LyricLine
}

type LyricsUpdate struct {
	Language *domain.Language
	Lines    *[]domain.LyricLine
}

type FetchLyricsInput struct {
	SongID   string
	Language *domain.Language // 为空时使用来源返回的语言
}

// checkLanguage 每首歌每种语言只允许一条有效歌词
func (s *LyricsService) checkLanguage(ctx context.Context, songID string, lang domain.Language, selfID string) error {
	l, err := s.lyrics.FindActive(ctx, songID, lang)
	if err != nil {
		return err
	}
	if l != nil && l.ID != selfID {
		return fmt.Errorf("song %s already has %s lyrics: %w", songID, lang, domain.ErrInvalid)
	}
	return nil
}

func (s *LyricsService) ListAll(ctx context.Context, p domain.Pagination) (domain.Page[domain.Lyrics], error) {
	q := listQuery(p, "", true)
	items, total, err := s.lyrics.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Lyrics]{}, err
	}
	return domain.NewPage(items, q.Pagination, total), nil
}

func (s *LyricsService) Get(ctx context.Context, id string) (*domain.Lyrics, error) {
	return s.life.get(ctx, id)
}

func (s *LyricsService) create(ctx context.Context, in LyricsInput, source string) (*domain.Lyrics, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("lines are required: %w", domain.ErrInvalid)
	}
	l := &domain.Lyrics{
		ID:        utils.NewID(),
		SongID:    in.SongID,
		Language:  in.Language,
		Lines:     in.Lines,
		Source:    source,
		Lifecycle: domain.ActiveLifecycle(),
	}
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		if _, err := s.song.get(ctx, in.SongID); err != nil {
			return err
		}
		if err := s.checkLanguage(ctx, in.SongID, in.Language, ""); err != nil {
			return err
		}
		return s.lyrics.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LyricsService) Create(ctx context.Context, in LyricsInput) (*domain.Lyrics, error) {
	return s.create(ctx, in, domain.LyricsSourceManual)
}

func (s *LyricsService) Update(ctx context.Context, id string, in LyricsUpdate) (*domain.Lyrics, error) {
	var out *domain.Lyrics
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		l, err := s.life.get(ctx, id)
		if err != nil {
			return err
		}
		if in.Language != nil && *in.Language != l.Language {
			if err := s.checkLanguage(ctx, l.SongID, *in.Language, l.ID); err != nil {
				return err
			}
			l.Language = *in.Language
		}
		if in.Lines != nil {
			if len(*in.Lines) == 0 {
				return fmt.Errorf("lines are required: %w", domain.ErrInvalid)
			}
			l.Lines = *in.Lines
		}
		out = l
		return s.lyrics.Update(ctx, l)
	})
	return out, err
}

func (s *LyricsService) SoftDelete(ctx context.Context, id string) error {
	return s.life.softDelete(ctx, id)
}

func (s *LyricsService) Restore(ctx context.Context, id string) (*domain.Lyrics, error) {
	var out *domain.Lyrics
	err := s.tx.Tx(ctx, func(ctx context.Context) error {
		l, err := s.life.restore(ctx, id, func(l *domain.Lyrics) error {
			return s.checkLanguage(ctx, l.SongID, l.Language, l.ID)
		})
		out = l
		return err
	})
	return out, err
}

func (s *LyricsService) HardDelete(ctx context.Context, id string) error {
	return s.life.hardDelete(ctx, id)
}

// Fetch 从 Musixmatch 导入，按 歌名+首位歌手 匹配
func (s *LyricsService) Fetch(ctx context.Context, in FetchLyricsInput) (*domain.Lyrics, error) {
	so, err := s.song.get(ctx, in.SongID)
	if err != nil {
		return nil, err
	}
	bySong, err := s.artists.ForSongs(ctx, []string{so.ID})
	if err != nil {
		return nil, err
	}
	var artist string
	if as := bySong[so.ID]; len(as) > 0 {
		artist = as[0].Name
	}

	key := "mxm:" + strings.ToLower(so.Title) + "|" + strings.ToLower(artist)
	res, err := cache.GetOrLoadJSON(s.cache, ctx, key, s.ttl, func(ctx context.Context) (*musixmatch.Result, error) {
		return s.finder.FindLyrics(ctx, so.Title, artist)
	})
	if err != nil {
		return nil, mapIntegrationErr(err)
	}
	if res == nil {
		return nil, notFound("lyrics for song", so.ID)
	}

	lang := in.Language
	if lang == nil {
		parsed, err := domain.ParseLanguage(res.Language)
		if err != nil {
			return nil, fmt.Errorf("lyrics language %q not supported: %w", res.Language, domain.ErrInvalid)
		}
		lang = &parsed
	}
	lines := lo.Map(res.Lines, func(l musixmatch.Line, _ int) domain.LyricLine {
		return domain.LyricLine{TimeMs: l.TimeMs, Text: l.Text}
	})
	return s.create(ctx, LyricsInput{SongID: so.ID, Language: *lang, Lines: lines}, domain.LyricsSourceMusixmatch)
}
