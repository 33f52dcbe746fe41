package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/internal/dto"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/ez"
)

type LyricsHandler struct{ svc *service.LyricsService }

func NewLyricsHandler(svc *service.LyricsService) *LyricsHandler { return &LyricsHandler{svc: svc} }

func (*LyricsHandler) Priority() int { return 70 }

type lineIn struct {
	TimeMs *int64 `json:"timeMs" binding:"omitempty,min=0"`
	Text   string `json:"text"`
}

func lines(in []lineIn) []domain.LyricLine {
	return lo.Map(in, func(l lineIn, _ int) domain.LyricLine { return domain.LyricLine{TimeMs: l.TimeMs, Text: l.Text} })
}

type lyricsIn struct {
	SongID   string   `json:"songId"   binding:"required,uuid"`
	Language string   `json:"language" binding:"required"`
	Lines    []lineIn `json:"lines"    binding:"required,dive"`
}

type lyricsUpdateIn struct {
	Language *string   `json:"language"`
	Lines    *[]lineIn `json:"lines" binding:"omitempty,dive"`
}

type fetchLyricsIn struct {
	SongID   string  `json:"songId"   binding:"required,uuid"`
	Language *string `json:"language"`
}

func lyrics(l *domain.Lyrics, err error) (dto.Lyrics, error) { return one(l, err, dto.FromLyrics) }

func (h *LyricsHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/lyrics"))

	ez.RegisterAction(e, ez.Action[domain.Pagination, domain.Page[dto.Lyrics]]{
		Method: http.MethodGet,
		Path:   "/all",
		Binder: ez.BindQuery,
		Roles:  admins,
		Handler: func(c *gin.Context, _ *auth.Principal, in *domain.Pagination) (domain.Page[dto.Lyrics], error) {
			pg, err := h.svc.ListAll(c.Request.Context(), *in)
			return pageOf(pg, err, dto.FromLyrics)
		},
	})

	ez.RegisterAction(e, ez.Action[none, dto.Lyrics]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (dto.Lyrics, error) {
			return lyrics(h.svc.Get(c.Request.Context(), id))
		}),
	})

	ez.RegisterAction(e, ez.Action[lyricsIn, dto.Lyrics]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  admins,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *auth.Principal, in *lyricsIn) (dto.Lyrics, error) {
			l, err := domain.ParseLanguage(in.Language)
			if err != nil {
				return dto.Lyrics{}, err
			}
			return lyrics(h.svc.Create(c.Request.Context(), service.LyricsInput{
				SongID: in.SongID, Language: l, Lines: lines(in.Lines),
			}))
		},
	})

	ez.RegisterAction(e, ez.Action[lyricsUpdateIn, dto.Lyrics]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, in *lyricsUpdateIn) (dto.Lyrics, error) {
			l, err := lang(in.Language)
			if err != nil {
				return dto.Lyrics{}, err
			}
			upd := service.LyricsUpdate{Language: l}
			if in.Lines != nil {
				ls := lines(*in.Lines)
				upd.Lines = &ls
			}
			return lyrics(h.svc.Update(c.Request.Context(), id, upd))
		}),
	})

	mountAdminLifecycle(e, h.svc.SoftDelete, h.svc.Restore, h.svc.HardDelete, dto.FromLyrics)

	// 从 Musixmatch 导入
	ez.RegisterAction(e, ez.Action[fetchLyricsIn, dto.Lyrics]{
		Method: http.MethodPost,
		Path:   "/fetch",
		Binder: ez.BindJSON,
		Roles:  admins,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *auth.Principal, in *fetchLyricsIn) (dto.Lyrics, error) {
			l, err := lang(in.Language)
			if err != nil {
				return dto.Lyrics{}, err
			}
			return lyrics(h.svc.Fetch(c.Request.Context(), service.FetchLyricsInput{SongID: in.SongID, Language: l}))
		},
	})
}
