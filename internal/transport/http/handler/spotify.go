package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/dto"
	"go-music-api/internal/integration/spotify"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/ez"
)

type SpotifyHandler struct{ svc *service.SpotifyService }

func NewSpotifyHandler(svc *service.SpotifyService) *SpotifyHandler { return &SpotifyHandler{svc: svc} }

func (*SpotifyHandler) Priority() int { return 95 }

type spotifySearchQuery struct {
	Q     string `form:"q"                binding:"required"`
	Type  string `form:"type"` // 逗号分隔，缺省三类都查
	Limit int    `form:"limit,default=10" binding:"min=1,max=50"`
}

// spotifyParam Spotify id 是 base62
func spotifyParam(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" || strings.IndexFunc(id, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) >= 0 {
		return "", ez.BadRequest("id must be a spotify id")
	}
	return id, nil
}

// lookup GET /<kind>/:id 的通用形态
func lookup[T any](get func(*gin.Context, string) (*T, error)) func(*gin.Context, *auth.Principal, *none) (*T, error) {
	return func(c *gin.Context, _ *auth.Principal, _ *none) (*T, error) {
		id, err := spotifyParam(c)
		if err != nil {
			return nil, err
		}
		return get(c, id)
	}
}

func (h *SpotifyHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/spotify"))

	ez.RegisterAction(e, ez.Action[spotifySearchQuery, *spotify.SearchResult]{
		Method: http.MethodGet,
		Path:   "/search",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ *auth.Principal, in *spotifySearchQuery) (*spotify.SearchResult, error) {
			return h.svc.Search(c.Request.Context(), in.Q, in.Type, in.Limit)
		},
	})

	ez.RegisterAction(e, ez.Action[none, *spotify.Artist]{
		Method: http.MethodGet,
		Path:   "/artists/:id",
		Binder: ez.BindNone,
		Handler: lookup(func(c *gin.Context, id string) (*spotify.Artist, error) {
			return h.svc.Artist(c.Request.Context(), id)
		}),
	})

	ez.RegisterAction(e, ez.Action[none, *spotify.Album]{
		Method: http.MethodGet,
		Path:   "/albums/:id",
		Binder: ez.BindNone,
		Handler: lookup(func(c *gin.Context, id string) (*spotify.Album, error) {
			return h.svc.Album(c.Request.Context(), id)
		}),
	})

	ez.RegisterAction(e, ez.Action[none, *spotify.Track]{
		Method: http.MethodGet,
		Path:   "/tracks/:id",
		Binder: ez.BindNone,
		Handler: lookup(func(c *gin.Context, id string) (*spotify.Track, error) {
			return h.svc.Track(c.Request.Context(), id)
		}),
	})

	ez.RegisterAction(e, ez.Action[none, dto.ImportedArtist]{
		Method: http.MethodPost,
		Path:   "/import/artists/:id",
		Binder: ez.BindNone,
		Roles:  admins,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *auth.Principal, _ *none) (dto.ImportedArtist, error) {
			id, err := spotifyParam(c)
			if err != nil {
				return dto.ImportedArtist{}, err
			}
			res, err := h.svc.ImportArtist(c.Request.Context(), id)
			if err != nil {
				return dto.ImportedArtist{}, err
			}
			return dto.FromImported(res), nil
		},
	})
}
