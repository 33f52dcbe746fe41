package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/internal/dto"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/ez"
)

type GenreHandler struct{ svc *service.GenreService }

func NewGenreHandler(svc *service.GenreService) *GenreHandler { return &GenreHandler{svc: svc} }

func (*GenreHandler) Priority() int { return 20 }

type genreIn struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=128"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

func (in genreIn) input() service.GenreInput {
	return service.GenreInput{Title: in.Title, Description: in.Description}
}

func (h *GenreHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/genres"))

	mountLists(e, h.svc.List, dto.FromGenre)

	ez.RegisterAction(e, ez.Action[none, dto.Genre]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (dto.Genre, error) {
			g, err := h.svc.Get(c.Request.Context(), id)
			return one(g, err, dto.FromGenre)
		}),
	})

	ez.RegisterAction(e, ez.Action[domain.Pagination, domain.Page[dto.Artist]]{
		Method: http.MethodGet,
		Path:   "/:id/artists",
		Binder: ez.BindQuery,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, in *domain.Pagination) (domain.Page[dto.Artist], error) {
			pg, err := h.svc.Artists(c.Request.Context(), id, *in)
			return pageOf(pg, err, dto.FromArtist)
		}),
	})

	ez.RegisterAction(e, ez.Action[genreIn, dto.Genre]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  admins,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *auth.Principal, in *genreIn) (dto.Genre, error) {
			g, err := h.svc.Create(c.Request.Context(), in.input())
			return one(g, err, dto.FromGenre)
		},
	})

	ez.RegisterAction(e, ez.Action[genreIn, dto.Genre]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, in *genreIn) (dto.Genre, error) {
			g, err := h.svc.Update(c.Request.Context(), id, in.input())
			return one(g, err, dto.FromGenre)
		}),
	})

	mountAdminLifecycle(e, h.svc.SoftDelete, h.svc.Restore, h.svc.HardDelete, dto.FromGenre)
}
