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

type ArtistHandler struct{ svc *service.ArtistService }

func NewArtistHandler(svc *service.ArtistService) *ArtistHandler { return &ArtistHandler{svc: svc} }

func (*ArtistHandler) Priority() int { return 30 }

type artistIn struct {
	Name      *string `json:"name"      binding:"omitempty,min=1,max=191"`
	Bio       *string `json:"bio"       binding:"omitempty,max=10000"`
	Photo     *string `json:"photo"     binding:"omitempty,max=512"`
	SpotifyID *string `json:"spotifyId" binding:"omitempty,max=64"`
}

func (in artistIn) input() service.ArtistInput {
	return service.ArtistInput{Name: in.Name, Bio: in.Bio, Photo: in.Photo, SpotifyID: in.SpotifyID}
}

func genres(gs []domain.Genre, err error) ([]dto.Genre, error) {
	if err != nil {
		return nil, err
	}
	return dto.Map(gs, dto.FromGenre), nil
}

func (h *ArtistHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/artists"))

	mountLists(e, h.svc.List, dto.FromArtist)

	ez.RegisterAction(e, ez.Action[none, dto.Artist]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (dto.Artist, error) {
			a, err := h.svc.Get(c.Request.Context(), id)
			return one(a, err, dto.FromArtist)
		}),
	})

	ez.RegisterAction(e, ez.Action[none, []dto.Genre]{
		Method: http.MethodGet,
		Path:   "/:id/genres",
		Binder: ez.BindNone,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) ([]dto.Genre, error) {
			return genres(h.svc.Genres(c.Request.Context(), id))
		}),
	})

	ez.RegisterAction(e, ez.Action[domain.Pagination, domain.Page[dto.Album]]{
		Method: http.MethodGet,
		Path:   "/:id/albums",
		Binder: ez.BindQuery,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, in *domain.Pagination) (domain.Page[dto.Album], error) {
			pg, err := h.svc.Albums(c.Request.Context(), id, *in)
			return pageOf(pg, err, func(a domain.Album) dto.Album { return dto.FromAlbum(a, nil) })
		}),
	})

	ez.RegisterAction(e, ez.Action[domain.Pagination, domain.Page[dto.Song]]{
		Method: http.MethodGet,
		Path:   "/:id/songs",
		Binder: ez.BindQuery,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, in *domain.Pagination) (domain.Page[dto.Song], error) {
			pg, err := h.svc.Songs(c.Request.Context(), id, *in)
			return pageOf(pg, err, dto.FromSong)
		}),
	})

	ez.RegisterAction(e, ez.Action[artistIn, dto.Artist]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  admins,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *auth.Principal, in *artistIn) (dto.Artist, error) {
			a, err := h.svc.Create(c.Request.Context(), in.input())
			return one(a, err, dto.FromArtist)
		},
	})

	ez.RegisterAction(e, ez.Action[artistIn, dto.Artist]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, in *artistIn) (dto.Artist, error) {
			a, err := h.svc.Update(c.Request.Context(), id, in.input())
			return one(a, err, dto.FromArtist)
		}),
	})

	mountAdminLifecycle(e, h.svc.SoftDelete, h.svc.Restore, h.svc.HardDelete, dto.FromArtist)

	ez.RegisterAction(e, ez.Action[none, []dto.Genre]{
		Method: http.MethodPost,
		Path:   "/:id/genres/:genreId",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withIDs("genreId", func(c *gin.Context, _ *auth.Principal, id, genreID string) ([]dto.Genre, error) {
			return genres(h.svc.AddGenre(c.Request.Context(), id, genreID))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, []dto.Genre]{
		Method: http.MethodDelete,
		Path:   "/:id/genres/:genreId",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withIDs("genreId", func(c *gin.Context, _ *auth.Principal, id, genreID string) ([]dto.Genre, error) {
			return genres(h.svc.RemoveGenre(c.Request.Context(), id, genreID))
		}),
	})
}
