package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/dto"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/ez"
)

type AlbumHandler struct{ svc *service.AlbumService }

func NewAlbumHandler(svc *service.AlbumService) *AlbumHandler { return &AlbumHandler{svc: svc} }

func (*AlbumHandler) Priority() int { return 40 }

type albumIn struct {
	Title       *string    `json:"title"       binding:"omitempty,min=1,max=191"`
	ReleaseDate *time.Time `json:"releaseDate"`
	CoverURL    *string    `json:"coverUrl"    binding:"omitempty,max=512"`
	SpotifyID   *string    `json:"spotifyId"   binding:"omitempty,max=64"`
	ArtistIDs   []string   `json:"artistIds"   binding:"omitempty,dive,uuid"`
}

func (in albumIn) input() service.AlbumInput {
	return service.AlbumInput{
		Title: in.Title, ReleaseDate: in.ReleaseDate, CoverURL: in.CoverURL,
		SpotifyID: in.SpotifyID, ArtistIDs: in.ArtistIDs,
	}
}

func albumDetail(d *service.AlbumDetail, err error) (dto.AlbumDetail, error) {
	if err != nil {
		return dto.AlbumDetail{}, err
	}
	return dto.FromAlbumDetail(d), nil
}

func (h *AlbumHandler) restore(ctx context.Context, id string) (*service.AlbumDetail, error) {
	if _, err := h.svc.Restore(ctx, id); err != nil {
		return nil, err
	}
	return h.svc.Get(ctx, id)
}

func (h *AlbumHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/albums"))

	mountLists(e, h.svc.List, dto.FromAlbumView)

	ez.RegisterAction(e, ez.Action[none, dto.AlbumDetail]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (dto.AlbumDetail, error) {
			return albumDetail(h.svc.Get(c.Request.Context(), id))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, []dto.Song]{
		Method: http.MethodGet,
		Path:   "/:id/songs",
		Binder: ez.BindNone,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) ([]dto.Song, error) {
			ss, err := h.svc.Songs(c.Request.Context(), id)
			if err != nil {
				return nil, err
			}
			return dto.Map(ss, dto.FromSong), nil
		}),
	})

	ez.RegisterAction(e, ez.Action[albumIn, dto.AlbumDetail]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  admins,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *auth.Principal, in *albumIn) (dto.AlbumDetail, error) {
			return albumDetail(h.svc.Create(c.Request.Context(), in.input()))
		},
	})

	ez.RegisterAction(e, ez.Action[albumIn, dto.AlbumDetail]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, in *albumIn) (dto.AlbumDetail, error) {
			return albumDetail(h.svc.Update(c.Request.Context(), id, in.input()))
		}),
	})

	mountAdminLifecycle(e, h.svc.SoftDelete, h.restore, h.svc.HardDelete, func(d service.AlbumDetail) dto.AlbumDetail {
		return dto.FromAlbumDetail(&d)
	})

	ez.RegisterAction(e, ez.Action[none, dto.AlbumDetail]{
		Method: http.MethodPost,
		Path:   "/:id/artists/:artistId",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withIDs("artistId", func(c *gin.Context, _ *auth.Principal, id, artistID string) (dto.AlbumDetail, error) {
			return albumDetail(h.svc.AddArtist(c.Request.Context(), id, artistID))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, dto.AlbumDetail]{
		Method: http.MethodDelete,
		Path:   "/:id/artists/:artistId",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withIDs("artistId", func(c *gin.Context, _ *auth.Principal, id, artistID string) (dto.AlbumDetail, error) {
			return albumDetail(h.svc.RemoveArtist(c.Request.Context(), id, artistID))
		}),
	})
}
