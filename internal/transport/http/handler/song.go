package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/dto"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/ez"
	"go-music-api/pkg/utils"
)

type SongHandler struct{ svc *service.SongService }

func NewSongHandler(svc *service.SongService) *SongHandler { return &SongHandler{svc: svc} }

func (*SongHandler) Priority() int { return 50 }

type songIn struct {
	Title       *string  `json:"title"       binding:"omitempty,min=1,max=191"`
	AlbumID     *string  `json:"albumId"` // "" 表示解除专辑
	DurationSec *int     `json:"durationSec" binding:"omitempty,min=0"`
	TrackNumber *int     `json:"trackNumber" binding:"omitempty,min=0"`
	FileURL     *string  `json:"fileUrl"     binding:"omitempty,min=1,max=1024"`
	CoverURL    *string  `json:"coverUrl"    binding:"omitempty,max=512"`
	ArtistIDs   []string `json:"artistIds"   binding:"omitempty,dive,uuid"`
}

func (in songIn) input() (service.SongInput, error) {
	if in.AlbumID != nil && *in.AlbumID != "" && !utils.IsUUID(*in.AlbumID) {
		return service.SongInput{}, ez.BadRequest("albumId must be a uuid")
	}
	return service.SongInput{
		Title: in.Title, AlbumID: in.AlbumID, DurationSec: in.DurationSec, TrackNumber: in.TrackNumber,
		FileURL: in.FileURL, CoverURL: in.CoverURL, ArtistIDs: in.ArtistIDs,
	}, nil
}

type mostPlayedQuery struct {
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

func songView(v *service.SongWithArtists, err error) (dto.Song, error) {
	if err != nil {
		return dto.Song{}, err
	}
	return dto.FromSongView(*v), nil
}

func (h *SongHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/songs"))

	mountLists(e, h.svc.List, dto.FromSongView)

	ez.RegisterAction(e, ez.Action[mostPlayedQuery, []dto.SongPlays]{
		Method: http.MethodGet,
		Path:   "/most-played",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ *auth.Principal, in *mostPlayedQuery) ([]dto.SongPlays, error) {
			top, err := h.svc.MostPlayed(c.Request.Context(), in.Limit)
			if err != nil {
				return nil, err
			}
			return dto.Map(top, dto.FromSongPlays), nil
		},
	})

	ez.RegisterAction(e, ez.Action[none, dto.Song]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (dto.Song, error) {
			return songView(h.svc.Get(c.Request.Context(), id))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, []dto.Lyrics]{
		Method: http.MethodGet,
		Path:   "/:id/lyrics",
		Binder: ez.BindNone,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) ([]dto.Lyrics, error) {
			ls, err := h.svc.Lyrics(c.Request.Context(), id)
			if err != nil {
				return nil, err
			}
			return dto.Map(ls, dto.FromLyrics), nil
		}),
	})

	ez.RegisterAction(e, ez.Action[songIn, dto.Song]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  admins,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *auth.Principal, in *songIn) (dto.Song, error) {
			si, err := in.input()
			if err != nil {
				return dto.Song{}, err
			}
			return songView(h.svc.Create(c.Request.Context(), si))
		},
	})

	ez.RegisterAction(e, ez.Action[songIn, dto.Song]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, in *songIn) (dto.Song, error) {
			si, err := in.input()
			if err != nil {
				return dto.Song{}, err
			}
			return songView(h.svc.Update(c.Request.Context(), id, si))
		}),
	})

	mountAdminLifecycle(e, h.svc.SoftDelete, h.restore, h.svc.HardDelete, dto.FromSongView)

	ez.RegisterAction(e, ez.Action[none, dto.Song]{
		Method: http.MethodPost,
		Path:   "/:id/artists/:artistId",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withIDs("artistId", func(c *gin.Context, _ *auth.Principal, id, artistID string) (dto.Song, error) {
			return songView(h.svc.AddArtist(c.Request.Context(), id, artistID))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, dto.Song]{
		Method: http.MethodDelete,
		Path:   "/:id/artists/:artistId",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withIDs("artistId", func(c *gin.Context, _ *auth.Principal, id, artistID string) (dto.Song, error) {
			return songView(h.svc.RemoveArtist(c.Request.Context(), id, artistID))
		}),
	})
}

func (h *SongHandler) restore(ctx context.Context, id string) (*service.SongWithArtists, error) {
	if _, err := h.svc.Restore(ctx, id); err != nil {
		return nil, err
	}
	return h.svc.Get(ctx, id)
}
