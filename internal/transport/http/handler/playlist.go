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

type PlaylistHandler struct{ svc *service.PlaylistService }

func NewPlaylistHandler(svc *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

func (*PlaylistHandler) Priority() int { return 60 }

type playlistIn struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=191"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	CoverURL    *string `json:"coverUrl"    binding:"omitempty,max=512"`
	IsPublic    *bool   `json:"isPublic"`
}

func (in playlistIn) input() service.PlaylistInput {
	return service.PlaylistInput{Name: in.Name, Description: in.Description, CoverURL: in.CoverURL, IsPublic: in.IsPublic}
}

type playlistSong struct {
	PlaylistID string `json:"playlistId"`
	SongID     string `json:"songId"`
}

func playlist(pl *domain.Playlist, err error) (dto.Playlist, error) {
	return one(pl, err, dto.FromPlaylist)
}

func (h *PlaylistHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/playlists"))

	ez.RegisterAction(e, ez.Action[listQuery, domain.Page[dto.Playlist]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, in *listQuery) (domain.Page[dto.Playlist], error) {
			pg, err := h.svc.ListMine(c.Request.Context(), p, in.Pagination, in.Q)
			return pageOf(pg, err, dto.FromPlaylist)
		},
	})

	ez.RegisterAction(e, ez.Action[listQuery, domain.Page[dto.Playlist]]{
		Method: http.MethodGet,
		Path:   "/all",
		Binder: ez.BindQuery,
		Roles:  admins,
		Handler: func(c *gin.Context, _ *auth.Principal, in *listQuery) (domain.Page[dto.Playlist], error) {
			pg, err := h.svc.ListAll(c.Request.Context(), in.Pagination, in.Q)
			return pageOf(pg, err, dto.FromPlaylist)
		},
	})

	// 公开歌单匿名可见
	ez.RegisterAction(e, ez.Action[none, dto.Playlist]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: withID(func(c *gin.Context, p *auth.Principal, id string, _ *none) (dto.Playlist, error) {
			return playlist(h.svc.Get(c.Request.Context(), p, id))
		}),
	})

	ez.RegisterAction(e, ez.Action[domain.Pagination, domain.Page[dto.Song]]{
		Method: http.MethodGet,
		Path:   "/:id/songs",
		Binder: ez.BindQuery,
		Handler: withID(func(c *gin.Context, p *auth.Principal, id string, in *domain.Pagination) (domain.Page[dto.Song], error) {
			pg, err := h.svc.Songs(c.Request.Context(), p, id, *in)
			return pageOf(pg, err, dto.FromSong)
		}),
	})

	ez.RegisterAction(e, ez.Action[playlistIn, dto.Playlist]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p *auth.Principal, in *playlistIn) (dto.Playlist, error) {
			return playlist(h.svc.Create(c.Request.Context(), p, in.input()))
		},
	})

	ez.RegisterAction(e, ez.Action[playlistIn, dto.Playlist]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: withID(func(c *gin.Context, p *auth.Principal, id string, in *playlistIn) (dto.Playlist, error) {
			return playlist(h.svc.Update(c.Request.Context(), p, id, in.input()))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, deleted]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: withID(func(c *gin.Context, p *auth.Principal, id string, _ *none) (deleted, error) {
			return done(id, h.svc.SoftDelete(c.Request.Context(), p, id))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, dto.Playlist]{
		Method: http.MethodPatch,
		Path:   "/:id/restore",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: withID(func(c *gin.Context, p *auth.Principal, id string, _ *none) (dto.Playlist, error) {
			return playlist(h.svc.Restore(c.Request.Context(), p, id))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, deleted]{
		Method: http.MethodDelete,
		Path:   "/:id/hard",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (deleted, error) {
			return done(id, h.svc.HardDelete(c.Request.Context(), id))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, playlistSong]{
		Method: http.MethodPost,
		Path:   "/:id/songs/:songId",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: withIDs("songId", func(c *gin.Context, p *auth.Principal, id, songID string) (playlistSong, error) {
			if err := h.svc.AddSong(c.Request.Context(), p, id, songID); err != nil {
				return playlistSong{}, err
			}
			return playlistSong{PlaylistID: id, SongID: songID}, nil
		}),
	})

	ez.RegisterAction(e, ez.Action[none, playlistSong]{
		Method: http.MethodDelete,
		Path:   "/:id/songs/:songId",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: withIDs("songId", func(c *gin.Context, p *auth.Principal, id, songID string) (playlistSong, error) {
			if err := h.svc.RemoveSong(c.Request.Context(), p, id, songID); err != nil {
				return playlistSong{}, err
			}
			return playlistSong{PlaylistID: id, SongID: songID}, nil
		}),
	})
}
