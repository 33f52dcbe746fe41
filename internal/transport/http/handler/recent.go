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

type RecentTrackHandler struct{ svc *service.RecentTrackService }

func NewRecentTrackHandler(svc *service.RecentTrackService) *RecentTrackHandler {
	return &RecentTrackHandler{svc: svc}
}

func (*RecentTrackHandler) Priority() int { return 80 }

type recordIn struct {
	SongID string `json:"songId" binding:"required,uuid"`
}

func (h *RecentTrackHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/recent-tracks"))

	ez.RegisterAction(e, ez.Action[domain.Pagination, domain.Page[dto.RecentTrack]]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, in *domain.Pagination) (domain.Page[dto.RecentTrack], error) {
			pg, err := h.svc.List(c.Request.Context(), p, *in)
			return pageOf(pg, err, dto.FromRecentPlay)
		},
	})

	ez.RegisterAction(e, ez.Action[recordIn, dto.RecentTrack]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, in *recordIn) (dto.RecentTrack, error) {
			rp, err := h.svc.Record(c.Request.Context(), p, in.SongID)
			return one(rp, err, dto.FromRecentPlay)
		},
	})

	ez.RegisterAction(e, ez.Action[none, deleted]{
		Method: http.MethodDelete,
		Path:   "/:songId",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *none) (deleted, error) {
			id, err := ez.UUIDParam(c, "songId")
			if err != nil {
				return deleted{}, err
			}
			return done(id, h.svc.Remove(c.Request.Context(), p, id))
		},
	})

	ez.RegisterAction(e, ez.Action[none, cleared]{
		Method: http.MethodDelete,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *none) (cleared, error) {
			n, err := h.svc.Clear(c.Request.Context(), p)
			return cleared{Removed: n}, err
		},
	})
}
