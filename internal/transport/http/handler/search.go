package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/dto"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/ez"
)

type SearchHandler struct{ svc *service.SearchService }

func NewSearchHandler(svc *service.SearchService) *SearchHandler { return &SearchHandler{svc: svc} }

func (*SearchHandler) Priority() int { return 90 }

type searchQuery struct {
	Q     string `form:"q"                binding:"required"`
	Limit int    `form:"limit,default=10" binding:"min=1,max=100"`
}

func (h *SearchHandler) MountAPI(api *gin.RouterGroup) {
	ez.RegisterAction(ez.New(api), ez.Action[searchQuery, dto.Search]{
		Method: http.MethodGet,
		Path:   "/search",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ *auth.Principal, in *searchQuery) (dto.Search, error) {
			res, err := h.svc.Search(c.Request.Context(), in.Q, in.Limit)
			if err != nil {
				return dto.Search{}, err
			}
			return dto.FromSearch(res), nil
		},
	})
}
