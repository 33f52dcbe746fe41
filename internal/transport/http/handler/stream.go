package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-music-api/internal/media"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/ez"
	mdw "go-music-api/internal/transport/http/middleware"
)

// StreamHandler 直接写 body，不走 envelope
type StreamHandler struct {
	svc *service.StreamService
	l   *zap.Logger
}

func NewStreamHandler(svc *service.StreamService, l *zap.Logger) *StreamHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &StreamHandler{svc: svc, l: l}
}

// MountAPI 挂在不带超时的分组上
func (h *StreamHandler) MountAPI(api *gin.RouterGroup) {
	api.GET("/songs/:id/stream", h.Stream)
}

func (h *StreamHandler) Stream(c *gin.Context) {
	id, err := ez.UUIDParam(c, "id")
	if err != nil {
		ez.Fail(c, err)
		return
	}
	st, err := h.svc.Open(c.Request.Context(), id, c.GetHeader("Range"))
	if err != nil {
		var re *media.RangeError
		if errors.As(err, &re) {
			c.Header("Accept-Ranges", "bytes")
			c.Header("Content-Range", media.UnsatisfiedRange(re.Size))
		}
		ez.Fail(c, err)
		return
	}
	defer st.Close()

	hd := c.Writer.Header()
	hd.Set("Accept-Ranges", "bytes")
	hd.Set("Content-Type", st.ContentType)
	hd.Set("Content-Length", strconv.FormatInt(st.Length(), 10))
	status, partial := http.StatusOK, "false"
	if st.Range != nil {
		hd.Set("Content-Range", st.Range.ContentRange(st.Size))
		status, partial = http.StatusPartialContent, "true"
	}
	c.Status(status)

	n, err := io.Copy(c.Writer, st.Body)
	mdw.StreamedBytes.WithLabelValues(partial).Add(float64(n))
	if err != nil {
		// 多为客户端断开
		h.l.Debug("stream aborted", zap.String("rid", mdw.RequestIDFrom(c.Request.Context())), zap.String("song", id), zap.Int64("written", n), zap.Error(err))
	}
}
