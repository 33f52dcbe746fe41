package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/core/config"
	"go-music-api/internal/core/server"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/handler"
	mdw "go-music-api/internal/transport/http/middleware"
	resp "go-music-api/internal/transport/http/response"
)

type Deps struct {
	Logger         *zap.Logger
	JWT            *auth.JWTer
	Services       *service.Services
	Limits         config.Limits
	CORSOrigins    []string
	RequestTimeout time.Duration
	// Health 为 nil 时 /health 恒为 ok
	Health func(c *gin.Context) error
}

func NewAPIEngine(d Deps) *gin.Engine {
	l := d.Logger
	if l == nil {
		l = zap.NewNop()
	}
	r := server.NewRouter(l, d.CORSOrigins)

	// 中间件
	r.Use(mdw.RequestID())
	if d.Limits.RPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(d.Limits.RPS), d.Limits.Burst))
	}
	if d.Limits.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(d.Limits.PerIPRPS), d.Limits.PerIPBurst, 10*time.Minute))
	}
	if d.Limits.MaxInFlight > 0 {
		r.Use(mdw.ConcurrencyLimit(d.Limits.MaxInFlight))
	}
	if d.Limits.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(d.Limits.MaxBodyBytes))
	}
	r.Use(mdw.Metrics(), mdw.AccessLog(l))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0, "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, resp.CodeNotFound, "route not found") })

	api := r.Group("/api", mdw.OptionalJWT(d.JWT))

	// 流式播放不受请求超时限制
	handler.NewStreamHandler(d.Services.Stream, l).MountAPI(api)

	s := d.Services
	Mount(api.Group("", mdw.Timeout(d.RequestTimeout)),
		handler.NewUserHandler(s.Users),
		handler.NewGenreHandler(s.Genres),
		handler.NewArtistHandler(s.Artists),
		handler.NewAlbumHandler(s.Albums),
		handler.NewSongHandler(s.Songs),
		handler.NewPlaylistHandler(s.Playlists),
		handler.NewLyricsHandler(s.Lyrics),
		handler.NewRecentTrackHandler(s.Recent),
		handler.NewSearchHandler(s.Search),
		handler.NewSpotifyHandler(s.Spotify),
	)
	return r
}
