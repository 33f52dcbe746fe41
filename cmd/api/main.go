package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/core/cache"
	"go-music-api/internal/core/config"
	"go-music-api/internal/core/database"
	"go-music-api/internal/core/logger"
	"go-music-api/internal/core/server"
	"go-music-api/internal/integration/musixmatch"
	"go-music-api/internal/integration/spotify"
	"go-music-api/internal/media"
	"go-music-api/internal/repo"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/router"
)

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 缓存可选：redis.addr 为空时直接回源
	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.App.Name+":", log.Named("cache"))
	if rc != nil {
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unreachable, lookups will bypass cache on error", zap.Error(err))
		}
		defer rc.Close()
	}

	sp := spotify.New(spotify.Options{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		TokenURL:     cfg.Spotify.TokenURL,
		BaseURL:      cfg.Spotify.BaseURL,
		HTTPClient:   &http.Client{Timeout: seconds(cfg.Spotify.TimeoutSec)},
		Logger:       log.Named("spotify"),
	})
	if !sp.Configured() {
		log.Warn("spotify credentials missing, /api/spotify returns 503")
	}
	go sp.RunTokenRefresher(ctx, time.Duration(cfg.Spotify.TokenRefreshMin)*time.Minute)

	mxm := musixmatch.New(musixmatch.Options{
		APIKey:     cfg.Musixmatch.APIKey,
		BaseURL:    cfg.Musixmatch.BaseURL,
		HTTPClient: &http.Client{Timeout: seconds(cfg.Musixmatch.TimeoutSec)},
	})

	// 音频源：远程 URL 只限制建连与响应头，body 不设总超时
	mediaClient := &http.Client{Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: seconds(cfg.Media.TimeoutSec),
		IdleConnTimeout:       90 * time.Second,
	}}

	store := repo.NewStore(db)
	svcs := service.New(store, repo.NewRepos(store), service.Options{
		JWT:      jwter,
		Spotify:  sp,
		Lyrics:   mxm,
		Cache:    rc,
		CacheTTL: seconds(cfg.Redis.TTLSec),
		Media:    media.NewSources(cfg.Media.Root, mediaClient),
	})

	r := router.NewAPIEngine(router.Deps{
		Logger:         log,
		JWT:            jwter,
		Services:       svcs,
		Limits:         cfg.Limits,
		CORSOrigins:    cfg.CORS.AllowOrigins,
		RequestTimeout: seconds(cfg.App.HTTP.RequestTimeoutSec),
		Health:         func(c *gin.Context) error { return ping(c.Request.Context(), db) },
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(addr, r,
		seconds(cfg.App.HTTP.ReadTimeoutSec),
		seconds(cfg.App.HTTP.WriteTimeoutSec),
		seconds(cfg.App.HTTP.IdleTimeoutSec),
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("music api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Fatal("music api FAILED", zap.Error(err))
	}
	log.Info("music api stopped gracefully")
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l.Named("gorm"),
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
