package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/core/config"
	"go-music-api/internal/core/database"
	"go-music-api/internal/core/logger"
	"go-music-api/internal/repo"
	"go-music-api/internal/service"
)

// runner 子命令共享配置、日志与数据库
type runner struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func (r *runner) open(cmd *cli.Command) error {
	cfg, err := config.Read(cmd.String("config"))
	if err != nil {
		return err
	}
	r.cfg = cfg
	r.log, _ = logger.FromConfig(cfg.Log)
	r.db, err = database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             r.log.Named("gorm"),
	})
	return err
}

// with 先打开数据库再执行子命令
func (r *runner) with(fn cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := r.open(cmd); err != nil {
			return err
		}
		return fn(ctx, cmd)
	}
}

func (r *runner) users() *service.UserService {
	store := repo.NewStore(r.db)
	jwter := &auth.JWTer{
		Secret: []byte(r.cfg.JWT.Secret),
		Issuer: r.cfg.JWT.Issuer,
		TTL:    time.Duration(r.cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	return service.NewUserService(store, repo.NewUserRepo(store), jwter, time.Now)
}

func (r *runner) migrate(ctx context.Context, _ *cli.Command) error {
	if err := database.Migrate(r.db.WithContext(ctx)); err != nil {
		return err
	}
	r.log.Info("migrate done", zap.Int("models", len(database.Models())))
	return nil
}

func (r *runner) createAdmin(ctx context.Context, cmd *cli.Command) error {
	u, err := r.users().CreateAdmin(ctx, service.RegisterInput{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	})
	if err != nil {
		return err
	}
	r.log.Info("admin created", zap.String("id", u.ID), zap.String("username", u.Username))
	return nil
}

func (r *runner) promote(ctx context.Context, cmd *cli.Command) error {
	u, err := r.users().Promote(ctx, cmd.String("username"))
	if err != nil {
		return err
	}
	r.log.Info("user promoted", zap.String("id", u.ID), zap.String("role", string(u.Role)))
	return nil
}

func main() {
	_ = godotenv.Load()
	r := &runner{}

	app := &cli.Command{
		Name:  "music-admin",
		Usage: "Maintenance tasks for the music API database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config",
				Value:   "./configs/config.local.yaml",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create or update all tables",
				Action: r.with(r.migrate),
			},
			{
				Name:  "create-admin",
				Usage: "Create a user with the ADMIN role",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Sources: cli.EnvVars("ADMIN_PASSWORD")},
				},
				Action: r.with(r.createAdmin),
			},
			{
				Name:  "promote",
				Usage: "Grant the ADMIN role to an existing user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
				},
				Action: r.with(r.promote),
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if r.log != nil {
			r.log.Fatal("admin command failed", zap.Error(err))
		}
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
