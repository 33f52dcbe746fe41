package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int // 流式播放时建议为 0
	IdleTimeoutSec    int
	RequestTimeoutSec int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttlsec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type CORS struct {
	AllowOrigins []string
}

type Limits struct {
	RPS          float64
	Burst        int
	PerIPRPS     float64
	PerIPBurst   int
	MaxInFlight  int64
	MaxBodyBytes int64
}

type Spotify struct {
	ClientID        string
	ClientSecret    string
	TokenURL        string
	BaseURL         string
	TimeoutSec      int
	TokenRefreshMin int
}

type Musixmatch struct {
	APIKey     string
	BaseURL    string
	TimeoutSec int
}

type Media struct {
	Root       string // file:// 与相对路径的根目录
	TimeoutSec int
}

type Config struct {
	App        App
	Log        Log
	JWT        JWT
	DB         DB
	Redis      Redis `mapstructure:"redis"`
	CORS       CORS
	Limits     Limits
	Spotify    Spotify
	Musixmatch Musixmatch
	Media      Media
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "go-music-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.requesttimeoutsec", 10)
	v.SetDefault("log.level", "info")
	// 空默认值让 AutomaticEnv 能覆盖这些 key
	for _, k := range []string{"jwt.secret", "db.username", "db.password", "redis.addr", "redis.password",
		"spotify.clientid", "spotify.clientsecret", "musixmatch.apikey"} {
		v.SetDefault(k, "")
	}
	v.SetDefault("jwt.issuer", "go-music-api")
	v.SetDefault("jwt.accesstokenttlmin", 60*24)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "music.db")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("redis.ttlsec", 600)
	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.peripps", 20)
	v.SetDefault("limits.peripburst", 40)
	v.SetDefault("limits.maxinflight", 300)
	v.SetDefault("limits.maxbodybytes", 16<<20)
	v.SetDefault("spotify.tokenurl", "https://accounts.spotify.com/api/token")
	v.SetDefault("spotify.baseurl", "https://api.spotify.com/v1")
	v.SetDefault("spotify.timeoutsec", 10)
	v.SetDefault("spotify.tokenrefreshmin", 50)
	v.SetDefault("musixmatch.baseurl", "https://api.musixmatch.com/ws/1.1")
	v.SetDefault("musixmatch.timeoutsec", 10)
	v.SetDefault("media.root", "./media")
	v.SetDefault("media.timeoutsec", 30)
}

// Read 读取配置文件并叠加 APP_ 前缀环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	return &c, nil
}

func Load(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
