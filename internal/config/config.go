package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Log        LogConfig
	DB         DBConfig
	Redis      RedisConfig
	HTTP       HTTPConfig
	GRPC       GRPCConfig
	Auth       AuthConfig
	Likes      LikesConfig
	Pagination PaginationConfig
	RateLimit  RateLimitConfig
	Mail       MailConfig
	Storage    StorageConfig
}

type AppConfig struct {
	ENV  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"swipe-match"`
}

type LogConfig struct {
	Level     string `env:"LOG_LEVEL" envDefault:"info"`
	Format    string `env:"LOG_FORMAT" envDefault:"text"`
	Component string `env:"LOG_COMPONENT" envDefault:"api"`
	Source    bool   `env:"LOG_SOURCE"`
}

type DBConfig struct {
	// Driver is one of mysql, postgres, sqlite.
	Driver       string `env:"DB_DRIVER" envDefault:"mysql"`
	DSN          string `env:"DB_DSN"`
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"3306"`
	User         string `env:"DB_USER" envDefault:"root"`
	Password     string `env:"DB_PASSWORD" envDefault:"root"`
	Name         string `env:"DB_NAME" envDefault:"swipe"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	TxRetries    int    `env:"DB_TX_RETRIES" envDefault:"3"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type HTTPConfig struct {
	Host           string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port           string        `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"10s"`
}

type GRPCConfig struct {
	Host string `env:"GRPC_HOST" envDefault:"127.0.0.1"`
	Port string `env:"GRPC_PORT" envDefault:"50051"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"72h"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"swipe-match"`
}

type LikesConfig struct {
	Threshold     int64         `env:"LIKE_THRESHOLD" envDefault:"50"`
	DedupWindow   time.Duration `env:"LIKE_NOTIFICATION_DEDUP_WINDOW" envDefault:"24h"`
	SweepSchedule string        `env:"LIKE_SWEEP_SCHEDULE" envDefault:"0 2 * * *"`
	QueueKey      string        `env:"EFFECT_QUEUE_KEY" envDefault:"effects:queue"`
	CountCacheTTL time.Duration `env:"LIKE_COUNT_CACHE_TTL" envDefault:"1h"`
}

type PaginationConfig struct {
	DefaultPerPage int `env:"PAGINATION_DEFAULT_PER_PAGE" envDefault:"10"`
	MaxPerPage     int `env:"PAGINATION_MAX_PER_PAGE" envDefault:"50"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

type MailConfig struct {
	// Driver is log or smtp.
	Driver     string `env:"MAIL_DRIVER" envDefault:"log"`
	Host       string `env:"MAIL_HOST" envDefault:"localhost"`
	Port       string `env:"MAIL_PORT" envDefault:"1025"`
	Username   string `env:"MAIL_USERNAME"`
	Password   string `env:"MAIL_PASSWORD"`
	From       string `env:"MAIL_FROM" envDefault:"no-reply@swipe-match.local"`
	AdminEmail string `env:"ADMIN_EMAIL" envDefault:"admin@swipe-match.local"`
}

type StorageConfig struct {
	// Driver is local or s3.
	Driver         string `env:"STORAGE_DRIVER" envDefault:"local"`
	LocalDir       string `env:"STORAGE_LOCAL_DIR" envDefault:"storage/pictures"`
	PublicURL      string `env:"STORAGE_PUBLIC_URL" envDefault:"/storage/pictures"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	MaxUploadBytes int64  `env:"STORAGE_MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// New loads an optional .env file and parses the environment.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DB.DSN == "" {
		cfg.DB.DSN = buildDSN(cfg.DB)
	}
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))

	if cfg.Pagination.MaxPerPage <= 0 {
		cfg.Pagination.MaxPerPage = 50
	}
	if cfg.Pagination.DefaultPerPage <= 0 || cfg.Pagination.DefaultPerPage > cfg.Pagination.MaxPerPage {
		cfg.Pagination.DefaultPerPage = min(10, cfg.Pagination.MaxPerPage)
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs with development conveniences (seeding, verbose SQL).
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.ENV, "development")
}

func buildDSN(db DBConfig) string {
	switch strings.ToLower(db.Driver) {
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			db.Host, db.Port, db.User, db.Password, db.Name,
		)
	case "sqlite":
		return fmt.Sprintf("%s.db?_foreign_keys=on", db.Name)
	default:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			db.User, db.Password, db.Host, db.Port, db.Name,
		)
	}
}
