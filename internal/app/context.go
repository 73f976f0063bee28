package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/swipe-match/internal/cache"
	"github.com/oggyb/swipe-match/internal/config"
	"github.com/oggyb/swipe-match/internal/notification"
	"github.com/oggyb/swipe-match/internal/storage"
)

// AppContext holds shared dependencies (config, DB, Redis, logger, blob storage,
// effect publisher). Services build their repositories from it.
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Storage    storage.Store
	Effects    notification.Publisher
}

// New creates a new AppContext. Effects defaults to the Redis effect queue.
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *cache.RedisCache,
	logger *slog.Logger,
	store storage.Store,
) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Storage:    store,
		Effects:    notification.NewQueue(rdb, cfg.Likes.QueueKey),
	}
}
