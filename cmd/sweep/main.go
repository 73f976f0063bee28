// Command sweep runs the high-like-count check once and exits; non-zero
// when any alert failed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/cache"
	"github.com/oggyb/swipe-match/internal/config"
	"github.com/oggyb/swipe-match/internal/db"
	"github.com/oggyb/swipe-match/internal/logger"
	"github.com/oggyb/swipe-match/internal/notification"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger.InitFromConfig(cfg)
	log := logger.L().With("component", "sweep")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}

	// no blob storage needed for a sweep
	appCtx := app.New(cfg, database, redisCache, log, nil)

	notifier, err := notification.NewNotifier(cfg, log)
	if err != nil {
		log.Error("failed to init notifier", "err", err)
		os.Exit(1)
	}

	summary, err := appCtx.NewSweeper(appCtx.NewDispatcher(notifier)).Sweep(ctx)
	if err != nil {
		log.Error("sweep failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d users with %d+ likes: %d notified, %d already notified, %d failed\n",
		summary.Candidates, cfg.Likes.Threshold, summary.Sent, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
