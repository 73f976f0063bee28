package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/cache"
	"github.com/oggyb/swipe-match/internal/config"
	"github.com/oggyb/swipe-match/internal/db"
	"github.com/oggyb/swipe-match/internal/logger"
	"github.com/oggyb/swipe-match/internal/middleware"
	"github.com/oggyb/swipe-match/internal/notification"
	"github.com/oggyb/swipe-match/internal/server"
	"github.com/oggyb/swipe-match/internal/service/account"
	"github.com/oggyb/swipe-match/internal/service/discovery"
	"github.com/oggyb/swipe-match/internal/service/interaction"
	"github.com/oggyb/swipe-match/internal/service/picture"
	"github.com/oggyb/swipe-match/internal/service/profile"
	"github.com/oggyb/swipe-match/internal/storage"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthInterval      = 10 * time.Second
	limiterCleanupEvery = time.Minute
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return err
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return err
	}
	defer redisCache.Close()

	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Error("failed to init storage", "err", err)
		return err
	}

	appCtx := app.New(cfg, database, redisCache, log, store)

	if cfg.IsDevelopment() {
		if err := db.SeedTestData(database, 20, log); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	// Effects pipeline: queue worker plus the daily sweep
	notifier, err := notification.NewNotifier(cfg, log)
	if err != nil {
		return err
	}
	dispatcher := appCtx.NewDispatcher(notifier)
	worker := notification.NewWorker(appCtx.EffectQueue(), dispatcher, log)
	scheduler, err := notification.NewScheduler(cfg.Likes.SweepSchedule, appCtx.NewSweeper(dispatcher), log)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	registrars := []server.Registrar{
		account.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
		picture.NewRegistrar(appCtx),
		discovery.NewRegistrar(appCtx),
		interaction.NewRegistrar(appCtx),
	}
	httpServer := server.NewHTTPServer(appCtx, server.NewRouter(appCtx, limiter, registrars...))
	grpcServer := server.NewGRPCServer(cfg, server.NewHealthChecker(appCtx), log)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("effect worker stopped", "err", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(limiterCleanupEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup()
			}
		}
	}()

	scheduler.Start()

	go func() {
		if err := httpServer.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := grpcServer.Serve(ctx, healthInterval); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err = <-errCh:
		log.Error("server failed", "err", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		log.Error("http shutdown failed", "err", serr)
	}
	grpcServer.Stop()
	scheduler.Stop(shutdownCtx)
	wg.Wait()

	log.Info("server stopped")
	return err
}
