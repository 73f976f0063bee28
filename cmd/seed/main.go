package main

import (
	"flag"
	"os"

	"github.com/oggyb/swipe-match/internal/config"
	"github.com/oggyb/swipe-match/internal/db"
	"github.com/oggyb/swipe-match/internal/logger"
)

func main() {
	users := flag.Int("users", 20, "number of demo users to create")
	flag.Parse()

	// Load configuration
	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger.InitFromConfig(cfg)
	log := logger.L()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	if err := db.SeedTestData(database, *users, log); err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	log.Info("seeding completed", "users", *users, "password", db.SeedPassword)
}
