// Package testutil provides isolated SQLite and Redis fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/swipe-match/internal/cache"
	"github.com/oggyb/swipe-match/internal/config"
	"github.com/oggyb/swipe-match/internal/db"
)

var dbSeq atomic.Int64

// NewDB spins up a migrated in-memory SQLite database private to the test.
//
// A single connection serialises transactions the way row locks would on MySQL,
// so concurrent tests observe unique-constraint conflicts instead of SQLITE_BUSY.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// NewRedis starts a miniredis and a RedisCache bound to it.
func NewRedis(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()

	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

// Config returns the defaults the services expect, without reading the environment.
func Config() *config.Config {
	cfg := &config.Config{}
	cfg.App.ENV = "test"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.Issuer = "swipe-match-test"
	cfg.Likes.Threshold = 50
	cfg.Likes.DedupWindow = 24 * time.Hour
	cfg.Likes.SweepSchedule = "0 2 * * *"
	cfg.Likes.QueueKey = "effects:test"
	cfg.Likes.CountCacheTTL = time.Hour
	cfg.Pagination.DefaultPerPage = 10
	cfg.Pagination.MaxPerPage = 50
	cfg.RateLimit.RPS = 1000
	cfg.RateLimit.Burst = 1000
	cfg.Mail.Driver = "log"
	cfg.Mail.AdminEmail = "admin@test.local"
	cfg.Storage.Driver = "local"
	cfg.Storage.PublicURL = "/storage/pictures"
	cfg.Storage.MaxUploadBytes = 5 << 20
	cfg.HTTP.RequestTimeout = 5 * time.Second
	cfg.DB.TxRetries = 3
	return cfg
}

// CreateUsers inserts n users with ids 1..n and returns them.
func CreateUsers(t *testing.T, database *gorm.DB, n int) []db.User {
	t.Helper()

	users := make([]db.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, db.User{
			ID:           uint64(i),
			Name:         fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@test.local", i),
			PasswordHash: "x",
			Age:          20 + i%30,
			Location:     "Berlin",
		})
	}
	if n > 0 {
		require.NoError(t, database.CreateInBatches(&users, 100).Error)
	}
	return users
}
