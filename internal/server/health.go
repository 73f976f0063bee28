package server

import (
	"context"
	"net/http"
	"time"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/utils/response"
)

// Pinger checks one dependency.
type Pinger func(ctx context.Context) error

// HealthChecker pings the database and Redis.
type HealthChecker struct {
	pingers map[string]Pinger
}

// NewHealthChecker builds the pingers of the app's DB and Redis.
func NewHealthChecker(appCtx *app.AppContext) *HealthChecker {
	return &HealthChecker{pingers: map[string]Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := appCtx.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": appCtx.RedisCache.Ping,
	}}
}

// Check runs every pinger and reports per-dependency status.
func (h *HealthChecker) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := make(map[string]string, len(h.pingers))
	healthy := true
	for name, ping := range h.pingers {
		if err := ping(ctx); err != nil {
			out[name] = "down: " + err.Error()
			healthy = false
			continue
		}
		out[name] = "up"
	}
	return out, healthy
}

// ServeHTTP answers GET /health with 200 or 503.
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks, healthy := h.Check(r.Context())
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, response.Envelope{Success: healthy, Data: checks})
}
