package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/auth"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/metrics"
	"github.com/oggyb/swipe-match/internal/middleware"
	"github.com/oggyb/swipe-match/internal/storage"
	"github.com/oggyb/swipe-match/internal/utils/response"
)

// NewRouter builds the HTTP handler: middleware chain, health, metrics,
// local picture files, and every registrar's routes.
func NewRouter(appCtx *app.AppContext, limiter *middleware.RateLimiter, registrars ...Registrar) http.Handler {
	cfg := appCtx.Config

	r := mux.NewRouter()
	r.Use(metrics.InstrumentHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, req, svcErr.ErrNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, response.Envelope{Success: false, Message: "method not allowed"})
	})

	r.Handle("/health", NewHealthChecker(appCtx)).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	if local, ok := appCtx.Storage.(*storage.LocalStore); ok && cfg.Storage.PublicURL != "" {
		prefix := cfg.Storage.PublicURL + "/"
		r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(local.Dir())))).
			Methods(http.MethodGet)
	}

	authMW := middleware.NewAuth(auth.NewTokenManager(cfg), appCtx.RedisCache)
	var limit func(http.Handler) http.Handler
	if limiter != nil {
		limit = limiter.Handler
	}
	routes := NewRoutes(r, authMW.Handler, limit)
	for _, reg := range registrars {
		reg.Register(routes)
	}

	var h http.Handler = r
	h = middleware.Timeout(cfg.HTTP.RequestTimeout)(h)
	h = middleware.Recover(h)
	h = middleware.Logging(h)
	return h
}

// HTTPServer wraps net/http with the configured timeouts and graceful shutdown.
type HTTPServer struct {
	srv *http.Server
	log *slog.Logger
}

func NewHTTPServer(appCtx *app.AppContext, handler http.Handler) *HTTPServer {
	cfg := appCtx.Config
	return &HTTPServer{
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:      handler,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
		log: appCtx.Logger,
	}
}

// ListenAndServe blocks until Shutdown; a clean shutdown returns nil.
func (s *HTTPServer) ListenAndServe() error {
	s.log.Info("starting HTTP server", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
