// Package apptest wires a complete AppContext over SQLite, miniredis and a
// temp-dir blob store for service and handler tests.
package apptest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-match/internal/app"
	"github.com/oggyb/swipe-match/internal/auth"
	"github.com/oggyb/swipe-match/internal/logger"
	"github.com/oggyb/swipe-match/internal/notification"
	"github.com/oggyb/swipe-match/internal/server"
	"github.com/oggyb/swipe-match/internal/storage"
	"github.com/oggyb/swipe-match/internal/testutil"
)

// Effects records published effects instead of queueing them.
type Effects struct {
	mu        sync.Mutex
	published []notification.Effect
	Err       error
}

func (e *Effects) Publish(_ context.Context, effects ...notification.Effect) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.published = append(e.published, effects...)
	return nil
}

// All returns a copy of everything published so far.
func (e *Effects) All() []notification.Effect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]notification.Effect(nil), e.published...)
}

// OfType filters published effects.
func (e *Effects) OfType(t notification.EffectType) []notification.Effect {
	var out []notification.Effect
	for _, eff := range e.All() {
		if eff.Type == t {
			out = append(out, eff)
		}
	}
	return out
}

// Env is a wired test environment.
type Env struct {
	App     *app.AppContext
	Effects *Effects
	Redis   *miniredis.Miniredis
	Blobs   *storage.LocalStore
}

// New builds an Env with `users` pre-created users (ids 1..users).
func New(t *testing.T, users int) *Env {
	t.Helper()

	cfg := testutil.Config()
	database := testutil.NewDB(t)
	testutil.CreateUsers(t, database, users)
	rc, mr := testutil.NewRedis(t)
	blobs := storage.NewLocalStore(t.TempDir(), cfg.Storage.PublicURL)

	appCtx := app.New(cfg, database, rc, logger.Discard(), blobs)
	effects := &Effects{}
	appCtx.Effects = effects

	return &Env{App: appCtx, Effects: effects, Redis: mr, Blobs: blobs}
}

// Handler builds the full HTTP router with the given registrars, without rate limiting.
func (e *Env) Handler(registrars ...server.Registrar) http.Handler {
	return server.NewRouter(e.App, nil, registrars...)
}

// Token issues a bearer token for userID.
func (e *Env) Token(t *testing.T, userID uint64) string {
	t.Helper()
	token, _, err := auth.NewTokenManager(e.App.Config).Issue(userID)
	require.NoError(t, err)
	return token
}

// Do runs one request against h. A non-nil body that is not an io.Reader is
// sent as JSON.
func Do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return Record(h, req)
}

// Record serves req and returns the recorded response.
func Record(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Body is the decoded response envelope.
type Body struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Pagination map[string]int64  `json:"pagination"`
	Errors     map[string]string `json:"errors"`
}

// Decode parses the envelope, and the data field into data when non-nil.
func Decode(t *testing.T, rec *httptest.ResponseRecorder, data any) Body {
	t.Helper()
	var b Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b), rec.Body.String())
	if data != nil && len(b.Data) > 0 {
		require.NoError(t, json.Unmarshal(b.Data, data))
	}
	return b
}
