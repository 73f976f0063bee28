package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-match/internal/auth"
	"github.com/oggyb/swipe-match/internal/testutil"
)

func echoUser(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", "ok")
		assert.NotZero(t, id)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMissingAndInvalidToken(t *testing.T) {
	mw := NewAuth(auth.NewTokenManager(testutil.Config()), nil)
	h := mw.Handler(echoUser(t))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/people", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestAuthValidAndRevokedToken(t *testing.T) {
	rc, _ := testutil.NewRedis(t)
	tokens := auth.NewTokenManager(testutil.Config())
	h := NewAuth(tokens, rc).Handler(echoUser(t))

	token, claims, err := tokens.Issue(7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/people", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	require.NoError(t, rc.RevokeToken(context.Background(), claims.ID, time.Hour))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(0.0001, 2)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(userID uint64) int {
		req := httptest.NewRequest(http.MethodPost, "/people/2/like", nil)
		req = req.WithContext(WithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call(1))
	assert.Equal(t, http.StatusOK, call(1))
	assert.Equal(t, http.StatusTooManyRequests, call(1))
	// another user has its own bucket
	assert.Equal(t, http.StatusOK, call(2))
	assert.Equal(t, 2, rl.Size())

	rl.idle = 0
	rl.Cleanup()
	assert.Equal(t, 0, rl.Size())
}

func TestLoggingSetsRequestID(t *testing.T) {
	var seen string
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestRecoverAndTimeout(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var deadline bool
	h = Timeout(time.Second)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, deadline)
}
