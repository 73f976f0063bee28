package server_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/logger"
	"github.com/oggyb/swipe-match/internal/server"
	"github.com/oggyb/swipe-match/internal/testutil/apptest"
)

func TestHealthEndpoint(t *testing.T) {
	env := apptest.New(t, 0)
	h := env.Handler()

	rec := apptest.Do(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var checks map[string]string
	body := apptest.Decode(t, rec, &checks)
	assert.True(t, body.Success)
	assert.Equal(t, map[string]string{"database": "up", "redis": "up"}, checks)

	env.Redis.Close()

	rec = apptest.Do(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = apptest.Decode(t, rec, &checks)
	assert.False(t, body.Success)
	assert.Equal(t, "up", checks["database"])
	assert.Contains(t, checks["redis"], "down")
}

func TestHealthCheckerReportsEachDependency(t *testing.T) {
	env := apptest.New(t, 0)
	checker := server.NewHealthChecker(env.App)

	checks, healthy := checker.Check(context.Background())
	assert.True(t, healthy)
	assert.Len(t, checks, 2)

	sqlDB, err := env.App.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	checks, healthy = checker.Check(context.Background())
	assert.False(t, healthy)
	assert.Contains(t, checks["database"], "down")
	assert.Equal(t, "up", checks["redis"])
}

func TestRouterFallbackEnvelopes(t *testing.T) {
	env := apptest.New(t, 0)
	h := env.Handler()

	rec := apptest.Do(t, h, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := apptest.Decode(t, rec, nil)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)

	rec = apptest.Do(t, h, http.MethodPost, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body = apptest.Decode(t, rec, nil)
	assert.False(t, body.Success)
	assert.Equal(t, "method not allowed", body.Message)
}

func TestErrorInterceptorMapsDomainErrors(t *testing.T) {
	intercept := server.ErrorInterceptor(logger.Discard())
	info := &grpc.UnaryServerInfo{FullMethod: "/swipe.Test/Call"}

	cases := []struct {
		err  error
		code codes.Code
	}{
		{svcErr.ErrNotFound, codes.NotFound},
		{fmt.Errorf("like: %w", svcErr.ErrAlreadyLiked), codes.AlreadyExists},
		{svcErr.ErrSelfInteraction, codes.InvalidArgument},
		{svcErr.ErrInvalidCredentials, codes.Unauthenticated},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{status.Error(codes.Unavailable, "draining"), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		t.Run(tc.code.String(), func(t *testing.T) {
			_, err := intercept(context.Background(), nil, info, func(context.Context, any) (any, error) {
				return nil, tc.err
			})
			assert.Equal(t, tc.code, status.Code(err))
		})
	}

	resp, err := intercept(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}
