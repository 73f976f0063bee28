// Package middleware provides the HTTP middleware chain of the API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/oggyb/swipe-match/internal/auth"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/logger"
	"github.com/oggyb/swipe-match/internal/utils/response"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	claimsKey
	requestIDKey
)

// RevocationChecker answers whether a token id was logged out.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth authenticates requests with a bearer JWT and threads the user id
// through the request context.
type Auth struct {
	tokens  *auth.TokenManager
	revoked RevocationChecker
}

// NewAuth creates the authentication middleware. revoked may be nil.
func NewAuth(tokens *auth.TokenManager, revoked RevocationChecker) *Auth {
	return &Auth{tokens: tokens, revoked: revoked}
}

// Handler rejects requests without a valid, unrevoked token with 401.
func (a *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Error(w, r, svcErr.ErrUnauthorized)
			return
		}

		claims, err := a.tokens.Parse(parts[1])
		if err != nil {
			logger.Debug("token validation failed", "err", err, "path", r.URL.Path)
			response.Error(w, r, svcErr.ErrUnauthorized)
			return
		}

		if a.revoked != nil {
			revoked, err := a.revoked.IsTokenRevoked(r.Context(), claims.ID)
			if err != nil {
				response.Error(w, r, err)
				return
			}
			if revoked {
				response.Error(w, r, svcErr.ErrUnauthorized)
				return
			}
		}

		userID, _ := claims.UserID()
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id, if any.
func UserID(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(userIDKey).(uint64)
	return id, ok && id != 0
}

// ClaimsFrom returns the verified token claims, if any.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// WithUserID is used by tests and internal callers to act as a user.
func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
