// Package auth issues and verifies the bearer tokens of the API.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/swipe-match/internal/config"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
)

// Claims are the JWT claims of an access token. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id.
func (c *Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// TTL is the remaining lifetime of the token.
func (c *Claims) TTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// TokenManager signs HS256 tokens with a shared secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenManager builds a manager from the auth config.
func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Auth.JWTSecret),
		ttl:    cfg.Auth.TokenTTL,
		issuer: cfg.Auth.Issuer,
		now:    time.Now,
	}
}

// Issue creates a signed token for userID with a fresh token id.
func (m *TokenManager) Issue(userID uint64) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(userID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, claims, nil
}

// Parse verifies signature, issuer and expiry. Any failure is ErrUnauthorized.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", svcErr.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, svcErr.ErrUnauthorized
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", svcErr.ErrUnauthorized)
	}
	return claims, nil
}

// HashPassword hashes a plain password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports ErrInvalidCredentials when password does not match hash.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return svcErr.ErrInvalidCredentials
	}
	return err
}
