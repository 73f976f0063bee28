package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/testutil"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager(testutil.Config())

	token, issued, err := m.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, issued.ID, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.TTL(time.Now()).Seconds(), 5)
}

func TestParseRejects(t *testing.T) {
	cfg := testutil.Config()
	m := NewTokenManager(cfg)
	token, _, err := m.Issue(1)
	require.NoError(t, err)

	// tampered
	_, err = m.Parse(token + "x")
	assert.ErrorIs(t, err, svcErr.ErrUnauthorized)

	// other secret
	other := testutil.Config()
	other.Auth.JWTSecret = "another-secret"
	_, err = NewTokenManager(other).Parse(token)
	assert.ErrorIs(t, err, svcErr.ErrUnauthorized)

	// expired
	expired := NewTokenManager(cfg)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(1)
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.ErrorIs(t, err, svcErr.ErrUnauthorized)

	_, err = m.Parse("")
	assert.ErrorIs(t, err, svcErr.ErrUnauthorized)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "secret-pass"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), svcErr.ErrInvalidCredentials)
}
