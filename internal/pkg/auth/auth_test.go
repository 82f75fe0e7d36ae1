package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func TestHashPassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)
	assert.True(t, CheckPassword(hash, "Secret123"))
	assert.False(t, CheckPassword(hash, "secret123"))

	other, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "k", SessionExp: time.Hour, Issuer: "coursehub.test"})

	token, exp, err := svc.IssueSessionToken("sess-1", 42, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID())
	assert.Equal(t, int64(42), claims.UserID)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "k", SessionExp: time.Hour, Issuer: "coursehub.test"})

	expired, _, err := svc.IssueSessionToken("sess-1", 1, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	other := NewJWTService(JWTConfig{SecretKey: "other", SessionExp: time.Hour, Issuer: "coursehub.test"})
	forged, _, err := other.IssueSessionToken("sess-1", 1, time.Now())
	require.NoError(t, err)
	_, err = svc.ValidateToken(forged)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, err = ExtractBearerToken("\"abc.def.ghi\"")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	_, err = ExtractBearerToken("  ")
	assert.Error(t, err)
}
