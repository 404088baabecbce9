package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "HS256", time.Hour)

	token, err := m.GenerateToken("session-1", 42)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID())
	assert.Equal(t, uint(42), claims.UserID)
}

func TestJWTManagerRejects(t *testing.T) {
	m := NewJWTManager("secret", "HS256", time.Hour)
	token, err := m.GenerateToken("session-1", 42)
	require.NoError(t, err)

	other := NewJWTManager("other-secret", "HS256", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err, "wrong key")

	_, err = m.ValidateToken(token + "x")
	assert.Error(t, err, "tampered signature")

	expired := NewJWTManager("secret", "HS256", -time.Minute)
	old, err := expired.GenerateToken("session-2", 7)
	require.NoError(t, err)
	_, err = m.ValidateToken(old)
	assert.Error(t, err, "expired")

	hs512 := NewJWTManager("secret", "HS512", time.Hour)
	other512, err := hs512.GenerateToken("session-3", 1)
	require.NoError(t, err)
	_, err = m.ValidateToken(other512)
	assert.Error(t, err, "algorithm mismatch")
}
