package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "parking", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "a@b.c", RoleUser)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleUser, claims.Role)
}

func TestJWTManager_RejectsRefreshAsAccess(t *testing.T) {
	m := NewJWTManager("secret", "parking", time.Minute, time.Hour)
	token, err := m.GenerateRefreshToken(uuid.New(), "", RoleUser)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsWrongSecretAndExpired(t *testing.T) {
	issuer := NewJWTManager("secret", "parking", time.Minute, time.Hour)
	other := NewJWTManager("other", "parking", time.Minute, time.Hour)
	token, err := issuer.GenerateAccessToken(uuid.New(), "", RoleUser)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTManager("secret", "parking", -time.Minute, time.Hour)
	token, err = expired.GenerateAccessToken(uuid.New(), "", RoleUser)
	require.NoError(t, err)
	_, err = issuer.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
