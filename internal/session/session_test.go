package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestFromToken(t *testing.T) {
	now := time.Date(2025, time.January, 10, 10, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{
		"userId": "user-42",
		"role":   "patient",
		"exp":    now.Add(time.Hour).Unix(),
	})

	s, err := FromToken(token, now)
	require.NoError(t, err)
	assert.Equal(t, token, s.Token)
	assert.Equal(t, "user-42", s.UserID)
	assert.Equal(t, "patient", s.Role)
	assert.Equal(t, now.Add(time.Hour).Unix(), s.ExpiresAt.Unix())
}

func TestFromToken_Expired(t *testing.T) {
	now := time.Date(2025, time.January, 10, 10, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{
		"userId": "user-42",
		"exp":    now.Add(-time.Minute).Unix(),
	})

	_, err := FromToken(token, now)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestFromToken_NoExpiry(t *testing.T) {
	now := time.Date(2025, time.January, 10, 10, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{"userId": "user-42"})

	s, err := FromToken(token, now)
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.IsZero())
}

func TestFromToken_Garbage(t *testing.T) {
	_, err := FromToken("not-a-token", time.Now())
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	s := &Session{Token: "tok", UserID: "user-42"}
	ctx := NewContext(context.Background(), s)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, s, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
