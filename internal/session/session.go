// Package session carries the browser's session as an explicit,
// request-scoped context object instead of an ambient singleton.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired is returned for tokens whose expiry has already passed.
var ErrExpired = errors.New("session token expired")

// Session is the user context handed down with each request. Claims are
// decoded for display and early expiry checks only; the clinic backend
// stays authoritative and verifies the token itself.
type Session struct {
	Token     string
	UserID    string
	Role      string
	ExpiresAt time.Time
}

type sessionClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// FromToken decodes a bearer token into a Session. The signature is not
// verified; the gateway holds no signing key and only forwards the token.
func FromToken(token string, now time.Time) (*Session, error) {
	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("decode session token: %w", err)
	}

	s := &Session{Token: token, UserID: claims.UserID, Role: claims.Role}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
		if !s.ExpiresAt.After(now) {
			return nil, ErrExpired
		}
	}
	return s, nil
}

type ctxKey struct{}

// NewContext returns ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extracts the session from ctx, if one is present.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
