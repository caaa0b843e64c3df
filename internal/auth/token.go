package auth

import (
	"fmt"
	"time"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenInspector reads claims from backend-issued tokens. The gateway does
// not hold the backend's signing key, so signatures are not verified; the
// claims are only used to size the session cookie.
type TokenInspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewTokenInspector creates a new TokenInspector
func NewTokenInspector() *TokenInspector {
	return &TokenInspector{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// Claims parses token without verifying its signature
func (ti *TokenInspector) Claims(token string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	if _, _, err := ti.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// SessionMaxAge returns the number of seconds until token expires.
// It returns 0 when the token is opaque, has no exp claim or is already
// expired, which callers treat as a browser-session cookie.
func (ti *TokenInspector) SessionMaxAge(token string) int {
	claims, err := ti.Claims(token)
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}
	remaining := claims.ExpiresAt.Time.Sub(ti.now())
	if remaining <= 0 {
		return 0
	}
	return int(remaining / time.Second)
}
