// Package auth issues the service tokens accepted by the gateway's mutating routes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a token when none is given.
const DefaultTTL = 30 * 24 * time.Hour

// ErrNoSecret is returned when no signing secret is configured.
var ErrNoSecret = errors.New("auth: JWT secret is not configured")

// IssueToken creates a signed JWT for subject, typically the registry instance
// that will call the gateway.
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	if subject == "" {
		return "", errors.New("auth: subject is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
