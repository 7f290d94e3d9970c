package auth

import (
	"errors"
	"time"

	"portfolio-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, expired token, wrong claims shape. Verification is
// all-or-nothing; callers get no partial result.
var ErrInvalidToken = errors.New("auth: invalid token")

// Manager issues and verifies admin tokens. Verification is stateless so
// any process replica can validate a token issued elsewhere, as long as
// the signing secret matches.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
	}, nil
}

// Issue produces a signed credential for the given identity, expiring
// TTL (7 days by default) after now.
func (m *Manager) Issue(now time.Time, username string) (string, error) {
	if username == "" {
		return "", errors.New("auth: username is required")
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
		Username: username,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify checks signature, shape and expiry against now and returns the
// embedded identity. Any failure maps to ErrInvalidToken.
func (m *Manager) Verify(tokenString string, now time.Time) (string, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	if claims.Username == "" {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}
