package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/techincepto/portal-backend/internal/model"
)

// Session token failures. Callers treat both as "not authenticated".
var (
	ErrTokenMalformed = errors.New("session token malformed or forged")
	ErrTokenExpired   = errors.New("session token expired")
)

// SessionClaims is the payload of an admin session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	AdminID  string `json:"adminId"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// SessionCodec signs and verifies admin session tokens (HS256).
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionCodec creates a codec with the shared secret and token lifetime.
func NewSessionCodec(secret string, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (c *SessionCodec) WithClock(now func() time.Time) *SessionCodec {
	c.now = now
	return c
}

// TTL is the lifetime of issued tokens.
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for p that expires after the configured TTL.
func (c *SessionCodec) Issue(p model.AdminPrincipal) (string, error) {
	now := c.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.AdminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		AdminID:  p.AdminID,
		Role:     p.Role,
		Username: p.Username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded principal.
func (c *SessionCodec) Verify(tokenStr string) (*model.AdminPrincipal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.AdminID == "" {
		return nil, ErrTokenMalformed
	}

	return &model.AdminPrincipal{
		AdminID:  claims.AdminID,
		Role:     claims.Role,
		Username: claims.Username,
	}, nil
}
