// Package auth issues and validates the signed access tokens stored in a
// customer's session after login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSecret is the signing key the service falls back to when none is
// configured. It matches the key older deployments shipped with.
const DefaultSecret = "access"

// ErrInvalidToken is returned for tokens with a bad signature, an unexpected
// signing method, missing claims, or an expiry in the past.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the JWT claims carried by an access token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing key and token lifetime.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// Tokens issues and validates HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using cfg. A zero TTL defaults to one hour.
func NewTokens(cfg TokenConfig) *Tokens {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Tokens{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token bound to username, returning it with its expiry.
func (t *Tokens) Issue(username string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Validate checks the token's signature and expiry and returns its claims.
// Every failure is reported as ErrInvalidToken wrapping the parser's error.
func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
