package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// tampered payload, or elapsed expiry. Callers never learn which.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer creates and verifies signed session tokens bound to a user
// identity. The secret and lifetime come from configuration; the issuer
// holds no other state.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime (used to mirror the cookie expiry).
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

type SessionClaims struct {
	jwt.RegisteredClaims
}

// Issue produces a signed HS256 token carrying the subject and issued-at,
// expiring after the configured lifetime.
func (t *TokenIssuer) Issue(subject string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(t.ttl)
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(t.secret)
	return s, exp, err
}

// Verify checks signature and expiry and returns the embedded claims.
func (t *TokenIssuer) Verify(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
