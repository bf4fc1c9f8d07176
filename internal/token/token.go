// Package token issues and verifies the signed credentials that carry a
// user identity between requests. Tokens are HS256 JWTs whose subject is
// the user id; nothing is persisted.
package token

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any credential that fails verification:
// bad signature, wrong signing method, expired, or missing subject.
var ErrInvalidToken = errors.New("invalid token")

// Codec signs and verifies credentials with a process-wide secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec constructs a Codec. ttl is the lifetime of issued tokens.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed credential embedding the user id and expiry.
func (c *Codec) Issue(userID int) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
func (c *Codec) Verify(tokenString string) (int, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
	if err != nil || userID < 1 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
