// Package token issues and verifies the service's own session tokens.
// Access and refresh tokens are signed with independent secrets so a leaked
// secret only compromises one token class.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 7 * 24 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
)

// Payload is the claim set carried by both token classes.
type Payload struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type claims struct {
	Payload
	jwt.RegisteredClaims
}

// Issuer signs payloads with a fixed secret and TTL.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) Issuer {
	return Issuer{secret: []byte(secret), ttl: ttl}
}

func (i Issuer) Issue(p Payload) (string, error) {
	now := time.Now()
	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Payload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tk, nil
}

// Verify decodes a token against the given secret. It returns ErrExpired for
// tokens past their expiry and ErrInvalid for any other verification
// failure.
func Verify(tokenStr, secret string) (Payload, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Payload{}, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return c.Payload, nil
}
