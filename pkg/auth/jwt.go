// Package auth issues and verifies the signed identity tokens that gate
// every protected route. Tokens carry only the email claim — roles are
// re-resolved from the user collection on each guarded call, so a role
// change takes effect without reissuing the token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mobilemart/server/config"
)

var (
	// ErrMissingToken means no credential was presented at all.
	ErrMissingToken = errors.New("auth: no token presented")

	// ErrInvalidToken covers bad signatures, malformed tokens and
	// expired tokens alike.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims holds the typed JWT payload.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// Issue signs a token bound to email, valid for ttl.
func Issue(email string, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
	if err != nil {
		return "", fmt.Errorf("auth: sign: %w", err)
	}
	return token, nil
}

// Verify parses and validates a signed token string. Signature and
// expiry failures both map to ErrInvalidToken; the caller only needs to
// distinguish "no credential" from "bad credential".
func Verify(t string) (*Claims, error) {
	if t == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", tok.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
