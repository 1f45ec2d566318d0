package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "journal-terminal"

var ErrInvalidToken = errors.New("invalid device token")

// DeviceClaims identify a terminal install. They scope prefs and cached images; they carry
// no user identity.
type DeviceClaims struct {
	jwt.RegisteredClaims
}

func SignDevice(deviceID, secret string, ttl time.Duration) (string, error) {
	if deviceID == "" {
		return "", fmt.Errorf("empty device id")
	}
	now := time.Now()
	claims := DeviceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   deviceID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseDevice verifies the token and returns the device id.
func ParseDevice(tokenStr, secret string) (string, error) {
	var claims DeviceClaims
	tok, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
