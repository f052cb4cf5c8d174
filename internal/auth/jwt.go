package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var sessionSecret []byte

// SetSecret sets the cookie signing key (e.g., from config)
func SetSecret(secret string) {
	sessionSecret = []byte(secret)
}

// Claims represents the signed session cookie payload. The token inside
// is only an index into the server-side SessionStore; a valid signature
// on its own never authenticates anyone.
type Claims struct {
	SessionToken string `json:"session_token"`
	jwt.RegisteredClaims
}

// SignToken wraps a session token in a signed cookie value. Sessions
// live until process restart, so no expiry claim is set.
func SignToken(sessionToken string) (string, error) {
	if len(sessionSecret) == 0 {
		return "", errors.New("session secret not set")
	}

	claims := Claims{
		SessionToken: sessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret)
}

// VerifyToken checks the cookie signature and recovers the session token
func VerifyToken(cookieValue string) (string, error) {
	if len(sessionSecret) == 0 {
		return "", errors.New("session secret not set")
	}

	token, err := jwt.ParseWithClaims(cookieValue, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return sessionSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid session cookie")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	return claims.SessionToken, nil
}
