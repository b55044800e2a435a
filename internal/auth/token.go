package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/mfourati/ordersync/internal/models"
)

const tokenLifetime = 24 * time.Hour

// AuthToken creates and verifies signed admin tokens.
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance with an HMAC key.
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

type claims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

// CreateToken issues a signed token for an admin login.
func (t *AuthToken) CreateToken(login string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Login: login,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	})

	return token.SignedString(t.key)
}

// VerifyToken parses and validates a token string.
func (t *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.key, nil
	})
	if err != nil {
		return nil, err
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	return &models.TokenPayload{Login: c.Login}, nil
}
