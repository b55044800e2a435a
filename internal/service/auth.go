package service

import (
	"context"
	"crypto/subtle"

	"github.com/mfourati/ordersync/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the administrator against the configured
// credential and issues auth tokens.
type AuthService struct {
	adminLogin        string
	adminPasswordHash string
	token             TokenService
}

// NewAuthService creates new AuthService instance
func NewAuthService(adminLogin, adminPasswordHash string, token TokenService) *AuthService {
	return &AuthService{
		adminLogin:        adminLogin,
		adminPasswordHash: adminPasswordHash,
		token:             token,
	}
}

// Login verifies the admin credential and returns a signed token.
func (as *AuthService) Login(ctx context.Context, login, password string) (string, error) {
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(as.adminLogin)) == 1
	passwordOK := bcrypt.CompareHashAndPassword([]byte(as.adminPasswordHash), []byte(password)) == nil
	if !loginOK || !passwordOK {
		return "", models.ErrInvalidCredentials
	}

	return as.token.CreateToken(login)
}
