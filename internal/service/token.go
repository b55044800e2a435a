package service

import "github.com/mfourati/ordersync/internal/models"

type TokenService interface {
	CreateToken(login string) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}
