package usecase

import (
	"taskbridge-server/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator resolves a bearer token to the authenticated user. Identity
// lives in an external provider; the booking core only checks signatures.
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

type jwtTokenValidator struct {
	svc *jwt.Service
}

func NewTokenValidator(svc *jwt.Service) TokenValidator {
	return &jwtTokenValidator{svc: svc}
}

func (v *jwtTokenValidator) ValidateToken(token string) (uuid.UUID, error) {
	claims, err := v.svc.ValidateToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}
