package ports

import "github.com/boltauto/garage_microservice/internal/core/domain"

type TokenService interface {
	VerifyToken(token string) (*domain.TokenPayload, error)
}
