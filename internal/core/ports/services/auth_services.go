package services

import (
	"context"

	"github.com/sixjars/six_jars_app/internal/core/domain"
	"github.com/sixjars/six_jars_app/internal/dto"
)

// AuthSvcFacade defines registration and login. Session state lives entirely
// in the issued JWT; the core services only ever see the userID extracted
// from it by the middleware.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and returns a signed access token.
	Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error)
}
