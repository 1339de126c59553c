package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
	"github.com/sixjars/six_jars_app/internal/dto"
)

// UserSvcFacade defines the user profile operations.
type UserSvcFacade interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// UpdateIncome stores the new monthly income and recomputes every active
	// jar's cached target amount. Historical finalized reports keep the
	// income figure they were generated with.
	UpdateIncome(ctx context.Context, userID string, income decimal.Decimal) (*domain.User, error)
}
