package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/dto"
)

// userService implements the user profile operations.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user by their ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// UpdateUser applies a partial profile update.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidation)
		}
		user.Name = *req.Name
		updated = true
	}
	if req.CurrencyCode != nil {
		user.CurrencyCode = strings.ToUpper(*req.CurrencyCode)
		updated = true
	}

	if !updated {
		return user, nil
	}

	now := time.Now().UTC()
	user.LastUpdatedAt = now
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user")
		return nil, err
	}

	s.LogInfo(ctx, "User updated")
	return user, nil
}

// UpdateIncome stores the new monthly income and refreshes every active
// jar's cached target in one database transaction. Finalized report
// snapshots keep the income they were generated with.
func (s *userService) UpdateIncome(ctx context.Context, userID string, income decimal.Decimal) (*domain.User, error) {
	if income.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: monthly income cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateIncome(ctx, userID, income, now); err != nil {
		s.LogError(ctx, err, "Failed to update income")
		return nil, err
	}

	s.LogInfo(ctx, "Income updated", slog.String("monthly_income", income.String()))
	return s.userRepo.FindUserByID(ctx, userID)
}
