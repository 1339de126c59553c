package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/dto"
	"github.com/sixjars/six_jars_app/internal/platform/config"
	"github.com/sixjars/six_jars_app/internal/utils"
)

// authService implements registration and login. Session state lives
// entirely in the issued JWT.
type authService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Register creates a new account with a zero income and the configured
// default currency. The email must not already be registered.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:        userID,
		Name:          req.Name,
		Email:         email,
		PasswordHash:  hash,
		MonthlyIncome: decimal.Zero,
		CurrencyCode:  s.cfg.DefaultCurrency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save user during registration")
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// Login verifies the credentials and returns a signed access token. Bad
// email and bad password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return "", nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.LogWarn(ctx, "Login failed", slog.String("user_id", user.UserID))
		return "", nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return token, user, nil
}
