package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/dto"
	"github.com/sixjars/six_jars_app/internal/utils/budgeting"
)

// sixJarTemplate is the fixed starter set: 55/10/10/10/5/10, summing to
// exactly 100%.
var sixJarTemplate = []domain.TemplateJar{
	{Name: "Necessities", Description: "Rent, food, bills and everything you cannot skip", Percentage: decimal.NewFromInt(55), Color: "#E74C3C", Icon: "home", Priority: domain.PriorityHigh, Category: "Essential"},
	{Name: "Financial Freedom", Description: "Investments and assets that generate passive income", Percentage: decimal.NewFromInt(10), Color: "#F1C40F", Icon: "trending-up", Priority: domain.PriorityHigh, Category: "Investment"},
	{Name: "Long Term Savings", Description: "Big purchases and emergencies", Percentage: decimal.NewFromInt(10), Color: "#3498DB", Icon: "piggy-bank", Priority: domain.PriorityMedium, Category: "Savings"},
	{Name: "Education", Description: "Books, courses and personal growth", Percentage: decimal.NewFromInt(10), Color: "#9B59B6", Icon: "book", Priority: domain.PriorityMedium, Category: "Growth"},
	{Name: "Give", Description: "Charity and gifts", Percentage: decimal.NewFromInt(5), Color: "#2ECC71", Icon: "gift", Priority: domain.PriorityLow, Category: "Giving"},
	{Name: "Play", Description: "Fun money, guilt free", Percentage: decimal.NewFromInt(10), Color: "#E67E22", Icon: "smile", Priority: domain.PriorityLow, Category: "Lifestyle"},
}

// jarService implements the Jar Registry: CRUD plus the percentage-budget
// invariant.
type jarService struct {
	BaseService
	jarRepo  portsrepo.JarRepositoryFacade
	userRepo portsrepo.UserReader
	txnRepo  portsrepo.TransactionReader
}

// NewJarService creates a new JarService.
func NewJarService(jarRepo portsrepo.JarRepositoryFacade, userRepo portsrepo.UserReader, txnRepo portsrepo.TransactionReader) portssvc.JarSvcFacade {
	return &jarService{
		jarRepo:  jarRepo,
		userRepo: userRepo,
		txnRepo:  txnRepo,
	}
}

var _ portssvc.JarSvcFacade = (*jarService)(nil)

// validatePercentageRange enforces 0 < p <= 100 before any budget check.
func validatePercentageRange(p decimal.Decimal) error {
	if p.LessThanOrEqual(decimal.Zero) || p.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: percentage must be greater than 0 and at most 100, got %s", apperrors.ErrValidation, p.String())
	}
	return nil
}

// CreateJar validates the percentage budget against the user's other active
// jars, derives the target amount from monthly income and persists the jar.
func (s *jarService) CreateJar(ctx context.Context, userID string, req dto.CreateJarRequest) (*domain.Jar, error) {
	if err := validatePercentageRange(req.Percentage); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for jar creation: %w", err)
	}

	existingTotal, err := s.jarRepo.SumActivePercentages(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to sum jar percentages: %w", err)
	}
	if !budgeting.IsPercentageValid(req.Percentage, existingTotal, decimal.Zero) {
		return nil, fmt.Errorf("%w: %s%% requested but only %s%% remaining",
			apperrors.ErrBudgetExceeded, req.Percentage.String(), budgeting.RemainingPercentage(existingTotal).String())
	}

	now := time.Now().UTC()
	jar := domain.Jar{
		JarID:         uuid.NewString(),
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		Percentage:    req.Percentage,
		TargetAmount:  budgeting.ComputeTarget(user.MonthlyIncome, req.Percentage),
		CurrentAmount: decimal.Zero,
		Color:         req.Color,
		Icon:          req.Icon,
		Priority:      req.Priority,
		Category:      req.Category,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// The repository re-checks the budget under a per-user lock; the check
	// above exists to fail fast with a friendly remaining figure.
	if err := s.jarRepo.SaveJar(ctx, jar); err != nil {
		s.LogError(ctx, err, "Failed to save jar", slog.String("jar_name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Jar created", slog.String("jar_id", jar.JarID), slog.String("jar_name", jar.Name))
	return &jar, nil
}

// GetJarByID retrieves a jar, hiding other users' jars behind NotFound.
func (s *jarService) GetJarByID(ctx context.Context, userID string, jarID string) (*domain.Jar, error) {
	jar, err := s.jarRepo.FindJarByID(ctx, jarID)
	if err != nil {
		return nil, err
	}
	if jar.UserID != userID {
		// Obscure existence
		return nil, apperrors.ErrNotFound
	}
	return jar, nil
}

// ListJars retrieves the user's jars.
func (s *jarService) ListJars(ctx context.Context, userID string, includeInactive bool) ([]domain.Jar, error) {
	return s.jarRepo.ListJarsByUser(ctx, userID, includeInactive)
}

// RemainingPercentage returns 100 minus the sum of active jar percentages.
func (s *jarService) RemainingPercentage(ctx context.Context, userID string) (decimal.Decimal, error) {
	existingTotal, err := s.jarRepo.SumActivePercentages(ctx, userID, "")
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum jar percentages: %w", err)
	}
	return budgeting.RemainingPercentage(existingTotal), nil
}

// UpdateJar applies a partial update. When the percentage changes the budget
// is re-validated with this jar excluded from the existing total, and the
// target amount is re-derived from the user's income.
func (s *jarService) UpdateJar(ctx context.Context, userID string, jarID string, req dto.UpdateJarRequest) (*domain.Jar, error) {
	jar, err := s.GetJarByID(ctx, userID, jarID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		jar.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		jar.Description = *req.Description
		updated = true
	}
	if req.Color != nil {
		jar.Color = *req.Color
		updated = true
	}
	if req.Icon != nil {
		jar.Icon = *req.Icon
		updated = true
	}
	if req.Priority != nil {
		jar.Priority = *req.Priority
		updated = true
	}
	if req.Category != nil {
		jar.Category = *req.Category
		updated = true
	}
	if req.IsActive != nil {
		jar.IsActive = *req.IsActive
		updated = true
	}

	if req.Percentage != nil {
		if err := validatePercentageRange(*req.Percentage); err != nil {
			return nil, err
		}

		existingTotal, err := s.jarRepo.SumActivePercentages(ctx, userID, jarID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum jar percentages: %w", err)
		}
		// The jar being edited is already excluded from existingTotal, so
		// the excluded share passed to the shared predicate is zero.
		if !budgeting.IsPercentageValid(*req.Percentage, existingTotal, decimal.Zero) {
			return nil, fmt.Errorf("%w: %s%% requested but only %s%% remaining",
				apperrors.ErrBudgetExceeded, req.Percentage.String(), budgeting.RemainingPercentage(existingTotal).String())
		}

		user, err := s.userRepo.FindUserByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user for target recomputation: %w", err)
		}

		jar.Percentage = *req.Percentage
		jar.TargetAmount = budgeting.ComputeTarget(user.MonthlyIncome, *req.Percentage)
		updated = true
	}

	if !updated {
		return jar, nil
	}

	now := time.Now().UTC()
	jar.LastUpdatedAt = now
	jar.LastUpdatedBy = userID

	if err := s.jarRepo.UpdateJar(ctx, *jar); err != nil {
		s.LogError(ctx, err, "Failed to update jar", slog.String("jar_id", jarID))
		return nil, err
	}

	s.LogInfo(ctx, "Jar updated", slog.String("jar_id", jarID))
	return jar, nil
}

// DeactivateJar soft-deletes a jar. Freeing budget is always safe, so no
// percentage validation happens here.
func (s *jarService) DeactivateJar(ctx context.Context, userID string, jarID string) error {
	if _, err := s.GetJarByID(ctx, userID, jarID); err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := s.jarRepo.DeactivateJar(ctx, jarID, now, userID); err != nil {
		s.LogError(ctx, err, "Failed to deactivate jar", slog.String("jar_id", jarID))
		return err
	}
	s.LogInfo(ctx, "Jar deactivated", slog.String("jar_id", jarID))
	return nil
}

// DeleteJar hard-deletes a jar. Jars that transactions still reference are
// never hard-deleted so report snapshots and history keep resolving; callers
// get ErrConflict and should deactivate instead.
func (s *jarService) DeleteJar(ctx context.Context, userID string, jarID string) error {
	if _, err := s.GetJarByID(ctx, userID, jarID); err != nil {
		return err
	}

	count, err := s.txnRepo.CountTransactionsByJar(ctx, jarID)
	if err != nil {
		return fmt.Errorf("failed to count jar transactions: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: jar has %d transactions, deactivate it instead", apperrors.ErrConflict, count)
	}

	if err := s.jarRepo.DeleteJar(ctx, jarID); err != nil {
		s.LogError(ctx, err, "Failed to delete jar", slog.String("jar_id", jarID))
		return err
	}
	s.LogInfo(ctx, "Jar deleted", slog.String("jar_id", jarID))
	return nil
}

// CreateJarsFromTemplate atomically creates the fixed six-jar set. The whole
// batch is validated up front and committed all-or-nothing; no partial sets
// can appear under concurrent calls.
func (s *jarService) CreateJarsFromTemplate(ctx context.Context, userID string) ([]domain.Jar, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for template creation: %w", err)
	}

	existingTotal, err := s.jarRepo.SumActivePercentages(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to sum jar percentages: %w", err)
	}

	batchTotal := decimal.Zero
	for _, tpl := range sixJarTemplate {
		batchTotal = batchTotal.Add(tpl.Percentage)
	}
	if !budgeting.IsPercentageValid(batchTotal, existingTotal, decimal.Zero) {
		return nil, fmt.Errorf("%w: template needs %s%% but only %s%% remaining",
			apperrors.ErrBudgetExceeded, batchTotal.String(), budgeting.RemainingPercentage(existingTotal).String())
	}

	now := time.Now().UTC()
	jars := make([]domain.Jar, len(sixJarTemplate))
	for i, tpl := range sixJarTemplate {
		jars[i] = domain.Jar{
			JarID:         uuid.NewString(),
			UserID:        userID,
			Name:          tpl.Name,
			Description:   tpl.Description,
			Percentage:    tpl.Percentage,
			TargetAmount:  budgeting.ComputeTarget(user.MonthlyIncome, tpl.Percentage),
			CurrentAmount: decimal.Zero,
			Color:         tpl.Color,
			Icon:          tpl.Icon,
			Priority:      tpl.Priority,
			Category:      tpl.Category,
			IsActive:      true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	if err := s.jarRepo.SaveJars(ctx, jars); err != nil {
		if errors.Is(err, apperrors.ErrBudgetExceeded) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save template jars")
		return nil, fmt.Errorf("failed to save template jars: %w", err)
	}

	s.LogInfo(ctx, "Template jars created", slog.Int("count", len(jars)))
	return jars, nil
}
