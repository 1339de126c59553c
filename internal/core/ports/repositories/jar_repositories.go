package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
)

// JarReader defines read operations for jar data
type JarReader interface {
	// FindJarByID retrieves a specific jar by its ID.
	FindJarByID(ctx context.Context, jarID string) (*domain.Jar, error)

	// ListJarsByUser retrieves all jars belonging to a user, optionally
	// including deactivated ones.
	ListJarsByUser(ctx context.Context, userID string, includeInactive bool) ([]domain.Jar, error)

	// SumActivePercentages totals the percentage of the user's active jars,
	// excluding excludeJarID when non-empty (used on the update path).
	SumActivePercentages(ctx context.Context, userID string, excludeJarID string) (decimal.Decimal, error)
}

// JarWriter defines write operations for jar data.
//
// Implementations must serialize the percentage-sum check against concurrent
// writers for the same user (the pgsql implementation takes a per-user
// advisory transaction lock) and return apperrors.ErrBudgetExceeded when the
// invariant would be violated.
type JarWriter interface {
	// SaveJar persists a new jar after re-validating the percentage budget.
	SaveJar(ctx context.Context, jar domain.Jar) error

	// SaveJars persists a batch of jars all-or-nothing after validating the
	// whole batch's percentage sum against the user's existing jars.
	SaveJars(ctx context.Context, jars []domain.Jar) error

	// UpdateJar updates an existing jar, re-validating the percentage budget
	// with the jar itself excluded from the existing total.
	UpdateJar(ctx context.Context, jar domain.Jar) error

	// DeactivateJar flags a jar inactive, freeing its percentage budget.
	DeactivateJar(ctx context.Context, jarID string, updatedAt time.Time, updatedBy string) error

	// DeleteJar removes a jar. Returns apperrors.ErrConflict when
	// transactions still reference it.
	DeleteJar(ctx context.Context, jarID string) error
}

// JarRepositoryFacade combines all jar-related repository interfaces.
type JarRepositoryFacade interface {
	JarReader
	JarWriter
}
