package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, used by the login flow.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's profile details.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateIncome stores the new monthly income and recomputes the cached
	// target amount of every active jar belonging to the user in the same
	// database transaction. Finalized report snapshots are never touched.
	UpdateIncome(ctx context.Context, userID string, income decimal.Decimal, updatedAt time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
