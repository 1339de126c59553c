package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
	"github.com/sixjars/six_jars_app/internal/dto"
)

// JarReaderSvc defines read operations on jars.
type JarReaderSvc interface {
	// GetJarByID retrieves a jar, hiding jars of other users behind NotFound.
	GetJarByID(ctx context.Context, userID string, jarID string) (*domain.Jar, error)

	// ListJars retrieves the user's jars.
	ListJars(ctx context.Context, userID string, includeInactive bool) ([]domain.Jar, error)

	// RemainingPercentage returns 100 minus the sum of active jar percentages.
	RemainingPercentage(ctx context.Context, userID string) (decimal.Decimal, error)
}

// JarWriterSvc defines mutating operations on jars.
type JarWriterSvc interface {
	// CreateJar validates the percentage budget, derives the target amount
	// from the user's income and persists the jar with a zero balance.
	CreateJar(ctx context.Context, userID string, req dto.CreateJarRequest) (*domain.Jar, error)

	// UpdateJar applies a partial update, re-validating the percentage budget
	// against the other jars when the percentage changes.
	UpdateJar(ctx context.Context, userID string, jarID string, req dto.UpdateJarRequest) (*domain.Jar, error)

	// DeactivateJar soft-deletes a jar, freeing its percentage budget.
	DeactivateJar(ctx context.Context, userID string, jarID string) error

	// DeleteJar hard-deletes a jar; rejected when transactions reference it.
	DeleteJar(ctx context.Context, userID string, jarID string) error

	// CreateJarsFromTemplate atomically creates the fixed six-jar starter set
	// summing to exactly 100%, all-or-nothing.
	CreateJarsFromTemplate(ctx context.Context, userID string) ([]domain.Jar, error)
}

// JarSvcFacade combines all jar service interfaces.
type JarSvcFacade interface {
	JarReaderSvc
	JarWriterSvc
}
