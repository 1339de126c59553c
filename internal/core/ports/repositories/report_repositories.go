package repositories

import (
	"context"
	"time"

	"github.com/sixjars/six_jars_app/internal/core/domain"
)

// ListReportsFilter narrows report listings.
type ListReportsFilter struct {
	Year  *int
	Month *int
	Limit int
}

// ReportReader defines read operations for monthly report data
type ReportReader interface {
	// FindReportByPeriod retrieves the report header for (userID, year, month).
	FindReportByPeriod(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error)

	// FindReportDetail retrieves the report with its jar report snapshots.
	FindReportDetail(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error)

	// ListReports retrieves report headers in reverse-chronological order.
	ListReports(ctx context.Context, userID string, filter ListReportsFilter) ([]domain.MonthlyReport, error)
}

// ReportWriter defines write operations for monthly report data.
type ReportWriter interface {
	// SaveReport upserts the draft report for its (userID, year, month)
	// period, replacing any existing draft's jar snapshots wholesale in one
	// database transaction. Returns apperrors.ErrAlreadyFinalized when a
	// finalized report exists for the period.
	SaveReport(ctx context.Context, report domain.MonthlyReport) error

	// FinalizeReport flips is_finalized false -> true with a compare-and-set
	// so two concurrent calls cannot both succeed. Returns
	// apperrors.ErrNotFound when no report exists for the period and
	// apperrors.ErrAlreadyFinalized when it is already locked.
	FinalizeReport(ctx context.Context, userID string, year, month int, finalizedAt time.Time, finalizedBy string) error
}

// ReportRepositoryFacade combines all report-related repository interfaces.
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}
