package services

import (
	"context"

	"github.com/sixjars/six_jars_app/internal/core/domain"
	"github.com/sixjars/six_jars_app/internal/dto"
)

// ReportSvcFacade defines the monthly report engine operations.
type ReportSvcFacade interface {
	// GenerateReport snapshots live jar and transaction state into the draft
	// report for (year, month). Regeneration replaces an existing draft
	// wholesale; a finalized period is rejected with ErrAlreadyFinalized.
	GenerateReport(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error)

	// FinalizeReport locks the report; one-way transition.
	FinalizeReport(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error)

	// GetReport retrieves the report with its jar snapshots.
	GetReport(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error)

	// ListReports retrieves report headers, newest first.
	ListReports(ctx context.Context, userID string, params dto.ListReportsParams) ([]domain.MonthlyReport, error)

	// BuildPDFReportData reshapes a report for document export with
	// pre-formatted currency strings and a category spending breakdown.
	BuildPDFReportData(ctx context.Context, userID string, year, month int) (*domain.PDFReportData, error)

	// Overview aggregates the dashboard numbers for the current month.
	Overview(ctx context.Context, userID string) (*domain.Overview, error)
}
