package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/dto"
	"github.com/sixjars/six_jars_app/internal/utils"
	"github.com/sixjars/six_jars_app/internal/utils/budgeting"
)

const (
	defaultReportPageSize = 12
	maxReportPageSize     = 60
)

// reportService implements the monthly report engine: snapshot generation,
// finalization, the PDF projection and the dashboard overview.
type reportService struct {
	BaseService
	reportRepo portsrepo.ReportRepositoryFacade
	jarRepo    portsrepo.JarReader
	txnRepo    portsrepo.TransactionReader
	userRepo   portsrepo.UserReader
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo portsrepo.ReportRepositoryFacade, jarRepo portsrepo.JarReader, txnRepo portsrepo.TransactionReader, userRepo portsrepo.UserReader) portssvc.ReportSvcFacade {
	return &reportService{
		reportRepo: reportRepo,
		jarRepo:    jarRepo,
		txnRepo:    txnRepo,
		userRepo:   userRepo,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

func validatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12, got %d", apperrors.ErrValidation, month)
	}
	if year < 2000 || year > 2200 {
		return fmt.Errorf("%w: year %d is out of range", apperrors.ErrValidation, year)
	}
	return nil
}

// periodBounds returns the [from, to) UTC window of a calendar month.
func periodBounds(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// GenerateReport snapshots live jar and transaction state into the draft
// report for (year, month). A regenerated draft is replaced wholesale; a
// finalized period is rejected.
func (s *reportService) GenerateReport(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	existing, err := s.reportRepo.FindReportByPeriod(ctx, userID, year, month)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsFinalized {
		return nil, fmt.Errorf("%w: report for %04d-%02d is finalized", apperrors.ErrAlreadyFinalized, year, month)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for report generation: %w", err)
	}

	// Inactive jars are included so postings against since-deactivated jars
	// still land in a snapshot row; they just carry a zero allocation.
	jars, err := s.jarRepo.ListJarsByUser(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load jars for report generation: %w", err)
	}

	from, to := periodBounds(year, month)
	txns, err := s.txnRepo.ListTransactionsForPeriod(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for report generation: %w", err)
	}

	byJar := make(map[string][]domain.Transaction)
	for _, txn := range txns {
		byJar[txn.JarID] = append(byJar[txn.JarID], txn)
	}

	totalAllocated := decimal.Zero
	totalSpent := decimal.Zero
	totalSavings := decimal.Zero
	jarReports := make([]domain.JarReport, 0, len(jars))

	for _, jar := range jars {
		jarTxns := byJar[jar.JarID]
		if !jar.IsActive && len(jarTxns) == 0 {
			continue
		}

		allocated := decimal.Zero
		if jar.IsActive {
			allocated = jar.TargetAmount
			totalAllocated = totalAllocated.Add(allocated)
		}

		spent := decimal.Zero
		income := decimal.Zero
		for _, txn := range jarTxns {
			if txn.Type == domain.Expense {
				spent = spent.Add(txn.Amount)
			} else {
				income = income.Add(txn.Amount)
			}
		}

		// Income postings are reported per jar but do not enter savings;
		// carry-over tracks unspent allocation only.
		savings := allocated.Sub(spent)
		savingsPct := "0"
		if allocated.GreaterThan(decimal.Zero) {
			savingsPct = savings.Div(allocated).Mul(decimal.NewFromInt(100)).Round(2).String()
		}

		totalSpent = totalSpent.Add(spent)
		totalSavings = totalSavings.Add(savings)

		jarReports = append(jarReports, domain.JarReport{
			JarID:             jar.JarID,
			JarName:           jar.Name,
			AllocatedAmount:   allocated,
			ActualSpent:       spent,
			ActualIncome:      income,
			Savings:           savings,
			SavingsPercentage: savingsPct,
			Transactions:      jarTxns,
		})
	}

	carryIn := decimal.Zero
	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}
	prev, err := s.reportRepo.FindReportByPeriod(ctx, userID, prevYear, prevMonth)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if prev != nil {
		carryIn = prev.CarryOverToNextMonth
	}

	now := time.Now().UTC()
	report := domain.MonthlyReport{
		ReportID:                   uuid.NewString(),
		UserID:                     userID,
		Year:                       year,
		Month:                      month,
		UserIncome:                 user.MonthlyIncome,
		TotalAllocated:             totalAllocated,
		TotalSpent:                 totalSpent,
		TotalSavings:               totalSavings,
		CarryOverFromPreviousMonth: carryIn,
		CarryOverToNextMonth:       carryIn.Add(totalSavings),
		IsFinalized:                false,
		JarReports:                 jarReports,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if existing != nil {
		// Keep the draft's identity and creation audit stable across
		// regenerations.
		report.ReportID = existing.ReportID
		report.CreatedAt = existing.CreatedAt
		report.CreatedBy = existing.CreatedBy
	}

	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		s.LogError(ctx, err, "Failed to save report",
			slog.Int("year", year), slog.Int("month", month))
		return nil, err
	}

	s.LogInfo(ctx, "Report generated",
		slog.String("report_id", report.ReportID),
		slog.Int("year", year), slog.Int("month", month),
		slog.Int("jar_count", len(jarReports)))
	return &report, nil
}

// FinalizeReport locks the report for (year, month). One-way transition; the
// repository's compare-and-set guarantees only one caller wins.
func (s *reportService) FinalizeReport(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.reportRepo.FinalizeReport(ctx, userID, year, month, now, userID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Report finalized", slog.Int("year", year), slog.Int("month", month))
	return s.reportRepo.FindReportDetail(ctx, userID, year, month)
}

// GetReport retrieves the report with its jar snapshots.
func (s *reportService) GetReport(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	return s.reportRepo.FindReportDetail(ctx, userID, year, month)
}

// ListReports retrieves report headers, newest first.
func (s *reportService) ListReports(ctx context.Context, userID string, params dto.ListReportsParams) ([]domain.MonthlyReport, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultReportPageSize
	}
	if limit > maxReportPageSize {
		limit = maxReportPageSize
	}
	return s.reportRepo.ListReports(ctx, userID, portsrepo.ListReportsFilter{
		Year:  params.Year,
		Month: params.Month,
		Limit: limit,
	})
}

// BuildPDFReportData reshapes a report for document export: every amount
// pre-formatted in the user's currency plus an expense-only category
// breakdown sorted by amount.
func (s *reportService) BuildPDFReportData(ctx context.Context, userID string, year, month int) (*domain.PDFReportData, error) {
	report, err := s.GetReport(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for report export: %w", err)
	}
	cc := user.CurrencyCode

	data := &domain.PDFReportData{
		Period:         fmt.Sprintf("%04d-%02d", report.Year, report.Month),
		UserIncome:     utils.FormatWithCurrency(report.UserIncome, cc),
		TotalAllocated: utils.FormatWithCurrency(report.TotalAllocated, cc),
		TotalSpent:     utils.FormatWithCurrency(report.TotalSpent, cc),
		TotalSavings:   utils.FormatWithCurrency(report.TotalSavings, cc),
		CarryOverIn:    utils.FormatWithCurrency(report.CarryOverFromPreviousMonth, cc),
		CarryOverOut:   utils.FormatWithCurrency(report.CarryOverToNextMonth, cc),
		IsFinalized:    report.IsFinalized,
		Jars:           make([]domain.PDFJarRow, len(report.JarReports)),
	}

	categoryTotals := make(map[string]decimal.Decimal)
	for i, jr := range report.JarReports {
		data.Jars[i] = domain.PDFJarRow{
			JarName:           jr.JarName,
			Allocated:         utils.FormatWithCurrency(jr.AllocatedAmount, cc),
			Spent:             utils.FormatWithCurrency(jr.ActualSpent, cc),
			Income:            utils.FormatWithCurrency(jr.ActualIncome, cc),
			Savings:           utils.FormatWithCurrency(jr.Savings, cc),
			SavingsPercentage: jr.SavingsPercentage,
			TransactionCount:  len(jr.Transactions),
		}
		for _, txn := range jr.Transactions {
			if txn.Type != domain.Expense {
				continue
			}
			category := txn.Category
			if category == "" {
				category = "Uncategorized"
			}
			categoryTotals[category] = categoryTotals[category].Add(txn.Amount)
		}
	}

	data.CategorySpendings = make([]domain.CategorySpending, 0, len(categoryTotals))
	for category, amount := range categoryTotals {
		share := decimal.Zero
		if report.TotalSpent.GreaterThan(decimal.Zero) {
			share = amount.Div(report.TotalSpent).Mul(decimal.NewFromInt(100)).Round(2)
		}
		data.CategorySpendings = append(data.CategorySpendings, domain.CategorySpending{
			Category:   category,
			Amount:     amount,
			Formatted:  utils.FormatWithCurrency(amount, cc),
			Percentage: share,
		})
	}
	sort.Slice(data.CategorySpendings, func(i, j int) bool {
		a, b := data.CategorySpendings[i], data.CategorySpendings[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})

	return data, nil
}

// Overview aggregates the dashboard numbers for the current month.
func (s *reportService) Overview(ctx context.Context, userID string) (*domain.Overview, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	jars, err := s.jarRepo.ListJarsByUser(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load jars for overview: %w", err)
	}

	now := time.Now().UTC()
	from, to := periodBounds(now.Year(), int(now.Month()))
	txns, err := s.txnRepo.ListTransactionsForPeriod(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for overview: %w", err)
	}

	overview := &domain.Overview{
		MonthlyIncome:       user.MonthlyIncome,
		RemainingPercentage: budgeting.RemainingPercentage(budgeting.SumPercentages(jars)),
		ActiveJars:          len(jars),
		JarStatuses:         make([]domain.JarStatus, len(jars)),
	}

	for i, jar := range jars {
		info := budgeting.ClassifyJar(jar.CurrentAmount, jar.TargetAmount)
		overview.TotalAllocated = overview.TotalAllocated.Add(jar.TargetAmount)
		overview.TotalBalance = overview.TotalBalance.Add(info.RemainingAmount)
		overview.JarStatuses[i] = domain.JarStatus{Jar: jar, Status: info}
	}

	for _, txn := range txns {
		if txn.Type == domain.Expense {
			overview.MonthSpent = overview.MonthSpent.Add(txn.Amount)
		} else {
			overview.MonthIncome = overview.MonthIncome.Add(txn.Amount)
		}
	}

	return overview, nil
}
