package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	"github.com/sixjars/six_jars_app/internal/models"
)

type PgxReportRepository struct {
	BaseRepository
}

// newPgxReportRepository creates a new repository for monthly report data.
func newPgxReportRepository(pool *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

const reportColumns = `report_id, user_id, year, month, user_income, total_allocated, total_spent, total_savings, carry_over_in, carry_over_out, is_finalized, finalized_at, created_at, created_by, last_updated_at, last_updated_by`

func scanReport(row pgx.Row) (*models.MonthlyReport, error) {
	var m models.MonthlyReport
	err := row.Scan(
		&m.ReportID,
		&m.UserID,
		&m.Year,
		&m.Month,
		&m.UserIncome,
		&m.TotalAllocated,
		&m.TotalSpent,
		&m.TotalSavings,
		&m.CarryOverIn,
		&m.CarryOverOut,
		&m.IsFinalized,
		&m.FinalizedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func toDomainReport(m models.MonthlyReport) domain.MonthlyReport {
	return domain.MonthlyReport{
		ReportID:                   m.ReportID,
		UserID:                     m.UserID,
		Year:                       m.Year,
		Month:                      m.Month,
		UserIncome:                 m.UserIncome,
		TotalAllocated:             m.TotalAllocated,
		TotalSpent:                 m.TotalSpent,
		TotalSavings:               m.TotalSavings,
		CarryOverFromPreviousMonth: m.CarryOverIn,
		CarryOverToNextMonth:       m.CarryOverOut,
		IsFinalized:                m.IsFinalized,
		FinalizedAt:                m.FinalizedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// SaveReport upserts the draft report for its (user_id, year, month) period,
// replacing any existing draft's jar snapshots wholesale in one database
// transaction. A finalized period is rejected.
func (r *PgxReportRepository) SaveReport(ctx context.Context, report domain.MonthlyReport) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// Lock the period row so a concurrent finalize cannot slip between the
	// check and the rewrite.
	var finalized bool
	err = tx.QueryRow(ctx, `
		SELECT is_finalized FROM monthly_reports
		WHERE user_id = $1 AND year = $2 AND month = $3
		FOR UPDATE;
	`, report.UserID, report.Year, report.Month).Scan(&finalized)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check report state: %w", err)
	}
	if err == nil && finalized {
		return fmt.Errorf("%w: report for %04d-%02d", apperrors.ErrAlreadyFinalized, report.Year, report.Month)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO monthly_reports (`+reportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, year, month) DO UPDATE
		SET user_income = EXCLUDED.user_income,
		    total_allocated = EXCLUDED.total_allocated,
		    total_spent = EXCLUDED.total_spent,
		    total_savings = EXCLUDED.total_savings,
		    carry_over_in = EXCLUDED.carry_over_in,
		    carry_over_out = EXCLUDED.carry_over_out,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`,
		report.ReportID,
		report.UserID,
		report.Year,
		report.Month,
		report.UserIncome,
		report.TotalAllocated,
		report.TotalSpent,
		report.TotalSavings,
		report.CarryOverFromPreviousMonth,
		report.CarryOverToNextMonth,
		report.IsFinalized,
		report.FinalizedAt,
		report.CreatedAt,
		report.CreatedBy,
		report.LastUpdatedAt,
		report.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert report %s: %w", report.ReportID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM jar_reports WHERE report_id = $1;`, report.ReportID); err != nil {
		return fmt.Errorf("failed to clear jar snapshots of report %s: %w", report.ReportID, err)
	}

	for _, jr := range report.JarReports {
		txnJSON, err := json.Marshal(jr.Transactions)
		if err != nil {
			return fmt.Errorf("failed to marshal transactions of jar %s: %w", jr.JarID, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO jar_reports (jar_report_id, report_id, jar_id, jar_name, allocated_amount, actual_spent, actual_income, savings, savings_percentage, transactions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`,
			uuid.NewString(),
			report.ReportID,
			jr.JarID,
			jr.JarName,
			jr.AllocatedAmount,
			jr.ActualSpent,
			jr.ActualIncome,
			jr.Savings,
			jr.SavingsPercentage,
			txnJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert jar snapshot for jar %s: %w", jr.JarID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FinalizeReport flips is_finalized false -> true with a compare-and-set so
// two concurrent calls cannot both succeed.
func (r *PgxReportRepository) FinalizeReport(ctx context.Context, userID string, year, month int, finalizedAt time.Time, finalizedBy string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE monthly_reports
		SET is_finalized = TRUE, finalized_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE user_id = $1 AND year = $2 AND month = $3 AND is_finalized = FALSE;
	`, userID, year, month, finalizedAt, finalizedBy)
	if err != nil {
		return fmt.Errorf("failed to finalize report for %04d-%02d: %w", year, month, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.Pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM monthly_reports WHERE user_id = $1 AND year = $2 AND month = $3);
		`, userID, year, month).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check report existence: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: report for %04d-%02d", apperrors.ErrAlreadyFinalized, year, month)
		}
		return apperrors.ErrNotFound
	}
	return nil
}

// FindReportByPeriod retrieves the report header for (userID, year, month).
func (r *PgxReportRepository) FindReportByPeriod(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM monthly_reports WHERE user_id = $1 AND year = $2 AND month = $3;`

	m, err := scanReport(r.Pool.QueryRow(ctx, query, userID, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report for %04d-%02d: %w", year, month, err)
	}

	report := toDomainReport(*m)
	return &report, nil
}

// FindReportDetail retrieves the report with its jar report snapshots.
func (r *PgxReportRepository) FindReportDetail(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error) {
	report, err := r.FindReportByPeriod(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT jar_id, jar_name, allocated_amount, actual_spent, actual_income, savings, savings_percentage, transactions
		FROM jar_reports
		WHERE report_id = $1
		ORDER BY jar_name ASC;
	`, report.ReportID)
	if err != nil {
		return nil, fmt.Errorf("failed to load jar snapshots of report %s: %w", report.ReportID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var jr domain.JarReport
		var txnJSON []byte
		err := rows.Scan(
			&jr.JarID,
			&jr.JarName,
			&jr.AllocatedAmount,
			&jr.ActualSpent,
			&jr.ActualIncome,
			&jr.Savings,
			&jr.SavingsPercentage,
			&txnJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan jar snapshot row: %w", err)
		}
		if len(txnJSON) > 0 {
			if err := json.Unmarshal(txnJSON, &jr.Transactions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transactions of jar %s: %w", jr.JarID, err)
			}
		}
		report.JarReports = append(report.JarReports, jr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jar snapshot rows: %w", err)
	}

	return report, nil
}

// ListReports retrieves report headers in reverse-chronological order.
func (r *PgxReportRepository) ListReports(ctx context.Context, userID string, filter portsrepo.ListReportsFilter) ([]domain.MonthlyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM monthly_reports WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Year != nil {
		args = append(args, *filter.Year)
		query += ` AND year = $` + strconv.Itoa(len(args))
	}
	if filter.Month != nil {
		args = append(args, *filter.Month)
		query += ` AND month = $` + strconv.Itoa(len(args))
	}

	args = append(args, filter.Limit)
	query += ` ORDER BY year DESC, month DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for user %s: %w", userID, err)
	}
	defer rows.Close()

	var reports []domain.MonthlyReport
	for rows.Next() {
		m, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, toDomainReport(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return reports, nil
}
