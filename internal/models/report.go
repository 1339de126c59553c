package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyReport represents a row of the monthly_reports table.
// Natural key (user_id, year, month) carries a unique constraint.
type MonthlyReport struct {
	ReportID       string          `db:"report_id"`
	UserID         string          `db:"user_id"`
	Year           int             `db:"year"`
	Month          int             `db:"month"`
	UserIncome     decimal.Decimal `db:"user_income"`
	TotalAllocated decimal.Decimal `db:"total_allocated"`
	TotalSpent     decimal.Decimal `db:"total_spent"`
	TotalSavings   decimal.Decimal `db:"total_savings"`
	CarryOverIn    decimal.Decimal `db:"carry_over_in"`
	CarryOverOut   decimal.Decimal `db:"carry_over_out"`
	IsFinalized    bool            `db:"is_finalized"`
	FinalizedAt    *time.Time      `db:"finalized_at"`
	AuditFields
}

// JarReport represents a row of the jar_reports table, one per jar per
// monthly report. The period's transactions are snapshotted as JSONB so the
// report stays readable after jars or transactions change.
type JarReport struct {
	JarReportID       string          `db:"jar_report_id"`
	ReportID          string          `db:"report_id"`
	JarID             string          `db:"jar_id"`
	JarName           string          `db:"jar_name"`
	AllocatedAmount   decimal.Decimal `db:"allocated_amount"`
	ActualSpent       decimal.Decimal `db:"actual_spent"`
	ActualIncome      decimal.Decimal `db:"actual_income"`
	Savings           decimal.Decimal `db:"savings"`
	SavingsPercentage string          `db:"savings_percentage"`
	Transactions      []byte          `db:"transactions"` // JSONB snapshot
}
