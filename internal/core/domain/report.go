package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JarReport is the per-jar slice of a monthly report snapshot.
// Savings can be negative when the jar overspent its allocation.
type JarReport struct {
	JarID             string          `json:"jarID"`
	JarName           string          `json:"jarName"`
	AllocatedAmount   decimal.Decimal `json:"allocatedAmount"`
	ActualSpent       decimal.Decimal `json:"actualSpent"`
	ActualIncome      decimal.Decimal `json:"actualIncome"`
	Savings           decimal.Decimal `json:"savings"`
	SavingsPercentage string          `json:"savingsPercentage"` // "0" when nothing was allocated
	Transactions      []Transaction   `json:"transactions"`
}

// MonthlyReport is a snapshot of one calendar month's budget performance.
// Natural key is (UserID, Year, Month). Once finalized the report and its
// jar snapshots are immutable; finalization is a one-way transition.
type MonthlyReport struct {
	ReportID                   string          `json:"reportID"` // Primary Key (UUID)
	UserID                     string          `json:"userID"`
	Year                       int             `json:"year"`
	Month                      int             `json:"month"` // 1-12
	UserIncome                 decimal.Decimal `json:"userIncome"`
	TotalAllocated             decimal.Decimal `json:"totalAllocated"`
	TotalSpent                 decimal.Decimal `json:"totalSpent"`
	TotalSavings               decimal.Decimal `json:"totalSavings"`
	CarryOverFromPreviousMonth decimal.Decimal `json:"carryOverFromPreviousMonth"`
	CarryOverToNextMonth       decimal.Decimal `json:"carryOverToNextMonth"`
	IsFinalized                bool            `json:"isFinalized"`
	FinalizedAt                *time.Time      `json:"finalizedAt,omitempty"`
	JarReports                 []JarReport     `json:"jarsReport,omitempty"`
	AuditFields
}

// CategorySpending is one row of the category breakdown in the PDF projection.
type CategorySpending struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Formatted  string          `json:"formatted"`
	Percentage decimal.Decimal `json:"percentage"` // Share of total spend
}

// PDFJarRow is a jar line of the PDF projection with pre-formatted amounts.
type PDFJarRow struct {
	JarName           string `json:"jarName"`
	Allocated         string `json:"allocated"`
	Spent             string `json:"spent"`
	Income            string `json:"income"`
	Savings           string `json:"savings"`
	SavingsPercentage string `json:"savingsPercentage"`
	TransactionCount  int    `json:"transactionCount"`
}

// PDFReportData reshapes a monthly report for document export. Pure view
// transform; all numbers arrive pre-formatted in the user's currency.
type PDFReportData struct {
	Period            string             `json:"period"` // e.g. "2025-01"
	UserIncome        string             `json:"userIncome"`
	TotalAllocated    string             `json:"totalAllocated"`
	TotalSpent        string             `json:"totalSpent"`
	TotalSavings      string             `json:"totalSavings"`
	CarryOverIn       string             `json:"carryOverIn"`
	CarryOverOut      string             `json:"carryOverOut"`
	IsFinalized       bool               `json:"isFinalized"`
	Jars              []PDFJarRow        `json:"jars"`
	CategorySpendings []CategorySpending `json:"categorySpendings"`
}

// Overview carries the aggregate dashboard numbers for a user.
type Overview struct {
	MonthlyIncome       decimal.Decimal `json:"monthlyIncome"`
	TotalAllocated      decimal.Decimal `json:"totalAllocated"`
	TotalBalance        decimal.Decimal `json:"totalBalance"`
	RemainingPercentage decimal.Decimal `json:"remainingPercentage"`
	MonthSpent          decimal.Decimal `json:"monthSpent"`
	MonthIncome         decimal.Decimal `json:"monthIncome"`
	ActiveJars          int             `json:"activeJars"`
	JarStatuses         []JarStatus     `json:"jarStatuses"`
}

// JarStatus pairs a jar with its classification for dashboard reads.
type JarStatus struct {
	Jar    Jar           `json:"jar"`
	Status JarStatusInfo `json:"status"`
}
