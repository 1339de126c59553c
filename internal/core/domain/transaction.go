package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a posting adds income to or spends from a jar.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Transaction represents a single posting against a jar. Amount is always a
// positive magnitude; Type carries the direction. A transaction cannot be
// reassigned to a different jar after creation.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	JarID         string          `json:"jarID"`
	UserID        string          `json:"userID"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Date          time.Time       `json:"date"` // Defaults to creation time
	AuditFields
}

// JarSummary is the embedded form of a jar reference on transaction reads.
type JarSummary struct {
	JarID string `json:"jarID"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// WarningLevel distinguishes the two overspend gate severities.
type WarningLevel string

const (
	WarningApproaching WarningLevel = "approaching" // 90% <= projected/target <= 100%
	WarningOver        WarningLevel = "over"        // projected/target > 100%
)

// OverspendWarning is a transient decision gate returned to the caller before
// an expense posting commits. It is never persisted; the caller must confirm
// explicitly for the commit to proceed.
type OverspendWarning struct {
	Level          WarningLevel    `json:"level"`
	ProjectedSpend decimal.Decimal `json:"projectedSpend"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	PercentUsed    decimal.Decimal `json:"percentUsed"`
	OverBy         decimal.Decimal `json:"overBy,omitempty"` // Only set when Level is "over"
}
