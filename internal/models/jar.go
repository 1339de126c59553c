package models

import (
	"github.com/shopspring/decimal"
)

// Jar represents a row of the jars table.
// current_amount is the signed running total of postings; its magnitude is
// the cumulative spend.
type Jar struct {
	JarID         string          `db:"jar_id"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Percentage    decimal.Decimal `db:"percentage"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	Color         string          `db:"color"`
	Icon          string          `db:"icon"`
	Priority      string          `db:"priority"`
	Category      string          `db:"category"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}
