package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a row of the transactions table.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	JarID         string          `db:"jar_id"`
	UserID        string          `db:"user_id"`
	Amount        decimal.Decimal `db:"amount"`
	Type          string          `db:"type"` // "income" or "expense"
	Description   string          `db:"description"`
	Category      string          `db:"category"`
	Date          time.Time       `db:"date"`
	AuditFields
}
