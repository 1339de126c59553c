package models

import (
	"github.com/shopspring/decimal"
)

// User represents a row of the users table.
type User struct {
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	Email         string          `db:"email"`
	PasswordHash  string          `db:"password_hash"`
	MonthlyIncome decimal.Decimal `db:"monthly_income"`
	CurrencyCode  string          `db:"currency_code"`
	AuditFields
}
