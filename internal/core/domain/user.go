package domain

import (
	"github.com/shopspring/decimal"
)

// User represents an application user. MonthlyIncome is the single scalar
// driving every jar target derivation; changing it recomputes active jar
// targets but never touches finalized reports.
type User struct {
	UserID        string          `json:"userID"` // Primary Key (UUID)
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	PasswordHash  string          `json:"-"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	CurrencyCode  string          `json:"currencyCode"` // Display currency, e.g. "VND", "USD"
	AuditFields
}
