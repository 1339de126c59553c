package domain

import (
	"github.com/shopspring/decimal"
)

// JarPriority ranks how important a jar is to the user. Presentational
// ordering only; carries no arithmetic meaning.
type JarPriority string

const (
	PriorityHigh   JarPriority = "High"
	PriorityMedium JarPriority = "Medium"
	PriorityLow    JarPriority = "Low"
)

// JarHealth classifies a jar's spending position against its target.
// The three states are exhaustive and mutually exclusive.
type JarHealth string

const (
	JarGood      JarHealth = "good"      // spent < target
	JarEmpty     JarHealth = "empty"     // spent == target
	JarOverspent JarHealth = "overspent" // spent > target
)

// Jar is a budget envelope allocated a fixed percentage of monthly income.
//
// TargetAmount is a cached derivation (income * percentage / 100) refreshed
// on every create/update that touches the percentage and on income changes.
// CurrentAmount is the signed running total of postings against the jar; its
// magnitude is the cumulative spend.
type Jar struct {
	JarID         string          `json:"jarID"` // Primary Key (UUID)
	UserID        string          `json:"userID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Percentage    decimal.Decimal `json:"percentage"` // 0 < p <= 100, share of monthly income
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Color         string          `json:"color"` // Opaque presentational identifier
	Icon          string          `json:"icon"`  // Opaque presentational identifier
	Priority      JarPriority     `json:"priority"`
	Category      string          `json:"category"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// JarStatusInfo is the result of classifying a jar against its target.
type JarStatusInfo struct {
	Status          JarHealth       `json:"status"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Message         string          `json:"message"`
}

// TemplateJar describes one entry of the fixed six-jar starter set.
type TemplateJar struct {
	Name        string
	Description string
	Percentage  decimal.Decimal
	Color       string
	Icon        string
	Priority    JarPriority
	Category    string
}
