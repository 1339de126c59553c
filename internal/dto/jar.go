package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
)

// CreateJarRequest defines the data needed to create a new jar.
// Percentage range (0 < p <= 100) is validated by the service so the rule
// lives in one place for both create and update.
type CreateJarRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Percentage  decimal.Decimal    `json:"percentage" binding:"required"`
	Color       string             `json:"color" binding:"required"`
	Icon        string             `json:"icon" binding:"required"`
	Priority    domain.JarPriority `json:"priority" binding:"required,oneof=High Medium Low"`
	Category    string             `json:"category" binding:"required"`
}

// UpdateJarRequest defines the data allowed for updating a jar.
// Pointers distinguish omitted fields from zero values.
type UpdateJarRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Percentage  *decimal.Decimal    `json:"percentage"`
	Color       *string             `json:"color"`
	Icon        *string             `json:"icon"`
	Priority    *domain.JarPriority `json:"priority" binding:"omitempty,oneof=High Medium Low"`
	Category    *string             `json:"category"`
	IsActive    *bool               `json:"isActive"`
}

// JarResponse defines the data returned for a jar.
type JarResponse struct {
	JarID         string                `json:"jarID"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Percentage    decimal.Decimal       `json:"percentage"`
	TargetAmount  decimal.Decimal       `json:"targetAmount"`
	CurrentAmount decimal.Decimal       `json:"currentAmount"`
	Color         string                `json:"color"`
	Icon          string                `json:"icon"`
	Priority      domain.JarPriority    `json:"priority"`
	Category      string                `json:"category"`
	IsActive      bool                  `json:"isActive"`
	Status        *domain.JarStatusInfo `json:"status,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
}

// ToJarResponse converts a domain.Jar to JarResponse DTO.
func ToJarResponse(jar *domain.Jar) JarResponse {
	return JarResponse{
		JarID:         jar.JarID,
		Name:          jar.Name,
		Description:   jar.Description,
		Percentage:    jar.Percentage,
		TargetAmount:  jar.TargetAmount,
		CurrentAmount: jar.CurrentAmount,
		Color:         jar.Color,
		Icon:          jar.Icon,
		Priority:      jar.Priority,
		Category:      jar.Category,
		IsActive:      jar.IsActive,
		CreatedAt:     jar.CreatedAt,
		LastUpdatedAt: jar.LastUpdatedAt,
	}
}

// ToJarResponses converts a slice of domain jars to response DTOs.
func ToJarResponses(jars []domain.Jar) []JarResponse {
	res := make([]JarResponse, len(jars))
	for i, jar := range jars {
		res[i] = ToJarResponse(&jar)
	}
	return res
}

// ListJarsParams defines query parameters for listing jars.
type ListJarsParams struct {
	IncludeInactive bool `form:"includeInactive,default=false"`
}

// ListJarsResponse wraps the list of jars.
type ListJarsResponse struct {
	Jars []JarResponse `json:"jars"`
}

// RemainingPercentageResponse reports the unallocated share of the budget.
type RemainingPercentageResponse struct {
	RemainingPercentage decimal.Decimal `json:"remainingPercentage"`
}
