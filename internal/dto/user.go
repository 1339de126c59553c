package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
)

// RegisterRequest defines the data needed to create an account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest defines the profile fields a user may change.
type UpdateUserRequest struct {
	Name         *string `json:"name"`
	CurrencyCode *string `json:"currencyCode" binding:"omitempty,len=3"`
}

// UpdateIncomeRequest sets the monthly income driving jar targets.
type UpdateIncomeRequest struct {
	MonthlyIncome decimal.Decimal `json:"monthlyIncome" binding:"required"`
}

// UserResponse defines the data returned for a user profile.
type UserResponse struct {
	UserID        string          `json:"userID"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	CurrencyCode  string          `json:"currencyCode"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:        user.UserID,
		Name:          user.Name,
		Email:         user.Email,
		MonthlyIncome: user.MonthlyIncome,
		CurrencyCode:  user.CurrencyCode,
		CreatedAt:     user.CreatedAt,
		LastUpdatedAt: user.LastUpdatedAt,
	}
}
