package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
)

// GenerateReportRequest selects the period to snapshot; both fields default
// to the current month when omitted.
type GenerateReportRequest struct {
	Year  *int `json:"year" binding:"omitempty,gte=2000,lte=2200"`
	Month *int `json:"month" binding:"omitempty,gte=1,lte=12"`
}

// ListReportsParams defines query parameters for listing reports.
type ListReportsParams struct {
	Year  *int `form:"year" binding:"omitempty,gte=2000,lte=2200"`
	Month *int `form:"month" binding:"omitempty,gte=1,lte=12"`
	Limit int  `form:"limit,default=12"`
}

// JarReportResponse is the per-jar slice of a report response.
type JarReportResponse struct {
	JarID             string                `json:"jarID"`
	JarName           string                `json:"jarName"`
	AllocatedAmount   decimal.Decimal       `json:"allocatedAmount"`
	ActualSpent       decimal.Decimal       `json:"actualSpent"`
	ActualIncome      decimal.Decimal       `json:"actualIncome"`
	Savings           decimal.Decimal       `json:"savings"`
	SavingsPercentage string                `json:"savingsPercentage"`
	Transactions      []TransactionResponse `json:"transactions"`
}

// ReportResponse defines the data returned for a monthly report.
type ReportResponse struct {
	ReportID                   string              `json:"reportID"`
	UserID                     string              `json:"userId"`
	Year                       int                 `json:"year"`
	Month                      int                 `json:"month"`
	UserIncome                 decimal.Decimal     `json:"userIncome"`
	TotalAllocated             decimal.Decimal     `json:"totalAllocated"`
	TotalSpent                 decimal.Decimal     `json:"totalSpent"`
	TotalSavings               decimal.Decimal     `json:"totalSavings"`
	CarryOverFromPreviousMonth decimal.Decimal     `json:"carryOverFromPreviousMonth"`
	CarryOverToNextMonth       decimal.Decimal     `json:"carryOverToNextMonth"`
	IsFinalized                bool                `json:"isFinalized"`
	FinalizedAt                *time.Time          `json:"finalizedAt,omitempty"`
	JarsReport                 []JarReportResponse `json:"jarsReport,omitempty"`
	CreatedAt                  time.Time           `json:"createdAt"`
	LastUpdatedAt              time.Time           `json:"lastUpdatedAt"`
}

// ToReportResponse converts a domain.MonthlyReport to its DTO.
func ToReportResponse(report *domain.MonthlyReport) ReportResponse {
	resp := ReportResponse{
		ReportID:                   report.ReportID,
		UserID:                     report.UserID,
		Year:                       report.Year,
		Month:                      report.Month,
		UserIncome:                 report.UserIncome,
		TotalAllocated:             report.TotalAllocated,
		TotalSpent:                 report.TotalSpent,
		TotalSavings:               report.TotalSavings,
		CarryOverFromPreviousMonth: report.CarryOverFromPreviousMonth,
		CarryOverToNextMonth:       report.CarryOverToNextMonth,
		IsFinalized:                report.IsFinalized,
		FinalizedAt:                report.FinalizedAt,
		CreatedAt:                  report.CreatedAt,
		LastUpdatedAt:              report.LastUpdatedAt,
	}

	if len(report.JarReports) > 0 {
		resp.JarsReport = make([]JarReportResponse, len(report.JarReports))
		for i, jr := range report.JarReports {
			txns := make([]TransactionResponse, len(jr.Transactions))
			for j, txn := range jr.Transactions {
				txns[j] = ToTransactionResponse(&txn, nil)
			}
			resp.JarsReport[i] = JarReportResponse{
				JarID:             jr.JarID,
				JarName:           jr.JarName,
				AllocatedAmount:   jr.AllocatedAmount,
				ActualSpent:       jr.ActualSpent,
				ActualIncome:      jr.ActualIncome,
				Savings:           jr.Savings,
				SavingsPercentage: jr.SavingsPercentage,
				Transactions:      txns,
			}
		}
	}

	return resp
}

// ToReportResponses converts a slice of report headers to DTOs.
func ToReportResponses(reports []domain.MonthlyReport) []ReportResponse {
	res := make([]ReportResponse, len(reports))
	for i, report := range reports {
		res[i] = ToReportResponse(&report)
	}
	return res
}

// ListReportsResponse wraps the list of reports.
type ListReportsResponse struct {
	Reports []ReportResponse `json:"reports"`
}
