package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
)

// JarRef is the tagged jar reference on the transaction wire contract: older
// clients send a bare jar ID string, newer ones an embedded jar object. All
// read sites go through ID() so the two shapes are normalized in one place.
type JarRef struct {
	JarID   string
	Summary *domain.JarSummary
}

// ID returns the referenced jar's ID regardless of wire shape.
func (r JarRef) ID() string {
	if r.Summary != nil {
		return r.Summary.JarID
	}
	return r.JarID
}

// IsZero reports whether no reference was provided at all.
func (r JarRef) IsZero() bool {
	return r.JarID == "" && r.Summary == nil
}

// UnmarshalJSON accepts either "jar-id" or {"jarID": "...", "name": ...}.
func (r *JarRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.JarID = id
		r.Summary = nil
		return nil
	}
	var summary domain.JarSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return fmt.Errorf("jar reference must be a string ID or an embedded jar object: %w", err)
	}
	r.JarID = summary.JarID
	r.Summary = &summary
	return nil
}

// MarshalJSON emits the embedded object when present, the bare ID otherwise.
func (r JarRef) MarshalJSON() ([]byte, error) {
	if r.Summary != nil {
		return json.Marshal(r.Summary)
	}
	return json.Marshal(r.JarID)
}

// CreateTransactionRequest defines the data needed to post a transaction.
// ConfirmOverspend acknowledges a previously returned overspend warning;
// without it a warned posting is not committed.
type CreateTransactionRequest struct {
	JarID            JarRef                 `json:"jarId" binding:"required"`
	Amount           decimal.Decimal        `json:"amount" binding:"required"`
	Type             domain.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Description      string                 `json:"description" binding:"required"`
	Category         string                 `json:"category"`
	Date             *time.Time             `json:"date"`
	ConfirmOverspend bool                   `json:"confirmOverspend"`
}

// UpdateTransactionRequest defines the data allowed for updating a
// transaction. Jar reassignment is not permitted; a jarId in the payload is
// rejected by the service.
type UpdateTransactionRequest struct {
	JarID            *JarRef          `json:"jarId"`
	Amount           *decimal.Decimal `json:"amount"`
	Description      *string          `json:"description"`
	Category         *string          `json:"category"`
	Date             *time.Time       `json:"date"`
	ConfirmOverspend bool             `json:"confirmOverspend"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	Jar           JarRef                 `json:"jarId"`
	Amount        decimal.Decimal        `json:"amount"`
	Type          domain.TransactionType `json:"type"`
	Description   string                 `json:"description"`
	Category      string                 `json:"category"`
	Date          time.Time              `json:"date"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"updatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO. When a jar
// summary is available the reference is embedded, otherwise the bare ID is
// emitted.
func ToTransactionResponse(txn *domain.Transaction, summary *domain.JarSummary) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Jar:           JarRef{JarID: txn.JarID, Summary: summary},
		Amount:        txn.Amount,
		Type:          txn.Type,
		Description:   txn.Description,
		Category:      txn.Category,
		Date:          txn.Date,
		CreatedAt:     txn.CreatedAt,
		LastUpdatedAt: txn.LastUpdatedAt,
	}
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	JarID     *string `form:"jarId"`
	Month     *string `form:"month"` // "YYYY-MM"
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// OverspendWarningResponse is returned instead of a committed transaction
// when the overspend gate requires confirmation.
type OverspendWarningResponse struct {
	Warning              *domain.OverspendWarning `json:"warning"`
	RequiresConfirmation bool                     `json:"requiresConfirmation"`
	Message              string                   `json:"message"`
}
