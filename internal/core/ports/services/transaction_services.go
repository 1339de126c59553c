package services

import (
	"context"

	"github.com/sixjars/six_jars_app/internal/core/domain"
	"github.com/sixjars/six_jars_app/internal/dto"
)

// TransactionSvcFacade defines the transaction ledger operations.
//
// PostTransaction and UpdateTransaction may return a non-nil
// *domain.OverspendWarning instead of committing: when the projected spend
// reaches the warning threshold and the request was not confirmed, the
// returned transaction is nil, nothing was persisted, and the caller must
// resubmit with confirmation to proceed.
type TransactionSvcFacade interface {
	PostTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, *domain.OverspendWarning, error)

	UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, *domain.OverspendWarning, error)

	// DeleteTransaction removes a posting and reverses its balance effect.
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error

	GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a filtered, token-paginated page.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
