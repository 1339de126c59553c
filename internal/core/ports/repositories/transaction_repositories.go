package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/core/domain"
)

// ListTransactionsFilter narrows transaction listings.
type ListTransactionsFilter struct {
	JarID     *string // Only postings against this jar
	MonthKey  *string // "YYYY-MM" month of the transaction date
	Limit     int
	NextToken *string
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated page of the
	// user's transactions in reverse-chronological order.
	ListTransactions(ctx context.Context, userID string, filter ListTransactionsFilter) ([]domain.Transaction, *string, error)

	// ListTransactionsForPeriod retrieves every transaction of the user whose
	// date falls within [from, to).
	ListTransactionsForPeriod(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)

	// CountTransactionsByJar reports how many transactions reference a jar.
	CountTransactionsByJar(ctx context.Context, jarID string) (int64, error)
}

// TransactionWriter defines write operations for transaction data.
//
// Every mutation adjusts the owning jar's running balance with a relative
// UPDATE inside the same database transaction, so concurrent postings against
// one jar serialize on the row and cannot lose updates.
type TransactionWriter interface {
	// SaveTransaction inserts the transaction and applies balanceDelta to the
	// jar's current amount atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error

	// UpdateTransaction updates the transaction row and applies balanceDelta
	// (the signed difference against the old amount) atomically.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error

	// DeleteTransaction removes the transaction and applies balanceDelta (the
	// reversal of its original effect) atomically.
	DeleteTransaction(ctx context.Context, transactionID string, jarID string, balanceDelta decimal.Decimal) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
