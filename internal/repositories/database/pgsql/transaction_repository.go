package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	"github.com/sixjars/six_jars_app/internal/models"
	"github.com/sixjars/six_jars_app/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		JarID:         d.JarID,
		UserID:        d.UserID,
		Amount:        d.Amount,
		Type:          string(d.Type),
		Description:   d.Description,
		Category:      d.Category,
		Date:          d.Date,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		JarID:         m.JarID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		Type:          domain.TransactionType(m.Type),
		Description:   m.Description,
		Category:      m.Category,
		Date:          m.Date,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const transactionColumns = `transaction_id, jar_id, user_id, amount, type, description, category, date, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.JarID,
		&m.UserID,
		&m.Amount,
		&m.Type,
		&m.Description,
		&m.Category,
		&m.Date,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// applyBalanceDelta shifts a jar's running balance relative to its current
// value. The relative UPDATE serializes concurrent postings on the jar row,
// so no interleaving can lose an update.
func applyBalanceDelta(ctx context.Context, tx pgx.Tx, jarID string, delta decimal.Decimal, updatedAt time.Time, updatedBy string) error {
	if delta.IsZero() {
		return nil
	}
	tag, err := tx.Exec(ctx, `
		UPDATE jars
		SET current_amount = current_amount + $2, last_updated_at = $3, last_updated_by = $4
		WHERE jar_id = $1;
	`, jarID, delta, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to adjust balance of jar %s: %w", jarID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveTransaction inserts the transaction and applies balanceDelta to the
// jar's running balance in one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error {
	m := toModelTransaction(txn)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID,
		m.JarID,
		m.UserID,
		m.Amount,
		m.Type,
		m.Description,
		m.Category,
		m.Date,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}

	if err := applyBalanceDelta(ctx, tx, m.JarID, balanceDelta, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateTransaction updates the transaction row and applies balanceDelta in
// one database transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error {
	m := toModelTransaction(txn)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	query := `
		UPDATE transactions
		SET amount = $2, description = $3, category = $4, date = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE transaction_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.Amount,
		m.Description,
		m.Category,
		m.Date,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := applyBalanceDelta(ctx, tx, m.JarID, balanceDelta, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteTransaction removes the transaction and applies balanceDelta (the
// reversal of its original effect) in one database transaction.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string, jarID string, balanceDelta decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	now := time.Now().UTC()
	if err := applyBalanceDelta(ctx, tx, jarID, balanceDelta, now, ""); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a specific transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	t := toDomainTransaction(*m)
	return &t, nil
}

// ListTransactions retrieves a filtered page of the user's transactions in
// reverse-chronological order using (date, created_at) keyset pagination.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter portsrepo.ListTransactionsFilter) ([]domain.Transaction, *string, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.JarID != nil {
		args = append(args, *filter.JarID)
		query += ` AND jar_id = $` + strconv.Itoa(len(args))
	}
	if filter.MonthKey != nil {
		args = append(args, *filter.MonthKey)
		query += ` AND to_char(date AT TIME ZONE 'UTC', 'YYYY-MM') = $` + strconv.Itoa(len(args))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, tokenDate)
		dateArg := strconv.Itoa(len(args))
		args = append(args, tokenCreatedAt)
		createdArg := strconv.Itoa(len(args))
		query += ` AND (date, created_at) < ($` + dateArg + `, $` + createdArg + `)`
	}

	args = append(args, filter.Limit+1) // Fetch one extra to detect the next page
	query += ` ORDER BY date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var nextToken *string
	if len(txns) > filter.Limit {
		txns = txns[:filter.Limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextToken = &token
	}
	return txns, nextToken, nil
}

// ListTransactionsForPeriod retrieves every transaction of the user whose
// date falls within [from, to).
func (r *PgxTransactionRepository) ListTransactionsForPeriod(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for period: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// CountTransactionsByJar reports how many transactions reference a jar.
func (r *PgxTransactionRepository) CountTransactionsByJar(ctx context.Context, jarID string) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE jar_id = $1;`, jarID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions for jar %s: %w", jarID, err)
	}
	return count, nil
}
