package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/dto"
	"github.com/sixjars/six_jars_app/internal/utils/budgeting"
)

const (
	defaultTxnPageSize = 20
	maxTxnPageSize     = 100
)

// transactionService implements the transaction ledger. Expenses add to a
// jar's running spend and incomes subtract from it; every mutation carries
// the signed balance delta down to the repository so the jar row is adjusted
// in the same database transaction.
type transactionService struct {
	BaseService
	txnRepo portsrepo.TransactionRepositoryFacade
	jarRepo portsrepo.JarReader
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, jarRepo portsrepo.JarReader) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo: txnRepo,
		jarRepo: jarRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// balanceEffect is the signed contribution of a posting to the jar's running
// spend: expenses grow it, incomes shrink it.
func balanceEffect(txnType domain.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if txnType == domain.Income {
		return amount.Neg()
	}
	return amount
}

func (s *transactionService) loadOwnedJar(ctx context.Context, userID, jarID string) (*domain.Jar, error) {
	jar, err := s.jarRepo.FindJarByID(ctx, jarID)
	if err != nil {
		return nil, err
	}
	if jar.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return jar, nil
}

func (s *transactionService) loadOwnedTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

// PostTransaction validates and commits a posting. Expense postings that push
// the jar's projected spend to the warning threshold are not committed unless
// the request confirms the overspend; in that case the warning comes back
// with a nil transaction and nothing persisted.
func (s *transactionService) PostTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, *domain.OverspendWarning, error) {
	if req.JarID.IsZero() {
		return nil, nil, fmt.Errorf("%w: jarId is required", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	jar, err := s.loadOwnedJar(ctx, userID, req.JarID.ID())
	if err != nil {
		return nil, nil, err
	}
	if !jar.IsActive {
		return nil, nil, fmt.Errorf("%w: jar %q is inactive", apperrors.ErrValidation, jar.Name)
	}

	delta := balanceEffect(req.Type, req.Amount)

	if req.Type == domain.Expense {
		// Spend magnitude, not the signed balance: income postings can drive
		// the balance negative and must not mask the gate.
		projected := jar.CurrentAmount.Abs().Add(req.Amount)
		if warning := budgeting.EvaluateOverspend(projected, jar.TargetAmount); warning != nil {
			if !req.ConfirmOverspend {
				return nil, warning, nil
			}
			s.LogWarn(ctx, "Overspend confirmed",
				slog.String("jar_id", jar.JarID),
				slog.String("level", string(warning.Level)),
				slog.String("projected_spend", warning.ProjectedSpend.String()))
		}
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		JarID:         jar.JarID,
		UserID:        userID,
		Amount:        req.Amount,
		Type:          req.Type,
		Description:   req.Description,
		Category:      req.Category,
		Date:          date,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, delta); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("jar_id", jar.JarID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("jar_id", jar.JarID),
		slog.String("type", string(txn.Type)))
	return &txn, nil, nil
}

// UpdateTransaction applies a partial edit. Jar reassignment is rejected;
// delete and repost instead. An amount change re-runs the overspend gate on
// the delta so an edit cannot slip past a warning a fresh posting would get.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, *domain.OverspendWarning, error) {
	if req.JarID != nil {
		return nil, nil, fmt.Errorf("%w: transactions cannot move between jars, delete and repost instead", apperrors.ErrValidation)
	}

	txn, err := s.loadOwnedTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, nil, err
	}

	updated := false
	delta := decimal.Zero
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		oldEffect := balanceEffect(txn.Type, txn.Amount)
		newEffect := balanceEffect(txn.Type, *req.Amount)
		delta = newEffect.Sub(oldEffect)
		txn.Amount = *req.Amount
		updated = true
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
		}
		txn.Description = *req.Description
		updated = true
	}
	if req.Category != nil {
		txn.Category = *req.Category
		updated = true
	}
	if req.Date != nil {
		txn.Date = req.Date.UTC()
		updated = true
	}

	if !updated {
		return txn, nil, nil
	}

	if txn.Type == domain.Expense && delta.GreaterThan(decimal.Zero) {
		jar, err := s.loadOwnedJar(ctx, userID, txn.JarID)
		if err != nil {
			return nil, nil, err
		}
		projected := jar.CurrentAmount.Abs().Add(delta)
		if warning := budgeting.EvaluateOverspend(projected, jar.TargetAmount); warning != nil {
			if !req.ConfirmOverspend {
				return nil, warning, nil
			}
			s.LogWarn(ctx, "Overspend confirmed on edit",
				slog.String("jar_id", jar.JarID),
				slog.String("level", string(warning.Level)))
		}
	}

	txn.LastUpdatedAt = time.Now().UTC()
	txn.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateTransaction(ctx, *txn, delta); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return txn, nil, nil
}

// DeleteTransaction removes a posting and reverses its effect on the jar's
// running balance.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	txn, err := s.loadOwnedTransaction(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	reversal := balanceEffect(txn.Type, txn.Amount).Neg()
	if err := s.txnRepo.DeleteTransaction(ctx, transactionID, txn.JarID, reversal); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// GetTransactionByID retrieves a transaction, hiding other users' postings
// behind NotFound.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	return s.loadOwnedTransaction(ctx, userID, transactionID)
}

// ListTransactions returns a filtered, token-paginated page with jar
// summaries embedded in each entry.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if params.Month != nil {
		if _, err := time.Parse("2006-01", *params.Month); err != nil {
			return nil, fmt.Errorf("%w: month must look like YYYY-MM", apperrors.ErrValidation)
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultTxnPageSize
	}
	if limit > maxTxnPageSize {
		limit = maxTxnPageSize
	}

	filter := portsrepo.ListTransactionsFilter{
		JarID:     params.JarID,
		MonthKey:  params.Month,
		Limit:     limit,
		NextToken: params.NextToken,
	}

	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	jars, err := s.jarRepo.ListJarsByUser(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load jars for transaction listing: %w", err)
	}
	summaries := make(map[string]*domain.JarSummary, len(jars))
	for i := range jars {
		j := jars[i]
		summaries[j.JarID] = &domain.JarSummary{JarID: j.JarID, Name: j.Name, Color: j.Color, Icon: j.Icon}
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		resp.Transactions[i] = dto.ToTransactionResponse(&txns[i], summaries[txns[i].JarID])
	}
	return resp, nil
}
