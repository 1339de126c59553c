package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/core/services"
	"github.com/sixjars/six_jars_app/internal/dto"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo *MockTransactionRepository
	mockJarRepo *MockJarRepository
	service     portssvc.TransactionSvcFacade
	userID      string
	jarID       string
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockJarRepo = new(MockJarRepository)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockJarRepo)
	suite.userID = uuid.NewString()
	suite.jarID = uuid.NewString()
}

// testJar returns an active jar with an 11M target and the given running spend.
func (suite *TransactionServiceTestSuite) testJar(currentAmount string) *domain.Jar {
	return &domain.Jar{
		JarID:         suite.jarID,
		UserID:        suite.userID,
		Name:          "Necessities",
		Percentage:    decimal.NewFromInt(55),
		TargetAmount:  decimal.NewFromInt(11000000),
		CurrentAmount: decimal.RequireFromString(currentAmount),
		IsActive:      true,
	}
}

func (suite *TransactionServiceTestSuite) expenseReq(amount string) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		JarID:       dto.JarRef{JarID: suite.jarID},
		Amount:      decimal.RequireFromString(amount),
		Type:        domain.Expense,
		Description: "groceries",
		Category:    "Food",
	}
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_ExpenseBelowThreshold() {
	ctx := context.Background()
	req := suite.expenseReq("1000000")

	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(suite.testJar("0"), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.JarID == suite.jarID && t.Type == domain.Expense && t.Amount.Equal(decimal.NewFromInt(1000000))
	}), decimal.NewFromInt(1000000)).Return(nil).Once()

	txn, warning, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Nil(warning)
	suite.Require().NotNil(txn)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_ApproachingWarningGates() {
	ctx := context.Background()
	// 9.9M projected of 11M target is exactly 90%, the inclusive boundary
	req := suite.expenseReq("9900000")

	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(suite.testJar("0"), nil).Once()

	txn, warning, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Nil(txn)
	suite.Require().NotNil(warning)
	suite.Equal(domain.WarningApproaching, warning.Level)
	suite.True(warning.PercentUsed.Equal(decimal.NewFromInt(90)))
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_OverWarningCarriesOverBy() {
	ctx := context.Background()
	req := suite.expenseReq("900000")

	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(suite.testJar("11000000"), nil).Once()

	txn, warning, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Nil(txn)
	suite.Require().NotNil(warning)
	suite.Equal(domain.WarningOver, warning.Level)
	suite.True(warning.OverBy.Equal(decimal.NewFromInt(900000)))
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_NegativeBalanceGatesOnSpendMagnitude() {
	ctx := context.Background()
	// Income postings drove the balance negative; the gate works on the
	// spend magnitude, so 1M + 12M projects to 13M against an 11M target
	req := suite.expenseReq("12000000")

	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(suite.testJar("-1000000"), nil).Once()

	txn, warning, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Nil(txn)
	suite.Require().NotNil(warning)
	suite.Equal(domain.WarningOver, warning.Level)
	suite.True(warning.ProjectedSpend.Equal(decimal.NewFromInt(13000000)))
	suite.True(warning.OverBy.Equal(decimal.NewFromInt(2000000)))
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_ConfirmedOverspendCommits() {
	ctx := context.Background()
	req := suite.expenseReq("900000")
	req.ConfirmOverspend = true

	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(suite.testJar("11000000"), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), decimal.NewFromInt(900000)).Return(nil).Once()

	txn, warning, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Nil(warning)
	suite.Require().NotNil(txn)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_IncomeNeverGated() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		JarID:       dto.JarRef{JarID: suite.jarID},
		Amount:      decimal.NewFromInt(5000000),
		Type:        domain.Income,
		Description: "refund",
	}

	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(suite.testJar("11000000"), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), decimal.NewFromInt(-5000000)).Return(nil).Once()

	txn, warning, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Nil(warning)
	suite.Require().NotNil(txn)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_EmbeddedJarReference() {
	ctx := context.Background()
	req := suite.expenseReq("1000")
	req.JarID = dto.JarRef{Summary: &domain.JarSummary{JarID: suite.jarID, Name: "Necessities"}}

	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(suite.testJar("0"), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), decimal.NewFromInt(1000)).Return(nil).Once()

	txn, _, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Equal(suite.jarID, txn.JarID)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_NonPositiveAmount() {
	ctx := context.Background()
	req := suite.expenseReq("1000")
	req.Amount = decimal.Zero

	txn, warning, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.Nil(warning)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_InactiveJarRejected() {
	ctx := context.Background()
	jar := suite.testJar("0")
	jar.IsActive = false
	req := suite.expenseReq("1000")

	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(jar, nil).Once()

	txn, _, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_OtherUsersJarHidden() {
	ctx := context.Background()
	jar := suite.testJar("0")
	jar.UserID = uuid.NewString()
	req := suite.expenseReq("1000")

	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(jar, nil).Once()

	txn, _, err := suite.service.PostTransaction(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_JarReassignmentRejected() {
	ctx := context.Background()
	ref := dto.JarRef{JarID: uuid.NewString()}

	txn, _, err := suite.service.UpdateTransaction(ctx, suite.userID, uuid.NewString(), dto.UpdateTransactionRequest{JarID: &ref})

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_AmountIncreaseGated() {
	ctx := context.Background()
	txnID := uuid.NewString()
	existing := &domain.Transaction{
		TransactionID: txnID,
		JarID:         suite.jarID,
		UserID:        suite.userID,
		Amount:        decimal.NewFromInt(1000000),
		Type:          domain.Expense,
		Description:   "groceries",
	}
	// Jar already spent 10M of 11M; raising the posting by 1M projects to 100%
	newAmount := decimal.NewFromInt(2000000)

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txnID).Return(existing, nil).Once()
	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(suite.testJar("10000000"), nil).Once()

	txn, warning, err := suite.service.UpdateTransaction(ctx, suite.userID, txnID, dto.UpdateTransactionRequest{Amount: &newAmount})

	suite.Require().NoError(err)
	suite.Nil(txn)
	suite.Require().NotNil(warning)
	suite.Equal(domain.WarningApproaching, warning.Level)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_NegativeBalanceGatesOnSpendMagnitude() {
	ctx := context.Background()
	txnID := uuid.NewString()
	existing := &domain.Transaction{
		TransactionID: txnID,
		JarID:         suite.jarID,
		UserID:        suite.userID,
		Amount:        decimal.NewFromInt(1000000),
		Type:          domain.Expense,
		Description:   "groceries",
	}
	// Spend magnitude is 2M; raising the posting by 10M projects to 12M
	newAmount := decimal.NewFromInt(11000000)

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txnID).Return(existing, nil).Once()
	suite.mockJarRepo.On("FindJarByID", ctx, suite.jarID).Return(suite.testJar("-2000000"), nil).Once()

	txn, warning, err := suite.service.UpdateTransaction(ctx, suite.userID, txnID, dto.UpdateTransactionRequest{Amount: &newAmount})

	suite.Require().NoError(err)
	suite.Nil(txn)
	suite.Require().NotNil(warning)
	suite.Equal(domain.WarningOver, warning.Level)
	suite.True(warning.ProjectedSpend.Equal(decimal.NewFromInt(12000000)))
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_AmountDecreaseSkipsGate() {
	ctx := context.Background()
	txnID := uuid.NewString()
	existing := &domain.Transaction{
		TransactionID: txnID,
		JarID:         suite.jarID,
		UserID:        suite.userID,
		Amount:        decimal.NewFromInt(2000000),
		Type:          domain.Expense,
		Description:   "groceries",
	}
	newAmount := decimal.NewFromInt(500000)

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txnID).Return(existing, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Amount.Equal(newAmount)
	}), decimal.NewFromInt(-1500000)).Return(nil).Once()

	txn, warning, err := suite.service.UpdateTransaction(ctx, suite.userID, txnID, dto.UpdateTransactionRequest{Amount: &newAmount})

	suite.Require().NoError(err)
	suite.Nil(warning)
	suite.Require().NotNil(txn)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_ReversesExpense() {
	ctx := context.Background()
	txnID := uuid.NewString()
	existing := &domain.Transaction{
		TransactionID: txnID,
		JarID:         suite.jarID,
		UserID:        suite.userID,
		Amount:        decimal.NewFromInt(750000),
		Type:          domain.Expense,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txnID).Return(existing, nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, txnID, suite.jarID, decimal.NewFromInt(-750000)).Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, suite.userID, txnID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_ReversesIncome() {
	ctx := context.Background()
	txnID := uuid.NewString()
	existing := &domain.Transaction{
		TransactionID: txnID,
		JarID:         suite.jarID,
		UserID:        suite.userID,
		Amount:        decimal.NewFromInt(300000),
		Type:          domain.Income,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txnID).Return(existing, nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, txnID, suite.jarID, decimal.NewFromInt(300000)).Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, suite.userID, txnID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListTransactions_InvalidMonth() {
	ctx := context.Background()
	month := "2025-13"

	resp, err := suite.service.ListTransactions(ctx, suite.userID, dto.ListTransactionsParams{Month: &month})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_EmbedsJarSummaries() {
	ctx := context.Background()
	txns := []domain.Transaction{
		{TransactionID: uuid.NewString(), JarID: suite.jarID, UserID: suite.userID, Amount: decimal.NewFromInt(1000), Type: domain.Expense},
	}
	jar := suite.testJar("0")

	suite.mockTxnRepo.On("ListTransactions", ctx, suite.userID, mock.MatchedBy(func(f portsrepo.ListTransactionsFilter) bool {
		return f.Limit == 20
	})).Return(txns, nil, nil).Once()
	suite.mockJarRepo.On("ListJarsByUser", ctx, suite.userID, true).Return([]domain.Jar{*jar}, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.userID, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Transactions, 1)
	suite.Require().NotNil(resp.Transactions[0].Jar.Summary)
	suite.Equal("Necessities", resp.Transactions[0].Jar.Summary.Name)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
