package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sixjars/six_jars_app/internal/core/domain"
	portsrepo "github.com/sixjars/six_jars_app/internal/core/ports/repositories"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateIncome(ctx context.Context, userID string, income decimal.Decimal, updatedAt time.Time) error {
	args := m.Called(ctx, userID, income, updatedAt)
	return args.Error(0)
}

// --- Mock JarRepository ---
type MockJarRepository struct {
	mock.Mock
}

func (m *MockJarRepository) FindJarByID(ctx context.Context, jarID string) (*domain.Jar, error) {
	args := m.Called(ctx, jarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Jar), args.Error(1)
}

func (m *MockJarRepository) ListJarsByUser(ctx context.Context, userID string, includeInactive bool) ([]domain.Jar, error) {
	args := m.Called(ctx, userID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Jar), args.Error(1)
}

func (m *MockJarRepository) SumActivePercentages(ctx context.Context, userID string, excludeJarID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, excludeJarID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockJarRepository) SaveJar(ctx context.Context, jar domain.Jar) error {
	args := m.Called(ctx, jar)
	return args.Error(0)
}

func (m *MockJarRepository) SaveJars(ctx context.Context, jars []domain.Jar) error {
	args := m.Called(ctx, jars)
	return args.Error(0)
}

func (m *MockJarRepository) UpdateJar(ctx context.Context, jar domain.Jar) error {
	args := m.Called(ctx, jar)
	return args.Error(0)
}

func (m *MockJarRepository) DeactivateJar(ctx context.Context, jarID string, updatedAt time.Time, updatedBy string) error {
	args := m.Called(ctx, jarID, updatedAt, updatedBy)
	return args.Error(0)
}

func (m *MockJarRepository) DeleteJar(ctx context.Context, jarID string) error {
	args := m.Called(ctx, jarID)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, userID string, filter portsrepo.ListTransactionsFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, filter)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

func (m *MockTransactionRepository) ListTransactionsForPeriod(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountTransactionsByJar(ctx context.Context, jarID string) (int64, error) {
	args := m.Called(ctx, jarID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceDelta)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceDelta)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string, jarID string, balanceDelta decimal.Decimal) error {
	args := m.Called(ctx, transactionID, jarID, balanceDelta)
	return args.Error(0)
}

// --- Mock ReportRepository ---
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindReportByPeriod(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error) {
	args := m.Called(ctx, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyReport), args.Error(1)
}

func (m *MockReportRepository) FindReportDetail(ctx context.Context, userID string, year, month int) (*domain.MonthlyReport, error) {
	args := m.Called(ctx, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyReport), args.Error(1)
}

func (m *MockReportRepository) ListReports(ctx context.Context, userID string, filter portsrepo.ListReportsFilter) ([]domain.MonthlyReport, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyReport), args.Error(1)
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report domain.MonthlyReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) FinalizeReport(ctx context.Context, userID string, year, month int, finalizedAt time.Time, finalizedBy string) error {
	args := m.Called(ctx, userID, year, month, finalizedAt, finalizedBy)
	return args.Error(0)
}
