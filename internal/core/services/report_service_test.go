package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/core/services"
)

type ReportServiceTestSuite struct {
	suite.Suite
	mockReportRepo *MockReportRepository
	mockJarRepo    *MockJarRepository
	mockTxnRepo    *MockTransactionRepository
	mockUserRepo   *MockUserRepository
	service        portssvc.ReportSvcFacade
	userID         string
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockJarRepo = new(MockJarRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewReportService(suite.mockReportRepo, suite.mockJarRepo, suite.mockTxnRepo, suite.mockUserRepo)
	suite.userID = uuid.NewString()
}

func (suite *ReportServiceTestSuite) reportUser() *domain.User {
	return &domain.User{
		UserID:        suite.userID,
		Name:          "Linh",
		Email:         "linh@example.com",
		MonthlyIncome: decimal.NewFromInt(20000000),
		CurrencyCode:  "VND",
	}
}

func expenseTxn(jarID, userID, category string, amount int64, date time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		JarID:         jarID,
		UserID:        userID,
		Amount:        decimal.NewFromInt(amount),
		Type:          domain.Expense,
		Category:      category,
		Date:          date,
	}
}

func (suite *ReportServiceTestSuite) TestGenerateReport_AggregatesJarsAndCarryOver() {
	ctx := context.Background()
	necessitiesID := uuid.NewString()
	playID := uuid.NewString()
	jars := []domain.Jar{
		{JarID: necessitiesID, UserID: suite.userID, Name: "Necessities", Percentage: decimal.NewFromInt(55), TargetAmount: decimal.NewFromInt(11000000), IsActive: true},
		{JarID: playID, UserID: suite.userID, Name: "Play", Percentage: decimal.NewFromInt(10), TargetAmount: decimal.NewFromInt(2000000), IsActive: true},
	}
	periodDate := time.Date(2026, time.August, 12, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		expenseTxn(necessitiesID, suite.userID, "Food", 8000000, periodDate),
		expenseTxn(playID, suite.userID, "Movies", 2500000, periodDate),
		{TransactionID: uuid.NewString(), JarID: playID, UserID: suite.userID, Amount: decimal.NewFromInt(300000), Type: domain.Income, Category: "Refund", Date: periodDate},
	}
	prev := &domain.MonthlyReport{
		UserID:               suite.userID,
		Year:                 2026,
		Month:                7,
		TotalSavings:         decimal.NewFromInt(1000000),
		CarryOverToNextMonth: decimal.NewFromInt(1500000),
		IsFinalized:          true,
	}

	suite.mockReportRepo.On("FindReportByPeriod", ctx, suite.userID, 2026, 8).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(suite.reportUser(), nil).Once()
	suite.mockJarRepo.On("ListJarsByUser", ctx, suite.userID, true).Return(jars, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsForPeriod", ctx, suite.userID,
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)).Return(txns, nil).Once()
	suite.mockReportRepo.On("FindReportByPeriod", ctx, suite.userID, 2026, 7).Return(prev, nil).Once()
	suite.mockReportRepo.On("SaveReport", ctx, mock.AnythingOfType("domain.MonthlyReport")).Return(nil).Once()

	report, err := suite.service.GenerateReport(ctx, suite.userID, 2026, 8)

	suite.Require().NoError(err)
	suite.True(report.TotalAllocated.Equal(decimal.NewFromInt(13000000)))
	suite.True(report.TotalSpent.Equal(decimal.NewFromInt(10500000)))
	// Necessities saves 3M, Play overspends its allocation by 500k
	suite.True(report.TotalSavings.Equal(decimal.NewFromInt(2500000)))
	suite.True(report.CarryOverFromPreviousMonth.Equal(decimal.NewFromInt(1500000)))
	suite.True(report.CarryOverToNextMonth.Equal(decimal.NewFromInt(4000000)))
	suite.False(report.IsFinalized)

	suite.Require().Len(report.JarReports, 2)
	necessities := report.JarReports[0]
	suite.Equal("Necessities", necessities.JarName)
	suite.True(necessities.Savings.Equal(decimal.NewFromInt(3000000)))
	suite.Equal("27.27", necessities.SavingsPercentage)
	play := report.JarReports[1]
	suite.True(play.Savings.Equal(decimal.NewFromInt(-500000)))
	suite.Equal("-25", play.SavingsPercentage)
	suite.True(play.ActualIncome.Equal(decimal.NewFromInt(300000)))
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGenerateReport_InactiveJarWithActivity() {
	ctx := context.Background()
	activeID := uuid.NewString()
	retiredID := uuid.NewString()
	jars := []domain.Jar{
		{JarID: activeID, UserID: suite.userID, Name: "Necessities", TargetAmount: decimal.NewFromInt(11000000), IsActive: true},
		{JarID: retiredID, UserID: suite.userID, Name: "Old Hobby", TargetAmount: decimal.NewFromInt(1000000), IsActive: false},
	}
	txns := []domain.Transaction{
		expenseTxn(retiredID, suite.userID, "Hobby", 400000, time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)),
	}

	suite.mockReportRepo.On("FindReportByPeriod", ctx, suite.userID, 2026, 8).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(suite.reportUser(), nil).Once()
	suite.mockJarRepo.On("ListJarsByUser", ctx, suite.userID, true).Return(jars, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsForPeriod", ctx, suite.userID, mock.Anything, mock.Anything).Return(txns, nil).Once()
	suite.mockReportRepo.On("FindReportByPeriod", ctx, suite.userID, 2026, 7).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReportRepo.On("SaveReport", ctx, mock.Anything).Return(nil).Once()

	report, err := suite.service.GenerateReport(ctx, suite.userID, 2026, 8)

	suite.Require().NoError(err)
	suite.Require().Len(report.JarReports, 2)
	retired := report.JarReports[1]
	suite.Equal("Old Hobby", retired.JarName)
	suite.True(retired.AllocatedAmount.IsZero())
	suite.True(retired.ActualSpent.Equal(decimal.NewFromInt(400000)))
	suite.Equal("0", retired.SavingsPercentage)
	// A retired jar contributes nothing to the allocation total
	suite.True(report.TotalAllocated.Equal(decimal.NewFromInt(11000000)))
}

func (suite *ReportServiceTestSuite) TestGenerateReport_RegenerationKeepsDraftIdentity() {
	ctx := context.Background()
	created := time.Date(2026, time.August, 2, 9, 0, 0, 0, time.UTC)
	existing := &domain.MonthlyReport{
		ReportID:    uuid.NewString(),
		UserID:      suite.userID,
		Year:        2026,
		Month:       8,
		IsFinalized: false,
		AuditFields: domain.AuditFields{CreatedAt: created, CreatedBy: suite.userID},
	}

	suite.mockReportRepo.On("FindReportByPeriod", ctx, suite.userID, 2026, 8).Return(existing, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(suite.reportUser(), nil).Once()
	suite.mockJarRepo.On("ListJarsByUser", ctx, suite.userID, true).Return([]domain.Jar{}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsForPeriod", ctx, suite.userID, mock.Anything, mock.Anything).Return([]domain.Transaction{}, nil).Once()
	suite.mockReportRepo.On("FindReportByPeriod", ctx, suite.userID, 2026, 7).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReportRepo.On("SaveReport", ctx, mock.MatchedBy(func(r domain.MonthlyReport) bool {
		return r.ReportID == existing.ReportID && r.CreatedAt.Equal(created)
	})).Return(nil).Once()

	report, err := suite.service.GenerateReport(ctx, suite.userID, 2026, 8)

	suite.Require().NoError(err)
	suite.Equal(existing.ReportID, report.ReportID)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGenerateReport_FinalizedPeriodRejected() {
	ctx := context.Background()
	existing := &domain.MonthlyReport{ReportID: uuid.NewString(), UserID: suite.userID, Year: 2026, Month: 8, IsFinalized: true}

	suite.mockReportRepo.On("FindReportByPeriod", ctx, suite.userID, 2026, 8).Return(existing, nil).Once()

	report, err := suite.service.GenerateReport(ctx, suite.userID, 2026, 8)

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrAlreadyFinalized)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestGenerateReport_InvalidPeriod() {
	ctx := context.Background()

	report, err := suite.service.GenerateReport(ctx, suite.userID, 2026, 13)

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportServiceTestSuite) TestFinalizeReport_ReturnsDetail() {
	ctx := context.Background()
	detail := &domain.MonthlyReport{ReportID: uuid.NewString(), UserID: suite.userID, Year: 2026, Month: 8, IsFinalized: true}

	suite.mockReportRepo.On("FinalizeReport", ctx, suite.userID, 2026, 8, mock.AnythingOfType("time.Time"), suite.userID).Return(nil).Once()
	suite.mockReportRepo.On("FindReportDetail", ctx, suite.userID, 2026, 8).Return(detail, nil).Once()

	report, err := suite.service.FinalizeReport(ctx, suite.userID, 2026, 8)

	suite.Require().NoError(err)
	suite.True(report.IsFinalized)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestFinalizeReport_AlreadyFinalized() {
	ctx := context.Background()

	suite.mockReportRepo.On("FinalizeReport", ctx, suite.userID, 2026, 8, mock.AnythingOfType("time.Time"), suite.userID).Return(apperrors.ErrAlreadyFinalized).Once()

	report, err := suite.service.FinalizeReport(ctx, suite.userID, 2026, 8)

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrAlreadyFinalized)
}

func (suite *ReportServiceTestSuite) TestBuildPDFReportData_FormatsAndBreaksDownCategories() {
	ctx := context.Background()
	jarID := uuid.NewString()
	periodDate := time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)
	report := &domain.MonthlyReport{
		ReportID:                   uuid.NewString(),
		UserID:                     suite.userID,
		Year:                       2026,
		Month:                      8,
		UserIncome:                 decimal.NewFromInt(20000000),
		TotalAllocated:             decimal.NewFromInt(11000000),
		TotalSpent:                 decimal.NewFromInt(4000000),
		TotalSavings:               decimal.NewFromInt(7000000),
		CarryOverFromPreviousMonth: decimal.NewFromInt(1500000),
		CarryOverToNextMonth:       decimal.NewFromInt(8500000),
		JarReports: []domain.JarReport{
			{
				JarID:             jarID,
				JarName:           "Necessities",
				AllocatedAmount:   decimal.NewFromInt(11000000),
				ActualSpent:       decimal.NewFromInt(4000000),
				ActualIncome:      decimal.Zero,
				Savings:           decimal.NewFromInt(7000000),
				SavingsPercentage: "63.64",
				Transactions: []domain.Transaction{
					expenseTxn(jarID, suite.userID, "Food", 3000000, periodDate),
					expenseTxn(jarID, suite.userID, "", 1000000, periodDate),
				},
			},
		},
	}

	suite.mockReportRepo.On("FindReportDetail", ctx, suite.userID, 2026, 8).Return(report, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(suite.reportUser(), nil).Once()

	data, err := suite.service.BuildPDFReportData(ctx, suite.userID, 2026, 8)

	suite.Require().NoError(err)
	suite.Equal("2026-08", data.Period)
	suite.Equal("20000000", data.UserIncome)
	suite.Equal("4000000", data.TotalSpent)
	suite.Equal("8500000", data.CarryOverOut)

	suite.Require().Len(data.Jars, 1)
	suite.Equal("Necessities", data.Jars[0].JarName)
	suite.Equal(2, data.Jars[0].TransactionCount)

	suite.Require().Len(data.CategorySpendings, 2)
	suite.Equal("Food", data.CategorySpendings[0].Category)
	suite.True(data.CategorySpendings[0].Percentage.Equal(decimal.NewFromInt(75)))
	suite.Equal("Uncategorized", data.CategorySpendings[1].Category)
	suite.True(data.CategorySpendings[1].Percentage.Equal(decimal.NewFromInt(25)))
}

func (suite *ReportServiceTestSuite) TestOverview_AggregatesActiveJars() {
	ctx := context.Background()
	jars := []domain.Jar{
		{JarID: uuid.NewString(), UserID: suite.userID, Name: "Necessities", Percentage: decimal.NewFromInt(55), TargetAmount: decimal.NewFromInt(11000000), CurrentAmount: decimal.NewFromInt(4000000), IsActive: true},
		{JarID: uuid.NewString(), UserID: suite.userID, Name: "Play", Percentage: decimal.NewFromInt(10), TargetAmount: decimal.NewFromInt(2000000), CurrentAmount: decimal.NewFromInt(2500000), IsActive: true},
	}
	now := time.Now().UTC()
	txns := []domain.Transaction{
		expenseTxn(jars[0].JarID, suite.userID, "Food", 4000000, now),
		{TransactionID: uuid.NewString(), JarID: jars[1].JarID, UserID: suite.userID, Amount: decimal.NewFromInt(300000), Type: domain.Income, Date: now},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.userID).Return(suite.reportUser(), nil).Once()
	suite.mockJarRepo.On("ListJarsByUser", ctx, suite.userID, false).Return(jars, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsForPeriod", ctx, suite.userID, mock.Anything, mock.Anything).Return(txns, nil).Once()

	overview, err := suite.service.Overview(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, overview.ActiveJars)
	suite.True(overview.RemainingPercentage.Equal(decimal.NewFromInt(35)))
	suite.True(overview.TotalAllocated.Equal(decimal.NewFromInt(13000000)))
	// 7M left in Necessities, 500k over in Play
	suite.True(overview.TotalBalance.Equal(decimal.NewFromInt(6500000)))
	suite.True(overview.MonthSpent.Equal(decimal.NewFromInt(4000000)))
	suite.True(overview.MonthIncome.Equal(decimal.NewFromInt(300000)))
	suite.Require().Len(overview.JarStatuses, 2)
	suite.Equal(domain.JarOverspent, overview.JarStatuses[1].Status.Status)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
