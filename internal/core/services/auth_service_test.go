package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sixjars/six_jars_app/internal/apperrors"
	"github.com/sixjars/six_jars_app/internal/core/domain"
	portssvc "github.com/sixjars/six_jars_app/internal/core/ports/services"
	"github.com/sixjars/six_jars_app/internal/core/services"
	"github.com/sixjars/six_jars_app/internal/dto"
	"github.com/sixjars/six_jars_app/internal/platform/config"
	"github.com/sixjars/six_jars_app/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "six-jars-app",
		DefaultCurrency:   "VND",
	}
	suite.service = services.NewAuthService(cfg, suite.mockUserRepo)
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{Name: "Linh", Email: "  Linh@Example.COM ", Password: "s3cret-pass"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "linh@example.com" &&
			u.CurrencyCode == "VND" &&
			u.MonthlyIncome.IsZero() &&
			utils.CheckPasswordHash("s3cret-pass", u.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("linh@example.com", user.Email)
	suite.NotEmpty(user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{Name: "Linh", Email: "linh@example.com", Password: "s3cret-pass"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Email: "linh@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "linh@example.com").Return(stored, nil).Once()

	token, user, err := suite.service.Login(ctx, dto.LoginRequest{Email: "Linh@Example.com", Password: "s3cret-pass"})

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Email: "linh@example.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "linh@example.com").Return(stored, nil).Once()

	token, user, err := suite.service.Login(ctx, dto.LoginRequest{Email: "linh@example.com", Password: "wrong"})

	suite.Require().Error(err)
	suite.Empty(token)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmailIndistinguishable() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	token, user, err := suite.service.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	suite.Require().Error(err)
	suite.Empty(token)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
