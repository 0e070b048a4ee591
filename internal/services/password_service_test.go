package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tivastore/internal/models"
	"tivastore/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type PasswordServiceTestSuite struct {
	suite.Suite
	users   *MockUserRepository
	mailer  *MockMailer
	service *PasswordService
	ctx     context.Context
}

func (suite *PasswordServiceTestSuite) SetupTest() {
	suite.users = &MockUserRepository{}
	suite.mailer = &MockMailer{}
	suite.service = NewPasswordService(suite.users, suite.mailer, "http://localhost:5175")
	suite.ctx = context.Background()

	suite.users.Test(suite.T())
	suite.mailer.Test(suite.T())
}

func TestPasswordServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (suite *PasswordServiceTestSuite) user() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Name:     "Ada",
		Email:    "ada@example.com",
		IsActive: true,
	}
}

func (suite *PasswordServiceTestSuite) TestForgot_UnknownEmailLooksIdentical() {
	suite.users.On("GetByEmail", suite.ctx, "ghost@example.com").Return(nil, repositories.ErrNotFound)

	message, err := suite.service.Forgot(suite.ctx, "ghost@example.com")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), forgotMessage, message)
	suite.users.AssertNotCalled(suite.T(), "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mailer.AssertNotCalled(suite.T(), "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PasswordServiceTestSuite) TestForgot_SendsTokenLink() {
	user := suite.user()
	suite.users.On("GetByEmail", suite.ctx, "ada@example.com").Return(user, nil)

	var issuedToken string
	suite.users.On("SetResetToken", suite.ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			issuedToken = args.String(2)
			expires := args.Get(3).(time.Time)
			assert.WithinDuration(suite.T(), time.Now().Add(time.Hour), expires, time.Minute)
		}).Return(nil)
	suite.mailer.On("SendPasswordReset", "ada@example.com", "Ada", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			assert.Contains(suite.T(), args.String(2), "http://localhost:5175/reset-password/")
		}).Return(nil)

	message, err := suite.service.Forgot(suite.ctx, "Ada@Example.com")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), forgotMessage, message)
	// 32 random bytes, hex encoded.
	assert.Len(suite.T(), issuedToken, 64)
	suite.mailer.AssertExpectations(suite.T())
}

func (suite *PasswordServiceTestSuite) TestForgot_EmailFailureClearsToken() {
	user := suite.user()
	suite.users.On("GetByEmail", suite.ctx, "ada@example.com").Return(user, nil)
	suite.users.On("SetResetToken", suite.ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
	suite.mailer.On("SendPasswordReset", "ada@example.com", "Ada", mock.AnythingOfType("string")).Return(assert.AnError)
	suite.users.On("ClearResetToken", suite.ctx, user.ID).Return(nil)

	_, err := suite.service.Forgot(suite.ctx, "ada@example.com")
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusInternalServerError, httpErr.Code)
	suite.users.AssertCalled(suite.T(), "ClearResetToken", suite.ctx, user.ID)
}

func (suite *PasswordServiceTestSuite) TestReset_InvalidToken() {
	suite.users.On("GetByResetToken", suite.ctx, "bad-token").Return(nil, repositories.ErrNotFound)

	err := suite.service.Reset(suite.ctx, "bad-token", "newpassword")
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
}

func (suite *PasswordServiceTestSuite) TestReset_ConsumesToken() {
	user := suite.user()
	suite.users.On("GetByResetToken", suite.ctx, "good-token").Return(user, nil)
	suite.users.On("UpdatePassword", suite.ctx, user.ID, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			hash := args.String(2)
			assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")))
		}).Return(nil)
	suite.users.On("ClearResetToken", suite.ctx, user.ID).Return(nil)

	err := suite.service.Reset(suite.ctx, "good-token", "newpassword")
	assert.NoError(suite.T(), err)
	suite.users.AssertExpectations(suite.T())
}

func (suite *PasswordServiceTestSuite) TestChange_WrongCurrentPassword() {
	user := suite.user()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	user.PasswordHash = string(hash)
	suite.users.On("GetByID", suite.ctx, user.ID).Return(user, nil)

	err := suite.service.Change(suite.ctx, user.ID, "wrong-horse", "newpassword")
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusUnauthorized, httpErr.Code)
	suite.users.AssertNotCalled(suite.T(), "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PasswordServiceTestSuite) TestChange_ShortPasswordRejected() {
	err := suite.service.Change(suite.ctx, uuid.New(), "current", "abc")
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
}
