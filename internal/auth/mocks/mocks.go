package mocks

import (
	"context"
	"time"

	"game2048_backend/domain"
	"game2048_backend/internal/service/middleware"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository - мок хранилища пользователей
type MockUserRepository struct {
	mock.Mock
}

func userOrNil(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return userOrNil(m.Called(ctx, id))
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return userOrNil(m.Called(ctx, email))
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, username string, email string) (*domain.User, error) {
	return userOrNil(m.Called(ctx, username, email))
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateOTP(ctx context.Context, userID string, otp string, createdAt time.Time, expiry time.Time) error {
	args := m.Called(ctx, userID, otp, createdAt, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockAuthUsecase - мок usecase для аутентификации
type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Login(ctx context.Context, username string, email string, password string) (*domain.User, error) {
	return userOrNil(m.Called(ctx, username, email, password))
}

func (m *MockAuthUsecase) Me(ctx context.Context, userID string) (*domain.User, error) {
	return userOrNil(m.Called(ctx, userID))
}

func (m *MockAuthUsecase) GoogleLogin(ctx context.Context, code string) (*domain.User, error) {
	return userOrNil(m.Called(ctx, code))
}

// MockJwtTokenService - мок сервиса JWT
type MockJwtTokenService struct {
	mock.Mock
}

func (m *MockJwtTokenService) Create(user *domain.User, tokenExpTime int64) (string, error) {
	args := m.Called(user, tokenExpTime)
	return args.String(0), args.Error(1)
}

func (m *MockJwtTokenService) Validate(tokenString string) (*middleware.SessionClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) != nil {
		return args.Get(0).(*middleware.SessionClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJwtTokenService) ParseSecretGetter(token *jwt.Token) (interface{}, error) {
	args := m.Called(token)
	return args.Get(0), args.Error(1)
}

// MockCodeExchanger - мок обмена кода Google
type MockCodeExchanger struct {
	mock.Mock
}

func (m *MockCodeExchanger) Exchange(ctx context.Context, code string) (*domain.GoogleClaims, error) {
	args := m.Called(ctx, code)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.GoogleClaims), args.Error(1)
	}
	return nil, args.Error(1)
}
