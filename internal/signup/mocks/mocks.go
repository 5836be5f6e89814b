package mocks

import (
	"context"

	"game2048_backend/internal/service/mailer"

	"github.com/stretchr/testify/mock"
)

// MockSignupUsecase - мок usecase регистрации
type MockSignupUsecase struct {
	mock.Mock
}

func (m *MockSignupUsecase) Register(ctx context.Context, username string, email string, password string) (string, error) {
	args := m.Called(ctx, username, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockSignupUsecase) VerifyOTP(ctx context.Context, email string, otp string) error {
	args := m.Called(ctx, email, otp)
	return args.Error(0)
}

func (m *MockSignupUsecase) ResendOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockSender - мок отправки писем
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
