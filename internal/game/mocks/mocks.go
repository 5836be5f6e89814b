package mocks

import (
	"context"

	"game2048_backend/domain"

	"github.com/stretchr/testify/mock"
)

// MockGameRepository - мок хранилища игр
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) SaveGameState(ctx context.Context, userID string, state *domain.GameState) error {
	args := m.Called(ctx, userID, state)
	return args.Error(0)
}

func (m *MockGameRepository) GetGameState(ctx context.Context, userID string) (*domain.GameState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.GameState), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepository) ListLeaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockGameUsecase - мок usecase игры
type MockGameUsecase struct {
	mock.Mock
}

func (m *MockGameUsecase) SaveGame(ctx context.Context, userID string, req *domain.SaveGameRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

func (m *MockGameUsecase) GetState(ctx context.Context, userID string) (*domain.GameState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.GameState), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameUsecase) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
	}
	return nil, args.Error(1)
}
