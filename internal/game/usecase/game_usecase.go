package usecase

import (
	"context"

	"game2048_backend/domain"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/middleware"

	"go.uber.org/zap"
)

type GameUsecase interface {
	SaveGame(ctx context.Context, userID string, req *domain.SaveGameRequest) error
	GetState(ctx context.Context, userID string) (*domain.GameState, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type gameUsecase struct {
	games domain.GameRepository
}

func NewGameUsecase(games domain.GameRepository) GameUsecase {
	return &gameUsecase{
		games: games,
	}
}

func (uc *gameUsecase) SaveGame(ctx context.Context, userID string, req *domain.SaveGameRequest) error {
	if err := ValidateShape(req); err != nil {
		logger.AccessLogger.Warn("Board shape mismatch",
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err),
		)
		return err
	}
	return uc.games.SaveGameState(ctx, userID, NormalizeGameState(req))
}

func (uc *gameUsecase) GetState(ctx context.Context, userID string) (*domain.GameState, error) {
	return uc.games.GetGameState(ctx, userID)
}

func (uc *gameUsecase) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	limit = ClampLimit(limit)

	users, err := uc.games.ListLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	return RankLeaderboard(users, limit), nil
}
