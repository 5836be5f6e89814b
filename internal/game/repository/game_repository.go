package repository

import (
	"context"
	"errors"
	"fmt"

	"game2048_backend/domain"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/middleware"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) domain.GameRepository {
	return &gameRepository{
		db: db,
	}
}

// SaveGameState replaces the stored board wholesale. The high score only moves
// up, and both columns change in one statement.
func (r *gameRepository) SaveGameState(ctx context.Context, userID string, state *domain.GameState) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("SaveGameState called",
		zap.String("request_id", requestID),
		zap.String("user_id", userID),
		zap.Int("best_score", state.BestScore),
	)

	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("uuid = ?", userID).Updates(map[string]interface{}{
		"game_state": state,
		"high_score": gorm.Expr("GREATEST(high_score, ?)", state.BestScore),
	})
	if res.Error != nil {
		logger.DBLogger.Error("Error saving game state", zap.String("request_id", requestID), zap.Error(res.Error))
		return fmt.Errorf("save game state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		logger.DBLogger.Warn("Game state saved for missing user", zap.String("request_id", requestID), zap.String("user_id", userID))
		return domain.ErrUserNotFound
	}

	logger.DBLogger.Info("Successfully saved game state", zap.String("request_id", requestID), zap.String("user_id", userID))
	return nil
}

func (r *gameRepository) GetGameState(ctx context.Context, userID string) (*domain.GameState, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("GetGameState called", zap.String("request_id", requestID), zap.String("user_id", userID))

	var user domain.User
	err := r.db.WithContext(ctx).Select("uuid", "game_state").Where("uuid = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		logger.DBLogger.Error("Error getting game state", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("get game state: %w", err)
	}
	if user.GameState == nil {
		return nil, domain.ErrGameStateNotFound
	}
	return user.GameState, nil
}

func (r *gameRepository) ListLeaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("ListLeaderboard called", zap.String("request_id", requestID), zap.Int("limit", limit))

	var users []domain.User
	err := r.db.WithContext(ctx).
		Select("uuid", "username", "high_score", "game_state").
		Where("game_state IS NOT NULL AND high_score > ?", 0).
		Order("high_score DESC").
		Order("(game_state->>'moves')::int ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		logger.DBLogger.Error("Error listing leaderboard", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}

	logger.DBLogger.Info("Successfully listed leaderboard", zap.String("request_id", requestID), zap.Int("count", len(users)))
	return users, nil
}
