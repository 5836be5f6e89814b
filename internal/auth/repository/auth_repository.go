package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"game2048_backend/domain"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/middleware"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info("CreateUser called", zap.String("request_id", requestID), zap.String("username", user.Username))

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.DBLogger.Warn("Duplicate user on insert", zap.String("request_id", requestID), zap.String("username", user.Username))
			return r.conflictFor(ctx, user)
		}
		logger.DBLogger.Error("Error creating user", zap.String("request_id", requestID), zap.Error(err))
		return fmt.Errorf("create user: %w", err)
	}

	logger.DBLogger.Info("Successfully created user", zap.String("request_id", requestID), zap.String("user_id", user.UUID))
	return nil
}

// conflictFor names which unique column a concurrent insert collided on.
func (r *userRepository) conflictFor(ctx context.Context, user *domain.User) error {
	taken, err := r.UsernameExists(ctx, user.Username)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}
	return domain.ErrEmailTaken
}

func (r *userRepository) findOne(ctx context.Context, op string, query string, args ...interface{}) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info(op+" called", zap.String("request_id", requestID))

	var user domain.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.DBLogger.Info("User not found", zap.String("request_id", requestID), zap.String("op", op))
			return nil, domain.ErrUserNotFound
		}
		logger.DBLogger.Error("Error getting user", zap.String("request_id", requestID), zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "FindByID", "uuid = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "FindByEmail", "email = ?", email)
}

func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, username string, email string) (*domain.User, error) {
	return r.findOne(ctx, "FindByUsernameOrEmail", "username = ? OR email = ?", username, email)
}

func (r *userRepository) exists(ctx context.Context, column string, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where(column+" = ?", value).Count(&count).Error
	if err != nil {
		logger.DBLogger.Error("Error counting users",
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.String("column", column),
			zap.Error(err),
		)
		return false, fmt.Errorf("count users by %s: %w", column, err)
	}
	return count > 0, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *userRepository) updateByID(ctx context.Context, op string, userID string, fields map[string]interface{}) error {
	requestID := middleware.GetRequestID(ctx)
	logger.DBLogger.Info(op+" called", zap.String("request_id", requestID), zap.String("user_id", userID))

	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("uuid = ?", userID).Updates(fields)
	if res.Error != nil {
		logger.DBLogger.Error("Error updating user", zap.String("request_id", requestID), zap.String("op", op), zap.Error(res.Error))
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	logger.DBLogger.Info("Successfully updated user", zap.String("request_id", requestID), zap.String("op", op))
	return nil
}

func (r *userRepository) UpdateOTP(ctx context.Context, userID string, otp string, createdAt time.Time, expiry time.Time) error {
	return r.updateByID(ctx, "UpdateOTP", userID, map[string]interface{}{
		"otp":            otp,
		"otp_created_at": createdAt,
		"otp_expiry":     expiry,
	})
}

// MarkVerified flips the account to verified and consumes the pending code.
func (r *userRepository) MarkVerified(ctx context.Context, userID string) error {
	return r.updateByID(ctx, "MarkVerified", userID, map[string]interface{}{
		"is_verified":    true,
		"otp":            nil,
		"otp_created_at": nil,
		"otp_expiry":     nil,
	})
}
