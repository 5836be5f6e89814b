package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"game2048_backend/domain"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/middleware"
	"game2048_backend/internal/service/oauth"
	"game2048_backend/internal/service/validation"

	"go.uber.org/zap"
)

const (
	seedDigits        = 4
	maxUsernameProbes = 1000
	maxCreateAttempts = 3
)

type AuthUsecase interface {
	Login(ctx context.Context, username string, email string, password string) (*domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	GoogleLogin(ctx context.Context, code string) (*domain.User, error)
}

type authUsecase struct {
	users  domain.UserRepository
	google oauth.CodeExchanger
}

func NewAuthUsecase(users domain.UserRepository, google oauth.CodeExchanger) AuthUsecase {
	return &authUsecase{
		users:  users,
		google: google,
	}
}

func (uc *authUsecase) Login(ctx context.Context, username string, email string, password string) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	username = validation.NormalizeUsername(username)
	email = validation.NormalizeEmail(email)

	user, err := uc.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}

	if user.IsGoogleUser {
		logger.AccessLogger.Warn("Password login attempted on Google account",
			zap.String("request_id", requestID),
			zap.String("user_id", user.UUID),
		)
		return nil, domain.ErrInvalidCredentials
	}

	if !middleware.CheckPassword(user.Password, password) {
		logger.AccessLogger.Warn("Wrong password", zap.String("request_id", requestID), zap.String("user_id", user.UUID))
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (uc *authUsecase) Me(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.FindByID(ctx, userID)
}

// GoogleLogin resolves an authorization code to a local account. An existing
// account with the same email is treated as a login, otherwise a verified
// Google account is created.
func (uc *authUsecase) GoogleLogin(ctx context.Context, code string) (*domain.User, error) {
	claims, err := uc.google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return uc.reconcile(ctx, claims)
}

func (uc *authUsecase) reconcile(ctx context.Context, claims *domain.GoogleClaims) (*domain.User, error) {
	requestID := middleware.GetRequestID(ctx)
	email := validation.NormalizeEmail(claims.Email)

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		existing, err := uc.users.FindByEmail(ctx, email)
		if err == nil {
			logger.AccessLogger.Info("Google login for existing account",
				zap.String("request_id", requestID),
				zap.String("user_id", existing.UUID),
			)
			return existing, nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}

		user, err := uc.newGoogleUser(ctx, email, claims)
		if err != nil {
			return nil, err
		}

		err = uc.users.CreateUser(ctx, user)
		switch {
		case err == nil:
			logger.AccessLogger.Info("Created Google account",
				zap.String("request_id", requestID),
				zap.String("user_id", user.UUID),
				zap.String("username", user.Username),
			)
			return user, nil
		case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrEmailTaken):
			logger.AccessLogger.Warn("Google account creation raced, retrying",
				zap.String("request_id", requestID),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
		default:
			return nil, err
		}
	}

	return nil, domain.ErrUsernameExhausted
}

func (uc *authUsecase) newGoogleUser(ctx context.Context, email string, claims *domain.GoogleClaims) (*domain.User, error) {
	username, err := uc.generateUsername(ctx, usernameBase(claims, email), claims.Subject)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		IsGoogleUser: true,
		IsVerified:   true,
		GoogleInfo: &domain.GoogleInfo{
			Name:       claims.Name,
			Picture:    claims.Picture,
			GivenName:  claims.GivenName,
			FamilyName: claims.FamilyName,
		},
	}
	// The subject id is a placeholder secret; password login is refused for Google accounts anyway.
	if err := middleware.SetPassword(user, claims.Subject); err != nil {
		return nil, err
	}
	return user, nil
}

func usernameBase(claims *domain.GoogleClaims, email string) string {
	for _, candidate := range []string{claims.GivenName, claims.Name} {
		if base := validation.NormalizeUsername(candidate); base != "" && !validation.HasMarkup(base) {
			return base
		}
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// generateUsername probes base#N starting from the numeric tail of seed and
// returns the first name nobody holds.
func (uc *authUsecase) generateUsername(ctx context.Context, base string, seed string) (string, error) {
	start, ok := seedSuffix(seed)
	if !ok {
		logger.AccessLogger.Warn("Unusable username seed",
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.String("seed", seed),
		)
		return "", domain.ErrUsernameExhausted
	}

	for i := 0; i < maxUsernameProbes; i++ {
		candidate := fmt.Sprintf("%s#%d", base, start+i)
		taken, err := uc.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", domain.ErrUsernameExhausted
}

func seedSuffix(seed string) (int, bool) {
	tail := seed
	if len(tail) > seedDigits {
		tail = tail[len(tail)-seedDigits:]
	}
	if tail == "" {
		return 0, false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tail)
	return n, err == nil
}
