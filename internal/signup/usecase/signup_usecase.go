package usecase

import (
	"context"
	"crypto/subtle"
	"time"

	"game2048_backend/domain"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/mailer"
	"game2048_backend/internal/service/middleware"
	"game2048_backend/internal/service/validation"

	"go.uber.org/zap"
)

type SignupUsecase interface {
	Register(ctx context.Context, username string, email string, password string) (string, error)
	VerifyOTP(ctx context.Context, email string, otp string) error
	ResendOTP(ctx context.Context, email string) error
}

type signupUsecase struct {
	users  domain.UserRepository
	mail   mailer.Sender
	newOTP func() (string, error)
	now    func() time.Time
}

func NewSignupUsecase(users domain.UserRepository, mail mailer.Sender) SignupUsecase {
	return &signupUsecase{
		users:  users,
		mail:   mail,
		newOTP: GenerateOTP,
		now:    time.Now,
	}
}

// Register creates an unverified account with a pending OTP and mails the code.
func (uc *signupUsecase) Register(ctx context.Context, username string, email string, password string) (string, error) {
	requestID := middleware.GetRequestID(ctx)
	username = validation.NormalizeUsername(username)
	email = validation.NormalizeEmail(email)

	if username == "" {
		return "", &domain.FieldError{Field: "username", Missing: true}
	}
	if validation.HasMarkup(username) {
		return "", &domain.FieldError{Field: "username"}
	}
	if email == "" {
		return "", &domain.FieldError{Field: "email", Missing: true}
	}

	taken, err := uc.users.UsernameExists(ctx, username)
	if err != nil {
		return "", err
	}
	if taken {
		logger.AccessLogger.Warn("Username taken", zap.String("request_id", requestID), zap.String("username", username))
		return "", domain.ErrUsernameTaken
	}

	taken, err = uc.users.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}
	if taken {
		logger.AccessLogger.Warn("Email taken", zap.String("request_id", requestID))
		return "", domain.ErrEmailTaken
	}

	otp, err := uc.newOTP()
	if err != nil {
		return "", err
	}
	issuedAt := uc.now()
	expiry := issuedAt.Add(OTPLifetime)

	user := &domain.User{
		Username:     username,
		Email:        email,
		OTP:          &otp,
		OTPCreatedAt: &issuedAt,
		OTPExpiry:    &expiry,
	}
	if err := middleware.SetPassword(user, password); err != nil {
		return "", err
	}

	if err := uc.users.CreateUser(ctx, user); err != nil {
		return "", err
	}

	uc.sendOTP(ctx, user.Email, user.Username, otp)
	return user.UUID, nil
}

func (uc *signupUsecase) VerifyOTP(ctx context.Context, email string, otp string) error {
	requestID := middleware.GetRequestID(ctx)

	user, err := uc.users.FindByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return err
	}

	// A consumed code leaves no expiry behind, so a verified account can never be re-verified by a stale code.
	if user.OTP == nil || user.OTPExpiry == nil || uc.now().After(*user.OTPExpiry) {
		logger.AccessLogger.Warn("OTP expired", zap.String("request_id", requestID), zap.String("user_id", user.UUID))
		return domain.ErrOTPExpired
	}

	if subtle.ConstantTimeCompare([]byte(*user.OTP), []byte(otp)) != 1 {
		logger.AccessLogger.Warn("OTP mismatch", zap.String("request_id", requestID), zap.String("user_id", user.UUID))
		return domain.ErrOTPInvalid
	}

	return uc.users.MarkVerified(ctx, user.UUID)
}

func (uc *signupUsecase) ResendOTP(ctx context.Context, email string) error {
	user, err := uc.users.FindByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user.IsVerified {
		logger.AccessLogger.Warn("OTP resend for verified account",
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.String("user_id", user.UUID),
		)
		return domain.ErrAlreadyVerified
	}

	otp, err := uc.newOTP()
	if err != nil {
		return err
	}
	issuedAt := uc.now()

	if err := uc.users.UpdateOTP(ctx, user.UUID, otp, issuedAt, issuedAt.Add(OTPLifetime)); err != nil {
		return err
	}

	uc.sendOTP(ctx, user.Email, user.Username, otp)
	return nil
}

// sendOTP is best effort: the account change already happened and stays.
func (uc *signupUsecase) sendOTP(ctx context.Context, to string, username string, otp string) {
	requestID := middleware.GetRequestID(ctx)

	msg, err := mailer.OTPMessage(to, username, otp, int(OTPLifetime.Minutes()))
	if err == nil {
		err = uc.mail.Send(ctx, msg)
	}
	if err != nil {
		logger.MailLogger.Error("OTP mail not delivered",
			zap.String("request_id", requestID),
			zap.String("to", to),
			zap.Error(err),
		)
	}
}
