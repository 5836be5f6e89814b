package controller

import (
	"errors"
	"net/http"
	"time"

	"game2048_backend/domain"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/middleware"
	"game2048_backend/internal/service/validation"
	"game2048_backend/internal/signup/usecase"

	"go.uber.org/zap"
)

type SignupHandler struct {
	usecase usecase.SignupUsecase
}

func NewSignupHandler(usecase usecase.SignupUsecase) *SignupHandler {
	return &SignupHandler{
		usecase: usecase,
	}
}

func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received Signup request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	var req domain.SignupRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	userID, err := h.usecase.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	middleware.WriteOK(w)
	logger.AccessLogger.Info("Completed Signup request",
		zap.String("request_id", requestID),
		zap.String("user_id", userID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *SignupHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received VerifyOTP request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	var req domain.VerifyOTPRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	if err := h.usecase.VerifyOTP(ctx, req.Email, req.OTP); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	middleware.WriteOK(w)
	logger.AccessLogger.Info("Completed VerifyOTP request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *SignupHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received ResendOTP request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	var req domain.ResendOTPRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	if err := h.usecase.ResendOTP(ctx, req.Email); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	middleware.WriteOK(w)
	logger.AccessLogger.Info("Completed ResendOTP request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *SignupHandler) handleError(w http.ResponseWriter, err error, requestID string) {
	logger.AccessLogger.Error("Handling error",
		zap.String("request_id", requestID),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		middleware.WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrAlreadyVerified):
		middleware.WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		middleware.WriteJSONError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
	case errors.Is(err, domain.ErrOTPExpired):
		middleware.WriteJSONError(w, http.StatusGone, domain.ErrOTPExpired.Error())
	case errors.Is(err, domain.ErrOTPInvalid):
		middleware.WriteJSONError(w, http.StatusForbidden, domain.ErrOTPInvalid.Error())
	default:
		middleware.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
