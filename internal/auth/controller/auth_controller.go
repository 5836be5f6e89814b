package controller

import (
	"errors"
	"net/http"
	"time"

	"game2048_backend/domain"
	"game2048_backend/internal/auth/usecase"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/middleware"
	"game2048_backend/internal/service/validation"

	"go.uber.org/zap"
)

type AuthHandler struct {
	usecase  usecase.AuthUsecase
	jwtToken middleware.JwtTokenService
	cookies  middleware.CookiePolicy
}

func NewAuthHandler(usecase usecase.AuthUsecase, jwtToken middleware.JwtTokenService, cookies middleware.CookiePolicy) *AuthHandler {
	return &AuthHandler{
		usecase:  usecase,
		jwtToken: jwtToken,
		cookies:  cookies,
	}
}

func logReceived(r *http.Request, name string) {
	logger.AccessLogger.Info("Received "+name+" request",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)
}

func logCompleted(r *http.Request, name string, start time.Time, status int) {
	logger.AccessLogger.Info("Completed "+name+" request",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", status),
	)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logReceived(r, "Login")

	var creds domain.LoginRequest
	if err := validation.DecodeJSON(r.Body, &creds); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	user, err := h.usecase.Login(ctx, creds.Username, creds.Email, creds.Password)
	if err != nil {
		logger.AccessLogger.Error("Failed to login",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.handleError(w, err, requestID)
		return
	}

	h.respondWithSession(w, r, user, creds.Remember, start, "Login")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logReceived(r, "Me")

	claims, err := middleware.SessionFromRequest(r, h.jwtToken)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	user, err := h.usecase.Me(ctx, claims.ID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	if err := middleware.WriteJSON(w, http.StatusOK, domain.UserInfoResponse{UserInfo: user.Info()}); err != nil {
		logger.AccessLogger.Error("Failed to encode response", zap.String("request_id", requestID), zap.Error(err))
		return
	}
	logCompleted(r, "Me", start, http.StatusOK)
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logReceived(r, "GoogleLogin")

	var req domain.GoogleLoginRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	user, err := h.usecase.GoogleLogin(ctx, req.Code)
	if err != nil {
		logger.AccessLogger.Error("Failed Google login",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.handleError(w, err, requestID)
		return
	}

	h.respondWithSession(w, r, user, req.Remember, start, "GoogleLogin")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logReceived(r, "Logout")

	middleware.ClearSession(w, h.cookies)
	middleware.WriteOK(w)

	logCompleted(r, "Logout", start, http.StatusOK)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, user *domain.User, remember bool, start time.Time, name string) {
	requestID := middleware.GetRequestID(r.Context())

	if err := middleware.IssueSession(w, h.jwtToken, h.cookies, user, remember); err != nil {
		logger.AccessLogger.Error("Failed to create JWT token",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		h.handleError(w, err, requestID)
		return
	}

	if err := middleware.WriteJSON(w, http.StatusOK, domain.UserInfoResponse{UserInfo: user.Info()}); err != nil {
		logger.AccessLogger.Error("Failed to encode response", zap.String("request_id", requestID), zap.Error(err))
		return
	}
	logCompleted(r, name, start, http.StatusOK)
}

func (h *AuthHandler) handleError(w http.ResponseWriter, err error, requestID string) {
	logger.AccessLogger.Error("Handling error",
		zap.String("request_id", requestID),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		middleware.WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		middleware.WriteJSONError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
	// /login/me answers a missing cookie with 404, unlike the /game gate.
	case errors.Is(err, domain.ErrUnauthenticated):
		middleware.WriteJSONError(w, http.StatusNotFound, domain.ErrUnauthenticated.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		middleware.WriteJSONError(w, http.StatusForbidden, domain.ErrInvalidToken.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		middleware.WriteJSONError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrInvalidCode):
		middleware.WriteJSONError(w, http.StatusUnauthorized, domain.ErrInvalidCode.Error())
	default:
		middleware.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
