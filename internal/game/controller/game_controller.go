package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"game2048_backend/domain"
	"game2048_backend/internal/game/usecase"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/middleware"
	"game2048_backend/internal/service/validation"

	"go.uber.org/zap"
)

type GameHandler struct {
	usecase usecase.GameUsecase
}

func NewGameHandler(usecase usecase.GameUsecase) *GameHandler {
	return &GameHandler{
		usecase: usecase,
	}
}

func (h *GameHandler) SaveGame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received SaveGame request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.handleError(w, domain.ErrUnauthenticated, requestID)
		return
	}

	var req domain.SaveGameRequest
	if err := validation.DecodeJSON(r.Body, &req); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	if err := h.usecase.SaveGame(ctx, claims.ID, &req); err != nil {
		h.handleError(w, err, requestID)
		return
	}

	middleware.WriteOK(w)
	logger.AccessLogger.Info("Completed SaveGame request",
		zap.String("request_id", requestID),
		zap.String("user_id", claims.ID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received GetState request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.handleError(w, domain.ErrUnauthenticated, requestID)
		return
	}

	state, err := h.usecase.GetState(ctx, claims.ID)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	if err := middleware.WriteJSON(w, http.StatusOK, state); err != nil {
		logger.AccessLogger.Error("Failed to encode response", zap.String("request_id", requestID), zap.Error(err))
		return
	}
	logger.AccessLogger.Info("Completed GetState request",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())
	ctx, cancel := middleware.WithTimeout(r.Context())
	defer cancel()

	logger.AccessLogger.Info("Received Leaderboard request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("url", r.URL.String()),
	)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.handleError(w, &domain.FieldError{Field: "limit"}, requestID)
			return
		}
		limit = n
	}

	entries, err := h.usecase.Leaderboard(ctx, limit)
	if err != nil {
		h.handleError(w, err, requestID)
		return
	}

	if err := middleware.WriteJSON(w, http.StatusOK, domain.LeaderboardResponse{Users: entries}); err != nil {
		logger.AccessLogger.Error("Failed to encode response", zap.String("request_id", requestID), zap.Error(err))
		return
	}
	logger.AccessLogger.Info("Completed Leaderboard request",
		zap.String("request_id", requestID),
		zap.Int("count", len(entries)),
		zap.Duration("duration", time.Since(start)),
		zap.Int("status", http.StatusOK),
	)
}

func (h *GameHandler) handleError(w http.ResponseWriter, err error, requestID string) {
	logger.AccessLogger.Error("Handling error",
		zap.String("request_id", requestID),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		middleware.WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		middleware.WriteJSONError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		middleware.WriteJSONError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
	case errors.Is(err, domain.ErrGameStateNotFound):
		middleware.WriteJSONError(w, http.StatusNotFound, domain.ErrGameStateNotFound.Error())
	default:
		middleware.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
