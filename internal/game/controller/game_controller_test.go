package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"game2048_backend/domain"
	"game2048_backend/internal/game/mocks"
	"game2048_backend/internal/service/logger"
	"game2048_backend/internal/service/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const savePayload = `{
	"prevMatrix": [[0,2],[0,0]],
	"matrix": [[0,0],[2,2]],
	"maxScore": 0,
	"currScore": 0,
	"status": "PLAYING",
	"best": 64,
	"rows": 2,
	"columns": 2,
	"undo": false,
	"newTileCoords": [[1,0]],
	"positionsArr": [{"isMerged": false, "value": 2, "initialCoords": {"row": 1, "column": 2}, "finalCoords": {"row": 0, "column": 2}}],
	"moves": 3,
	"max_tile": 2
}`

func newTestHandler() (*GameHandler, *mocks.MockGameUsecase) {
	logger.AccessLogger = zap.NewNop()
	mockUsecase := new(mocks.MockGameUsecase)
	return NewGameHandler(mockUsecase), mockUsecase
}

func authedRequest(method, url string, body string) *http.Request {
	r := httptest.NewRequest(method, url, bytes.NewBufferString(body))
	return r.WithContext(middleware.WithClaims(r.Context(), &middleware.SessionClaims{ID: "user-123", Username: "alice"}))
}

func TestSaveGame(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, mockUsecase := newTestHandler()

		mockUsecase.On("SaveGame", mock.Anything, "user-123", mock.MatchedBy(func(req *domain.SaveGameRequest) bool {
			return *req.Best == 64 && *req.PositionsArr[0].InitialCoords.Row == 1
		})).Return(nil)

		w := httptest.NewRecorder()
		h.SaveGame(w, authedRequest(http.MethodPost, "/game/save", savePayload))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
		mockUsecase.AssertExpectations(t)
	})

	for _, field := range []string{"matrix", "best", "undo", "positionsArr", "max_tile"} {
		field := field
		t.Run("Missing "+field, func(t *testing.T) {
			h, mockUsecase := newTestHandler()

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(savePayload), &payload))
			delete(payload, field)
			body, _ := json.Marshal(payload)

			w := httptest.NewRecorder()
			h.SaveGame(w, authedRequest(http.MethodPost, "/game/save", string(body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"missing or undefined field: `+field+`"}`, w.Body.String())
			mockUsecase.AssertNotCalled(t, "SaveGame", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("Shape Mismatch", func(t *testing.T) {
		h, mockUsecase := newTestHandler()
		mockUsecase.On("SaveGame", mock.Anything, "user-123", mock.Anything).Return(&domain.FieldError{Field: "matrix"})

		w := httptest.NewRecorder()
		h.SaveGame(w, authedRequest(http.MethodPost, "/game/save", savePayload))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid field: matrix"}`, w.Body.String())
	})

	t.Run("User Gone", func(t *testing.T) {
		h, mockUsecase := newTestHandler()
		mockUsecase.On("SaveGame", mock.Anything, "user-123", mock.Anything).Return(domain.ErrUserNotFound)

		w := httptest.NewRecorder()
		h.SaveGame(w, authedRequest(http.MethodPost, "/game/save", savePayload))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("No Session In Context", func(t *testing.T) {
		h, _ := newTestHandler()

		w := httptest.NewRecorder()
		h.SaveGame(w, httptest.NewRequest(http.MethodPost, "/game/save", strings.NewReader(savePayload)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Store Failure", func(t *testing.T) {
		h, mockUsecase := newTestHandler()
		mockUsecase.On("SaveGame", mock.Anything, "user-123", mock.Anything).Return(errors.New("db down"))

		w := httptest.NewRecorder()
		h.SaveGame(w, authedRequest(http.MethodPost, "/game/save", savePayload))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})
}

func TestGetState(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, mockUsecase := newTestHandler()
		mockUsecase.On("GetState", mock.Anything, "user-123").
			Return(&domain.GameState{BestScore: 64, NewTileCoords: []domain.Coordinates{{X: 1, Y: 0}}}, nil)

		w := httptest.NewRecorder()
		h.GetState(w, authedRequest(http.MethodGet, "/game/state", ""))

		assert.Equal(t, http.StatusOK, w.Code)
		var state domain.GameState
		require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
		assert.Equal(t, 64, state.BestScore)
		assert.Equal(t, []domain.Coordinates{{X: 1, Y: 0}}, state.NewTileCoords)
	})

	t.Run("Nothing Saved", func(t *testing.T) {
		h, mockUsecase := newTestHandler()
		mockUsecase.On("GetState", mock.Anything, "user-123").Return(nil, domain.ErrGameStateNotFound)

		w := httptest.NewRecorder()
		h.GetState(w, authedRequest(http.MethodGet, "/game/state", ""))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLeaderboard(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, mockUsecase := newTestHandler()
		mockUsecase.On("Leaderboard", mock.Anything, 0).Return([]domain.LeaderboardEntry{
			{Username: "B", Score: 100, MaxTile: 32},
			{Username: "A", Score: 100, MaxTile: 64},
		}, nil)

		w := httptest.NewRecorder()
		h.Leaderboard(w, authedRequest(http.MethodGet, "/game/leader_board", ""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"users":[{"username":"B","score":100,"max_tile":32},{"username":"A","score":100,"max_tile":64}]}`, w.Body.String())
	})

	t.Run("Explicit Limit", func(t *testing.T) {
		h, mockUsecase := newTestHandler()
		mockUsecase.On("Leaderboard", mock.Anything, 5).Return([]domain.LeaderboardEntry{}, nil)

		w := httptest.NewRecorder()
		h.Leaderboard(w, authedRequest(http.MethodGet, "/game/leader_board?limit=5", ""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"users":[]}`, w.Body.String())
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Bad Limit", func(t *testing.T) {
		h, _ := newTestHandler()

		w := httptest.NewRecorder()
		h.Leaderboard(w, authedRequest(http.MethodGet, "/game/leader_board?limit=ten", ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid field: limit"}`, w.Body.String())
	})
}
