package e2e_tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"game2048_backend/domain"
	authRepository "game2048_backend/internal/auth/repository"
	gameController "game2048_backend/internal/game/controller"
	gameRepository "game2048_backend/internal/game/repository"
	gameUsecase "game2048_backend/internal/game/usecase"
	dsn2 "game2048_backend/internal/service/dsn"
	"game2048_backend/internal/service/middleware"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	_ = godotenv.Load("../../../.env")
	dsn := dsn2.FromEnvE2E()
	if dsn == "" {
		t.Skip("DB_HOST_TEST not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.User{}))
	t.Cleanup(func() {
		assert.NoError(t, db.Migrator().DropTable(&domain.User{}))
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	user := &domain.User{Username: username, Email: username + "@example.com", Password: "x", IsVerified: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func savePayload(best, moves, maxTile int) map[string]interface{} {
	return map[string]interface{}{
		"prevMatrix":    [][]int{{0, 2}, {0, 0}},
		"matrix":        [][]int{{0, 0}, {2, maxTile}},
		"maxScore":      best,
		"currScore":     best,
		"status":        "PLAYING",
		"best":          best,
		"rows":          2,
		"columns":       2,
		"undo":          false,
		"newTileCoords": [][]int{{1, 0}},
		"positionsArr": []map[string]interface{}{{
			"isMerged":      false,
			"value":         2,
			"initialCoords": map[string]int{"row": 1, "column": 2},
			"finalCoords":   map[string]int{"row": 0, "column": 2},
		}},
		"moves":    moves,
		"max_tile": maxTile,
	}
}

func TestSaveAndLeaderboardE2E(t *testing.T) {
	db := setupTestDB(t)
	jwtToken, err := middleware.NewJwtToken("secret-key")
	require.NoError(t, err)

	handler := gameController.NewGameHandler(gameUsecase.NewGameUsecase(gameRepository.NewGameRepository(db)))

	mainRouter := mux.NewRouter()
	gameRouter := mainRouter.PathPrefix("/game").Subrouter()
	gameRouter.Use(middleware.Authenticate(jwtToken, authRepository.NewUserRepository(db)))
	gameRouter.HandleFunc("/save", handler.SaveGame).Methods("POST")
	gameRouter.HandleFunc("/state", handler.GetState).Methods("GET")
	gameRouter.HandleFunc("/leader_board", handler.Leaderboard).Methods("GET")

	server := httptest.NewServer(mainRouter)
	defer server.Close()

	users := map[string]*domain.User{
		"A": createTestUser(t, db, "A"),
		"B": createTestUser(t, db, "B"),
		"C": createTestUser(t, db, "C"),
	}

	do := func(user *domain.User, method, path string, body interface{}) *http.Response {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req, err := http.NewRequest(method, server.URL+path, &buf)
		require.NoError(t, err)

		token, err := jwtToken.Create(user, time.Now().Add(time.Hour).Unix())
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := do(users["A"], http.MethodGet, "/game/state", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.Equal(t, http.StatusOK, do(users["A"], http.MethodPost, "/game/save", savePayload(100, 50, 64)).StatusCode)
	require.Equal(t, http.StatusOK, do(users["B"], http.MethodPost, "/game/save", savePayload(100, 30, 32)).StatusCode)
	require.Equal(t, http.StatusOK, do(users["C"], http.MethodPost, "/game/save", savePayload(0, 10, 4)).StatusCode)

	// a lower best must not lower the stored high score
	require.Equal(t, http.StatusOK, do(users["A"], http.MethodPost, "/game/save", savePayload(40, 50, 64)).StatusCode)

	resp = do(users["A"], http.MethodGet, "/game/leader_board", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var board domain.LeaderboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&board))
	assert.Equal(t, []domain.LeaderboardEntry{
		{Username: "B", Score: 100, MaxTile: 32},
		{Username: "A", Score: 100, MaxTile: 64},
	}, board.Users)

	resp = do(users["B"], http.MethodGet, "/game/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state domain.GameState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, domain.Coordinates{X: 1, Y: 2}, state.PositionsArr[0].InitialCoords)
	assert.Equal(t, []domain.Coordinates{{X: 1, Y: 0}}, state.NewTileCoords)
}
