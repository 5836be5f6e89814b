package validation

import (
	"strings"
	"testing"

	"game2048_backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullSavePayload = `{
	"prevMatrix": [[0,2],[0,0]],
	"matrix": [[0,0],[2,2]],
	"maxScore": 0,
	"currScore": 0,
	"status": "PLAYING",
	"best": 0,
	"rows": 2,
	"columns": 2,
	"undo": false,
	"newTileCoords": [[1,0]],
	"positionsArr": [{"isMerged": false, "value": 2, "initialCoords": {"row": 0, "column": 1}, "finalCoords": {"row": 1, "column": 1}}],
	"moves": 0,
	"max_tile": 2
}`

var requiredSaveFields = []string{
	"prevMatrix", "matrix", "maxScore", "currScore", "status", "best", "rows",
	"columns", "undo", "newTileCoords", "positionsArr", "moves", "max_tile",
}

func withoutField(payload, field string) string {
	lines := strings.Split(payload, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), `"`+field+`"`) {
			continue
		}
		kept = append(kept, line)
	}
	out := strings.Join(kept, "\n")
	return strings.Replace(out, ",\n}", "\n}", 1)
}

func TestDecodeJSONSaveGame(t *testing.T) {
	t.Run("Success - Zero And False Count As Present", func(t *testing.T) {
		var req domain.SaveGameRequest
		require.NoError(t, DecodeJSON(strings.NewReader(fullSavePayload), &req))
		assert.False(t, *req.Undo)
		assert.Equal(t, 0, *req.MaxScore)
	})

	for _, field := range requiredSaveFields {
		field := field
		t.Run("Missing "+field, func(t *testing.T) {
			var req domain.SaveGameRequest
			err := DecodeJSON(strings.NewReader(withoutField(fullSavePayload, field)), &req)

			var fieldErr *domain.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, field, fieldErr.Field)
			assert.True(t, fieldErr.Missing)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	t.Run("Explicit Null Is Missing", func(t *testing.T) {
		var req domain.SaveGameRequest
		payload := strings.Replace(fullSavePayload, `"undo": false`, `"undo": null`, 1)
		err := DecodeJSON(strings.NewReader(payload), &req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "undo", fieldErr.Field)
	})

	t.Run("Reports First Missing Field Only", func(t *testing.T) {
		var req domain.SaveGameRequest
		payload := withoutField(withoutField(fullSavePayload, "moves"), "matrix")
		err := DecodeJSON(strings.NewReader(payload), &req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "matrix", fieldErr.Field)
	})

	t.Run("Bad Tile Tuple", func(t *testing.T) {
		var req domain.SaveGameRequest
		payload := strings.Replace(fullSavePayload, `"newTileCoords": [[1,0]]`, `"newTileCoords": [[1,0,3]]`, 1)
		err := DecodeJSON(strings.NewReader(payload), &req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "newTileCoords[0]", fieldErr.Field)
		assert.False(t, fieldErr.Missing)
	})

	t.Run("Nested Coordinate Missing", func(t *testing.T) {
		var req domain.SaveGameRequest
		payload := strings.Replace(fullSavePayload, `"initialCoords": {"row": 0, "column": 1}`, `"initialCoords": {"row": 0}`, 1)
		err := DecodeJSON(strings.NewReader(payload), &req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "positionsArr[0].initialCoords.column", fieldErr.Field)
	})

	t.Run("Wrong Type", func(t *testing.T) {
		var req domain.SaveGameRequest
		payload := strings.Replace(fullSavePayload, `"rows": 2`, `"rows": "two"`, 1)
		err := DecodeJSON(strings.NewReader(payload), &req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "rows", fieldErr.Field)
		assert.False(t, fieldErr.Missing)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		var req domain.SaveGameRequest
		err := DecodeJSON(strings.NewReader(`{"matrix":`), &req)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestDecodeJSONLogin(t *testing.T) {
	t.Run("Email Alone Is Enough", func(t *testing.T) {
		var req domain.LoginRequest
		require.NoError(t, DecodeJSON(strings.NewReader(`{"email":"a@b.c","password":"pw"}`), &req))
	})

	t.Run("Username Or Email Required", func(t *testing.T) {
		var req domain.LoginRequest
		err := DecodeJSON(strings.NewReader(`{"password":"pw"}`), &req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "username", fieldErr.Field)
		assert.True(t, fieldErr.Missing)
	})

	t.Run("Empty Password", func(t *testing.T) {
		var req domain.LoginRequest
		err := DecodeJSON(strings.NewReader(`{"username":"alice","password":""}`), &req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "password", fieldErr.Field)
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "alice", NormalizeUsername("  alice\t"))
	assert.Equal(t, "o'brien@example.com", NormalizeEmail(" O'Brien@example.com"))
	assert.Equal(t, "Tom&Jerry", NormalizeUsername(" Tom&Jerry "))
	assert.Equal(t, "O'Neil", NormalizeUsername("O'Neil"))
}

func TestHasMarkup(t *testing.T) {
	assert.True(t, HasMarkup("<b>bob</b>"))
	assert.True(t, HasMarkup(`<script>alert(1)</script>`))
	assert.False(t, HasMarkup("Tom&Jerry"))
	assert.False(t, HasMarkup("O'Neil"))
	assert.False(t, HasMarkup(`say "hi"`))
	assert.False(t, HasMarkup("alice"))
}

func TestDecodeJSONSignupMarkup(t *testing.T) {
	t.Run("Markup Username Rejected", func(t *testing.T) {
		var req domain.SignupRequest
		err := DecodeJSON(strings.NewReader(`{"username":"<b>bob</b>","email":"bob@example.com","password":"secret"}`), &req)

		var fieldErr *domain.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "username", fieldErr.Field)
		assert.False(t, fieldErr.Missing)
	})

	t.Run("Apostrophe Email And Ampersand Username Accepted", func(t *testing.T) {
		var req domain.SignupRequest
		err := DecodeJSON(strings.NewReader(`{"username":"Tom&Jerry","email":"o'brien@example.com","password":"secret"}`), &req)

		require.NoError(t, err)
		assert.Equal(t, "Tom&Jerry", req.Username)
		assert.Equal(t, "o'brien@example.com", req.Email)
	})
}
