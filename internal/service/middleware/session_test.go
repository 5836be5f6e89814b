package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"game2048_backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserFinder struct {
	mock.Mock
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == TokenCookieName {
			return c
		}
	}
	t.Fatalf("cookie %q not set", TokenCookieName)
	return nil
}

func TestIssueSession(t *testing.T) {
	tokens, err := NewJwtToken("secret-key")
	require.NoError(t, err)

	t.Run("Session Cookie Without Remember", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, IssueSession(w, tokens, CookiePolicy{}, testUser(), false))

		c := sessionCookie(t, w)
		assert.True(t, c.HttpOnly)
		assert.False(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Zero(t, c.MaxAge)

		claims, err := tokens.Validate(c.Value)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), time.Unix(claims.ExpiresAt, 0), 5*time.Second)
	})

	t.Run("Remembered Cookie In Production", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, IssueSession(w, tokens, CookiePolicy{Production: true}, testUser(), true))

		c := sessionCookie(t, w)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
		assert.Equal(t, 30*24*60*60, c.MaxAge)

		claims, err := tokens.Validate(c.Value)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), time.Unix(claims.ExpiresAt, 0), 5*time.Second)
	})

	t.Run("Clear Session", func(t *testing.T) {
		w := httptest.NewRecorder()
		ClearSession(w, CookiePolicy{})

		c := sessionCookie(t, w)
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	})
}

func TestAuthenticate(t *testing.T) {
	tokens, err := NewJwtToken("secret-key")
	require.NoError(t, err)

	validToken, err := tokens.Create(testUser(), time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)
	expiredToken, err := tokens.Create(testUser(), time.Now().Add(-time.Hour).Unix())
	require.NoError(t, err)

	run := func(finder *mockUserFinder, cookie string) (*httptest.ResponseRecorder, *SessionClaims) {
		var seen *SessionClaims
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = ClaimsFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		r := httptest.NewRequest(http.MethodGet, "/game/leader_board", nil)
		if cookie != "" {
			r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: cookie})
		}
		w := httptest.NewRecorder()
		Authenticate(tokens, finder)(next).ServeHTTP(w, r)
		return w, seen
	}

	t.Run("Success", func(t *testing.T) {
		finder := new(mockUserFinder)
		finder.On("FindByID", mock.Anything, "user-123").Return(testUser(), nil)

		w, claims := run(finder, validToken)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, claims)
		assert.Equal(t, "user-123", claims.ID)
		finder.AssertExpectations(t)
	})

	t.Run("Fail - Missing Cookie", func(t *testing.T) {
		finder := new(mockUserFinder)
		w, claims := run(finder, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, claims)
		finder.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Fail - Expired Token", func(t *testing.T) {
		finder := new(mockUserFinder)
		w, _ := run(finder, expiredToken)

		assert.Equal(t, http.StatusForbidden, w.Code)
		finder.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Fail - User Deleted", func(t *testing.T) {
		finder := new(mockUserFinder)
		finder.On("FindByID", mock.Anything, "user-123").Return(nil, domain.ErrUserNotFound)

		w, claims := run(finder, validToken)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Nil(t, claims)
	})
}
