package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"game2048_backend/domain"
	"game2048_backend/internal/service/logger"

	"go.uber.org/zap"
)

const TokenCookieName = "token"

// CookiePolicy carries the environment-dependent cookie attributes.
type CookiePolicy struct {
	Production bool
}

func (p CookiePolicy) cookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     TokenCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: http.SameSiteLaxMode,
	}
	if p.Production {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// IssueSession signs a token for user and sets it as the session cookie.
// Without remember the cookie is session scoped; with it the cookie gets an
// explicit Max-Age equal to the token lifetime.
func IssueSession(w http.ResponseWriter, tokens JwtTokenService, policy CookiePolicy, user *domain.User, remember bool) error {
	lifetime := SessionLifetime(remember)
	token, err := tokens.Create(user, time.Now().Add(lifetime).Unix())
	if err != nil {
		return err
	}

	c := policy.cookie(token)
	if remember {
		c.MaxAge = int(lifetime.Seconds())
	}
	http.SetCookie(w, c)
	return nil
}

func ClearSession(w http.ResponseWriter, policy CookiePolicy) {
	c := policy.cookie("")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// SessionFromRequest verifies the session cookie on r.
func SessionFromRequest(r *http.Request, tokens JwtTokenService) (*SessionClaims, error) {
	c, err := r.Cookie(TokenCookieName)
	if err != nil || c.Value == "" {
		return nil, domain.ErrUnauthenticated
	}
	return tokens.Validate(c.Value)
}

func WithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*SessionClaims)
	return claims, ok && claims != nil
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticate verifies the session cookie on every request and confirms the
// referenced user still exists before calling next.
func Authenticate(tokens JwtTokenService, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			claims, err := SessionFromRequest(r, tokens)
			if err != nil {
				logger.AccessLogger.Warn("Rejected session",
					zap.String("request_id", requestID),
					zap.String("url", r.URL.String()),
					zap.Error(err),
				)
				writeAuthError(w, err)
				return
			}

			if _, err := users.FindByID(r.Context(), claims.ID); err != nil {
				logger.AccessLogger.Warn("Session user lookup failed",
					zap.String("request_id", requestID),
					zap.String("user_id", claims.ID),
					zap.Error(err),
				)
				writeAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		WriteJSONError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		WriteJSONError(w, http.StatusForbidden, domain.ErrInvalidToken.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		WriteJSONError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
