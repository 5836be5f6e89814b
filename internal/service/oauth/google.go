package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"game2048_backend/domain"
	"game2048_backend/internal/service/config"
	"game2048_backend/internal/service/logger"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const exchangeTimeout = 10 * time.Second

type CodeExchanger interface {
	Exchange(ctx context.Context, code string) (*domain.GoogleClaims, error)
}

type GoogleExchanger struct {
	cfg    *oauth2.Config
	client *http.Client
}

func NewGoogleExchanger(cfg config.GoogleConfig) *GoogleExchanger {
	return &GoogleExchanger{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client: &http.Client{Timeout: exchangeTimeout},
	}
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	jwt.StandardClaims
}

// Exchange trades an authorization code for the identity carried in the id_token.
// The token arrives straight from the token endpoint over TLS, so its signature is not re-checked.
func (g *GoogleExchanger) Exchange(ctx context.Context, code string) (*domain.GoogleClaims, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)

	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			logger.AccessLogger.Warn("Token endpoint rejected authorization code",
				zap.Int("status", retrieveErr.Response.StatusCode),
				zap.String("error_code", retrieveErr.ErrorCode),
			)
			return nil, domain.ErrInvalidCode
		}
		logger.AccessLogger.Error("Token endpoint unreachable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return nil, fmt.Errorf("%w: no id_token in response", domain.ErrInvalidCode)
	}

	claims := &idTokenClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCode, err)
	}

	if g.cfg.ClientID != "" && !claims.VerifyAudience(g.cfg.ClientID, true) {
		return nil, fmt.Errorf("%w: id_token issued for another client", domain.ErrInvalidCode)
	}
	if claims.Email == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: id_token lacks identity", domain.ErrInvalidCode)
	}

	return &domain.GoogleClaims{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
		GivenName:     claims.GivenName,
		FamilyName:    claims.FamilyName,
	}, nil
}
