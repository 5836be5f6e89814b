package middleware

import (
	"fmt"
	"time"

	"game2048_backend/domain"

	jwt "github.com/golang-jwt/jwt"
)

const (
	SessionTTL           = 24 * time.Hour
	RememberedSessionTTL = 30 * 24 * time.Hour
)

// SessionLifetime returns how long a session token issued now stays valid.
func SessionLifetime(remember bool) time.Duration {
	if remember {
		return RememberedSessionTTL
	}
	return SessionTTL
}

type JwtTokenService interface {
	Create(user *domain.User, tokenExpTime int64) (string, error)
	Validate(tokenString string) (*SessionClaims, error)
	ParseSecretGetter(token *jwt.Token) (interface{}, error)
}

type JwtToken struct {
	Secret []byte
}

func NewJwtToken(secret string) (JwtTokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("empty jwt secret")
	}
	return &JwtToken{
		Secret: []byte(secret),
	}, nil
}

type SessionClaims struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.StandardClaims
}

func (tk *JwtToken) Create(user *domain.User, tokenExpTime int64) (string, error) {
	data := SessionClaims{
		ID:       user.UUID,
		Email:    user.Email,
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: tokenExpTime,
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, data)
	return token.SignedString(tk.Secret)
}

func (tk *JwtToken) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, tk.ParseSecretGetter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	if claims.ExpiresAt == 0 || claims.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("%w: token has expired", domain.ErrInvalidToken)
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}

	return claims, nil
}

func (tk *JwtToken) ParseSecretGetter(token *jwt.Token) (interface{}, error) {
	method, ok := token.Method.(*jwt.SigningMethodHMAC)
	if !ok || method.Alg() != "HS256" {
		return nil, fmt.Errorf("bad sign method")
	}
	return tk.Secret, nil
}
