package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type User struct {
	UUID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:uuid" json:"id"`
	Username     string      `gorm:"type:varchar(100);uniqueIndex;not null;column:username" json:"username"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null;column:email" json:"email"`
	Password     string      `gorm:"type:varchar(255);not null;column:password" json:"-"`
	IsGoogleUser bool        `gorm:"default:false;column:is_google_user" json:"isGoogleUser"`
	GoogleInfo   *GoogleInfo `gorm:"type:jsonb;column:google_info" json:"googleInfo,omitempty"`
	HighScore    int         `gorm:"type:int;default:0;not null;column:high_score" json:"highScore"`
	IsVerified   bool        `gorm:"default:false;column:is_verified" json:"isVerified"`
	OTP          *string     `gorm:"type:varchar(6);column:otp" json:"-"`
	OTPCreatedAt *time.Time  `gorm:"column:otp_created_at" json:"-"`
	OTPExpiry    *time.Time  `gorm:"column:otp_expiry" json:"-"`
	GameState    *GameState  `gorm:"type:jsonb;column:game_state" json:"gameState,omitempty"`
	CreatedAt    time.Time   `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"column:updated_at" json:"updatedAt"`
}

// GoogleInfo is the provider profile copied onto accounts created through Google sign-in.
type GoogleInfo struct {
	Name       string `json:"name"`
	Picture    string `json:"picture"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

func (g GoogleInfo) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *GoogleInfo) Scan(value interface{}) error {
	return scanJSON(value, g)
}

// UserInfo is the client-facing projection of a User. It never carries the
// password hash or pending OTP.
type UserInfo struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	IsGoogleUser bool        `json:"isGoogleUser"`
	GoogleInfo   *GoogleInfo `json:"googleInfo,omitempty"`
	HighScore    int         `json:"highScore"`
	IsVerified   bool        `json:"isVerified"`
	GameState    *GameState  `json:"gameState,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (u *User) Info() UserInfo {
	return UserInfo{
		ID:           u.UUID,
		Username:     u.Username,
		Email:        u.Email,
		IsGoogleUser: u.IsGoogleUser,
		GoogleInfo:   u.GoogleInfo,
		HighScore:    u.HighScore,
		IsVerified:   u.IsVerified,
		GameState:    u.GameState,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,max=50,nomarkup"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=100"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email,max=50"`
	Email    string `json:"email" validate:"required_without=Username,max=255"`
	Password string `json:"password" validate:"required,max=100"`
	Remember bool   `json:"remember"`
}

type GoogleLoginRequest struct {
	Code     string `json:"code" validate:"required"`
	Remember bool   `json:"remember"`
}

type UserInfoResponse struct {
	UserInfo UserInfo `json:"userInfo"`
}

// GoogleClaims are the identity claims decoded from the provider's id_token.
type GoogleClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	GivenName     string
	FamilyName    string
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsernameOrEmail(ctx context.Context, username string, email string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateOTP(ctx context.Context, userID string, otp string, createdAt time.Time, expiry time.Time) error
	MarkVerified(ctx context.Context, userID string) error
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported json column type")
	}
}
