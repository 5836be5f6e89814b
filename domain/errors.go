package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUsernameTaken      = errors.New("username is taken, please use a different username")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrGameStateNotFound  = errors.New("no saved game")
	ErrUnauthenticated    = errors.New("token not found, please login again")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOTPExpired         = errors.New("otp expired, please try again")
	ErrOTPInvalid         = errors.New("invalid otp")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidCode        = errors.New("invalid authorization code")
	ErrUsernameExhausted  = errors.New("could not generate a free username")
	ErrUpstream           = errors.New("upstream service failure")
)

// FieldError reports the first request field that is missing or malformed.
type FieldError struct {
	Field   string
	Missing bool
}

func (e *FieldError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing or undefined field: %s", e.Field)
	}
	return fmt.Sprintf("invalid field: %s", e.Field)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}
