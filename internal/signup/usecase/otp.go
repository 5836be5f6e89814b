package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const OTPLifetime = 10 * time.Minute

var otpUpperBound = big.NewInt(1_000_000)

// GenerateOTP returns a uniformly random zero-padded 6 digit code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpUpperBound)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
