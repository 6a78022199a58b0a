package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

var sixDigitCode = regexp.MustCompile(`^[0-9]{6}$`)

// GenerateSecureOTP generates a cryptographically secure 6-digit OTP
func GenerateSecureOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IsOTPFormat reports whether code is exactly six digits.
func IsOTPFormat(code string) bool {
	return sixDigitCode.MatchString(code)
}
