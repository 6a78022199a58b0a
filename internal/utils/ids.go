package utils

import (
	"strings"

	"github.com/google/uuid"
)

// Identifier prefixes
const (
	BookingReferencePrefix = "HB"
	TransactionIDPrefix    = "TXN"
)

// GenerateSecureID returns prefix followed by n upper-case hex characters
// taken from a random UUID. n is capped at 32.
func GenerateSecureID(prefix string, n int) string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(hex) {
		n = len(hex)
	}
	return prefix + hex[:n]
}

// NewBookingReference returns a reference such as HB1A2B3C4D.
func NewBookingReference() string {
	return GenerateSecureID(BookingReferencePrefix, 8)
}

// NewTransactionID returns an id such as TXN0A1B2C3D4E5F.
func NewTransactionID() string {
	return GenerateSecureID(TransactionIDPrefix, 12)
}
