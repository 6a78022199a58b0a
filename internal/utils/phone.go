package utils

import (
	"errors"
	"strings"
)

// ErrInvalidPhone is returned for numbers that cannot be normalised.
var ErrInvalidPhone = errors.New("invalid phone number")

const minPhoneLength = 12

// NormalizePhone strips everything but digits and returns an E.164-style
// number. Ten digit numbers are treated as Indian mobiles.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	var phone string
	if len(digits) == 10 {
		phone = "+91" + digits
	} else {
		phone = "+" + digits
	}
	if len(phone) < minPhoneLength {
		return "", ErrInvalidPhone
	}
	return phone, nil
}
