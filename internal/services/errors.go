package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error returned by a service wraps exactly one of
// these; handlers map kinds to HTTP status codes.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrRoomUnavailable = errors.New("room unavailable")
	ErrRateLimited     = errors.New("rate limited")
	ErrGateway         = errors.New("external provider failure")
	ErrInvalidState    = errors.New("invalid state")
)

// DomainError is a client-facing message tagged with its kind.
type DomainError struct {
	kind    error
	message string
}

// Error returns the client-facing message.
func (e *DomainError) Error() string {
	return e.message
}

// Unwrap returns the error kind.
func (e *DomainError) Unwrap() error {
	return e.kind
}

func newError(kind error, format string, args ...any) error {
	return &DomainError{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Specific errors.
var (
	ErrRoomNotFound              = newError(ErrNotFound, "Room not found")
	ErrBookingNotFound           = newError(ErrNotFound, "Booking not found")
	ErrPaymentNotFound           = newError(ErrNotFound, "Payment not found")
	ErrUserNotFound              = newError(ErrNotFound, "User not found. Please register first.")
	ErrInvalidDateRange          = newError(ErrValidation, "Check-out date must be after check-in date")
	ErrPaymentVerificationFailed = newError(ErrValidation, "Payment verification failed")

	errRoomTaken = newError(ErrRoomUnavailable, "Room not available for selected dates")
)

func validationError(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func stateError(format string, args ...any) error {
	return newError(ErrInvalidState, format, args...)
}

func unauthorizedError(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

func gatewayError(op string, err error) error {
	return newError(ErrGateway, "%s: %v", op, err)
}

func otpLimitError(max int) error {
	return newError(ErrRateLimited, "Maximum %d OTP attempts per day exceeded. Try again tomorrow.", max)
}

func invalidOTP() error {
	return unauthorizedError("Invalid or expired OTP")
}
