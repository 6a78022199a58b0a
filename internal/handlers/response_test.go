package handlers

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "invalid dates", err: services.ErrInvalidDateRange, expected: fiber.StatusBadRequest},
		{name: "bad signature", err: services.ErrPaymentVerificationFailed, expected: fiber.StatusBadRequest},
		{name: "missing booking", err: services.ErrBookingNotFound, expected: fiber.StatusNotFound},
		{name: "unknown user", err: services.ErrUserNotFound, expected: fiber.StatusNotFound},
		{name: "room taken", err: services.ErrRoomUnavailable, expected: fiber.StatusConflict},
		{name: "state", err: services.ErrInvalidState, expected: fiber.StatusConflict},
		{name: "otp cap", err: services.ErrRateLimited, expected: fiber.StatusTooManyRequests},
		{name: "gateway", err: services.ErrGateway, expected: fiber.StatusBadGateway},
		{name: "unclassified", err: errors.New("disk full"), expected: fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
