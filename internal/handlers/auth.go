package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

// AuthHandler handles phone OTP login and registration
type AuthHandler struct {
	otp    *services.OTPService
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(otp *services.OTPService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{otp: otp, logger: logger}
}

type sendOTPRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

// SendOTP handles POST /api/auth/send-otp
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	return h.send(c, h.otp.SendOTP, "OTP sent successfully")
}

// ResendOTP handles POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	return h.send(c, h.otp.ResendOTP, "OTP resent successfully")
}

func (h *AuthHandler) send(c *fiber.Ctx, fn func(ctx context.Context, in services.SendOTPInput) (*services.SendOTPResult, error), message string) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := fn(c.UserContext(), services.SendOTPInput{
		Phone:   req.Phone,
		Purpose: req.Purpose,
		IP:      c.IP(),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"success":            true,
		"message":            message,
		"phone":              result.Phone,
		"expires_in":         result.ExpiresIn,
		"attempts_remaining": result.AttemptsRemaining,
	})
}

type verifyOTPRequest struct {
	Phone    string `json:"phone"`
	OTP      string `json:"otp"`
	Purpose  string `json:"purpose"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.otp.VerifyOTP(c.UserContext(), services.VerifyOTPInput{
		Phone:    req.Phone,
		Code:     req.OTP,
		Purpose:  req.Purpose,
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	message := "Login successful"
	if req.Purpose == "register" {
		message = "Registration successful"
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    message,
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.User,
	})
}
