package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

// AdminHandler handles admin operations
type AdminHandler struct {
	admins   *services.AdminService
	payments *services.PaymentService
	logger   *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admins *services.AdminService, payments *services.PaymentService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admins: admins, payments: payments, logger: logger}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	token, exp, err := h.admins.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"token":      token,
		"expires_at": exp,
	})
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.admins.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"bookings":      dashboard.Bookings,
		"total_revenue": dashboard.TotalRevenue,
		"status_counts": dashboard.StatusCounts,
	})
}

// ConfirmPayment handles POST /admin/payments/:id/confirm for QR payments
func (h *AdminHandler) ConfirmPayment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid payment id")
	}
	booking, err := h.payments.ConfirmManualPayment(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success":           true,
		"message":           "Payment confirmed",
		"booking_reference": booking.BookingReference,
		"status":            booking.Status,
	})
}
