package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/middleware"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
	logger   *zap.Logger
}

func NewPaymentHandler(payments *services.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// InitiatePayment handles POST /api/bookings/:id/payment
func (h *PaymentHandler) InitiatePayment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid booking id")
	}
	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	userID, _ := middleware.UserID(c)
	instructions, err := h.payments.InitiatePayment(c.UserContext(), userID, id, req.PaymentMethod)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	resp := fiber.Map{
		"success":        true,
		"payment_method": instructions.Method,
		"transaction_id": instructions.Payment.TransactionID,
		"amount":         instructions.Payment.Amount,
	}
	if instructions.RazorpayOrderID != "" {
		resp["razorpay_order_id"] = instructions.RazorpayOrderID
		resp["razorpay_key_id"] = instructions.RazorpayKeyID
		resp["amount_paise"] = instructions.AmountPaise
		resp["currency"] = instructions.Currency
	}
	if instructions.QRCode != "" {
		resp["qr_code"] = instructions.QRCode
		resp["upi_uri"] = instructions.UPIURI
		resp["upi_id"] = instructions.UPIID
	}
	return c.JSON(resp)
}

// VerifyPayment handles POST /api/payments/verify
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	userID, _ := middleware.UserID(c)
	booking, err := h.payments.VerifyPayment(c.UserContext(), userID, services.VerifyPaymentInput{
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"success":           true,
		"message":           "Payment verified successfully",
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
		"status":            booking.Status,
	})
}

// HandleWebhook handles POST /webhook/razorpay after signature validation
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	if err := h.payments.HandleGatewayWebhook(c.UserContext(), c.Body()); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
