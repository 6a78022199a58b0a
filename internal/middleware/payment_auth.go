package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

// RazorpaySignatureHeader carries the webhook body HMAC.
const RazorpaySignatureHeader = "X-Razorpay-Signature"

// ValidatePaymentSignature validates payment webhook signatures (Razorpay)
func ValidatePaymentSignature(gateway services.PaymentGateway, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if gateway == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"message": "Payment gateway not configured",
			})
		}

		signature := c.Get(RazorpaySignatureHeader)
		if signature == "" {
			return unauthorized(c, "Missing webhook signature")
		}
		if err := gateway.VerifyWebhook(c.Body(), signature); err != nil {
			logger.Warn("⚠️ rejected razorpay webhook", zap.String("ip", c.IP()), zap.Error(err))
			return unauthorized(c, "Invalid webhook signature")
		}
		return c.Next()
	}
}
