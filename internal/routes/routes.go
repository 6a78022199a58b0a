package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/handlers"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/middleware"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
)

// Handlers groups every HTTP handler and the middleware dependencies.
type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Room    *handlers.RoomHandler
	Booking *handlers.BookingHandler
	Payment *handlers.PaymentHandler
	Admin   *handlers.AdminHandler

	Tokens     *services.TokenService
	Gateway    services.PaymentGateway
	OTPLimiter *middleware.RateLimiter
	Logger     *zap.Logger
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Hotel Luxe Backend!",
			"version": h.Health.Version,
			"endpoints": fiber.Map{
				"health":  "/health",
				"api":     "/api",
				"webhook": "/webhook/razorpay",
				"admin":   "/admin",
			},
		})
	})
	app.Get("/health", h.Health.Check)

	// API routes
	api := app.Group("/api")

	auth := api.Group("/auth", h.OTPLimiter.Limit())
	auth.Post("/send-otp", h.Auth.SendOTP)
	auth.Post("/resend-otp", h.Auth.ResendOTP)
	auth.Post("/verify-otp", h.Auth.VerifyOTP)

	rooms := api.Group("/rooms")
	rooms.Get("/", h.Room.ListRooms)
	rooms.Post("/availability", h.Room.CheckAvailability)
	rooms.Get("/:id", h.Room.GetRoom)

	requireUser := middleware.RequireUser(h.Tokens)

	api.Get("/profile", requireUser, h.Profile.GetProfile)
	api.Put("/profile", requireUser, h.Profile.UpdateProfile)

	bookings := api.Group("/bookings", requireUser)
	bookings.Post("/", h.Booking.CreateBooking)
	bookings.Get("/", h.Booking.ListBookings)
	bookings.Get("/:id", h.Booking.GetBooking)
	bookings.Post("/:id/cancel", h.Booking.CancelBooking)
	bookings.Post("/:id/payment", h.Payment.InitiatePayment)

	api.Post("/payments/verify", requireUser, h.Payment.VerifyPayment)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")
	webhooks.Post("/razorpay", middleware.ValidatePaymentSignature(h.Gateway, h.Logger), h.Payment.HandleWebhook)

	// ========== ADMIN ROUTES ==========
	admin := app.Group("/admin")
	admin.Post("/login", h.OTPLimiter.Limit(), h.Admin.Login)

	requireAdmin := middleware.RequireAdmin(h.Tokens)
	admin.Get("/dashboard", requireAdmin, h.Admin.Dashboard)
	admin.Post("/payments/:id/confirm", requireAdmin, h.Admin.ConfirmPayment)
}
