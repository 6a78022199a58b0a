package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/hotelluxe-backend/database"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/cache"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/config"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/handlers"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/jobs"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/middleware"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/routes"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func runServer(ctx context.Context, cfg *config.Config, log *zap.Logger, db *gorm.DB) error {
	if err := database.Migrate(db, log); err != nil {
		return err
	}
	if _, err := database.SeedRooms(db, log); err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}

	store := storage.NewDatabaseStore(db)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	// OTP provider
	var otpProvider services.OTPProvider
	if cfg.TwilioConfigured() {
		provider, err := services.NewTwilioVerifyProvider(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVerifyServiceSID, log)
		if err != nil {
			return err
		}
		otpProvider = provider
		log.Info("✅ Twilio Verify initialized")
	} else {
		if cfg.IsProduction() {
			return errors.New("twilio verify credentials are required in production")
		}
		log.Warn("⚠️  Twilio credentials not found - using development OTP provider")
		otpProvider = services.NewDevOTPProvider(log)
	}

	// Payment gateway. Left as a nil interface when unconfigured.
	var gateway services.PaymentGateway
	if cfg.RazorpayConfigured() {
		rzp, err := services.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
		if err != nil {
			return err
		}
		gateway = rzp
		log.Info("✅ Razorpay initialized")
	} else {
		log.Warn("⚠️  Razorpay credentials not found - online payments disabled")
	}

	// Mail
	var mailer services.Mailer = services.NewLogMailer(log)
	if cfg.MailConfigured() {
		mailer = services.NewSMTPMailer(cfg.MailServer, cfg.MailPort, cfg.MailUsername, cfg.MailPassword, cfg.MailFrom, cfg.MerchantName, log)
	}

	// Events
	var events services.EventPublisher = services.NopPublisher{}
	if cfg.KafkaBroker != "" {
		events = services.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, log)
		log.Info("✅ Kafka publisher initialized", zap.String("topic", cfg.KafkaTopic))
	}
	defer func() { _ = events.Close() }()

	// Room cache
	var roomCache services.RoomCache = cache.NoopRoomCache{}
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("⚠️  redis unavailable - room cache disabled", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			roomCache = cache.NewRedisRoomCache(client, cfg.RoomCacheTTL, log)
			log.Info("✅ Redis room cache initialized")
		}
	}

	notifier := services.NewNotifier(mailer, events, cfg.MerchantName, log)
	otpService := services.NewOTPService(store, otpProvider, tokens, cfg.MaxOTPPerDay, log)
	roomService := services.NewRoomService(store, roomCache)
	bookingService := services.NewBookingService(store, notifier, log)
	paymentService := services.NewPaymentService(store, gateway, services.PNGQRRenderer{}, notifier,
		services.PaymentSettings{UPIID: cfg.UPIID, MerchantName: cfg.MerchantName}, log)
	profileService := services.NewProfileService(store)
	adminService := services.NewAdminService(store, tokens, log)

	roomService.InvalidateCache(ctx)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if _, err := adminService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info("✅ admin account ready", zap.String("username", cfg.AdminUsername))
	}

	var bookingJob *jobs.BookingJob
	if cfg.BookingAutoComplete {
		bookingJob = jobs.NewBookingJob(bookingService, cfg.CompletionInterval, log)
		bookingJob.Start(ctx)
	}

	app := newApp(cfg, log)
	routes.SetupRoutes(app, routes.Handlers{
		Health: handlers.NewHealthHandler(appVersion, func() error { return database.Ping(db) }, map[string]bool{
			"twilio":   cfg.TwilioConfigured(),
			"razorpay": gateway != nil,
			"mail":     cfg.MailConfigured(),
			"redis":    cfg.RedisAddr != "",
			"kafka":    cfg.KafkaBroker != "",
		}),
		Auth:    handlers.NewAuthHandler(otpService, log),
		Profile: handlers.NewProfileHandler(profileService, log),
		Room:    handlers.NewRoomHandler(roomService, bookingService, log),
		Booking: handlers.NewBookingHandler(bookingService, log),
		Payment: handlers.NewPaymentHandler(paymentService, log),
		Admin:   handlers.NewAdminHandler(adminService, paymentService, log),

		Tokens:     tokens,
		Gateway:    gateway,
		OTPLimiter: middleware.NewRateLimiter(cfg.OTPRatePerMinute),
		Logger:     log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("========================================")
		log.Info("🚀 "+appName+" starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		log.Info("========================================")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 gracefully shutting down...")
	if bookingJob != nil {
		bookingJob.Stop()
	}
	return app.ShutdownWithTimeout(shutdownTimeout)
}

func newApp(cfg *config.Config, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: appName + " v" + appVersion,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(cfg.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	return app
}
