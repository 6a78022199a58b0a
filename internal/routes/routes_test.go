package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/database"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/handlers"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/middleware"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
)

type stubGateway struct {
	orders int
}

func (g *stubGateway) CreateOrder(context.Context, services.OrderRequest) (string, error) {
	g.orders++
	return fmt.Sprintf("order_stub_%d", g.orders), nil
}

func (g *stubGateway) VerifySignature(_, _, signature string) error {
	if signature != "sig_ok" {
		return errors.New("signature mismatch")
	}
	return nil
}

func (g *stubGateway) VerifyWebhook(_ []byte, signature string) error {
	if signature != "hook_ok" {
		return errors.New("signature mismatch")
	}
	return nil
}

func (g *stubGateway) KeyID() string { return "rzp_stub" }

type testServer struct {
	app    *fiber.App
	store  *storage.DatabaseStore
	admins *services.AdminService
}

func newTestServer(t *testing.T, gateway services.PaymentGateway, otpPerMinute int) *testServer {
	t.Helper()
	logger := zap.NewNop()
	db, err := database.Connect(":memory:", logger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.Migrate(db, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := database.SeedRooms(db, logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := storage.NewDatabaseStore(db)
	tokens := services.NewTokenService("routes-test-secret", time.Hour)
	notifier := services.NewNotifier(nil, nil, "Hotel Luxe", logger)
	otp := services.NewOTPService(store, services.NewDevOTPProvider(logger), tokens, 10, logger)
	bookings := services.NewBookingService(store, notifier, logger)
	payments := services.NewPaymentService(store, gateway, services.PNGQRRenderer{}, notifier,
		services.PaymentSettings{UPIID: "hotelluxe@upi", MerchantName: "Hotel Luxe"}, logger)
	admins := services.NewAdminService(store, tokens, logger)

	app := fiber.New()
	SetupRoutes(app, Handlers{
		Health:  handlers.NewHealthHandler("test", func() error { return database.Ping(db) }, map[string]bool{"razorpay": gateway != nil}),
		Auth:    handlers.NewAuthHandler(otp, logger),
		Profile: handlers.NewProfileHandler(services.NewProfileService(store), logger),
		Room:    handlers.NewRoomHandler(services.NewRoomService(store, nil), bookings, logger),
		Booking: handlers.NewBookingHandler(bookings, logger),
		Payment: handlers.NewPaymentHandler(payments, logger),
		Admin:   handlers.NewAdminHandler(admins, payments, logger),

		Tokens:     tokens,
		Gateway:    gateway,
		OTPLimiter: middleware.NewRateLimiter(otpPerMinute),
		Logger:     logger,
	})
	return &testServer{app: app, store: store, admins: admins}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (s *testServer) register(t *testing.T, phone string) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/auth/send-otp", "", map[string]string{"phone": phone, "purpose": "register"})
	if status != http.StatusOK {
		t.Fatalf("send-otp: expected 200, got %d %v", status, body)
	}
	status, body = s.do(t, http.MethodPost, "/api/auth/verify-otp", "", map[string]string{
		"phone":     phone,
		"otp":       "482913",
		"purpose":   "register",
		"full_name": "Asha Guest",
		"email":     "asha@example.com",
	})
	if status != http.StatusOK {
		t.Fatalf("verify-otp: expected 200, got %d %v", status, body)
	}
	if body["message"] != "Registration successful" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected token in %v", body)
	}
	return token
}

func TestBookingAndPaymentFlow(t *testing.T) {
	srv := newTestServer(t, &stubGateway{}, 100)
	token := srv.register(t, "9876543210")

	status, body := srv.do(t, http.MethodGet, "/api/rooms", "", nil)
	if status != http.StatusOK || body["count"] != float64(5) {
		t.Fatalf("list rooms: got %d %v", status, body["count"])
	}

	stay := map[string]any{"room_id": 1, "check_in": "2026-12-01", "check_out": "2026-12-03", "guests": 2}
	status, body = srv.do(t, http.MethodPost, "/api/rooms/availability", "", stay)
	if status != http.StatusOK || body["available"] != true {
		t.Fatalf("availability: got %d %v", status, body)
	}

	if status, _ = srv.do(t, http.MethodPost, "/api/bookings", "", stay); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	status, body = srv.do(t, http.MethodPost, "/api/bookings", token, stay)
	if status != http.StatusCreated {
		t.Fatalf("create booking: expected 201, got %d %v", status, body)
	}
	if body["total_price"] != float64(7000) {
		t.Fatalf("expected total 7000, got %v", body["total_price"])
	}
	bookingID := int(body["booking_id"].(float64))

	status, body = srv.do(t, http.MethodPost, "/api/bookings", token, stay)
	if status != http.StatusConflict || body["message"] != "Room not available for selected dates" {
		t.Fatalf("expected 409 for overlapping booking, got %d %v", status, body)
	}

	status, body = srv.do(t, http.MethodPost, "/api/bookings", token, map[string]any{"room_id": 1, "check_in": "2026-12-05", "check_out": "2026-12-04", "guests": 1})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted dates, got %d %v", status, body)
	}

	status, body = srv.do(t, http.MethodPost, fmt.Sprintf("/api/bookings/%d/payment", bookingID), token, map[string]string{"payment_method": "razorpay"})
	if status != http.StatusOK {
		t.Fatalf("initiate payment: expected 200, got %d %v", status, body)
	}
	orderID, _ := body["razorpay_order_id"].(string)
	if orderID == "" || body["amount_paise"] != float64(700000) {
		t.Fatalf("unexpected payment instructions %v", body)
	}

	status, body = srv.do(t, http.MethodPost, "/api/payments/verify", token, map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "bad",
	})
	if status != http.StatusBadRequest || body["message"] != "Payment verification failed" {
		t.Fatalf("expected 400 for bad signature, got %d %v", status, body)
	}

	status, body = srv.do(t, http.MethodGet, fmt.Sprintf("/api/bookings/%d", bookingID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("get booking: expected 200, got %d", status)
	}
	booking := body["booking"].(map[string]any)
	if booking["status"] != "pending" {
		t.Fatalf("expected booking to stay pending, got %v", booking["status"])
	}

	status, body = srv.do(t, http.MethodGet, "/api/bookings", token, nil)
	if status != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("list bookings: got %d %v", status, body)
	}

	status, body = srv.do(t, http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", bookingID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d %v", status, body)
	}
	status, _ = srv.do(t, http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", bookingID), token, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 cancelling twice, got %d", status)
	}
}

func TestVerifiedPaymentConfirmsBooking(t *testing.T) {
	srv := newTestServer(t, &stubGateway{}, 100)
	token := srv.register(t, "9876543210")

	_, body := srv.do(t, http.MethodPost, "/api/bookings", token, map[string]any{"room_id": 3, "check_in": "2026-12-01", "check_out": "2026-12-02", "guests": 2})
	bookingID := int(body["booking_id"].(float64))
	_, body = srv.do(t, http.MethodPost, fmt.Sprintf("/api/bookings/%d/payment", bookingID), token, map[string]string{"payment_method": "razorpay"})
	orderID := body["razorpay_order_id"].(string)

	status, body := srv.do(t, http.MethodPost, "/api/payments/verify", token, map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "sig_ok",
	})
	if status != http.StatusOK || body["status"] != "confirmed" {
		t.Fatalf("verify payment: got %d %v", status, body)
	}
}

func TestAdminRoutes(t *testing.T) {
	srv := newTestServer(t, &stubGateway{}, 100)
	userToken := srv.register(t, "9876543210")

	if _, err := srv.admins.EnsureAdmin(context.Background(), "ops", "correct-horse"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	_, body := srv.do(t, http.MethodPost, "/api/bookings", userToken, map[string]any{"room_id": 4, "check_in": "2026-12-01", "check_out": "2026-12-03", "guests": 1})
	bookingID := int(body["booking_id"].(float64))
	_, body = srv.do(t, http.MethodPost, fmt.Sprintf("/api/bookings/%d/payment", bookingID), userToken, map[string]string{"payment_method": "qr_code"})
	if body["qr_code"] == nil {
		t.Fatalf("expected qr code in %v", body)
	}
	payment, err := srv.store.GetPaymentByBooking(context.Background(), uint(bookingID))
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}

	status, _ := srv.do(t, http.MethodPost, "/admin/login", "", map[string]string{"username": "ops", "password": "wrong-password"})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", status)
	}
	status, body = srv.do(t, http.MethodPost, "/admin/login", "", map[string]string{"username": "ops", "password": "correct-horse"})
	if status != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d %v", status, body)
	}
	adminToken := body["token"].(string)

	if status, _ = srv.do(t, http.MethodGet, "/admin/dashboard", userToken, nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest token on dashboard, got %d", status)
	}

	status, body = srv.do(t, http.MethodPost, fmt.Sprintf("/admin/payments/%d/confirm", payment.ID), adminToken, nil)
	if status != http.StatusOK || body["status"] != "confirmed" {
		t.Fatalf("confirm payment: got %d %v", status, body)
	}

	status, body = srv.do(t, http.MethodGet, "/admin/dashboard", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", status)
	}
	if body["total_revenue"] != float64(4000) {
		t.Fatalf("expected revenue 4000, got %v", body["total_revenue"])
	}
}

func TestWebhookRoute(t *testing.T) {
	srv := newTestServer(t, &stubGateway{}, 100)
	payload := map[string]any{"event": "payment.captured", "payload": map[string]any{"payment": map[string]any{"entity": map[string]any{"order_id": "order_unknown"}}}}

	if status, _ := srv.do(t, http.MethodPost, "/webhook/razorpay", "", payload); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without signature, got %d", status)
	}

	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/webhook/razorpay", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RazorpaySignatureHeader, "hook_ok")
	resp, err := srv.app.Test(req, -1)
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for signed webhook, got %d", resp.StatusCode)
	}

	unconfigured := newTestServer(t, nil, 100)
	if status, _ := unconfigured.do(t, http.MethodPost, "/webhook/razorpay", "", payload); status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without gateway, got %d", status)
	}
}

func TestOTPRoutesAreRateLimited(t *testing.T) {
	srv := newTestServer(t, nil, 2)
	body := map[string]string{"phone": "9876543210", "purpose": "register"}

	for i := 0; i < 2; i++ {
		if status, resp := srv.do(t, http.MethodPost, "/api/auth/send-otp", "", body); status != http.StatusOK {
			t.Fatalf("send %d: expected 200, got %d %v", i, status, resp)
		}
	}
	if status, _ := srv.do(t, http.MethodPost, "/api/auth/send-otp", "", body); status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, 100)
	status, body := srv.do(t, http.MethodGet, "/health", "", nil)
	if status != http.StatusOK || body["status"] != "healthy" {
		t.Fatalf("health: got %d %v", status, body)
	}
	svcs := body["services"].(map[string]any)
	if svcs["database"] != true || svcs["razorpay"] != false {
		t.Fatalf("unexpected services %v", svcs)
	}
}
