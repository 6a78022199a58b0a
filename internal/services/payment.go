package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/utils"
)

const currencyINR = "INR"

// PaymentSettings configures the static UPI QR flow.
type PaymentSettings struct {
	UPIID        string
	MerchantName string
}

// PaymentInstructions is what a client needs to complete a payment.
type PaymentInstructions struct {
	Payment         *models.Payment `json:"payment"`
	Method          string          `json:"method"`
	RazorpayOrderID string          `json:"razorpay_order_id,omitempty"`
	RazorpayKeyID   string          `json:"razorpay_key_id,omitempty"`
	AmountPaise     int64           `json:"amount_paise,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	QRCode          string          `json:"qr_code,omitempty"`
	UPIURI          string          `json:"upi_uri,omitempty"`
	UPIID           string          `json:"upi_id,omitempty"`
}

// VerifyPaymentInput is the client callback after a gateway checkout.
type VerifyPaymentInput struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// PaymentService handles payment processing and booking confirmation
type PaymentService struct {
	store    storage.Store
	gateway  PaymentGateway
	qr       QRRenderer
	notifier *Notifier
	settings PaymentSettings
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService creates a new payment service. gateway may be nil when
// Razorpay is not configured; razorpay payments then fail with ErrGateway.
func NewPaymentService(store storage.Store, gateway PaymentGateway, qr QRRenderer, notifier *Notifier, settings PaymentSettings, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if qr == nil {
		qr = PNGQRRenderer{}
	}
	if notifier == nil {
		notifier = NewNotifier(nil, nil, settings.MerchantName, logger)
	}
	return &PaymentService{
		store:    store,
		gateway:  gateway,
		qr:       qr,
		notifier: notifier,
		settings: settings,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AmountInPaise converts a rupee total to the gateway's minor unit.
func AmountInPaise(total float64) int64 {
	return int64(math.Round(total * 100))
}

// InitiatePayment attaches a payment of the chosen method to a pending
// booking. A pending payment is re-armed in place and keeps its open gateway
// order.
func (p *PaymentService) InitiatePayment(ctx context.Context, userID, bookingID uint, method string) (*PaymentInstructions, error) {
	if method != models.PaymentMethodRazorpay && method != models.PaymentMethodQRCode {
		return nil, validationError("unsupported payment method %q", method)
	}

	booking, err := p.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, mapStoreError(err, ErrBookingNotFound)
	}
	if booking.UserID != userID {
		return nil, unauthorizedError("Unauthorized access")
	}
	if booking.Status != models.BookingStatusPending {
		return nil, stateError("booking %s is %s", booking.BookingReference, booking.Status)
	}

	payment := booking.Payment
	if payment != nil && payment.PaymentStatus != models.PaymentStatusPending {
		return nil, stateError("payment for booking %s is already %s", booking.BookingReference, payment.PaymentStatus)
	}
	if payment == nil {
		payment = &models.Payment{
			BookingID:     booking.ID,
			PaymentStatus: models.PaymentStatusPending,
			TransactionID: utils.NewTransactionID(),
		}
	}
	previousAmount := payment.Amount
	payment.Amount = booking.TotalPrice
	payment.PaymentMethod = method

	instructions := &PaymentInstructions{Method: method}
	switch method {
	case models.PaymentMethodRazorpay:
		if p.gateway == nil {
			return nil, gatewayError("create order", fmt.Errorf("razorpay is not configured"))
		}
		amount := AmountInPaise(booking.TotalPrice)
		// An open order may already have been paid; it stays the payment's order.
		orderID := payment.RazorpayOrderID
		if orderID == "" || AmountInPaise(previousAmount) != amount {
			orderID, err = p.gateway.CreateOrder(ctx, OrderRequest{
				AmountPaise: amount,
				Currency:    currencyINR,
				Receipt:     booking.BookingReference,
				Notes: map[string]string{
					"booking_id": strconv.FormatUint(uint64(booking.ID), 10),
					"user_id":    strconv.FormatUint(uint64(userID), 10),
				},
			})
			if err != nil {
				p.logger.Error("razorpay order failed", zap.String("reference", booking.BookingReference), zap.Error(err))
				return nil, gatewayError("create order", err)
			}
		}
		payment.RazorpayOrderID = orderID
		payment.QRCodeData = ""
		instructions.RazorpayOrderID = orderID
		instructions.RazorpayKeyID = p.gateway.KeyID()
		instructions.AmountPaise = amount
		instructions.Currency = currencyINR

	case models.PaymentMethodQRCode:
		uri := UPIPaymentURI(p.settings.UPIID, p.settings.MerchantName, booking.TotalPrice, payment.TransactionID, booking.BookingReference)
		image, err := p.qr.Render(uri)
		if err != nil {
			return nil, err
		}
		payment.QRCodeData = image
		instructions.QRCode = image
		instructions.UPIURI = uri
		instructions.UPIID = p.settings.UPIID
	}

	if payment.ID == 0 {
		err = p.store.CreatePayment(ctx, payment)
	} else {
		err = p.store.UpdatePayment(ctx, payment)
	}
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, stateError("payment for booking %s is already being initiated", booking.BookingReference)
	}
	if err != nil {
		return nil, mapStoreError(err, nil)
	}

	p.logger.Info("payment initiated",
		zap.String("reference", booking.BookingReference),
		zap.String("method", method),
		zap.String("transaction_id", payment.TransactionID))
	instructions.Payment = payment
	return instructions, nil
}

// VerifyPayment checks the gateway signature of a completed checkout. On
// success the payment completes and the booking is confirmed together; on a
// bad signature the payment is marked failed and the booking is untouched.
func (p *PaymentService) VerifyPayment(ctx context.Context, userID uint, input VerifyPaymentInput) (*models.Booking, error) {
	if input.RazorpayOrderID == "" || input.RazorpayPaymentID == "" || input.RazorpaySignature == "" {
		return nil, validationError("razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}
	if p.gateway == nil {
		return nil, gatewayError("verify signature", fmt.Errorf("razorpay is not configured"))
	}

	payment, err := p.store.GetPaymentByOrderID(ctx, input.RazorpayOrderID)
	if err != nil {
		return nil, mapStoreError(err, ErrPaymentNotFound)
	}
	booking, err := p.store.GetBooking(ctx, payment.BookingID)
	if err != nil {
		return nil, mapStoreError(err, ErrBookingNotFound)
	}
	if booking.UserID != userID {
		return nil, unauthorizedError("Unauthorized access")
	}
	if payment.PaymentStatus != models.PaymentStatusPending {
		return nil, stateError("payment %s is already %s", payment.TransactionID, payment.PaymentStatus)
	}
	if booking.Status != models.BookingStatusPending {
		return nil, stateError("booking %s is %s", booking.BookingReference, booking.Status)
	}

	if err := p.gateway.VerifySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature); err != nil {
		payment.PaymentStatus = models.PaymentStatusFailed
		payment.RazorpayPaymentID = input.RazorpayPaymentID
		if uerr := p.store.UpdatePayment(ctx, payment); uerr != nil {
			p.logger.Error("failed to mark payment failed", zap.String("transaction_id", payment.TransactionID), zap.Error(uerr))
		}
		p.logger.Warn("payment signature rejected",
			zap.String("order_id", input.RazorpayOrderID),
			zap.String("reference", booking.BookingReference))
		p.notifier.Publish(ctx, EventPaymentFailed, booking, payment.Amount)
		return nil, ErrPaymentVerificationFailed
	}

	return p.completePayment(ctx, payment.ID, input.RazorpayPaymentID, input.RazorpaySignature)
}

// ConfirmManualPayment completes a pending QR payment once an operator has
// seen the transfer arrive.
func (p *PaymentService) ConfirmManualPayment(ctx context.Context, paymentID uint) (*models.Booking, error) {
	payment, err := p.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, mapStoreError(err, ErrPaymentNotFound)
	}
	if payment.PaymentMethod != models.PaymentMethodQRCode {
		return nil, validationError("payment %s is not a QR code payment", payment.TransactionID)
	}
	return p.completePayment(ctx, payment.ID, "", "")
}

// completePayment moves a pending payment to completed and its pending
// booking to confirmed in one transaction, then notifies.
func (p *PaymentService) completePayment(ctx context.Context, paymentID uint, gatewayPaymentID, signature string) (*models.Booking, error) {
	var (
		booking *models.Booking
		payment *models.Payment
	)
	err := p.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		var err error
		payment, err = tx.GetPayment(ctx, paymentID)
		if err != nil {
			return mapStoreError(err, ErrPaymentNotFound)
		}
		if payment.PaymentStatus != models.PaymentStatusPending {
			return stateError("payment %s is already %s", payment.TransactionID, payment.PaymentStatus)
		}
		booking, err = tx.GetBooking(ctx, payment.BookingID)
		if err != nil {
			return mapStoreError(err, ErrBookingNotFound)
		}
		if booking.Status != models.BookingStatusPending {
			return stateError("booking %s is %s", booking.BookingReference, booking.Status)
		}

		paidAt := p.now()
		payment.PaymentStatus = models.PaymentStatusCompleted
		payment.PaymentDate = &paidAt
		if gatewayPaymentID != "" {
			payment.RazorpayPaymentID = gatewayPaymentID
		}
		if signature != "" {
			payment.RazorpaySignature = signature
		}
		if err := tx.UpdatePayment(ctx, payment); err != nil {
			return err
		}
		if err := tx.UpdateBookingStatus(ctx, booking.ID, models.BookingStatusConfirmed); err != nil {
			return err
		}
		booking.Status = models.BookingStatusConfirmed
		booking.Payment = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("✅ payment completed",
		zap.String("transaction_id", payment.TransactionID),
		zap.String("reference", booking.BookingReference),
		zap.Float64("amount", payment.Amount))

	user, err := p.store.GetUser(ctx, booking.UserID)
	if err != nil {
		p.logger.Warn("confirmation email skipped, user lookup failed", zap.Error(err))
		user = nil
	}
	p.notifier.BookingConfirmed(ctx, booking, user, booking.Room, payment.Amount)
	return booking, nil
}

// RazorpayWebhookPayload represents the webhook data from Razorpay
type RazorpayWebhookPayload struct {
	Event     string   `json:"event"`
	Entity    string   `json:"entity"`
	Contains  []string `json:"contains"`
	CreatedAt int64    `json:"created_at"`
	Payload   struct {
		Payment struct {
			Entity RazorpayPaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// RazorpayPaymentEntity is the payment object inside a webhook.
type RazorpayPaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Status           string `json:"status"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

// Webhook events handled
const (
	WebhookPaymentCaptured = "payment.captured"
	WebhookPaymentFailed   = "payment.failed"
)

// HandleGatewayWebhook applies an authenticated Razorpay webhook. Unknown
// events and orders are acknowledged and ignored.
func (p *PaymentService) HandleGatewayWebhook(ctx context.Context, body []byte) error {
	var webhook RazorpayWebhookPayload
	if err := json.Unmarshal(body, &webhook); err != nil {
		return validationError("failed to parse webhook: %v", err)
	}

	p.logger.Info("processing payment webhook", zap.String("event", webhook.Event))

	entity := webhook.Payload.Payment.Entity
	switch webhook.Event {
	case WebhookPaymentCaptured:
		return p.handlePaymentCaptured(ctx, entity)
	case WebhookPaymentFailed:
		return p.handlePaymentFailed(ctx, entity)
	default:
		p.logger.Info("unhandled webhook event", zap.String("event", webhook.Event))
		return nil
	}
}

func (p *PaymentService) handlePaymentCaptured(ctx context.Context, entity RazorpayPaymentEntity) error {
	payment, err := p.store.GetPaymentByOrderID(ctx, entity.OrderID)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			p.logger.Warn("webhook for unknown order", zap.String("order_id", entity.OrderID))
			return nil
		}
		return err
	}
	if payment.PaymentStatus == models.PaymentStatusCompleted {
		return nil
	}
	if entity.Amount != AmountInPaise(payment.Amount) {
		p.logger.Warn("captured amount differs from payment amount",
			zap.String("transaction_id", payment.TransactionID),
			zap.Int64("captured_paise", entity.Amount),
			zap.Int64("expected_paise", AmountInPaise(payment.Amount)))
	}

	_, err = p.completePayment(ctx, payment.ID, entity.ID, "")
	if errors.Is(err, ErrInvalidState) {
		return p.recordUnappliedCapture(ctx, payment.ID, entity)
	}
	return err
}

// recordUnappliedCapture keeps the gateway payment id of money captured for
// a payment or booking that can no longer complete. The webhook is
// acknowledged; the capture has to be refunded by hand.
func (p *PaymentService) recordUnappliedCapture(ctx context.Context, paymentID uint, entity RazorpayPaymentEntity) error {
	payment, err := p.store.GetPayment(ctx, paymentID)
	if err != nil {
		return mapStoreError(err, ErrPaymentNotFound)
	}
	p.logger.Warn("captured payment cannot be applied, refund required",
		zap.String("transaction_id", payment.TransactionID),
		zap.String("status", payment.PaymentStatus),
		zap.String("order_id", entity.OrderID),
		zap.String("razorpay_payment_id", entity.ID),
		zap.Int64("captured_paise", entity.Amount))
	if payment.RazorpayPaymentID == entity.ID {
		return nil
	}
	payment.RazorpayPaymentID = entity.ID
	return p.store.UpdatePayment(ctx, payment)
}

func (p *PaymentService) handlePaymentFailed(ctx context.Context, entity RazorpayPaymentEntity) error {
	payment, err := p.store.GetPaymentByOrderID(ctx, entity.OrderID)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	p.logger.Warn("payment failed at gateway",
		zap.String("transaction_id", payment.TransactionID),
		zap.String("error_code", entity.ErrorCode),
		zap.String("error_description", entity.ErrorDescription))

	if payment.PaymentStatus != models.PaymentStatusPending {
		return nil
	}
	payment.PaymentStatus = models.PaymentStatusFailed
	payment.RazorpayPaymentID = entity.ID
	return p.store.UpdatePayment(ctx, payment)
}
