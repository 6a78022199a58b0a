package services

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
)

// OrderRequest describes a gateway order for one booking.
type OrderRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// PaymentGateway creates orders and authenticates gateway callbacks.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (string, error)
	VerifySignature(orderID, paymentID, signature string) error
	VerifyWebhook(body []byte, signature string) error
	KeyID() string
}

var errBadSignature = errors.New("signature mismatch")

// RazorpayGateway implements PaymentGateway with razorpay-go.
type RazorpayGateway struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

// NewRazorpayGateway creates a new Razorpay gateway
func NewRazorpayGateway(keyID, keySecret, webhookSecret string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("missing Razorpay credentials")
	}
	return &RazorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}, nil
}

func (r *RazorpayGateway) KeyID() string {
	return r.keyID
}

func (r *RazorpayGateway) CreateOrder(_ context.Context, req OrderRequest) (string, error) {
	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}
	data := map[string]interface{}{
		"amount":          req.AmountPaise,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": 1,
		"notes":           notes,
	}

	order, err := r.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay order response has no id")
	}
	return id, nil
}

func (r *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	attributes := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	if !rzputils.VerifyPaymentSignature(attributes, signature, r.keySecret) {
		return errBadSignature
	}
	return nil
}

func (r *RazorpayGateway) VerifyWebhook(body []byte, signature string) error {
	if r.webhookSecret == "" {
		return fmt.Errorf("razorpay webhook secret not configured")
	}
	if !rzputils.VerifyWebhookSignature(string(body), signature, r.webhookSecret) {
		return errBadSignature
	}
	return nil
}
