package models

import (
	"time"
)

// Payment is the single payment attempt attached to a booking.
type Payment struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	BookingID     uint    `json:"booking_id" gorm:"not null;uniqueIndex"`
	Amount        float64 `json:"amount" gorm:"not null"`
	PaymentMethod string  `json:"payment_method" gorm:"size:20;not null"`
	PaymentStatus string  `json:"payment_status" gorm:"size:20;default:pending;index"`
	TransactionID string  `json:"transaction_id" gorm:"size:100;uniqueIndex"`

	// Razorpay
	RazorpayOrderID   string `json:"razorpay_order_id,omitempty" gorm:"size:100;index"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty" gorm:"size:100;index"`
	RazorpaySignature string `json:"-" gorm:"size:256"`

	QRCodeData  string     `json:"qr_code_data,omitempty" gorm:"type:text"`
	PaymentDate *time.Time `json:"payment_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Payment methods and statuses
const (
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodQRCode   = "qr_code"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)
