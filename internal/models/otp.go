package models

import (
	"time"
)

// OTPRecord tracks one OTP send through the verification provider.
type OTPRecord struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UserID          *uint      `json:"user_id" gorm:"index"`
	Phone           string     `json:"phone" gorm:"size:20;not null;index"`
	Purpose         string     `json:"purpose" gorm:"size:20;not null"`
	VerificationSID string     `json:"verification_sid" gorm:"size:100"`
	Status          string     `json:"status" gorm:"size:20;default:pending"`
	CreatedAt       time.Time  `json:"created_at" gorm:"index"`
	VerifiedAt      *time.Time `json:"verified_at"`
	IPAddress       string     `json:"ip_address" gorm:"size:50"`
}

// OTP purposes and statuses
const (
	OTPPurposeLogin    = "login"
	OTPPurposeRegister = "register"

	OTPStatusPending  = "pending"
	OTPStatusApproved = "approved"
	OTPStatusFailed   = "failed"
)
