package models

import (
	"time"
)

// User is a guest authenticated by phone OTP.
type User struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Phone      string     `json:"phone" gorm:"size:20;uniqueIndex;not null"`
	Email      *string    `json:"email" gorm:"size:120;uniqueIndex"`
	FullName   string     `json:"full_name" gorm:"size:100;not null"`
	IsVerified bool       `json:"is_verified" gorm:"default:false"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login"`

	Bookings   []Booking   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	OTPRecords []OTPRecord `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// EmailAddress returns the user's email or an empty string.
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
