package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
)

// Storage errors. Callers translate them into domain errors.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
	ErrBookingOverlap = errors.New("booking overlaps an active booking")
)

// RoomFilter narrows room listings.
type RoomFilter struct {
	RoomType      string
	AvailableOnly bool
}

// Store defines the interface for storage operations
type Store interface {
	// WithTx runs fn inside one transaction. fn must only use txStore.
	WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// OTP operations
	CreateOTPRecord(ctx context.Context, record *models.OTPRecord) error
	CountOTPRecordsSince(ctx context.Context, phone string, since time.Time) (int64, error)
	GetLatestOTPRecord(ctx context.Context, phone, purpose string) (*models.OTPRecord, error)
	UpdateOTPRecord(ctx context.Context, record *models.OTPRecord) error

	// Room operations
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id uint) (*models.Room, error)
	// LockRoom loads the room and, where supported, holds a row lock until
	// the surrounding transaction ends.
	LockRoom(ctx context.Context, id uint) (*models.Room, error)
	ListRooms(ctx context.Context, filter RoomFilter) ([]*models.Room, error)

	// Booking operations
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	GetBookingsByUser(ctx context.Context, userID uint) ([]*models.Booking, error)
	GetBookingsByStatus(ctx context.Context, status string) ([]*models.Booking, error)
	GetActiveBookingsForRoom(ctx context.Context, roomID uint) ([]*models.Booking, error)
	GetActiveBookings(ctx context.Context) ([]*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uint, status string) error
	CountBookingsByStatus(ctx context.Context) (map[string]int64, error)

	// Payment operations
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	GetPaymentByBooking(ctx context.Context, bookingID uint) (*models.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	SumCompletedPayments(ctx context.Context) (float64, error)

	// Admin operations
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	SaveAdmin(ctx context.Context, admin *models.Admin) error
}
