package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
)

const (
	pgUniqueViolationCode    = "23505"
	pgExclusionViolationCode = "23P01"
	sqliteConstraintCode     = 19
)

// DatabaseStore implements Store using GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore returns a Store backed by db.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// DB exposes the underlying connection for health checks.
func (s *DatabaseStore) DB() *gorm.DB {
	return s.db
}

// WithTx executes fn within a transaction.
func (s *DatabaseStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &DatabaseStore{db: tx})
	})
}

// User operations

func (s *DatabaseStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return classify("create user", err)
	}
	return nil
}

func (s *DatabaseStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, classify("get user", err)
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, classify("get user by phone", err)
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, classify("get user by email", err)
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return classify("update user", err)
	}
	return nil
}

// OTP operations

func (s *DatabaseStore) CreateOTPRecord(ctx context.Context, record *models.OTPRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return classify("create otp record", err)
	}
	return nil
}

func (s *DatabaseStore) CountOTPRecordsSince(ctx context.Context, phone string, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.OTPRecord{}).
		Where("phone = ? AND created_at >= ?", phone, since.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, classify("count otp records", err)
	}
	return count, nil
}

func (s *DatabaseStore) GetLatestOTPRecord(ctx context.Context, phone, purpose string) (*models.OTPRecord, error) {
	var record models.OTPRecord
	err := s.db.WithContext(ctx).
		Where("phone = ? AND purpose = ?", phone, purpose).
		Order("created_at DESC, id DESC").
		First(&record).Error
	if err != nil {
		return nil, classify("get latest otp record", err)
	}
	return &record, nil
}

func (s *DatabaseStore) UpdateOTPRecord(ctx context.Context, record *models.OTPRecord) error {
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return classify("update otp record", err)
	}
	return nil
}

// Room operations

func (s *DatabaseStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return classify("create room", err)
	}
	return nil
}

func (s *DatabaseStore) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, classify("get room", err)
	}
	return &room, nil
}

func (s *DatabaseStore) LockRoom(ctx context.Context, id uint) (*models.Room, error) {
	query := s.db.WithContext(ctx)
	// SQLite serialises writers and has no FOR UPDATE.
	if s.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var room models.Room
	if err := query.First(&room, id).Error; err != nil {
		return nil, classify("lock room", err)
	}
	return &room, nil
}

func (s *DatabaseStore) ListRooms(ctx context.Context, filter RoomFilter) ([]*models.Room, error) {
	query := s.db.WithContext(ctx).Model(&models.Room{})
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	if filter.RoomType != "" {
		query = query.Where("room_type = ?", filter.RoomType)
	}
	var rooms []*models.Room
	if err := query.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, classify("list rooms", err)
	}
	return rooms, nil
}

// Booking operations

func (s *DatabaseStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error; err != nil {
		return classify("create booking", err)
	}
	return nil
}

func (s *DatabaseStore) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("Room").
		Preload("Payment").
		First(&booking, id).Error
	if err != nil {
		return nil, classify("get booking", err)
	}
	return &booking, nil
}

func (s *DatabaseStore) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("Room").
		Preload("Payment").
		Where("booking_reference = ?", reference).
		First(&booking).Error
	if err != nil {
		return nil, classify("get booking by reference", err)
	}
	return &booking, nil
}

func (s *DatabaseStore) GetBookingsByUser(ctx context.Context, userID uint) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := s.db.WithContext(ctx).
		Preload("Room").
		Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, classify("list user bookings", err)
	}
	return bookings, nil
}

func (s *DatabaseStore) GetBookingsByStatus(ctx context.Context, status string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, classify("list bookings by status", err)
	}
	return bookings, nil
}

func (s *DatabaseStore) GetActiveBookingsForRoom(ctx context.Context, roomID uint) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND status IN ?", roomID, models.ActiveBookingStatuses).
		Find(&bookings).Error
	if err != nil {
		return nil, classify("list active bookings", err)
	}
	return bookings, nil
}

func (s *DatabaseStore) GetActiveBookings(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := s.db.WithContext(ctx).
		Where("status IN ?", models.ActiveBookingStatuses).
		Find(&bookings).Error
	if err != nil {
		return nil, classify("list active bookings", err)
	}
	return bookings, nil
}

func (s *DatabaseStore) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		Preload("Payment").
		Order("created_at DESC, id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, classify("list bookings", err)
	}
	return bookings, nil
}

func (s *DatabaseStore) UpdateBookingStatus(ctx context.Context, id uint, status string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return classify("update booking status", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update booking status: %w", ErrRecordNotFound)
	}
	return nil
}

func (s *DatabaseStore) CountBookingsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, count(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, classify("count bookings", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// Payment operations

func (s *DatabaseStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return classify("create payment", err)
	}
	return nil
}

func (s *DatabaseStore) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, classify("get payment", err)
	}
	return &payment, nil
}

func (s *DatabaseStore) GetPaymentByBooking(ctx context.Context, bookingID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&payment).Error; err != nil {
		return nil, classify("get payment by booking", err)
	}
	return &payment, nil
}

func (s *DatabaseStore) GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).Where("razorpay_order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, classify("get payment by order", err)
	}
	return &payment, nil
}

func (s *DatabaseStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	if err := s.db.WithContext(ctx).Save(payment).Error; err != nil {
		return classify("update payment", err)
	}
	return nil
}

func (s *DatabaseStore) SumCompletedPayments(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("coalesce(sum(amount), 0)").
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Scan(&total).Error
	if err != nil {
		return 0, classify("sum payments", err)
	}
	return total, nil
}

// Admin operations

func (s *DatabaseStore) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, classify("get admin", err)
	}
	return &admin, nil
}

func (s *DatabaseStore) SaveAdmin(ctx context.Context, admin *models.Admin) error {
	if err := s.db.WithContext(ctx).Save(admin).Error; err != nil {
		return classify("save admin", err)
	}
	return nil
}

func classify(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrRecordNotFound)
	case isExclusionViolation(err):
		return fmt.Errorf("%s: %w", op, ErrBookingOverlap)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %v", op, ErrDuplicate, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolationCode
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
