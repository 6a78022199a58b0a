package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/utils"
)

// CreateBookingInput carries a guest's booking request.
type CreateBookingInput struct {
	RoomID          uint
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
}

// BookingService owns booking creation, availability and cancellation.
type BookingService struct {
	store    storage.Store
	notifier *Notifier
	logger   *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(store storage.Store, notifier *Notifier, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewNotifier(nil, nil, "", logger)
	}
	return &BookingService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// ParseStayDate parses a YYYY-MM-DD date as UTC midnight.
func ParseStayDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, validationError("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// CheckAvailability reports whether roomID is free for [checkIn, checkOut).
func (s *BookingService) CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	if !checkOut.After(checkIn) {
		return false, ErrInvalidDateRange
	}
	if _, err := s.store.GetRoom(ctx, roomID); err != nil {
		return false, mapStoreError(err, ErrRoomNotFound)
	}
	bookings, err := s.store.GetActiveBookingsForRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	return IsRoomAvailable(bookings, checkIn, checkOut), nil
}

// AvailableRooms lists in-service rooms, optionally of one type, that are
// free for the whole stay.
func (s *BookingService) AvailableRooms(ctx context.Context, checkIn, checkOut time.Time, roomType string) ([]*models.Room, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	rooms, err := s.store.ListRooms(ctx, storage.RoomFilter{RoomType: roomType, AvailableOnly: true})
	if err != nil {
		return nil, err
	}
	active, err := s.store.GetActiveBookings(ctx)
	if err != nil {
		return nil, err
	}
	byRoom := make(map[uint][]*models.Booking)
	for _, b := range active {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], b)
	}

	available := make([]*models.Room, 0, len(rooms))
	for _, room := range rooms {
		if IsRoomAvailable(byRoom[room.ID], checkIn, checkOut) {
			available = append(available, room)
		}
	}
	return available, nil
}

// CreateBooking validates the request and stores a pending booking. The
// availability check and the insert share one transaction.
func (s *BookingService) CreateBooking(ctx context.Context, userID uint, input CreateBookingInput) (*models.Booking, error) {
	if !input.CheckOut.After(input.CheckIn) {
		return nil, ErrInvalidDateRange
	}
	if input.Guests < 1 {
		return nil, validationError("guests must be at least 1")
	}

	var booking *models.Booking
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		room, err := tx.LockRoom(ctx, input.RoomID)
		if err != nil {
			return mapStoreError(err, ErrRoomNotFound)
		}
		if !room.IsAvailable {
			return errRoomTaken
		}
		if input.Guests > room.Capacity {
			return validationError("room %s holds at most %d guests", room.RoomNumber, room.Capacity)
		}

		active, err := tx.GetActiveBookingsForRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		if !IsRoomAvailable(active, input.CheckIn, input.CheckOut) {
			return errRoomTaken
		}

		nights := models.NightsBetween(input.CheckIn, input.CheckOut)
		booking = &models.Booking{
			UserID:           userID,
			RoomID:           room.ID,
			CheckIn:          input.CheckIn.UTC(),
			CheckOut:         input.CheckOut.UTC(),
			Guests:           input.Guests,
			TotalPrice:       room.PricePerNight * float64(nights),
			Status:           models.BookingStatusPending,
			BookingReference: utils.NewBookingReference(),
			SpecialRequests:  input.SpecialRequests,
		}
		if err := tx.CreateBooking(ctx, booking); err != nil {
			return mapStoreError(err, nil)
		}
		booking.Room = room
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("reference", booking.BookingReference),
		zap.Uint("room_id", booking.RoomID),
		zap.Uint("user_id", userID),
		zap.Float64("total", booking.TotalPrice))
	s.notifier.Publish(ctx, EventBookingCreated, booking, booking.TotalPrice)
	return booking, nil
}

// ListUserBookings returns the user's bookings, newest first.
func (s *BookingService) ListUserBookings(ctx context.Context, userID uint) ([]*models.Booking, error) {
	return s.store.GetBookingsByUser(ctx, userID)
}

// GetUserBooking returns one booking owned by userID.
func (s *BookingService) GetUserBooking(ctx context.Context, userID, bookingID uint) (*models.Booking, error) {
	return s.ownedBooking(ctx, s.store, userID, bookingID)
}

// CancelBooking cancels a booking that has not reached a terminal status.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		b, err := s.ownedBooking(ctx, tx, userID, bookingID)
		if err != nil {
			return err
		}
		if b.IsTerminal() {
			return stateError("booking %s is already %s", b.BookingReference, b.Status)
		}
		if err := tx.UpdateBookingStatus(ctx, b.ID, models.BookingStatusCancelled); err != nil {
			return mapStoreError(err, ErrBookingNotFound)
		}
		b.Status = models.BookingStatusCancelled
		if b.Payment != nil && b.Payment.PaymentStatus == models.PaymentStatusPending {
			b.Payment.PaymentStatus = models.PaymentStatusFailed
			if err := tx.UpdatePayment(ctx, b.Payment); err != nil {
				return err
			}
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled", zap.String("reference", booking.BookingReference))
	s.notifier.Publish(ctx, EventBookingCancelled, booking, 0)
	return booking, nil
}

// CompleteFinishedBookings marks confirmed bookings whose check-out is on or
// before asOf as completed. It returns how many bookings changed.
func (s *BookingService) CompleteFinishedBookings(ctx context.Context, asOf time.Time) (int, error) {
	confirmed, err := s.store.GetBookingsByStatus(ctx, models.BookingStatusConfirmed)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, b := range confirmed {
		if b.CheckOut.After(asOf) {
			continue
		}
		if err := s.store.UpdateBookingStatus(ctx, b.ID, models.BookingStatusCompleted); err != nil {
			return completed, fmt.Errorf("complete booking %s: %w", b.BookingReference, err)
		}
		b.Status = models.BookingStatusCompleted
		completed++
		s.notifier.Publish(ctx, EventBookingCompleted, b, b.TotalPrice)
	}
	return completed, nil
}

func (s *BookingService) ownedBooking(ctx context.Context, store storage.Store, userID, bookingID uint) (*models.Booking, error) {
	booking, err := store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, mapStoreError(err, ErrBookingNotFound)
	}
	if booking.UserID != userID {
		return nil, unauthorizedError("Unauthorized access")
	}
	return booking, nil
}

// mapStoreError translates storage errors into domain errors. notFound is
// returned for missing records when non-nil.
func mapStoreError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, storage.ErrRecordNotFound):
		return notFound
	case errors.Is(err, storage.ErrBookingOverlap):
		return errRoomTaken
	default:
		return err
	}
}
