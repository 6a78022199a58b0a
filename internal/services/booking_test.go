package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
)

func newTestBookingService(t *testing.T) (*BookingService, *recordingPublisher) {
	t.Helper()
	store := newTestStore(t)
	events := &recordingPublisher{}
	notifier := NewNotifier(nil, events, "Hotel Luxe", zap.NewNop())
	return NewBookingService(store, notifier, zap.NewNop()), events
}

func TestCreateBookingComputesTotalAndReference(t *testing.T) {
	svc, events := newTestBookingService(t)
	ctx := context.Background()
	user := createTestUser(t, svc.store, "+919876543210", "")

	booking, err := svc.CreateBooking(ctx, user.ID, CreateBookingInput{
		RoomID:   roomDeluxe101,
		CheckIn:  stayDate(t, "2026-12-01"),
		CheckOut: stayDate(t, "2026-12-03"),
		Guests:   2,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if booking.TotalPrice != 7000 {
		t.Fatalf("expected total 7000, got %v", booking.TotalPrice)
	}
	if booking.Status != models.BookingStatusPending {
		t.Fatalf("expected pending booking, got %s", booking.Status)
	}
	if !strings.HasPrefix(booking.BookingReference, "HB") || len(booking.BookingReference) != 10 {
		t.Fatalf("unexpected booking reference %q", booking.BookingReference)
	}
	if booking.Room == nil || booking.Room.RoomNumber != "101" {
		t.Fatalf("expected room 101 attached to booking")
	}
	if !hasEvent(events.types(), EventBookingCreated) {
		t.Fatalf("expected %s event, got %v", EventBookingCreated, events.types())
	}

	stored, err := svc.GetUserBooking(ctx, user.ID, booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if stored.Nights() != 2 {
		t.Fatalf("expected 2 nights, got %d", stored.Nights())
	}
}

func TestCreateBookingRejectsOverlapButAllowsAdjacentStay(t *testing.T) {
	svc, _ := newTestBookingService(t)
	ctx := context.Background()
	user := createTestUser(t, svc.store, "+919876543210", "")

	first := CreateBookingInput{RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-01"), CheckOut: stayDate(t, "2026-12-03"), Guests: 1}
	if _, err := svc.CreateBooking(ctx, user.ID, first); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	overlapping := CreateBookingInput{RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-02"), CheckOut: stayDate(t, "2026-12-04"), Guests: 1}
	_, err := svc.CreateBooking(ctx, user.ID, overlapping)
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable, got %v", err)
	}

	adjacent := CreateBookingInput{RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-03"), CheckOut: stayDate(t, "2026-12-05"), Guests: 1}
	if _, err := svc.CreateBooking(ctx, user.ID, adjacent); err != nil {
		t.Fatalf("expected adjacent stay to succeed, got %v", err)
	}

	other := CreateBookingInput{RoomID: roomDeluxe102, CheckIn: stayDate(t, "2026-12-02"), CheckOut: stayDate(t, "2026-12-04"), Guests: 1}
	if _, err := svc.CreateBooking(ctx, user.ID, other); err != nil {
		t.Fatalf("expected other room to be free, got %v", err)
	}
}

func TestCreateBookingConcurrentRequestsForSameDates(t *testing.T) {
	svc, _ := newTestBookingService(t)
	ctx := context.Background()
	user := createTestUser(t, svc.store, "+919876543210", "")

	const attempts = 5
	checkIn, checkOut := stayDate(t, "2026-12-10"), stayDate(t, "2026-12-12")
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, user.ID, CreateBookingInput{
				RoomID:   roomSuite201,
				CheckIn:  checkIn,
				CheckOut: checkOut,
				Guests:   2,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one booking to win, got %d", succeeded)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _ := newTestBookingService(t)
	ctx := context.Background()
	user := createTestUser(t, svc.store, "+919876543210", "")

	tests := []struct {
		name     string
		input    CreateBookingInput
		expected error
	}{
		{
			name:     "checkout before checkin",
			input:    CreateBookingInput{RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-05"), CheckOut: stayDate(t, "2026-12-01"), Guests: 1},
			expected: ErrValidation,
		},
		{
			name:     "same day",
			input:    CreateBookingInput{RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-05"), CheckOut: stayDate(t, "2026-12-05"), Guests: 1},
			expected: ErrValidation,
		},
		{
			name:     "no guests",
			input:    CreateBookingInput{RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-01"), CheckOut: stayDate(t, "2026-12-02"), Guests: 0},
			expected: ErrValidation,
		},
		{
			name:     "over capacity",
			input:    CreateBookingInput{RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-01"), CheckOut: stayDate(t, "2026-12-02"), Guests: 3},
			expected: ErrValidation,
		},
		{
			name:     "unknown room",
			input:    CreateBookingInput{RoomID: 999, CheckIn: stayDate(t, "2026-12-01"), CheckOut: stayDate(t, "2026-12-02"), Guests: 1},
			expected: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBooking(ctx, user.ID, tt.input)
			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestCancelBookingReleasesDates(t *testing.T) {
	svc, events := newTestBookingService(t)
	ctx := context.Background()
	user := createTestUser(t, svc.store, "+919876543210", "")
	input := CreateBookingInput{RoomID: roomStandard301, CheckIn: stayDate(t, "2026-12-01"), CheckOut: stayDate(t, "2026-12-03"), Guests: 1}

	booking, err := svc.CreateBooking(ctx, user.ID, input)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	cancelled, err := svc.CancelBooking(ctx, user.ID, booking.ID)
	if err != nil {
		t.Fatalf("cancel booking: %v", err)
	}
	if cancelled.Status != models.BookingStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}
	if !hasEvent(events.types(), EventBookingCancelled) {
		t.Fatalf("expected %s event", EventBookingCancelled)
	}

	if _, err := svc.CancelBooking(ctx, user.ID, booking.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second cancel, got %v", err)
	}
	stored, err := svc.GetUserBooking(ctx, user.ID, booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if stored.Status != models.BookingStatusCancelled {
		t.Fatalf("expected booking to stay cancelled, got %s", stored.Status)
	}

	available, err := svc.CheckAvailability(ctx, roomStandard301, input.CheckIn, input.CheckOut)
	if err != nil {
		t.Fatalf("check availability: %v", err)
	}
	if !available {
		t.Fatalf("expected room to be available after cancellation")
	}
	if _, err := svc.CreateBooking(ctx, user.ID, input); err != nil {
		t.Fatalf("expected rebooking to succeed, got %v", err)
	}
}

func TestBookingOwnership(t *testing.T) {
	svc, _ := newTestBookingService(t)
	ctx := context.Background()
	owner := createTestUser(t, svc.store, "+919876543210", "")
	stranger := createTestUser(t, svc.store, "+919876543211", "")

	booking, err := svc.CreateBooking(ctx, owner.ID, CreateBookingInput{
		RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-01"), CheckOut: stayDate(t, "2026-12-02"), Guests: 1,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if _, err := svc.GetUserBooking(ctx, stranger.ID, booking.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized reading another user's booking, got %v", err)
	}
	if _, err := svc.CancelBooking(ctx, stranger.ID, booking.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized cancelling another user's booking, got %v", err)
	}
	if _, err := svc.GetUserBooking(ctx, owner.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing booking, got %v", err)
	}

	list, err := svc.ListUserBookings(ctx, stranger.ID)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no bookings for stranger, got %d", len(list))
	}
}

func TestAvailableRoomsExcludesBookedRooms(t *testing.T) {
	svc, _ := newTestBookingService(t)
	ctx := context.Background()
	user := createTestUser(t, svc.store, "+919876543210", "")

	if _, err := svc.CreateBooking(ctx, user.ID, CreateBookingInput{
		RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-01"), CheckOut: stayDate(t, "2026-12-04"), Guests: 1,
	}); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	rooms, err := svc.AvailableRooms(ctx, stayDate(t, "2026-12-02"), stayDate(t, "2026-12-03"), "Deluxe")
	if err != nil {
		t.Fatalf("available rooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != roomDeluxe102 {
		t.Fatalf("expected only room 102 free, got %d rooms", len(rooms))
	}

	all, err := svc.AvailableRooms(ctx, stayDate(t, "2026-12-04"), stayDate(t, "2026-12-05"), "")
	if err != nil {
		t.Fatalf("available rooms: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected all 5 rooms free after checkout, got %d", len(all))
	}

	if _, err := svc.CheckAvailability(ctx, 999, stayDate(t, "2026-12-01"), stayDate(t, "2026-12-02")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown room, got %v", err)
	}
}

func TestCompleteFinishedBookings(t *testing.T) {
	svc, events := newTestBookingService(t)
	ctx := context.Background()
	user := createTestUser(t, svc.store, "+919876543210", "")

	past, err := svc.CreateBooking(ctx, user.ID, CreateBookingInput{
		RoomID: roomDeluxe101, CheckIn: stayDate(t, "2026-12-01"), CheckOut: stayDate(t, "2026-12-03"), Guests: 1,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	future, err := svc.CreateBooking(ctx, user.ID, CreateBookingInput{
		RoomID: roomDeluxe102, CheckIn: stayDate(t, "2026-12-20"), CheckOut: stayDate(t, "2026-12-22"), Guests: 1,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	for _, id := range []uint{past.ID, future.ID} {
		if err := svc.store.UpdateBookingStatus(ctx, id, models.BookingStatusConfirmed); err != nil {
			t.Fatalf("confirm booking: %v", err)
		}
	}

	completed, err := svc.CompleteFinishedBookings(ctx, stayDate(t, "2026-12-03"))
	if err != nil {
		t.Fatalf("complete bookings: %v", err)
	}
	if completed != 1 {
		t.Fatalf("expected 1 completed booking, got %d", completed)
	}

	stored, err := svc.GetUserBooking(ctx, user.ID, past.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if stored.Status != models.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
	if !hasEvent(events.types(), EventBookingCompleted) {
		t.Fatalf("expected %s event", EventBookingCompleted)
	}

	if _, err := svc.CancelBooking(ctx, user.ID, past.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState cancelling a completed booking, got %v", err)
	}
	stored, err = svc.GetUserBooking(ctx, user.ID, past.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if stored.Status != models.BookingStatusCompleted {
		t.Fatalf("expected booking to stay completed, got %s", stored.Status)
	}
}
