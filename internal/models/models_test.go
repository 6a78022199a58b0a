package models

import (
	"testing"
	"time"
)

func TestNightsBetween(t *testing.T) {
	in := time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		out      time.Time
		expected int
	}{
		{name: "one night", out: in.AddDate(0, 0, 1), expected: 1},
		{name: "across new year", out: time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC), expected: 3},
		{name: "time of day ignored", out: time.Date(2027, 1, 1, 23, 59, 0, 0, time.UTC), expected: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NightsBetween(in, tt.out); got != tt.expected {
				t.Fatalf("expected %d nights, got %d", tt.expected, got)
			}
		})
	}
}

func TestBookingStatusPredicates(t *testing.T) {
	tests := []struct {
		status   string
		active   bool
		terminal bool
	}{
		{status: BookingStatusPending, active: true},
		{status: BookingStatusConfirmed, active: true},
		{status: BookingStatusCancelled, terminal: true},
		{status: BookingStatusCompleted, terminal: true},
	}
	for _, tt := range tests {
		b := &Booking{Status: tt.status}
		if b.IsActive() != tt.active || b.IsTerminal() != tt.terminal {
			t.Fatalf("%s: expected active=%v terminal=%v", tt.status, tt.active, tt.terminal)
		}
	}
}

func TestRoomAmenities(t *testing.T) {
	var room Room
	if got := room.AmenityList(); len(got) != 0 {
		t.Fatalf("expected no amenities, got %v", got)
	}

	room.SetAmenities([]string{"WiFi", "AC"})
	got := room.AmenityList()
	if len(got) != 2 || got[0] != "WiFi" || got[1] != "AC" {
		t.Fatalf("unexpected amenities %v", got)
	}

	room.Amenities = []byte("{broken")
	if got := room.AmenityList(); len(got) != 0 {
		t.Fatalf("expected malformed amenities to decode as empty, got %v", got)
	}
}

func TestUserEmailAddress(t *testing.T) {
	u := &User{}
	if u.EmailAddress() != "" {
		t.Fatalf("expected empty email")
	}
	email := "asha@example.com"
	u.Email = &email
	if u.EmailAddress() != email {
		t.Fatalf("expected %s, got %s", email, u.EmailAddress())
	}
}
