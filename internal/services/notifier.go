package services

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
)

const dateLayout = "2006-01-02"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`Dear {{.Name}},

Your booking has been confirmed!

Booking Reference: {{.Reference}}
Room Type: {{.RoomType}}
Room Number: {{.RoomNumber}}
Check-in: {{.CheckIn}}
Check-out: {{.CheckOut}}
Guests: {{.Guests}}
Total Amount: ₹{{printf "%.2f" .Total}}

Thank you for choosing {{.Merchant}}!
`))

// Notifier sends the side-channel messages of the booking lifecycle. Every
// failure is logged and swallowed.
type Notifier struct {
	mailer   Mailer
	events   EventPublisher
	merchant string
	logger   *zap.Logger
}

// NewNotifier creates a new notifier. Nil collaborators fall back to no-ops.
func NewNotifier(mailer Mailer, events EventPublisher, merchant string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &Notifier{mailer: mailer, events: events, merchant: merchant, logger: logger}
}

// Publish emits a booking event.
func (n *Notifier) Publish(ctx context.Context, eventType string, booking *models.Booking, amount float64) {
	event := newBookingEvent(eventType, booking, amount, time.Now())
	if err := n.events.Publish(ctx, booking.BookingReference, event); err != nil {
		n.logger.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("reference", booking.BookingReference),
			zap.Error(err))
	}
}

// BookingConfirmed emails the guest, if they gave an address, and publishes
// the confirmation event.
func (n *Notifier) BookingConfirmed(ctx context.Context, booking *models.Booking, user *models.User, room *models.Room, amount float64) {
	n.Publish(ctx, EventBookingConfirmed, booking, amount)

	if user == nil || user.EmailAddress() == "" {
		return
	}
	data := struct {
		Name, Reference, RoomType, RoomNumber, CheckIn, CheckOut, Merchant string
		Guests                                                             int
		Total                                                              float64
	}{
		Name:       user.FullName,
		Reference:  booking.BookingReference,
		RoomNumber: "TBA",
		CheckIn:    booking.CheckIn.Format(dateLayout),
		CheckOut:   booking.CheckOut.Format(dateLayout),
		Merchant:   n.merchant,
		Guests:     booking.Guests,
		Total:      booking.TotalPrice,
	}
	if room != nil {
		data.RoomType = room.RoomType
		data.RoomNumber = room.RoomNumber
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		n.logger.Error("failed to render confirmation email", zap.Error(err))
		return
	}
	subject := "Booking Confirmation - " + n.merchant
	if err := n.mailer.Send(ctx, user.EmailAddress(), subject, body.String()); err != nil {
		n.logger.Warn("failed to send confirmation email",
			zap.String("reference", booking.BookingReference),
			zap.Error(err))
	}
}
