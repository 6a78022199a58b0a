package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
)

// Booking event types
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
	EventPaymentFailed    = "payment.failed"
)

// BookingEvent is the message published for booking lifecycle changes.
type BookingEvent struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	BookingID        uint      `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	UserID           uint      `json:"user_id"`
	RoomID           uint      `json:"room_id"`
	Status           string    `json:"status"`
	Amount           float64   `json:"amount,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// EventPublisher publishes domain events keyed for partitioning.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

const kafkaWriteTimeout = 10 * time.Second

// KafkaPublisher writes JSON events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher for topic on broker
func NewKafkaPublisher(broker, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           kafkaWriteTimeout,
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	if p == nil || p.writer == nil {
		return nil
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error { return nil }

func newBookingEvent(eventType string, b *models.Booking, amount float64, at time.Time) BookingEvent {
	return BookingEvent{
		ID:               uuid.NewString(),
		Type:             eventType,
		BookingID:        b.ID,
		BookingReference: b.BookingReference,
		UserID:           b.UserID,
		RoomID:           b.RoomID,
		Status:           b.Status,
		Amount:           amount,
		OccurredAt:       at.UTC(),
	}
}
