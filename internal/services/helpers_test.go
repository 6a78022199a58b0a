package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/database"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
)

const testOTPCode = "123456"

// Seeded room ids, in seed order.
const (
	roomDeluxe101   uint = 1
	roomDeluxe102   uint = 2
	roomSuite201    uint = 3
	roomStandard301 uint = 4
)

func newTestStore(t *testing.T) *storage.DatabaseStore {
	t.Helper()
	logger := zap.NewNop()
	db, err := database.Connect(":memory:", logger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.Migrate(db, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := database.SeedRooms(db, logger); err != nil {
		t.Fatalf("seed rooms: %v", err)
	}
	return storage.NewDatabaseStore(db)
}

func createTestUser(t *testing.T, store storage.Store, phone, email string) *models.User {
	t.Helper()
	user := &models.User{Phone: phone, FullName: "Asha Guest", IsVerified: true}
	if email != "" {
		user.Email = &email
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func stayDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseStayDate(value)
	if err != nil {
		t.Fatalf("parse %s: %v", value, err)
	}
	return d
}

type fakeGateway struct {
	mu         sync.Mutex
	orders     int
	lastOrder  OrderRequest
	orderErr   error
	goodSig    string
	webhookSig string
}

func (g *fakeGateway) CreateOrder(_ context.Context, req OrderRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.orderErr != nil {
		return "", g.orderErr
	}
	g.orders++
	g.lastOrder = req
	return fmt.Sprintf("order_test_%d", g.orders), nil
}

func (g *fakeGateway) VerifySignature(_, _, signature string) error {
	if signature != g.goodSig {
		return errors.New("signature mismatch")
	}
	return nil
}

func (g *fakeGateway) VerifyWebhook(_ []byte, signature string) error {
	if signature != g.webhookSig {
		return errors.New("signature mismatch")
	}
	return nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

type fakeOTPProvider struct {
	mu    sync.Mutex
	sent  []string
	fails error
}

func (p *fakeOTPProvider) SendCode(_ context.Context, phone string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fails != nil {
		return "", p.fails
	}
	p.sent = append(p.sent, phone)
	return fmt.Sprintf("VE%d", len(p.sent)), nil
}

func (p *fakeOTPProvider) CheckCode(_ context.Context, _, code string) (bool, error) {
	return code == testOTPCode, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []BookingEvent
}

func (r *recordingPublisher) Publish(_ context.Context, _ string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := event.(BookingEvent); ok {
		r.events = append(r.events, e)
	}
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func hasEvent(events []string, want string) bool {
	for _, e := range events {
		if e == want {
			return true
		}
	}
	return false
}
