package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
)

const minAdminPasswordLength = 8

// Dashboard is the operator overview of all bookings.
type Dashboard struct {
	Bookings     []*models.Booking `json:"bookings"`
	TotalRevenue float64           `json:"total_revenue"`
	StatusCounts map[string]int64  `json:"status_counts"`
}

// AdminService handles operator login and the dashboard
type AdminService struct {
	store  storage.Store
	tokens *TokenService
	logger *zap.Logger
	now    func() time.Time
}

// NewAdminService creates a new admin service
func NewAdminService(store storage.Store, tokens *TokenService, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		store:  store,
		tokens: tokens,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login checks the credentials and issues an admin token.
func (a *AdminService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	admin, err := a.store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return "", time.Time{}, unauthorizedError("Invalid credentials")
		}
		return "", time.Time{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		a.logger.Warn("admin login rejected", zap.String("username", username))
		return "", time.Time{}, unauthorizedError("Invalid credentials")
	}

	now := a.now()
	admin.LastLogin = &now
	if err := a.store.SaveAdmin(ctx, admin); err != nil {
		a.logger.Warn("failed to stamp admin login", zap.Error(err))
	}

	token, exp, err := a.tokens.Issue(RoleAdmin, admin.ID, admin.Username)
	if err != nil {
		return "", time.Time{}, err
	}
	a.logger.Info("admin logged in", zap.String("username", username))
	return token, exp, nil
}

// EnsureAdmin creates the admin or resets its password.
func (a *AdminService) EnsureAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationError("username is required")
	}
	if len(password) < minAdminPasswordLength {
		return nil, validationError("password must be at least %d characters", minAdminPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin, err := a.store.GetAdminByUsername(ctx, username)
	switch {
	case errors.Is(err, storage.ErrRecordNotFound):
		admin = &models.Admin{Username: username, CreatedAt: a.now()}
	case err != nil:
		return nil, err
	}
	admin.PasswordHash = string(hash)
	if err := a.store.SaveAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Dashboard lists every booking newest first with revenue from completed
// payments.
func (a *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	bookings, err := a.store.GetAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := a.store.SumCompletedPayments(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := a.store.CountBookingsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Bookings:     bookings,
		TotalRevenue: revenue,
		StatusCounts: counts,
	}, nil
}
