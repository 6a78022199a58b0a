package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/models"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/utils"
)

// OTPExpiryMinutes is how long a sent code stays valid at the provider.
const OTPExpiryMinutes = 10

// SendOTPInput requests a code for a phone number.
type SendOTPInput struct {
	Phone   string
	Purpose string
	IP      string
}

// SendOTPResult reports a sent code and the remaining daily budget.
type SendOTPResult struct {
	Phone             string `json:"phone"`
	ExpiresIn         int    `json:"expires_in"`
	AttemptsRemaining int    `json:"attempts_remaining"`
}

// VerifyOTPInput carries the code and, for registration, the profile.
type VerifyOTPInput struct {
	Phone    string
	Code     string
	Purpose  string
	FullName string
	Email    string
}

// AuthResult is a verified user with its access token.
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// OTPService handles OTP login and registration
type OTPService struct {
	store    storage.Store
	provider OTPProvider
	tokens   *TokenService
	maxDaily int
	logger   *zap.Logger
	now      func() time.Time
}

// NewOTPService creates a new OTP service
func NewOTPService(store storage.Store, provider OTPProvider, tokens *TokenService, maxDaily int, logger *zap.Logger) *OTPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OTPService{
		store:    store,
		provider: provider,
		tokens:   tokens,
		maxDaily: maxDaily,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func startOfUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizePurpose(purpose string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(purpose)) {
	case "", models.OTPPurposeLogin:
		return models.OTPPurposeLogin, nil
	case models.OTPPurposeRegister:
		return models.OTPPurposeRegister, nil
	default:
		return "", validationError("unknown purpose %q", purpose)
	}
}

// SendOTP sends a code through the provider, enforcing the per-phone daily
// cap.
func (s *OTPService) SendOTP(ctx context.Context, input SendOTPInput) (*SendOTPResult, error) {
	phone, err := utils.NormalizePhone(input.Phone)
	if err != nil {
		return nil, validationError("Invalid phone number")
	}
	purpose, err := normalizePurpose(input.Purpose)
	if err != nil {
		return nil, err
	}

	now := s.now()
	used, err := s.store.CountOTPRecordsSince(ctx, phone, startOfUTCDay(now))
	if err != nil {
		return nil, err
	}
	if used >= int64(s.maxDaily) {
		return nil, otpLimitError(s.maxDaily)
	}

	user, err := s.store.GetUserByPhone(ctx, phone)
	if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
		return nil, err
	}
	if purpose == models.OTPPurposeRegister && user != nil {
		return nil, validationError("Phone number already registered. Please login.")
	}
	if purpose == models.OTPPurposeLogin && user == nil {
		return nil, ErrUserNotFound
	}

	sid, err := s.provider.SendCode(ctx, phone)
	if err != nil {
		return nil, gatewayError("send otp", err)
	}

	record := &models.OTPRecord{
		Phone:           phone,
		Purpose:         purpose,
		VerificationSID: sid,
		Status:          models.OTPStatusPending,
		CreatedAt:       now,
		IPAddress:       input.IP,
	}
	if user != nil {
		record.UserID = &user.ID
	}
	if err := s.store.CreateOTPRecord(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("otp sent", zap.String("phone", phone), zap.String("purpose", purpose))
	return &SendOTPResult{
		Phone:             phone,
		ExpiresIn:         OTPExpiryMinutes,
		AttemptsRemaining: s.maxDaily - int(used) - 1,
	}, nil
}

// ResendOTP sends a fresh code. It counts against the same daily cap.
func (s *OTPService) ResendOTP(ctx context.Context, input SendOTPInput) (*SendOTPResult, error) {
	return s.SendOTP(ctx, input)
}

// VerifyOTP checks the code and logs the user in, creating the account for
// registrations.
func (s *OTPService) VerifyOTP(ctx context.Context, input VerifyOTPInput) (*AuthResult, error) {
	phone, err := utils.NormalizePhone(input.Phone)
	if err != nil {
		return nil, validationError("Invalid phone number")
	}
	purpose, err := normalizePurpose(input.Purpose)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, validationError("OTP is required")
	}

	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if purpose == models.OTPPurposeRegister && fullName == "" {
		return nil, validationError("Full name is required")
	}

	approved, err := s.provider.CheckCode(ctx, phone, code)
	if err != nil {
		return nil, gatewayError("check otp", err)
	}
	if !approved {
		s.markLatest(ctx, phone, purpose, models.OTPStatusFailed)
		return nil, invalidOTP()
	}

	now := s.now()
	var user *models.User
	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Store) error {
		existing, err := tx.GetUserByPhone(ctx, phone)
		if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
			return err
		}

		switch purpose {
		case models.OTPPurposeRegister:
			if existing != nil {
				return validationError("Phone number already registered. Please login.")
			}
			user = &models.User{
				Phone:      phone,
				FullName:   fullName,
				IsVerified: true,
				CreatedAt:  now,
				LastLogin:  &now,
			}
			if email != "" {
				if _, err := tx.GetUserByEmail(ctx, email); err == nil {
					return validationError("Email already in use")
				} else if !errors.Is(err, storage.ErrRecordNotFound) {
					return err
				}
				user.Email = &email
			}
			if err := tx.CreateUser(ctx, user); err != nil {
				if errors.Is(err, storage.ErrDuplicate) {
					return validationError("Phone or email already registered")
				}
				return err
			}
		default:
			if existing == nil {
				return ErrUserNotFound
			}
			existing.LastLogin = &now
			existing.IsVerified = true
			if err := tx.UpdateUser(ctx, existing); err != nil {
				return err
			}
			user = existing
		}

		record, err := tx.GetLatestOTPRecord(ctx, phone, purpose)
		switch {
		case err == nil:
			record.Status = models.OTPStatusApproved
			record.VerifiedAt = &now
			if record.UserID == nil {
				record.UserID = &user.ID
			}
			return tx.UpdateOTPRecord(ctx, record)
		case errors.Is(err, storage.ErrRecordNotFound):
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(RoleUser, user.ID, user.FullName)
	if err != nil {
		return nil, err
	}
	s.logger.Info("otp verified", zap.String("phone", phone), zap.String("purpose", purpose), zap.Uint("user_id", user.ID))
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *OTPService) markLatest(ctx context.Context, phone, purpose, status string) {
	record, err := s.store.GetLatestOTPRecord(ctx, phone, purpose)
	if err != nil {
		return
	}
	if record.Status != models.OTPStatusPending {
		return
	}
	record.Status = status
	if err := s.store.UpdateOTPRecord(ctx, record); err != nil {
		s.logger.Warn("failed to update otp record", zap.Uint("id", record.ID), zap.Error(err))
	}
}
