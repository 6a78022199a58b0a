package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
	"go.uber.org/zap"

	"github.com/Ananth-NQI/hotelluxe-backend/internal/utils"
)

// OTPProvider sends and checks one-time codes for a phone number.
type OTPProvider interface {
	SendCode(ctx context.Context, phone string) (string, error)
	CheckCode(ctx context.Context, phone, code string) (bool, error)
}

const verifyStatusApproved = "approved"

// TwilioVerifyProvider delivers OTPs through Twilio Verify.
type TwilioVerifyProvider struct {
	client     *twilio.RestClient
	serviceSID string
	logger     *zap.Logger
}

// NewTwilioVerifyProvider creates a new Twilio Verify provider
func NewTwilioVerifyProvider(accountSID, authToken, serviceSID string, logger *zap.Logger) (*TwilioVerifyProvider, error) {
	if accountSID == "" || authToken == "" || serviceSID == "" {
		return nil, fmt.Errorf("missing Twilio Verify credentials")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioVerifyProvider{
		client:     client,
		serviceSID: serviceSID,
		logger:     logger,
	}, nil
}

// SendCode starts an SMS verification and returns its SID.
func (t *TwilioVerifyProvider) SendCode(_ context.Context, phone string) (string, error) {
	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	resp, err := t.client.VerifyV2.CreateVerification(t.serviceSID, params)
	if err != nil {
		t.logger.Error("❌ failed to send verification", zap.String("phone", phone), zap.Error(err))
		return "", err
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	t.logger.Info("✅ verification sent", zap.String("phone", phone), zap.String("sid", sid))
	return sid, nil
}

// CheckCode reports whether Twilio approved code for phone.
func (t *TwilioVerifyProvider) CheckCode(_ context.Context, phone, code string) (bool, error) {
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	resp, err := t.client.VerifyV2.CreateVerificationCheck(t.serviceSID, params)
	if err != nil {
		t.logger.Error("❌ failed to check verification", zap.String("phone", phone), zap.Error(err))
		return false, err
	}
	return resp.Status != nil && *resp.Status == verifyStatusApproved, nil
}

// DevOTPProvider stands in for Twilio when it is not configured. It logs the
// generated code and accepts any six digit code.
type DevOTPProvider struct {
	logger *zap.Logger
}

// NewDevOTPProvider creates a development OTP provider
func NewDevOTPProvider(logger *zap.Logger) *DevOTPProvider {
	return &DevOTPProvider{logger: logger}
}

func (d *DevOTPProvider) SendCode(_ context.Context, phone string) (string, error) {
	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return "", err
	}
	sid := utils.GenerateSecureID("DEV", 16)
	d.logger.Warn("📱 development OTP (Twilio not configured)",
		zap.String("phone", phone),
		zap.String("code", code),
		zap.String("sid", sid))
	return sid, nil
}

func (d *DevOTPProvider) CheckCode(_ context.Context, _ string, code string) (bool, error) {
	return utils.IsOTPFormat(code), nil
}
