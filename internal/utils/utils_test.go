package utils

import (
	"errors"
	"regexp"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "ten digits", input: "9876543210", want: "+919876543210"},
		{name: "formatted ten digits", input: "98765-43210", want: "+919876543210"},
		{name: "with country code", input: "+91 98765 43210", want: "+919876543210"},
		{name: "us number", input: "+1 (415) 555-0100", want: "+14155550100"},
		{name: "too short", input: "12345", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPhone) {
					t.Fatalf("expected ErrInvalidPhone, got %v (%q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIdentifierFormats(t *testing.T) {
	ref := NewBookingReference()
	if !regexp.MustCompile(`^HB[0-9A-F]{8}$`).MatchString(ref) {
		t.Fatalf("unexpected booking reference %q", ref)
	}
	txn := NewTransactionID()
	if !regexp.MustCompile(`^TXN[0-9A-F]{12}$`).MatchString(txn) {
		t.Fatalf("unexpected transaction id %q", txn)
	}
	if NewBookingReference() == ref {
		t.Fatalf("expected fresh references")
	}
}

func TestGenerateSecureOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateSecureOTP()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !IsOTPFormat(code) {
			t.Fatalf("expected six digits, got %q", code)
		}
	}
	if IsOTPFormat("12345a") || IsOTPFormat("1234567") {
		t.Fatalf("expected malformed codes to be rejected")
	}
}
