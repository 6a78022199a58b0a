package services

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRRenderer turns text into an embeddable image payload.
type QRRenderer interface {
	Render(text string) (string, error)
}

const qrImageSize = 256

// PNGQRRenderer renders QR codes as base64 PNG data URIs.
type PNGQRRenderer struct{}

func (PNGQRRenderer) Render(text string) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// UPIPaymentURI builds the upi://pay link encoded into payment QR codes.
func UPIPaymentURI(upiID, merchant string, amount float64, txnID, bookingRef string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&tr=%s&tn=Booking%s",
		upiEscape(upiID), upiEscape(merchant), amount, upiEscape(txnID), upiEscape(bookingRef))
}

// upiEscape query-escapes s. Spaces become %20 and @ is kept literal, as
// UPI apps expect in VPAs.
func upiEscape(s string) string {
	return strings.NewReplacer("+", "%20", "%40", "@").Replace(url.QueryEscape(s))
}
