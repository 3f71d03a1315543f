// Package qrcode renders the public evaluation-form URL as a QR image.
package qrcode

import (
	"encoding/base64"
	"fmt"
	"net/url"

	qr "github.com/skip2/go-qrcode"
)

// Maximum payload a version-40 QR code can carry in byte mode.
const maxPayloadLen = 2953

const defaultSize = 400

// Options tunes QR rendering.
type Options struct {
	Size int
}

// ValidateURL reports whether the payload can be encoded. Absolute URLs
// always pass; anything else passes as long as it is non-empty and fits.
func ValidateURL(raw string) bool {
	if raw == "" {
		return false
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		return true
	}
	return len(raw) <= maxPayloadLen
}

// EncodePNG returns QR PNG bytes for the given URL.
func EncodePNG(raw string, opts Options) ([]byte, error) {
	if !ValidateURL(raw) {
		return nil, fmt.Errorf("qrcode: invalid payload")
	}
	size := opts.Size
	if size <= 0 {
		size = defaultSize
	}
	png, err := qr.Encode(raw, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

// EncodeDataURL returns the QR image as a base64 PNG data URL, the format
// the public form page embeds directly.
func EncodeDataURL(raw string, opts Options) (string, error) {
	png, err := EncodePNG(raw, opts)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
