package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

// Image format detection is deliberately a small isolated decoder util so the
// stamping loop stays free of format-specific logic.

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// SniffImageFormat detects PNG vs JPEG from the byte prefix, defaulting to PNG.
func SniffImageFormat(data []byte) string {
	if bytes.HasPrefix(data, jpegMagic) {
		return "jpeg"
	}
	if bytes.HasPrefix(data, pngMagic) {
		return "png"
	}
	return "png"
}

// DecodeSignatureValue turns a stored signature value (raw base64 or a
// data-URL) into image bytes plus the sniffed format.
func DecodeSignatureValue(value string) ([]byte, string, error) {
	raw := value
	if strings.HasPrefix(raw, "data:") {
		idx := strings.Index(raw, ",")
		if idx < 0 {
			return nil, "", fmt.Errorf("malformed data URL")
		}
		raw = raw[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(raw)
		if err != nil {
			return nil, "", fmt.Errorf("decode signature image: %w", err)
		}
	}
	return data, SniffImageFormat(data), nil
}
