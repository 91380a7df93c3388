package render

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestSniffImageFormat(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	unknown := []byte("GIF89a")

	if got := SniffImageFormat(png); got != "png" {
		t.Errorf("png sniffed as %q", got)
	}
	if got := SniffImageFormat(jpeg); got != "jpeg" {
		t.Errorf("jpeg sniffed as %q", got)
	}
	if got := SniffImageFormat(unknown); got != "png" {
		t.Errorf("unknown prefix should default to png, got %q", got)
	}
}

func TestDecodeSignatureValueStripsDataURL(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0x01, 0x02}
	value := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	data, format, err := DecodeSignatureValue(value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Errorf("decoded bytes mismatch")
	}
	if format != "jpeg" {
		t.Errorf("format %q, want jpeg", format)
	}
}

func TestDecodeSignatureValuePlainBase64(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47}
	data, format, err := DecodeSignatureValue(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(data, raw) || format != "png" {
		t.Errorf("got format %q", format)
	}
}

func TestDecodeSignatureValueCorrupt(t *testing.T) {
	if _, _, err := DecodeSignatureValue("data:image/png;base64,@@@@"); err == nil {
		t.Fatal("expected error for corrupt base64")
	}
	if _, _, err := DecodeSignatureValue("data:no-comma"); err == nil {
		t.Fatal("expected error for malformed data URL")
	}
}
