package render

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// The stamp pass groups several watermarks per page, so it must go through the
// slice-map entry point. Pinning the signature here keeps a library upgrade
// from silently changing the contract.
var _ func(io.ReadSeeker, io.Writer, map[int][]*model.Watermark, *model.Configuration) error = api.AddWatermarksSliceMap

// minimalPNG builds a PNG holding just the signature and a checksummed IHDR
// chunk, which is all image.DecodeConfig needs for dimensions.
func minimalPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(height))
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA

	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(ihdr)))
	buf.Write(length[:])
	buf.WriteString("IHDR")
	buf.Write(ihdr)

	crc := crc32.NewIEEE()
	crc.Write([]byte("IHDR"))
	crc.Write(ihdr)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	buf.Write(sum[:])

	return buf.Bytes()
}

func TestWatermarkTextStamp(t *testing.T) {
	e := &Engine{conf: model.NewDefaultConfiguration()}

	wm, err := e.watermark(Stamp{
		Page:      1,
		FieldType: "text",
		Text:      "Acme Corp",
		FontSize:  12,
		X:         52,
		Y:         646,
	})
	if err != nil {
		t.Fatalf("text watermark: %v", err)
	}
	if wm == nil {
		t.Fatal("nil watermark")
	}
}

func TestWatermarkImageStamp(t *testing.T) {
	e := &Engine{conf: model.NewDefaultConfiguration()}

	wm, err := e.watermark(Stamp{
		Page:        1,
		FieldType:   "signature",
		ImageData:   minimalPNG(t, 400, 160),
		ImageFormat: "png",
		X:           50,
		Y:           612,
		Width:       200,
		Height:      80,
	})
	if err != nil {
		t.Fatalf("image watermark: %v", err)
	}
	if wm == nil {
		t.Fatal("nil watermark")
	}
}

func TestWatermarkRejectsCorruptImage(t *testing.T) {
	e := &Engine{conf: model.NewDefaultConfiguration()}

	_, err := e.watermark(Stamp{
		Page:        1,
		FieldType:   "signature",
		ImageData:   []byte("not an image"),
		ImageFormat: "png",
	})
	if err == nil {
		t.Fatal("expected error for undecodable image data")
	}
}
