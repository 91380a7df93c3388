package render

import (
	"log/slog"

	"github.com/araddon/dateparse"

	"github.com/jobinvoicer/esign/internal/models"
)

const (
	maxTextFontSize = 16.0
	maxDateFontSize = 14.0
	textInsetX      = 2.0
)

// PageSize is a page's media box in PDF points.
type PageSize struct {
	Width  float64
	Height float64
}

// Stamp is one planned overlay in PDF coordinate space (origin bottom-left,
// y grows up).
type Stamp struct {
	Page      int // 1-based
	FieldType string

	// Image stamps
	ImageData   []byte
	ImageFormat string

	// Text stamps
	Text     string
	FontSize float64

	X, Y          float64
	Width, Height float64
}

// PDFSpaceY converts a stored screen-space y (origin top-left, y grows down)
// to PDF space: pdfY = pageHeight - fieldY - fieldHeight.
func PDFSpaceY(pageHeight, fieldY, fieldHeight float64) float64 {
	return pageHeight - fieldY - fieldHeight
}

// FontSizeFor scales text to the field box: 60% of the box height, capped at
// 16pt for text/initials and 14pt for dates.
func FontSizeFor(fieldType string, height float64) float64 {
	size := height * 0.6
	limit := maxTextFontSize
	if fieldType == models.FieldTypeDate {
		limit = maxDateFontSize
	}
	if size > limit {
		return limit
	}
	return size
}

// FormatDateValue reformats a parseable date to MM/DD/YYYY; unparseable
// values pass through unchanged.
func FormatDateValue(value string) string {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return value
	}
	return t.Format("01/02/2006")
}

// BuildStamps turns filled fields into overlay stamps. Fields with no value,
// an out-of-range page, an unsupported type, or undecodable image data are
// skipped; one bad field never aborts the document.
func BuildStamps(fields []models.FieldWithSigner, pages []PageSize) []Stamp {
	var stamps []Stamp
	for _, f := range fields {
		if f.Value == nil || *f.Value == "" {
			continue
		}
		if f.Page < 1 || f.Page > len(pages) {
			slog.Warn("skipping field on out-of-range page", "field_id", f.ID, "page", f.Page, "pages", len(pages))
			continue
		}
		page := pages[f.Page-1]
		y := PDFSpaceY(page.Height, f.Y, f.Height)

		switch f.FieldType {
		case models.FieldTypeSignature:
			data, format, err := DecodeSignatureValue(*f.Value)
			if err != nil {
				slog.Warn("skipping undecodable signature image", "field_id", f.ID, "error", err)
				continue
			}
			stamps = append(stamps, Stamp{
				Page:        f.Page,
				FieldType:   f.FieldType,
				ImageData:   data,
				ImageFormat: format,
				X:           f.X,
				Y:           y,
				Width:       f.Width,
				Height:      f.Height,
			})
		case models.FieldTypeText, models.FieldTypeInitials, models.FieldTypeDate:
			text := *f.Value
			if f.FieldType == models.FieldTypeDate {
				text = FormatDateValue(text)
			}
			size := FontSizeFor(f.FieldType, f.Height)
			stamps = append(stamps, Stamp{
				Page:      f.Page,
				FieldType: f.FieldType,
				Text:      text,
				FontSize:  size,
				X:         f.X + textInsetX,
				Y:         y + (f.Height-size)/2,
				Width:     f.Width,
				Height:    f.Height,
			})
		default:
			slog.Warn("skipping unsupported field type", "field_id", f.ID, "field_type", f.FieldType)
		}
	}
	return stamps
}
