// Package render overlays filled signature fields onto the original PDF to
// produce the signed artifact. Rendering is stateless and uncached; documents
// are small and infrequently viewed, so correctness wins over speed.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"

	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jobinvoicer/esign/internal/document"
	"github.com/jobinvoicer/esign/internal/store"
)

type Engine struct {
	store store.Store
	docs  *document.Service
	conf  *model.Configuration
}

func NewEngine(st store.Store, docs *document.Service) *Engine {
	return &Engine{store: st, docs: docs, conf: model.NewDefaultConfiguration()}
}

// Render loads the original PDF and stamps every filled field onto it. The
// download and preview endpoints share this path; they differ only in
// response headers.
func (e *Engine) Render(ctx context.Context, documentID uuid.UUID) ([]byte, error) {
	doc, err := e.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	original, err := e.docs.FileBytes(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("load original PDF: %w", err)
	}

	fields, err := e.store.ListFieldsForDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	pages, err := pageSizes(original, e.conf)
	if err != nil {
		return nil, fmt.Errorf("read PDF pages: %w", err)
	}

	stamps := BuildStamps(fields, pages)
	if len(stamps) == 0 {
		return original, nil
	}

	marks := make(map[int][]*model.Watermark, len(stamps))
	for _, st := range stamps {
		wm, err := e.watermark(st)
		if err != nil {
			slog.Warn("skipping unstampable field", "page", st.Page, "field_type", st.FieldType, "error", err)
			continue
		}
		marks[st.Page] = append(marks[st.Page], wm)
	}
	if len(marks) == 0 {
		return original, nil
	}

	var out bytes.Buffer
	if err := api.AddWatermarksSliceMap(bytes.NewReader(original), &out, marks, e.conf); err != nil {
		return nil, fmt.Errorf("stamp PDF: %w", err)
	}
	return out.Bytes(), nil
}

func (e *Engine) watermark(st Stamp) (*model.Watermark, error) {
	if len(st.ImageData) > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(st.ImageData))
		if err != nil {
			return nil, fmt.Errorf("decode %s image: %w", st.ImageFormat, err)
		}
		scale := 1.0
		if cfg.Width > 0 {
			scale = st.Width / float64(cfg.Width)
		}
		desc := fmt.Sprintf("pos:bl, off:%.2f %.2f, scale:%.6f abs, rot:0, op:1", st.X, st.Y, scale)
		return api.ImageWatermarkForReader(bytes.NewReader(st.ImageData), desc, true, false, types.POINTS)
	}

	desc := fmt.Sprintf("font:Helvetica, points:%.0f, scale:1 abs, pos:bl, off:%.2f %.2f, rot:0, fillc:#000000, op:1", st.FontSize, st.X, st.Y)
	return api.TextWatermark(st.Text, desc, true, false, types.POINTS)
}

func pageSizes(pdfBytes []byte, conf *model.Configuration) ([]PageSize, error) {
	rctx, err := api.ReadContext(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return nil, err
	}
	dims, err := rctx.PageDims()
	if err != nil {
		return nil, err
	}
	pages := make([]PageSize, len(dims))
	for i, d := range dims {
		pages[i] = PageSize{Width: d.Width, Height: d.Height}
	}
	return pages, nil
}
