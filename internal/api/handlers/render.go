package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/document"
	"github.com/jobinvoicer/esign/internal/render"
)

type RenderHandler struct {
	engine *render.Engine
	docs   *document.Service
}

func NewRenderHandler(engine *render.Engine, docs *document.Service) *RenderHandler {
	return &RenderHandler{engine: engine, docs: docs}
}

// Download stamps the document and returns it as an attachment.
func (h *RenderHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := h.docs.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pdf, err := h.engine.Render(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, doc.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// Preview stamps the document and returns it inline. Regenerated on every
// view, never cached.
func (h *RenderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	pdf, err := h.engine.Render(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
