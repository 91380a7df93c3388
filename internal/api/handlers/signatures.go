package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/field"
)

// SignatureHandler exposes the field store: the joined field listing used by
// the signing UI, the owner-initiated direct-field flow, and field deletion.
type SignatureHandler struct {
	svc *field.Service
}

func NewSignatureHandler(svc *field.Service) *SignatureHandler {
	return &SignatureHandler{svc: svc}
}

func (h *SignatureHandler) List(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	fields, err := h.svc.ListForDocument(r.Context(), documentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"signatures": fields, "count": len(fields)})
}

type createFieldRequest struct {
	SignerID string  `json:"signer_id"`
	Type     string  `json:"type"`
	Page     int     `json:"page"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Required bool    `json:"required"`
	Value    *string `json:"value,omitempty"`
}

func (h *SignatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var req createFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	signerID, err := uuid.Parse(req.SignerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid signer ID")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "field type required")
		return
	}

	created, err := h.svc.Create(r.Context(), field.CreateRequest{
		DocumentID: documentID,
		SignerID:   signerID,
		FieldType:  req.Type,
		Page:       req.Page,
		X:          req.X,
		Y:          req.Y,
		Width:      req.Width,
		Height:     req.Height,
		Required:   req.Required,
		Value:      req.Value,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *SignatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	fieldID, err := uuid.Parse(chi.URLParam(r, "fieldID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid field ID")
		return
	}

	if err := h.svc.Delete(r.Context(), fieldID, clientIP(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
