package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/envelope"
)

type EnvelopeHandler struct {
	svc *envelope.Service
}

func NewEnvelopeHandler(svc *envelope.Service) *EnvelopeHandler {
	return &EnvelopeHandler{svc: svc}
}

func (h *EnvelopeHandler) Send(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var req envelope.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Recipients) == 0 {
		writeError(w, http.StatusBadRequest, "recipients required")
		return
	}
	for _, rec := range req.Recipients {
		if rec.Name == "" || rec.Email == "" {
			writeError(w, http.StatusBadRequest, "recipient name and email required")
			return
		}
	}

	result, err := h.svc.Send(r.Context(), documentID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
