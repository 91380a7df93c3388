package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jobinvoicer/esign/internal/signer"
)

type SignerHandler struct {
	svc *signer.Service
}

func NewSignerHandler(svc *signer.Service) *SignerHandler {
	return &SignerHandler{svc: svc}
}

type addSignersRequest struct {
	Signers []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Order int    `json:"order"`
	} `json:"signers"`
}

func (h *SignerHandler) Add(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var req addSignersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Signers) == 0 {
		writeError(w, http.StatusBadRequest, "signers required")
		return
	}
	for _, sg := range req.Signers {
		if sg.Name == "" || sg.Email == "" {
			writeError(w, http.StatusBadRequest, "signer name and email required")
			return
		}
	}

	entries := make([]signer.NewSigner, 0, len(req.Signers))
	for _, sg := range req.Signers {
		entries = append(entries, signer.NewSigner{Name: sg.Name, Email: sg.Email, Order: sg.Order})
	}

	created, err := h.svc.AddSigners(r.Context(), documentID, entries)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"signers": created})
}

func (h *SignerHandler) List(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	signers, err := h.svc.List(r.Context(), documentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"signers": signers, "count": len(signers)})
}
