package handlers

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobinvoicer/esign/internal/session"
)

// SignHandler serves the public token-driven signing session. No staff auth
// applies here; the token in the path is the signer's credential.
type SignHandler struct {
	svc *session.Service
}

func NewSignHandler(svc *session.Service) *SignHandler {
	return &SignHandler{svc: svc}
}

func (h *SignHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	view, err := h.svc.GetSession(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type submitRequest struct {
	SignatureData string           `json:"signatureData"`
	Position      session.Position `json:"position"`
	Action        string           `json:"action"`
}

func (h *SignHandler) Submit(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SignatureData == "" {
		writeError(w, http.StatusBadRequest, "signatureData required")
		return
	}

	result, err := h.svc.Submit(r.Context(), session.SubmitRequest{
		Token:         token,
		SignatureData: req.SignatureData,
		Position:      req.Position,
		Action:        req.Action,
		IPAddress:     clientIP(r),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from X-Forwarded-For.
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
