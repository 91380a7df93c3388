package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jobinvoicer/esign/internal/envelope"
	"github.com/jobinvoicer/esign/internal/field"
	"github.com/jobinvoicer/esign/internal/session"
	"github.com/jobinvoicer/esign/internal/signer"
	"github.com/jobinvoicer/esign/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto the HTTP taxonomy: NotFound 404,
// Validation 400, Conflict 409, Expired 410, everything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrAlreadySigned), errors.Is(err, signer.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, signer.ErrTokenExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, field.ErrNotFieldOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, field.ErrInvalidFieldType), errors.Is(err, envelope.ErrUnknownRecipient):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
