package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/threadlog/internal/domain"
)

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeInvalidInput     = "invalid_input"
	ErrCodeNotAuthorized    = "not_authorized"
	ErrCodeStoreUnavailable = "store_unavailable"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternal         = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceErr maps domain errors onto HTTP statuses and codes.
func writeServiceErr(w http.ResponseWriter, log zerolog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Code: ErrCodeInvalidInput, Field: verr.Field})
	case errors.Is(err, domain.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
	case errors.Is(err, domain.ErrNotAuthorized):
		writeErr(w, http.StatusForbidden, ErrCodeNotAuthorized, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Warn().Err(err).Msg("store unavailable")
		w.Header().Set("Retry-After", "1")
		writeErr(w, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "storage temporarily unavailable, retry")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
