// Package web holds the shared JSON response envelope and the mapping from
// error kinds to stable wire codes.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"telemed-ai/internal/errs"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err to a status and stable code. Validation and not-found
// surface their message to the caller; everything else becomes a generic
// processing_failed signal with the detail only in the server log.
func Error(w http.ResponseWriter, log zerolog.Logger, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("code", body.Code).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("code", body.Code).Msg("request rejected")
	}
	JSON(w, status, errorEnvelope{Error: body})
}

// Validation rejects a request with a caller-visible message.
func Validation(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorEnvelope{Error: ErrorBody{Code: "invalid_request", Message: msg}})
}

func classify(err error) (int, ErrorBody) {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return http.StatusBadRequest, ErrorBody{Code: "invalid_request", Message: userMessage(err)}
	case errs.KindNotFound:
		return http.StatusNotFound, ErrorBody{Code: "not_found", Message: "patient record not found"}
	default:
		return http.StatusInternalServerError, ErrorBody{Code: "processing_failed", Message: "processing failed"}
	}
}

func userMessage(err error) string {
	var e *errs.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return "invalid request"
}
