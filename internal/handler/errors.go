package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dralexander0805/avg/internal/domain"
)

// ErrorResponse is the JSON envelope for every error the API returns.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

// writeError maps a service error to its HTTP status and JSON body.
//
// Sentinel errors are user-facing and mapped directly. Anything else is a
// store I/O failure: the caller gets a generic retryable message and the
// detail goes to the log — local state is never left half-updated, so a
// manual retry of the triggering action is always safe.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "not_found", Message: "flight not found"},
		})
	case errors.Is(err, domain.ErrForbidden):
		s.writeJSON(w, http.StatusForbidden, ErrorResponse{
			Error: ErrorDetail{Code: "forbidden", Message: "administrator access required"},
		})
	case errors.Is(err, domain.ErrWrongPIN):
		s.writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{Code: "wrong_pin", Message: "wrong PIN"},
		})
	case errors.Is(err, domain.ErrNoSession):
		s.writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{Code: "no_session", Message: "sign in first"},
		})
	default:
		s.log.Error("store operation failed", "error", err)
		s.writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error: ErrorDetail{Code: "store_error", Message: "could not reach the roster store, try again"},
		})
	}
}

// requestError returns a 422 for a request rejected before reaching the
// service layer (missing or malformed body).
func (s *Server) requestError(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error: ErrorDetail{Code: "validation_error", Message: message},
	})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.FlightService.Create: validation error: departure is required"
// → "departure is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}
