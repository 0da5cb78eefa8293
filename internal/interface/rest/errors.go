package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/pkg/logger"
)

// ErrorDetail is the machine readable code plus a human message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{entity.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{entity.ErrNotFound, http.StatusNotFound, "not_found"},
	{entity.ErrForbidden, http.StatusForbidden, "forbidden"},
	{entity.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed"},
	{entity.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{entity.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{entity.ErrConflict, http.StatusConflict, "conflict"},
}

// classify maps a domain error to its HTTP status, code and matched sentinel
func classify(err error) (int, string, error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.status, m.code, m.target
		}
	}
	return http.StatusInternalServerError, "internal_error", nil
}

// messageFor extracts the human readable part after the sentinel text.
// e.g. "failed to load finder x: record not found: finder x" → "finder x"
func messageFor(err error, target error) string {
	msg := err.Error()
	if target == nil {
		return msg
	}
	prefix := target.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return target.Error()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err. Unknown errors are logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error, log logger.Logger) {
	status, code, target := classify(err)

	message := messageFor(err, target)
	if target == nil {
		if log != nil {
			log.Error("Unhandled request error", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		message = "internal server error"
	}

	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// badRequest wraps a parsing problem as an invalid request
func badRequest(msg string) error {
	return &requestError{msg: msg}
}

type requestError struct {
	msg string
}

func (e *requestError) Error() string { return entity.ErrInvalidRequest.Error() + ": " + e.msg }
func (e *requestError) Unwrap() error { return entity.ErrInvalidRequest }
