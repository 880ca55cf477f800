package web

// errors.go turns handler errors into JSON responses. The technical error is
// logged with the request ID; the client gets the mapped user message and its
// code.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/phonebook/internal/csvload"
	"github.com/JonMunkholm/phonebook/internal/logging"
	"github.com/JonMunkholm/phonebook/internal/phonebook"
	"github.com/JonMunkholm/phonebook/internal/store"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped user message with the status
// that fits it.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := phonebook.MapError(err)
	status := statusFor(err)
	if errors.Is(err, phonebook.ErrBusy) {
		w.Header().Set("Retry-After", "5")
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, phonebook.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, phonebook.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, phonebook.ErrNoFile),
		errors.Is(err, csvload.ErrEmptyInput),
		errors.Is(err, csvload.ErrInvalidCSV):
		return http.StatusBadRequest
	case errors.Is(err, csvload.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNoDatabase), errors.Is(err, phonebook.ErrBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
