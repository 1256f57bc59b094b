// Package handler implements the HTTP resource handlers. Handlers parse
// requests, call services, and serialize responses — no business rules live
// here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snippetbin/internal/apperror"
)

// ErrorResponse is the error format for non-validation failures.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response. Headers and status must be written before
// the body — Encode calls Write, which flushes them.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; nothing left to do but log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into an HTTP response. This is the
// only place in the codebase where apperror sentinels meet status codes.
//
// Validation failures get the field-keyed shape the API contract promises:
//
//	{"language": ["\"brainfuckery\" is not a supported language"]}
//
// Everything else uses ErrorResponse. Unknown errors become an opaque 500 —
// raw internal messages (SQL text, file paths) never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			field := appErr.Field
			if field == "" {
				field = "non_field_errors"
			}
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				field: {appErr.Message},
			})
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: appErr.Message,
			})
		case errors.Is(err, apperror.ErrForbidden):
			writeJSON(w, http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: appErr.Message,
			})
		case errors.Is(err, apperror.ErrConflict):
			writeJSON(w, http.StatusConflict, ErrorResponse{
				Error:   "conflict",
				Message: appErr.Message,
			})
		default:
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "An internal error occurred",
			})
		}
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
