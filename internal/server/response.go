package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"personmerge/internal/apperror"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "invalid_input_shape"
	Message string `json:"message"` // human-readable description
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps the input error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, logger, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "payload_too_large",
			Message: fmt.Sprintf("account list exceeds %d bytes", tooLarge.Limit),
		})
		return
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		logger.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, logger, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status := http.StatusBadRequest
	kind := "bad_request"
	switch {
	case errors.Is(err, apperror.ErrInvalidInputShape):
		kind = "invalid_input_shape"
	case errors.Is(err, apperror.ErrMalformedAccount):
		kind = "malformed_account"
	case errors.Is(err, apperror.ErrInvalidOption):
		kind = "invalid_option"
	case errors.Is(err, apperror.ErrInputUnavailable):
		kind = "input_unavailable"
	case errors.Is(err, apperror.ErrEmptyInput):
		status = http.StatusUnprocessableEntity
		kind = "empty_input"
	}

	writeJSON(w, logger, status, ErrorResponse{
		Error:   kind,
		Message: appErr.Error(),
		Field:   appErr.Field,
	})
}
