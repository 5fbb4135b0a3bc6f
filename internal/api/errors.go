package api

import (
	"errors"
	"net/http"

	"coresync/coach/internal/service"
)

// statusForError maps service error kinds to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrBadRequest), errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoActivePlan):
		return http.StatusNotFound
	default:
		// Misconfigured, upstream and persistence failures
		return http.StatusInternalServerError
	}
}
