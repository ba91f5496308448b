package assistant

import (
	"errors"
	"net/http"

	"vinpoint/internal/valuations"
)

// Domain errors for assistant operations.
var (
	ErrEmptyQuestion = errors.New("question must not be empty")
	ErrUnavailable   = errors.New("assistant unavailable")
)

// MapHTTPStatus maps assistant errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyQuestion) {
		return http.StatusBadRequest
	}
	if errors.Is(err, valuations.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
