package reports

import (
	"errors"
	"net/http"

	"vinpoint/internal/valuations"
	"vinpoint/pkg/storage"
)

// Domain errors for report operations.
var (
	ErrNotFound         = errors.New("report not found")
	ErrGenerationFailed = errors.New("report generation failed")
)

// MapHTTPStatus maps report domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, valuations.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrGenerationFailed) {
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
