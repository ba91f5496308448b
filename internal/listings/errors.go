package listings

import (
	"errors"
	"net/http"
)

// Domain errors for listing operations.
var (
	ErrNotFound        = errors.New("listing not found")
	ErrDuplicate       = errors.New("listing already recorded")
	ErrInvalidListing  = errors.New("listing fails validity checks")
	ErrInvalidCriteria = errors.New("year, make, and model are required")
	ErrDiscoveryFailed = errors.New("market discovery failed")
)

// MapHTTPStatus maps listing domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidListing) || errors.Is(err, ErrInvalidCriteria) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrDiscoveryFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
