package valuations

import (
	"errors"
	"net/http"

	"vinpoint/pkg/valuation"
)

// Domain errors for valuation operations.
var (
	ErrNotFound  = errors.New("valuation not found")
	ErrDuplicate = errors.New("valuation already recorded")
)

// MapHTTPStatus maps valuation domain errors to appropriate HTTP status codes.
// Insufficient comparable data is a client-visible 422: the request is
// well-formed but the market cannot support a value estimate.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, valuation.ErrInvalidVehicle) {
		return http.StatusBadRequest
	}
	if errors.Is(err, valuation.ErrInsufficientData) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
