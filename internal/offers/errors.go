package offers

import (
	"errors"
	"net/http"
)

// Domain errors for offer operations.
var (
	ErrNotFound     = errors.New("offer not found")
	ErrDuplicate    = errors.New("offer already recorded")
	ErrInvalidOffer = errors.New("invalid offer")
	ErrNotPending   = errors.New("offer already resolved")
)

// MapHTTPStatus maps offer domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidOffer) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotPending) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
