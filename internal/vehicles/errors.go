package vehicles

import (
	"errors"
	"net/http"
)

// Domain errors for vehicle operations.
var (
	ErrNotFound          = errors.New("vehicle not found")
	ErrDuplicate         = errors.New("vehicle VIN already decoded")
	ErrInvalidVIN        = errors.New("VIN must be 17 characters and exclude I, O, Q")
	ErrDecodeUnavailable = errors.New("VIN decode service unavailable")
	ErrDecodeFailed      = errors.New("VIN could not be decoded")
)

// MapHTTPStatus maps vehicle domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidVIN) || errors.Is(err, ErrDecodeFailed) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrDecodeUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
