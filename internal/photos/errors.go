package photos

import (
	"errors"
	"net/http"
)

// Domain errors for photo operations.
var (
	ErrNotFound       = errors.New("photo not found")
	ErrDuplicate      = errors.New("photo already registered")
	ErrInvalidFile    = errors.New("invalid or missing photo file")
	ErrFileTooLarge   = errors.New("photo exceeds maximum upload size")
	ErrNotImage       = errors.New("file is not a supported image type")
	ErrAnalysisFailed = errors.New("photo analysis failed")
	ErrNotAnalyzed    = errors.New("no analyzed photos for vehicle")
)

// MapHTTPStatus maps photo domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotAnalyzed) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidFile) || errors.Is(err, ErrNotImage) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrAnalysisFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
