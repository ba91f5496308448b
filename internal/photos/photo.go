// Package photos implements the vehicle photo domain for vinpoint.
// It provides photo upload with blob storage integration and AI condition
// analysis feeding the valuation confidence model.
package photos

import (
	"time"

	"github.com/google/uuid"
)

// Photo represents an uploaded vehicle photo and its analysis state.
// Confidence, ConditionScore, Summary, and AnalyzedAt are nil until the
// photo has been analyzed.
type Photo struct {
	ID             uuid.UUID  `json:"id"`
	VehicleID      uuid.UUID  `json:"vehicle_id"`
	Filename       string     `json:"filename"`
	ContentType    string     `json:"content_type"`
	SizeBytes      int64      `json:"size_bytes"`
	StorageKey     string     `json:"storage_key"`
	Confidence     *float64   `json:"confidence"`
	ConditionScore *float64   `json:"condition_score"`
	Summary        *string    `json:"summary"`
	AnalyzedAt     *time.Time `json:"analyzed_at"`
	UploadedAt     time.Time  `json:"uploaded_at"`
}

// Analyzed reports whether the photo has analysis results.
func (p Photo) Analyzed() bool {
	return p.Confidence != nil && p.ConditionScore != nil
}

// CreateCommand carries the data needed to upload and register a vehicle photo.
// Data holds the raw image bytes.
type CreateCommand struct {
	VehicleID   uuid.UUID
	Data        []byte
	Filename    string
	ContentType string
}
