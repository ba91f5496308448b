// Package vehicles implements the vehicle identity domain for vinpoint.
// It provides VIN decoding against the NHTSA vPIC service, a decode cache,
// and persistence for decoded vehicle records.
package vehicles

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a decoded, persisted vehicle identity.
type Vehicle struct {
	ID        uuid.UUID `json:"id"`
	VIN       string    `json:"vin"`
	Year      int       `json:"year"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Trim      *string   `json:"trim"`
	BodyClass *string   `json:"body_class"`
	FuelType  *string   `json:"fuel_type"`
	DecodedAt time.Time `json:"decoded_at"`
}

// DecodeCommand carries the VIN to decode and persist.
type DecodeCommand struct {
	VIN string `json:"vin"`
}

// DecodedAttributes holds the vPIC fields vinpoint extracts from a decode
// response before persistence.
type DecodedAttributes struct {
	Year      int
	Make      string
	Model     string
	Trim      *string
	BodyClass *string
	FuelType  *string
}
