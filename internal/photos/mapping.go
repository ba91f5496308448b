package photos

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "photos", "p").
	Project("id", "ID").
	Project("vehicle_id", "VehicleID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("storage_key", "StorageKey").
	Project("confidence", "Confidence").
	Project("condition_score", "ConditionScore").
	Project("summary", "Summary").
	Project("analyzed_at", "AnalyzedAt").
	Project("uploaded_at", "UploadedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for photo queries.
// Nil fields are ignored.
type Filters struct {
	VehicleID *uuid.UUID `json:"vehicle_id,omitempty"`
	Analyzed  *bool      `json:"analyzed,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereEquals("VehicleID", f.VehicleID)
	if f.Analyzed != nil {
		if *f.Analyzed {
			b.WhereNotNull("AnalyzedAt")
		} else {
			b.WhereNullable("AnalyzedAt", nil)
		}
	}
	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("vehicle_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.VehicleID = &id
		}
	}
	if a := values.Get("analyzed"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Analyzed = &v
		}
	}

	return f
}

func scanPhoto(s repository.Scanner) (Photo, error) {
	var p Photo
	err := s.Scan(
		&p.ID,
		&p.VehicleID,
		&p.Filename,
		&p.ContentType,
		&p.SizeBytes,
		&p.StorageKey,
		&p.Confidence,
		&p.ConditionScore,
		&p.Summary,
		&p.AnalyzedAt,
		&p.UploadedAt,
	)
	return p, err
}
