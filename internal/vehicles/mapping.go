package vehicles

import (
	"net/url"
	"strconv"

	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "vehicles", "v").
	Project("id", "ID").
	Project("vin", "VIN").
	Project("year", "Year").
	Project("make", "Make").
	Project("model", "Model").
	Project("trim", "Trim").
	Project("body_class", "BodyClass").
	Project("fuel_type", "FuelType").
	Project("decoded_at", "DecodedAt")

var defaultSort = query.SortField{
	Field:      "DecodedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for vehicle queries.
// Nil fields are ignored. Year uses exact matching; Make and Model use
// case-insensitive contains matching.
type Filters struct {
	Make  *string `json:"make,omitempty"`
	Model *string `json:"model,omitempty"`
	Year  *int    `json:"year,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Make", f.Make).
		WhereContains("Model", f.Model).
		WhereEquals("Year", f.Year)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if m := values.Get("make"); m != "" {
		f.Make = &m
	}
	if m := values.Get("model"); m != "" {
		f.Model = &m
	}
	if y := values.Get("year"); y != "" {
		if v, err := strconv.Atoi(y); err == nil {
			f.Year = &v
		}
	}

	return f
}

func scanVehicle(s repository.Scanner) (Vehicle, error) {
	var v Vehicle
	err := s.Scan(
		&v.ID,
		&v.VIN,
		&v.Year,
		&v.Make,
		&v.Model,
		&v.Trim,
		&v.BodyClass,
		&v.FuelType,
		&v.DecodedAt,
	)
	return v, err
}
