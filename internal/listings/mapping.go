package listings

import (
	"net/url"
	"strconv"

	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "listings", "l").
	Project("id", "ID").
	Project("year", "Year").
	Project("make", "Make").
	Project("model", "Model").
	Project("trim", "Trim").
	Project("price", "Price").
	Project("mileage", "Mileage").
	Project("source", "Source").
	Project("source_url", "SourceURL").
	Project("vin", "VIN").
	Project("discovered_at", "DiscoveredAt")

var defaultSort = query.SortField{
	Field:      "DiscoveredAt",
	Descending: true,
}

// Filters contains optional filtering criteria for listing queries.
// Nil fields are ignored. Year and Source use exact matching; Make and Model
// use case-insensitive contains matching; MinPrice and MaxPrice bound the
// price band inclusively.
type Filters struct {
	Make     *string  `json:"make,omitempty"`
	Model    *string  `json:"model,omitempty"`
	Year     *int     `json:"year,omitempty"`
	Source   *string  `json:"source,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Make", f.Make).
		WhereContains("Model", f.Model).
		WhereEquals("Year", f.Year).
		WhereEquals("Source", f.Source).
		WhereGreaterOrEqual("Price", f.MinPrice).
		WhereLessOrEqual("Price", f.MaxPrice)
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
	if s := values.Get("source"); s != "" {
		f.Source = &s
	}
	if p := values.Get("min_price"); p != "" {
		if v, err := strconv.ParseFloat(p, 64); err == nil {
			f.MinPrice = &v
		}
	}
	if p := values.Get("max_price"); p != "" {
		if v, err := strconv.ParseFloat(p, 64); err == nil {
			f.MaxPrice = &v
		}
	}

	return f
}

func scanListing(s repository.Scanner) (Listing, error) {
	var l Listing
	err := s.Scan(
		&l.ID,
		&l.Year,
		&l.Make,
		&l.Model,
		&l.Trim,
		&l.Price,
		&l.Mileage,
		&l.Source,
		&l.SourceURL,
		&l.VIN,
		&l.DiscoveredAt,
	)
	return l, err
}
