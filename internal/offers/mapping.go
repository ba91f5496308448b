package offers

import (
	"net/url"

	"github.com/google/uuid"

	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "offers", "o").
	Project("id", "ID").
	Project("valuation_id", "ValuationID").
	Project("dealer_name", "DealerName").
	Project("amount", "Amount").
	Project("message", "Message").
	Project("status", "Status").
	Project("ratio", "Ratio").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for offer queries.
// Nil fields are ignored.
type Filters struct {
	ValuationID *uuid.UUID `json:"valuation_id,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ValuationID", f.ValuationID).
		WhereEquals("Status", f.Status)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("valuation_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.ValuationID = &id
		}
	}
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	return f
}

func scanOffer(s repository.Scanner) (Offer, error) {
	var o Offer
	err := s.Scan(
		&o.ID,
		&o.ValuationID,
		&o.DealerName,
		&o.Amount,
		&o.Message,
		&o.Status,
		&o.Ratio,
		&o.CreatedAt,
	)
	return o, err
}
