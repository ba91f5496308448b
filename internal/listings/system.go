package listings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vinpoint/pkg/pagination"
)

// System defines the public contract for listing domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Listing], error)

	Find(ctx context.Context, id uuid.UUID) (*Listing, error)
	Create(ctx context.Context, cmd CreateCommand) (*Listing, error)
	Discover(ctx context.Context, criteria Criteria) ([]Listing, error)
	Comparables(ctx context.Context, criteria Criteria, maxAge time.Duration) ([]Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
