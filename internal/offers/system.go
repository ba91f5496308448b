package offers

import (
	"context"

	"github.com/google/uuid"

	"vinpoint/pkg/pagination"
)

// System defines the public contract for offer domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Offer], error)

	Find(ctx context.Context, id uuid.UUID) (*Offer, error)
	Create(ctx context.Context, cmd CreateCommand) (*Offer, error)
	Accept(ctx context.Context, id uuid.UUID) (*Offer, error)
	Decline(ctx context.Context, id uuid.UUID) (*Offer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
