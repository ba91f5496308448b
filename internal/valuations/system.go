package valuations

import (
	"context"

	"github.com/google/uuid"

	"vinpoint/pkg/pagination"
)

// System defines the public contract for valuation domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Valuation], error)

	Find(ctx context.Context, id uuid.UUID) (*Valuation, error)
	Evaluate(ctx context.Context, cmd EvaluateCommand) (*Valuation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
