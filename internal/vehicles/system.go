package vehicles

import (
	"context"

	"github.com/google/uuid"

	"vinpoint/pkg/pagination"
)

// System defines the public contract for vehicle domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Vehicle], error)

	Find(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	FindByVIN(ctx context.Context, vin string) (*Vehicle, error)
	Decode(ctx context.Context, cmd DecodeCommand) (*Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
