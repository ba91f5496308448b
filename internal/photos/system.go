package photos

import (
	"context"

	"github.com/google/uuid"

	"vinpoint/pkg/pagination"
	"vinpoint/pkg/valuation"
)

// System defines the public contract for photo domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Photo], error)

	Find(ctx context.Context, id uuid.UUID) (*Photo, error)
	Create(ctx context.Context, cmd CreateCommand) (*Photo, error)
	Analyze(ctx context.Context, id uuid.UUID) (*Photo, error)
	AnalyzeVehicle(ctx context.Context, vehicleID uuid.UUID) ([]Photo, error)
	Best(ctx context.Context, vehicleID uuid.UUID) (*valuation.PhotoAssessment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
