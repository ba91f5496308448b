package reports

import (
	"context"

	"github.com/google/uuid"

	"vinpoint/pkg/storage"
)

// System defines the public contract for report operations.
type System interface {
	Handler() *Handler

	Generate(ctx context.Context, valuationID uuid.UUID) (*Report, error)
	Find(ctx context.Context, valuationID uuid.UUID) (*Report, error)
	Download(ctx context.Context, valuationID uuid.UUID) (*storage.DownloadResult, error)
	Delete(ctx context.Context, valuationID uuid.UUID) error
}
