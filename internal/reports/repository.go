package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"vinpoint/internal/valuations"
	"vinpoint/pkg/storage"
)

type repo struct {
	valuations valuations.System
	store      storage.System
	logger     *slog.Logger
}

// New creates a report repository implementing the System interface.
func New(
	valuationSys valuations.System,
	store storage.System,
	logger *slog.Logger,
) System {
	return &repo{
		valuations: valuationSys,
		store:      store,
		logger:     logger.With("system", "reports"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// Generate renders the valuation into a PDF and uploads it, replacing any
// earlier report for the same valuation.
func (r *repo) Generate(ctx context.Context, valuationID uuid.UUID) (*Report, error) {
	v, err := r.valuations.Find(ctx, valuationID)
	if err != nil {
		return nil, err
	}

	decl, err := json.Marshal(buildDeclaration(v))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	var pdf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(decl), &pdf, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	key := storageKey(valuationID)
	size := int64(pdf.Len())

	if err := r.store.Upload(ctx, key, &pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	r.logger.Info("report generated", "valuation_id", valuationID, "key", key, "bytes", size)

	return &Report{
		ValuationID: valuationID,
		StorageKey:  key,
		SizeBytes:   size,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Find returns metadata for an existing report without regenerating it.
func (r *repo) Find(ctx context.Context, valuationID uuid.UUID) (*Report, error) {
	key := storageKey(valuationID)

	meta, err := r.store.Find(ctx, key)
	if err != nil {
		return nil, err
	}

	return &Report{
		ValuationID: valuationID,
		StorageKey:  key,
		SizeBytes:   meta.ContentLength,
		GeneratedAt: meta.LastModified,
	}, nil
}

// Download streams an existing report PDF.
func (r *repo) Download(ctx context.Context, valuationID uuid.UUID) (*storage.DownloadResult, error) {
	return r.store.Download(ctx, storageKey(valuationID))
}

func (r *repo) Delete(ctx context.Context, valuationID uuid.UUID) error {
	if err := r.store.Delete(ctx, storageKey(valuationID)); err != nil {
		return err
	}

	r.logger.Info("report deleted", "valuation_id", valuationID)
	return nil
}
