package photos

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vinpoint/internal/intelligence"
	"vinpoint/pkg/formatting"
	"vinpoint/pkg/pagination"
	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
	"vinpoint/pkg/storage"
	"vinpoint/pkg/valuation"
)

const photoColumns = "id, vehicle_id, filename, content_type, size_bytes, storage_key, confidence, condition_score, summary, analyzed_at, uploaded_at"

// analyzeBatchLimit bounds concurrent vision calls for one vehicle.
const analyzeBatchLimit = 4

const analysisPrompt = `Analyze this vehicle photo for condition assessment. ` +
	`Respond with a JSON object only: {"condition_score": number 0-10 where 10 is showroom condition, ` +
	`"confidence": number 0-100 reflecting how clearly the photo shows the vehicle's condition, ` +
	`"summary": "one sentence describing visible condition, damage, or wear"}. ` +
	`Score conservatively when the photo is blurry, partial, or poorly lit.`

// analysisResult is the JSON shape requested from the vision model.
type analysisResult struct {
	ConditionScore float64 `json:"condition_score"`
	Confidence     float64 `json:"confidence"`
	Summary        string  `json:"summary"`
}

type repo struct {
	db         *sql.DB
	storage    storage.System
	intel      intelligence.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a photo repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	intel intelligence.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		intel:      intel,
		logger:     logger.With("system", "photos"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Photo], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count photos: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	photos, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPhoto)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}

	result := pagination.NewPageResult(photos, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Photo, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPhoto)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Photo, error) {
	id := uuid.New()
	key := buildStorageKey(cmd.VehicleID, id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload photo blob: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO photos(id, vehicle_id, filename, content_type, size_bytes, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, photoColumns)

	insertArgs := []any{
		id,
		cmd.VehicleID,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		key,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Photo, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanPhoto)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("photo uploaded", "id", p.ID, "vehicle_id", p.VehicleID, "filename", p.Filename)
	return &p, nil
}

// Analyze runs vision analysis on a stored photo and persists the scores.
// Re-analyzing an already analyzed photo overwrites the previous result.
func (r *repo) Analyze(ctx context.Context, id uuid.UUID) (*Photo, error) {
	photo, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	download, err := r.storage.Download(ctx, photo.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download photo blob: %w", err)
	}
	defer download.Body.Close()

	data, err := io.ReadAll(download.Body)
	if err != nil {
		return nil, fmt.Errorf("read photo blob: %w", err)
	}

	raw, err := r.intel.AnalyzeImage(ctx, analysisPrompt, photo.ContentType, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	result, err := formatting.Parse[analysisResult](string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable model response: %w", ErrAnalysisFailed, err)
	}

	result.ConditionScore = min(max(result.ConditionScore, 0), 10)
	result.Confidence = min(max(result.Confidence, 0), 100)

	q := fmt.Sprintf(`
		UPDATE photos
		SET confidence = $1, condition_score = $2, summary = $3, analyzed_at = now()
		WHERE id = $4
		RETURNING %s`, photoColumns)

	args := []any{result.Confidence, result.ConditionScore, result.Summary, id}

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Photo, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPhoto)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("photo analyzed",
		"id", updated.ID,
		"confidence", result.Confidence,
		"condition_score", result.ConditionScore,
	)
	return &updated, nil
}

// AnalyzeVehicle analyzes every unanalyzed photo for a vehicle with bounded
// concurrency. Individual failures are logged and skipped; the successfully
// analyzed photos are returned.
func (r *repo) AnalyzeVehicle(ctx context.Context, vehicleID uuid.UUID) ([]Photo, error) {
	analyzed := false
	pending, err := r.vehiclePhotos(ctx, vehicleID, &analyzed)
	if err != nil {
		return nil, err
	}

	results := make([]*Photo, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeBatchLimit)
	for i, photo := range pending {
		g.Go(func() error {
			updated, err := r.Analyze(gctx, photo.ID)
			if err != nil {
				r.logger.Warn("batch photo analysis failed", "id", photo.ID, "error", err)
				return nil
			}
			results[i] = updated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	succeeded := make([]Photo, 0, len(results))
	for _, p := range results {
		if p != nil {
			succeeded = append(succeeded, *p)
		}
	}

	return succeeded, nil
}

// Best returns the strongest analysis signal for a vehicle: the analyzed
// photo with the highest confidence. Returns ErrNotAnalyzed when the vehicle
// has no analyzed photos.
func (r *repo) Best(ctx context.Context, vehicleID uuid.UUID) (*valuation.PhotoAssessment, error) {
	analyzed := true
	photos, err := r.vehiclePhotos(ctx, vehicleID, &analyzed)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, ErrNotAnalyzed
	}

	best := photos[0]
	for _, p := range photos[1:] {
		if *p.Confidence > *best.Confidence {
			best = p
		}
	}

	return &valuation.PhotoAssessment{
		Confidence:     *best.Confidence,
		ConditionScore: *best.ConditionScore,
	}, nil
}

func (r *repo) vehiclePhotos(ctx context.Context, vehicleID uuid.UUID, analyzed *bool) ([]Photo, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters := Filters{VehicleID: &vehicleID, Analyzed: analyzed}
	filters.Apply(qb)

	q, args := qb.Build()

	photos, err := repository.QueryMany(ctx, r.db, q, args, scanPhoto)
	if err != nil {
		return nil, fmt.Errorf("query vehicle photos: %w", err)
	}
	return photos, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	photo, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM photos WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, photo.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", photo.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("photo deleted", "id", id)
	return nil
}

func buildStorageKey(vehicleID, photoID uuid.UUID, filename string) string {
	return fmt.Sprintf("photos/%s/%s/%s", vehicleID, photoID, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "photo"
	}
	return url.PathEscape(name)
}
