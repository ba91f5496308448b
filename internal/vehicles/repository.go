package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"vinpoint/pkg/pagination"
	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
)

const vehicleColumns = "id, vin, year, make, model, trim, body_class, fuel_type, decoded_at"

type repo struct {
	db         *sql.DB
	decoder    Decoder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a vehicle repository implementing the System interface.
func New(
	db *sql.DB,
	decoder Decoder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		decoder:    decoder,
		logger:     logger.With("system", "vehicles"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Vehicle], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Make", "Model", "VIN")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count vehicles: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	vehicles, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanVehicle)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}

	result := pagination.NewPageResult(vehicles, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVehicle)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) FindByVIN(ctx context.Context, vin string) (*Vehicle, error) {
	q, args := query.NewBuilder(projection).BuildSingle("VIN", strings.ToUpper(vin))

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVehicle)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

// Decode resolves a VIN through the decoder and persists the result.
// A VIN already on record returns the stored vehicle without re-decoding.
func (r *repo) Decode(ctx context.Context, cmd DecodeCommand) (*Vehicle, error) {
	vin := strings.ToUpper(strings.TrimSpace(cmd.VIN))
	if err := ValidateVIN(vin); err != nil {
		return nil, err
	}

	if existing, err := r.FindByVIN(ctx, vin); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	attrs, err := r.decoder.Decode(ctx, vin)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO vehicles(vin, year, make, model, trim, body_class, fuel_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, vehicleColumns)

	args := []any{vin, attrs.Year, attrs.Make, attrs.Model, attrs.Trim, attrs.BodyClass, attrs.FuelType}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Vehicle, error) {
		return repository.QueryOne(ctx, tx, q, args, scanVehicle)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("vehicle decoded", "id", v.ID, "vin", v.VIN, "year", v.Year, "make", v.Make, "model", v.Model)
	return &v, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM vehicles WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("vehicle deleted", "id", id)
	return nil
}
