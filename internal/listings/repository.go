package listings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vinpoint/pkg/pagination"
	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
	"vinpoint/pkg/valuation"
)

const listingColumns = "id, year, make, model, trim, price, mileage, source, source_url, vin, discovered_at"

type repo struct {
	db         *sql.DB
	discoverer Discoverer
	policy     valuation.Policy
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a listing repository implementing the System interface.
func New(
	db *sql.DB,
	discoverer Discoverer,
	policy valuation.Policy,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		discoverer: discoverer,
		policy:     policy,
		logger:     logger.With("system", "listings"),
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
) (*pagination.PageResult[Listing], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Make", "Model", "Source")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanListing)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Listing, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	l, err := repository.QueryOne(ctx, r.db, q, args, scanListing)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &l, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Listing, error) {
	if cmd.Year == 0 || cmd.Make == "" || cmd.Model == "" {
		return nil, ErrInvalidCriteria
	}
	if !r.policy.ValidListing(cmd.comparable()) {
		return nil, ErrInvalidListing
	}

	q := fmt.Sprintf(`
		INSERT INTO listings(year, make, model, trim, price, mileage, source, source_url, vin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, listingColumns)

	args := []any{
		cmd.Year, cmd.Make, cmd.Model, cmd.Trim,
		cmd.Price, cmd.Mileage, cmd.Source, cmd.SourceURL, cmd.VIN,
	}

	l, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Listing, error) {
		return repository.QueryOne(ctx, tx, q, args, scanListing)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("listing recorded", "id", l.ID, "price", l.Price, "source", l.Source)
	return &l, nil
}

func (cmd CreateCommand) comparable() valuation.Listing {
	c := valuation.Listing{
		Price:   cmd.Price,
		Mileage: cmd.Mileage,
		Source:  cmd.Source,
		Year:    cmd.Year,
		Make:    cmd.Make,
		Model:   cmd.Model,
	}
	if cmd.SourceURL != nil {
		c.SourceURL = *cmd.SourceURL
	}
	if cmd.VIN != nil {
		c.VIN = *cmd.VIN
	}
	return c
}

// Discover surfaces current market listings for the criteria and persists
// every one that clears the validity checks. Discovered listings that fail
// validation are dropped silently; the model is expected to hallucinate
// occasionally and invalid rows must never reach the comparable pool.
func (r *repo) Discover(ctx context.Context, criteria Criteria) ([]Listing, error) {
	commands, err := r.discoverer.Discover(ctx, criteria)
	if err != nil {
		return nil, err
	}

	persisted := make([]Listing, 0, len(commands))
	for _, cmd := range commands {
		if !r.policy.ValidListing(cmd.comparable()) {
			continue
		}

		l, err := r.Create(ctx, cmd)
		if err != nil {
			r.logger.Warn("discovered listing not persisted", "source", cmd.Source, "error", err)
			continue
		}
		persisted = append(persisted, *l)
	}

	r.logger.Info("discovery complete",
		"year", criteria.Year, "make", criteria.Make, "model", criteria.Model,
		"discovered", len(commands), "persisted", len(persisted))

	return persisted, nil
}

// Comparables returns stored listings for the criteria discovered within
// maxAge, newest first.
func (r *repo) Comparables(ctx context.Context, criteria Criteria, maxAge time.Duration) ([]Listing, error) {
	if criteria.Year == 0 || criteria.Make == "" || criteria.Model == "" {
		return nil, ErrInvalidCriteria
	}

	cutoff := time.Now().Add(-maxAge)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Year", criteria.Year).
		WhereContains("Make", &criteria.Make).
		WhereContains("Model", &criteria.Model).
		WhereGreaterOrEqual("DiscoveredAt", cutoff)

	q, args := qb.Build()

	results, err := repository.QueryMany(ctx, r.db, q, args, scanListing)
	if err != nil {
		return nil, fmt.Errorf("query comparables: %w", err)
	}

	return results, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM listings WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("listing deleted", "id", id)
	return nil
}
