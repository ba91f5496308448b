package offers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"vinpoint/internal/valuations"
	"vinpoint/pkg/pagination"
	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
)

const offerColumns = "id, valuation_id, dealer_name, amount, message, status, ratio, created_at"

type repo struct {
	db         *sql.DB
	valuations valuations.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an offer repository implementing the System interface.
func New(
	db *sql.DB,
	valuationSys valuations.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		valuations: valuationSys,
		logger:     logger.With("system", "offers"),
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
) (*pagination.PageResult[Offer], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "DealerName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanOffer)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Offer, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	o, err := repository.QueryOne(ctx, r.db, q, args, scanOffer)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &o, nil
}

// Create records a dealer offer against an existing valuation. The offer
// ratio is fixed against the valuation's estimated value at creation time so
// later re-valuations never reinterpret a recorded bid.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Offer, error) {
	if cmd.DealerName == "" {
		return nil, fmt.Errorf("%w: dealer name required", ErrInvalidOffer)
	}
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidOffer)
	}

	v, err := r.valuations.Find(ctx, cmd.ValuationID)
	if err != nil {
		if errors.Is(err, valuations.ErrNotFound) {
			return nil, fmt.Errorf("%w: valuation %s not found", ErrInvalidOffer, cmd.ValuationID)
		}
		return nil, err
	}

	ratio := 0.0
	if v.EstimatedValue > 0 {
		ratio = cmd.Amount / v.EstimatedValue
	}

	q := fmt.Sprintf(`
		INSERT INTO offers(valuation_id, dealer_name, amount, message, status, ratio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, offerColumns)

	args := []any{
		cmd.ValuationID, cmd.DealerName, cmd.Amount, cmd.Message,
		StatusPending, ratio,
	}

	o, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Offer, error) {
		return repository.QueryOne(ctx, tx, q, args, scanOffer)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("offer recorded",
		"id", o.ID, "valuation_id", o.ValuationID,
		"amount", o.Amount, "ratio", o.Ratio)

	return &o, nil
}

func (r *repo) Accept(ctx context.Context, id uuid.UUID) (*Offer, error) {
	return r.resolve(ctx, id, StatusAccepted)
}

func (r *repo) Decline(ctx context.Context, id uuid.UUID) (*Offer, error) {
	return r.resolve(ctx, id, StatusDeclined)
}

// resolve transitions a pending offer to a terminal status. Resolved offers
// are immutable.
func (r *repo) resolve(ctx context.Context, id uuid.UUID, status Status) (*Offer, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != StatusPending {
		return nil, fmt.Errorf("%w: offer is %s", ErrNotPending, current.Status)
	}

	q := fmt.Sprintf(`
		UPDATE offers SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING %s`, offerColumns)

	o, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Offer, error) {
		return repository.QueryOne(ctx, tx, q, []any{id, status, StatusPending}, scanOffer)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotPending, ErrDuplicate)
	}

	r.logger.Info("offer resolved", "id", o.ID, "status", o.Status)
	return &o, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM offers WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("offer deleted", "id", id)
	return nil
}
