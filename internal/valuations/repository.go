package valuations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vinpoint/internal/listings"
	"vinpoint/internal/photos"
	"vinpoint/internal/vehicles"
	"vinpoint/pkg/pagination"
	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
	"vinpoint/pkg/valuation"
)

const valuationColumns = `id, vehicle_id, vin, year, make, model, trim, mileage,
	condition, zip_code, accident_count, estimated_value, confidence_score,
	median_price, mean_price, price_low, price_high, listing_count,
	adjustments, sub_scores, explanation, recommendations, created_at`

// comparableMaxAge bounds how stale a stored listing may be before it is
// excluded from the comparable pool and fresh discovery runs instead.
const comparableMaxAge = 7 * 24 * time.Hour

type repo struct {
	db         *sql.DB
	vehicles   vehicles.System
	listings   listings.System
	photos     photos.System
	engine     *valuation.Engine
	policy     valuation.Policy
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a valuation repository implementing the System interface.
func New(
	db *sql.DB,
	vehicleSys vehicles.System,
	listingSys listings.System,
	photoSys photos.System,
	policy valuation.Policy,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		vehicles:   vehicleSys,
		listings:   listingSys,
		photos:     photoSys,
		engine:     valuation.NewEngine(policy),
		policy:     policy,
		logger:     logger.With("system", "valuations"),
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
) (*pagination.PageResult[Valuation], error) {
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
		return nil, fmt.Errorf("count valuations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanValuation)
	if err != nil {
		return nil, fmt.Errorf("query valuations: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Valuation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	v, err := repository.QueryOne(ctx, r.db, q, args, scanValuation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

// Evaluate runs the full valuation pipeline: resolve the vehicle identity,
// assemble the comparable pool (discovering fresh listings when the stored
// pool is too thin), fold in photo evidence, price, and persist the result.
func (r *repo) Evaluate(ctx context.Context, cmd EvaluateCommand) (*Valuation, error) {
	condition, err := valuation.ParseCondition(cmd.Condition)
	if err != nil {
		return nil, err
	}

	target := valuation.Vehicle{
		VIN:           cmd.VIN,
		Year:          cmd.Year,
		Make:          cmd.Make,
		Model:         cmd.Model,
		Mileage:       cmd.Mileage,
		Condition:     condition,
		ZipCode:       cmd.ZipCode,
		AccidentCount: cmd.AccidentCount,
	}
	if cmd.Trim != nil {
		target.Trim = *cmd.Trim
	}

	vehicleID, decoded := r.resolveVehicle(ctx, cmd, &target)

	if err := target.Validate(); err != nil {
		return nil, err
	}

	criteria := listings.Criteria{
		Year:    target.Year,
		Make:    target.Make,
		Model:   target.Model,
		Trim:    cmd.Trim,
		VIN:     target.VIN,
		ZipCode: target.ZipCode,
	}

	comps, discovered, err := r.comparablePool(ctx, criteria)
	if err != nil {
		return nil, err
	}

	photo := r.photoEvidence(ctx, vehicleID)

	pool := make([]valuation.Listing, len(comps))
	for i, comp := range comps {
		pool[i] = comp.Comparable()
	}

	agg := valuation.Aggregate(r.policy, pool)
	evalCtx := deriveContext(target, comps, photo, decoded, discovered)

	result, err := r.engine.Evaluate(target, agg, evalCtx)
	if err != nil {
		return nil, err
	}

	breakdown := r.engine.Score(agg, evalCtx)

	v, err := r.persist(ctx, vehicleID, target, cmd.Trim, agg, result, breakdown.SubScores)
	if err != nil {
		return nil, err
	}

	r.logger.Info("valuation complete",
		"id", v.ID,
		"value", v.EstimatedValue,
		"confidence", v.ConfidenceScore,
		"comparables", v.ListingCount)

	return v, nil
}

// resolveVehicle attempts a VIN decode when the command carries a VIN. A
// failed decode is tolerated if the command already names the vehicle; the
// valuation proceeds without the decode signal.
func (r *repo) resolveVehicle(
	ctx context.Context,
	cmd EvaluateCommand,
	target *valuation.Vehicle,
) (*uuid.UUID, bool) {
	if cmd.VIN == "" {
		return nil, false
	}

	vehicle, err := r.vehicles.Decode(ctx, vehicles.DecodeCommand{VIN: cmd.VIN})
	if err != nil {
		r.logger.Warn("vin decode unavailable for valuation", "vin", cmd.VIN, "error", err)
		return nil, false
	}

	if target.Year == 0 {
		target.Year = vehicle.Year
	}
	if target.Make == "" {
		target.Make = vehicle.Make
	}
	if target.Model == "" {
		target.Model = vehicle.Model
	}
	if target.Trim == "" && vehicle.Trim != nil {
		target.Trim = *vehicle.Trim
	}

	return &vehicle.ID, true
}

// comparablePool returns recent stored comparables, running discovery when
// the stored pool is below the minimum the aggregator requires. The second
// return reports whether discovery contributed to the pool.
func (r *repo) comparablePool(
	ctx context.Context,
	criteria listings.Criteria,
) ([]listings.Listing, bool, error) {
	comps, err := r.listings.Comparables(ctx, criteria, comparableMaxAge)
	if err != nil {
		return nil, false, err
	}

	if len(comps) >= r.policy.MinComparables {
		return comps, false, nil
	}

	found, err := r.listings.Discover(ctx, criteria)
	if err != nil {
		r.logger.Warn("listing discovery failed",
			"year", criteria.Year, "make", criteria.Make, "model", criteria.Model,
			"error", err)
		return comps, false, nil
	}

	existing := make(map[uuid.UUID]struct{}, len(comps))
	for _, comp := range comps {
		existing[comp.ID] = struct{}{}
	}
	for _, l := range found {
		if _, ok := existing[l.ID]; !ok {
			comps = append(comps, l)
		}
	}

	return comps, true, nil
}

// photoEvidence returns the strongest analyzed photo assessment for the
// vehicle, or nil when none exists. Photo evidence is a bonus signal, never
// a prerequisite.
func (r *repo) photoEvidence(ctx context.Context, vehicleID *uuid.UUID) *valuation.PhotoAssessment {
	if vehicleID == nil {
		return nil
	}

	assessment, err := r.photos.Best(ctx, *vehicleID)
	if err != nil {
		if !errors.Is(err, photos.ErrNotAnalyzed) {
			r.logger.Warn("photo evidence lookup failed", "vehicle_id", *vehicleID, "error", err)
		}
		return nil
	}
	return assessment
}

func (r *repo) persist(
	ctx context.Context,
	vehicleID *uuid.UUID,
	target valuation.Vehicle,
	trim *string,
	agg valuation.AggregateResult,
	result *valuation.EvaluationResult,
	subScores valuation.SubScores,
) (*Valuation, error) {
	adjustments, err := json.Marshal(result.Adjustments)
	if err != nil {
		return nil, fmt.Errorf("marshal adjustments: %w", err)
	}
	scores, err := json.Marshal(subScores)
	if err != nil {
		return nil, fmt.Errorf("marshal sub scores: %w", err)
	}
	recommendations, err := json.Marshal(result.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("marshal recommendations: %w", err)
	}

	var vin *string
	if target.VIN != "" {
		vin = &target.VIN
	}
	var zip *string
	if target.ZipCode != "" {
		zip = &target.ZipCode
	}

	q := fmt.Sprintf(`
		INSERT INTO valuations(
			vehicle_id, vin, year, make, model, trim, mileage, condition,
			zip_code, accident_count, estimated_value, confidence_score,
			median_price, mean_price, price_low, price_high, listing_count,
			adjustments, sub_scores, explanation, recommendations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING %s`, valuationColumns)

	args := []any{
		vehicleID, vin, target.Year, target.Make, target.Model, trim,
		target.Mileage, string(target.Condition), zip, target.AccidentCount,
		result.EstimatedValue, result.ConfidenceScore,
		agg.MedianPrice, agg.MeanPrice, result.PriceRange[0], result.PriceRange[1],
		result.ListingCount,
		adjustments, scores, result.Explanation, recommendations,
	}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Valuation, error) {
		return repository.QueryOne(ctx, tx, q, args, scanValuation)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM valuations WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("valuation deleted", "id", id)
	return nil
}
