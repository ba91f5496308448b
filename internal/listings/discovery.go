package listings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"vinpoint/internal/intelligence"
	"vinpoint/pkg/formatting"
)

// Discoverer surfaces current market listings for a target vehicle.
type Discoverer interface {
	Discover(ctx context.Context, criteria Criteria) ([]CreateCommand, error)
}

type modelDiscoverer struct {
	intel  intelligence.System
	logger *slog.Logger
}

// NewDiscoverer creates a model-backed market discoverer.
func NewDiscoverer(intel intelligence.System, logger *slog.Logger) Discoverer {
	return &modelDiscoverer{
		intel:  intel,
		logger: logger.With("system", "discovery"),
	}
}

// discoveredListing is the JSON shape requested from the model.
type discoveredListing struct {
	Price     float64 `json:"price"`
	Mileage   *int    `json:"mileage"`
	Source    string  `json:"source"`
	SourceURL string  `json:"source_url"`
	VIN       string  `json:"vin"`
}

// Discover fans out one model query per search angle and merges the results,
// deduplicating by source URL. A single failed angle does not fail the whole
// discovery as long as another angle produced results.
func (d *modelDiscoverer) Discover(ctx context.Context, criteria Criteria) ([]CreateCommand, error) {
	if criteria.Year == 0 || criteria.Make == "" || criteria.Model == "" {
		return nil, ErrInvalidCriteria
	}

	prompts := discoveryPrompts(criteria)
	results := make([][]discoveredListing, len(prompts))

	g, gctx := errgroup.WithContext(ctx)
	for i, prompt := range prompts {
		g.Go(func() error {
			raw, err := d.intel.GenerateJSON(gctx, prompt)
			if err != nil {
				d.logger.Warn("discovery angle failed", "angle", i, "error", err)
				return nil
			}

			found, err := formatting.Parse[[]discoveredListing](string(raw))
			if err != nil {
				d.logger.Warn("discovery response unparseable", "angle", i, "error", err)
				return nil
			}

			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}

	merged := mergeDiscovered(criteria, results)
	if len(merged) == 0 {
		d.logger.Info("no listings discovered",
			"year", criteria.Year, "make", criteria.Make, "model", criteria.Model)
	}

	return merged, nil
}

func mergeDiscovered(criteria Criteria, results [][]discoveredListing) []CreateCommand {
	seen := make(map[string]bool)
	var commands []CreateCommand

	for _, batch := range results {
		for _, found := range batch {
			if found.Price <= 0 {
				continue
			}

			dedupeKey := strings.ToLower(found.SourceURL)
			if dedupeKey == "" {
				dedupeKey = fmt.Sprintf("%s|%.0f", strings.ToLower(found.Source), found.Price)
			}
			if seen[dedupeKey] {
				continue
			}
			seen[dedupeKey] = true

			cmd := CreateCommand{
				Year:    criteria.Year,
				Make:    criteria.Make,
				Model:   criteria.Model,
				Trim:    criteria.Trim,
				Price:   found.Price,
				Mileage: found.Mileage,
				Source:  found.Source,
			}
			if cmd.Source == "" {
				cmd.Source = "market_search"
			}
			if found.SourceURL != "" {
				url := found.SourceURL
				cmd.SourceURL = &url
			}
			if found.VIN != "" {
				vin := strings.ToUpper(found.VIN)
				cmd.VIN = &vin
			}

			commands = append(commands, cmd)
		}
	}

	return commands
}

func discoveryPrompts(criteria Criteria) []string {
	subject := fmt.Sprintf("%d %s %s", criteria.Year, criteria.Make, criteria.Model)
	if criteria.Trim != nil {
		subject += " " + *criteria.Trim
	}

	location := ""
	if criteria.ZipCode != "" {
		location = fmt.Sprintf(" near zip code %s", criteria.ZipCode)
	}

	format := `Respond with a JSON array only. Each element: ` +
		`{"price": number, "mileage": number or null, "source": "site name", ` +
		`"source_url": "listing url", "vin": "vin or empty string"}. ` +
		`Only include real, currently listed vehicles with actual asking prices. ` +
		`Return [] if you cannot find genuine listings.`

	prompts := []string{
		fmt.Sprintf(
			"Find current dealer and marketplace listings for a used %s%s. %s",
			subject, location, format,
		),
		fmt.Sprintf(
			"Find private-party and auction listings for a used %s%s, including high-mileage examples. %s",
			subject, location, format,
		),
	}

	if criteria.VIN != "" {
		prompts = append(prompts, fmt.Sprintf(
			"Find any current listing for the exact vehicle with VIN %s (a %s). %s",
			criteria.VIN, subject, format,
		))
	}

	return prompts
}
