package api

import (
	"fmt"

	"vinpoint/internal/assistant"
	"vinpoint/internal/listings"
	"vinpoint/internal/offers"
	"vinpoint/internal/photos"
	"vinpoint/internal/reports"
	"vinpoint/internal/valuations"
	"vinpoint/internal/vehicles"
	"vinpoint/pkg/valuation"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Vehicles   vehicles.System
	Listings   listings.System
	Photos     photos.System
	Valuations valuations.System
	Offers     offers.System
	Reports    reports.System
	Assistant  assistant.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	policy := valuation.DefaultPolicy()

	decoder, err := vehicles.NewDecoder(&runtime.Config.Decoder, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("decoder init failed: %w", err)
	}

	vehicleSys := vehicles.New(
		runtime.Database.Connection(),
		decoder,
		runtime.Logger,
		runtime.Pagination,
	)

	listingSys := listings.New(
		runtime.Database.Connection(),
		listings.NewDiscoverer(runtime.Intelligence, runtime.Logger),
		policy,
		runtime.Logger,
		runtime.Pagination,
	)

	photoSys := photos.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Intelligence,
		runtime.Logger,
		runtime.Pagination,
	)

	valuationSys := valuations.New(
		runtime.Database.Connection(),
		vehicleSys,
		listingSys,
		photoSys,
		policy,
		runtime.Logger,
		runtime.Pagination,
	)

	offerSys := offers.New(
		runtime.Database.Connection(),
		valuationSys,
		runtime.Logger,
		runtime.Pagination,
	)

	reportSys := reports.New(
		valuationSys,
		runtime.Storage,
		runtime.Logger,
	)

	assistantSys := assistant.New(
		valuationSys,
		runtime.Intelligence,
		runtime.Logger,
	)

	return &Domain{
		Vehicles:   vehicleSys,
		Listings:   listingSys,
		Photos:     photoSys,
		Valuations: valuationSys,
		Offers:     offerSys,
		Reports:    reportSys,
		Assistant:  assistantSys,
	}, nil
}
