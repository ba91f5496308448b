package api

import (
	"net/http"

	"vinpoint/internal/config"
	"vinpoint/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Vehicles.Handler().Routes(),
		domain.Listings.Handler().Routes(),
		domain.Photos.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Valuations.Handler().Routes(),
		domain.Offers.Handler().Routes(),
		domain.Reports.Handler().Routes(),
		domain.Assistant.Handler().Routes(),
		newStorageHandler(
			runtime.Storage,
			runtime.Logger,
			cfg.Storage.MaxListSize,
		).routes(),
	)
}
