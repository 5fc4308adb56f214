package api

import (
	"net/http"

	"github.com/bcnelson/meraki-device-swap/internal/api/handler"
	"github.com/bcnelson/meraki-device-swap/internal/api/middleware"
	"github.com/bcnelson/meraki-device-swap/internal/locator"
	"github.com/bcnelson/meraki-device-swap/internal/registry"
	"github.com/bcnelson/meraki-device-swap/internal/service"
	"github.com/bcnelson/meraki-device-swap/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(
	reg *registry.Registry,
	loc *locator.Locator,
	validator *service.Validator,
	replacer *service.Replacer,
	store storage.Storage,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.ContentType)

	healthHandler := handler.NewHealthHandler(reg)
	r.Get("/health", healthHandler.Get)

	orgHandler := handler.NewOrganizationHandler(reg, logger)
	r.Get("/organizations", orgHandler.List)
	r.Get("/organization", orgHandler.Get)
	r.Get("/networks", orgHandler.Networks)

	deviceHandler := handler.NewDeviceHandler(validator, replacer, loc)
	r.Post("/validate-devices", deviceHandler.Validate)
	r.Post("/replace-device", deviceHandler.Replace)
	r.Get("/search-device/{serial}", deviceHandler.Search)

	operationsHandler := handler.NewOperationsHandler(store)
	r.Get("/operations", operationsHandler.List)

	return r
}
