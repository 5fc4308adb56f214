package handler

import (
	"net/http"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/bcnelson/meraki-device-swap/internal/meraki"
	"github.com/bcnelson/meraki-device-swap/internal/registry"
	"github.com/rs/zerolog"
)

// OrganizationHandler serves the read-only discovery endpoints.
type OrganizationHandler struct {
	registry *registry.Registry
	logger   zerolog.Logger
}

// NewOrganizationHandler creates an organization handler.
func NewOrganizationHandler(reg *registry.Registry, logger zerolog.Logger) *OrganizationHandler {
	return &OrganizationHandler{registry: reg, logger: logger}
}

// List handles GET /organizations: accessibility, network count, and
// the masked API key for every configured tenant.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries := make([]domain.OrganizationSummary, 0, len(h.registry.Entries()))
	for _, entry := range h.registry.Entries() {
		masked, _ := h.registry.MaskedKey(entry.OrganizationID)
		summary := domain.OrganizationSummary{ID: entry.OrganizationID, APIKey: masked}

		org, err := entry.Client.GetOrganization(ctx)
		if err != nil {
			summary.Error = meraki.UserMessage(err)
			summaries = append(summaries, summary)
			continue
		}
		summary.Name = org.Name
		summary.Accessible = true

		if networks, err := entry.Client.ListNetworks(ctx); err == nil {
			summary.NetworkCount = len(networks)
		} else {
			h.logger.Warn().Err(err).Str("organization", entry.OrganizationID).Msg("could not count networks")
		}
		summaries = append(summaries, summary)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"organizations": summaries,
	})
}

// Get handles GET /organization: metadata plus networks for one tenant.
// Without an id query parameter the first configured organization is
// used.
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgID := r.URL.Query().Get("id")
	if orgID == "" {
		orgID = h.registry.Entries()[0].OrganizationID
	}

	client, err := h.registry.ClientFor(orgID)
	if err != nil {
		handleError(w, err)
		return
	}

	org, err := client.GetOrganization(ctx)
	if err != nil {
		handleError(w, err)
		return
	}

	networks, err := client.ListNetworks(ctx)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"organization": org,
		"networks":     networks,
	})
}

// Networks handles GET /networks: every network across all configured
// organizations, in search order. Unreachable organizations are logged
// and skipped.
func (h *OrganizationHandler) Networks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	networks := make([]domain.Network, 0)
	for _, entry := range h.registry.Entries() {
		orgNetworks, err := entry.Client.ListNetworks(ctx)
		if err != nil {
			h.logger.Warn().Err(err).Str("organization", entry.OrganizationID).Msg("could not list networks, skipping organization")
			continue
		}
		for _, network := range orgNetworks {
			network.OrganizationID = entry.OrganizationID
			networks = append(networks, network)
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"networks": networks,
	})
}
