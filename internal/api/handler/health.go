package handler

import (
	"net/http"

	"github.com/bcnelson/meraki-device-swap/internal/registry"
)

// HealthHandler reports per-organization dashboard accessibility.
type HealthHandler struct {
	registry *registry.Registry
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(reg *registry.Registry) *HealthHandler {
	return &HealthHandler{registry: reg}
}

type healthOrganization struct {
	ID         string `json:"id"`
	Accessible bool   `json:"accessible"`
}

type healthResponse struct {
	Success       bool                 `json:"success"`
	Status        string               `json:"status"`
	Organizations []healthOrganization `json:"organizations"`
}

// Get handles GET /health. Each configured organization is probed
// sequentially; an unreachable tenant does not fail the endpoint.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := healthResponse{Success: true, Status: "ok"}
	for _, entry := range h.registry.Entries() {
		_, err := entry.Client.GetOrganization(ctx)
		resp.Organizations = append(resp.Organizations, healthOrganization{
			ID:         entry.OrganizationID,
			Accessible: err == nil,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}
