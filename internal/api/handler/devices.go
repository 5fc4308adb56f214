package handler

import (
	"net/http"

	"github.com/bcnelson/meraki-device-swap/internal/locator"
	"github.com/bcnelson/meraki-device-swap/internal/service"
	"github.com/bcnelson/meraki-device-swap/internal/validation"
	"github.com/go-chi/chi/v5"
)

// DeviceHandler serves the validate/replace/search endpoints.
type DeviceHandler struct {
	validator *service.Validator
	replacer  *service.Replacer
	locator   *locator.Locator
}

// NewDeviceHandler creates a device handler.
func NewDeviceHandler(validator *service.Validator, replacer *service.Replacer, loc *locator.Locator) *DeviceHandler {
	return &DeviceHandler{validator: validator, replacer: replacer, locator: loc}
}

type serialPairRequest struct {
	FailedSerial      string `json:"failedSerial"`
	ReplacementSerial string `json:"replacementSerial"`
}

// Validate handles POST /validate-devices.
func (h *DeviceHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req serialPairRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.validator.Validate(r.Context(), req.FailedSerial, req.ReplacementSerial)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Replace handles POST /replace-device. Validation re-runs first so a
// stale or hand-crafted request can never act on the wrong network;
// the orchestrator then consumes the validated tuple directly.
func (h *DeviceHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req serialPairRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	validated, err := h.validator.Validate(r.Context(), req.FailedSerial, req.ReplacementSerial)
	if err != nil {
		handleError(w, err)
		return
	}

	result := h.replacer.Replace(r.Context(),
		validated.FailedDevice.Serial,
		validated.ReplacementDevice.Serial,
		validated.NetworkID,
		validated.OrganizationID)

	respondJSON(w, http.StatusOK, result)
}

// Search handles GET /search-device/{serial}.
func (h *DeviceHandler) Search(w http.ResponseWriter, r *http.Request) {
	serial := validation.NormalizeSerial(chi.URLParam(r, "serial"))
	if err := validation.ValidateSerial("serial", serial); err != nil {
		handleError(w, err)
		return
	}

	match, err := h.locator.Locate(r.Context(), serial)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"device":       match.Device,
		"network":      match.Network,
		"organization": match.Organization,
	})
}
