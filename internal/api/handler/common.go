package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bcnelson/meraki-device-swap/internal/domain"
	"github.com/bcnelson/meraki-device-swap/internal/meraki"
)

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// failureResponse is the uniform failure shape: a success boolean and a
// translated message, never internals.
type failureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondFailure writes a JSON failure response.
func respondFailure(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, failureResponse{Success: false, Message: message})
}

// handleError converts domain and remote errors to HTTP failure
// responses with user-facing wording.
func handleError(w http.ResponseWriter, err error) {
	var (
		formatErr      *domain.ValidationFormatError
		notFoundErr    *domain.DeviceNotFoundError
		replacementErr *domain.ReplacementNotFoundError
		conflictErr    *domain.ClaimConflictError
		unknownOrgErr  *domain.UnknownOrganizationError
	)

	switch {
	case errors.As(err, &formatErr), errors.Is(err, domain.ErrSameSerial):
		respondFailure(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr), errors.As(err, &replacementErr), errors.As(err, &unknownOrgErr):
		respondFailure(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		respondFailure(w, http.StatusConflict, err.Error())
	case meraki.IsRateLimited(err):
		respondFailure(w, http.StatusTooManyRequests, meraki.UserMessage(err))
	case meraki.IsForbidden(err), meraki.IsNotFound(err):
		respondFailure(w, http.StatusBadGateway, meraki.UserMessage(err))
	default:
		respondFailure(w, http.StatusInternalServerError, meraki.UserMessage(err))
	}
}

// decodeJSON decodes JSON from the request body.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
