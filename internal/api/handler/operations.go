package handler

import (
	"net/http"
	"strconv"

	"github.com/bcnelson/meraki-device-swap/internal/storage"
)

const defaultHistoryLimit = 50

// OperationsHandler serves the persisted replacement history.
type OperationsHandler struct {
	store storage.Storage
}

// NewOperationsHandler creates an operations handler.
func NewOperationsHandler(store storage.Storage) *OperationsHandler {
	return &OperationsHandler{store: store}
}

// List handles GET /operations, newest first.
func (h *OperationsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondFailure(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.store.ListOperationRecords(r.Context(), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"operations": records,
	})
}
