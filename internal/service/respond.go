package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/grillburger/backend/internal/cart"
	"github.com/grillburger/backend/internal/ledger"
	"github.com/grillburger/backend/internal/pricing"
	"github.com/grillburger/backend/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var pe *storage.PersistenceError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrUnknownPortion),
		errors.Is(err, ledger.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, cart.ErrLineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrNoActiveAccount):
		status = http.StatusUnauthorized
	case errors.As(err, &pe):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
