package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pulsecare/patient-platform/internal/appointments"
	"github.com/pulsecare/patient-platform/internal/backend"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeUpstreamError maps backend and validation failures onto HTTP statuses.
// Everything unrecognized is a 502: the monitoring backend misbehaved, not
// the caller.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		http.Error(w, "authentication rejected upstream", http.StatusUnauthorized)
	case errors.Is(err, appointments.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "upstream request failed", http.StatusBadGateway)
	}
}
