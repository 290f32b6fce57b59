package handlers

import (
	"net/http"

	"github.com/pulsecare/patient-platform/internal/events"
	"github.com/pulsecare/patient-platform/internal/http/middleware"
)

// PushHandler upgrades authenticated dashboard connections onto the event
// hub.
type PushHandler struct {
	hub *events.Hub
}

func NewPushHandler(hub *events.Hub) *PushHandler {
	return &PushHandler{hub: hub}
}

// Connect holds a websocket open for the authenticated patient.
// GET /api/ws
func (h *PushHandler) Connect(w http.ResponseWriter, r *http.Request) {
	patientID := middleware.PatientFromContext(r.Context())
	if patientID == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	h.hub.HandleWebSocket(w, r, patientID)
}
