package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pulsecare/patient-platform/internal/http/middleware"
	"github.com/pulsecare/patient-platform/internal/medication"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

// MedicationHandler serves the medication dashboard: the daily schedule with
// derived views and the dose taken state.
type MedicationHandler struct {
	svc    *medication.Service
	logger *logging.Logger
}

func NewMedicationHandler(svc *medication.Service, logger *logging.Logger) *MedicationHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &MedicationHandler{svc: svc, logger: logger}
}

// GetSchedule returns the daily schedule plus the derived buckets.
// GET /api/medications/schedule
func (h *MedicationHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	patientID := middleware.PatientFromContext(r.Context())

	view, err := h.svc.Schedule(r.Context(), patientID)
	if err != nil {
		h.logger.Error("schedule fetch failed", "error", err, "patient_id", patientID)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// MarkTakenRequest identifies a scheduled dose.
type MarkTakenRequest struct {
	MedicationName string `json:"medicationName"`
	ScheduledTime  string `json:"scheduledTime"`
}

// MarkTaken records a dose as taken for today.
// POST /api/medications/taken
func (h *MedicationHandler) MarkTaken(w http.ResponseWriter, r *http.Request) {
	var req MarkTakenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MedicationName == "" || req.ScheduledTime == "" {
		http.Error(w, "medicationName and scheduledTime are required", http.StatusBadRequest)
		return
	}

	patientID := middleware.PatientFromContext(r.Context())
	set := h.svc.MarkTaken(r.Context(), patientID, req.MedicationName, req.ScheduledTime)

	writeJSON(w, http.StatusOK, map[string]any{
		"taken": set.Keys(),
	})
}

// ClearTaken wipes today's taken state.
// DELETE /api/medications/taken
func (h *MedicationHandler) ClearTaken(w http.ResponseWriter, r *http.Request) {
	patientID := middleware.PatientFromContext(r.Context())
	h.svc.ClearTaken(r.Context(), patientID)
	writeJSON(w, http.StatusOK, map[string]any{
		"taken": []string{},
	})
}
