package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsecare/patient-platform/internal/appointments"
	"github.com/pulsecare/patient-platform/internal/http/middleware"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

// AppointmentsHandler serves appointment views. Each patient gets their own
// service instance because the optimistic-create window is held state.
type AppointmentsHandler struct {
	backend        appointments.Backend
	logger         *logging.Logger
	reconcileDelay time.Duration

	mu       sync.Mutex
	services map[string]*appointments.Service
}

func NewAppointmentsHandler(be appointments.Backend, reconcileDelay time.Duration, logger *logging.Logger) *AppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if reconcileDelay <= 0 {
		reconcileDelay = appointments.DefaultReconcileDelay
	}
	return &AppointmentsHandler{
		backend:        be,
		logger:         logger,
		reconcileDelay: reconcileDelay,
		services:       make(map[string]*appointments.Service),
	}
}

func (h *AppointmentsHandler) service(patientID string) *appointments.Service {
	h.mu.Lock()
	defer h.mu.Unlock()
	svc, ok := h.services[patientID]
	if !ok {
		svc = appointments.NewService(h.backend, h.logger).WithReconcileDelay(h.reconcileDelay)
		h.services[patientID] = svc
	}
	return svc
}

func (h *AppointmentsHandler) resolveNames(ctx *http.Request, appts []appointments.Appointment) []appointments.Appointment {
	doctors, err := h.backend.AvailableDoctors(ctx.Context())
	if err != nil {
		// Name resolution is cosmetic; the raw provider IDs still render.
		h.logger.Warn("doctor directory fetch failed", "error", err)
		return appts
	}
	out := make([]appointments.Appointment, len(appts))
	for i, a := range appts {
		a.ProviderName = appointments.ResolveProviderName(a, doctors)
		out[i] = a
	}
	return out
}

// List returns every appointment, optionally narrowed by a search query.
// GET /api/appointments?search=smith
func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	svc := h.service(middleware.PatientFromContext(r.Context()))
	if err := svc.Refresh(r.Context()); err != nil {
		h.logger.Error("appointment refresh failed", "error", err)
		writeUpstreamError(w, err)
		return
	}

	appts := svc.All()
	if q := r.URL.Query().Get("search"); q != "" {
		appts = appointments.Search(appts, q)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"appointments": h.resolveNames(r, appts),
	})
}

// Current returns the pending/approved/open-chat bucket, newest first. A
// search query narrows the bucket after it is derived.
// GET /api/appointments/current?search=smith
func (h *AppointmentsHandler) Current(w http.ResponseWriter, r *http.Request) {
	svc := h.service(middleware.PatientFromContext(r.Context()))
	if err := svc.Refresh(r.Context()); err != nil {
		h.logger.Error("appointment refresh failed", "error", err)
		writeUpstreamError(w, err)
		return
	}
	appts := svc.Current()
	if q := r.URL.Query().Get("search"); q != "" {
		appts = appointments.Search(appts, q)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"appointments": h.resolveNames(r, appts),
	})
}

// Past returns the completed/cancelled bucket, most recent first.
// GET /api/appointments/past?search=smith
func (h *AppointmentsHandler) Past(w http.ResponseWriter, r *http.Request) {
	svc := h.service(middleware.PatientFromContext(r.Context()))
	if err := svc.Refresh(r.Context()); err != nil {
		h.logger.Error("appointment refresh failed", "error", err)
		writeUpstreamError(w, err)
		return
	}
	appts := svc.Past()
	if q := r.URL.Query().Get("search"); q != "" {
		appts = appointments.Search(appts, q)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"appointments": h.resolveNames(r, appts),
	})
}

// Create books a new appointment.
// POST /api/appointments
func (h *AppointmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft appointments.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	svc := h.service(middleware.PatientFromContext(r.Context()))
	created, err := svc.Create(r.Context(), draft)
	if err != nil {
		h.logger.Error("appointment create failed", "error", err)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CancelRequest optionally explains why.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel cancels an appointment.
// POST /api/appointments/{appointmentID}/cancel
func (h *AppointmentsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	var req CancelRequest
	// An empty body is a cancellation with no stated reason.
	_ = json.NewDecoder(r.Body).Decode(&req)

	svc := h.service(middleware.PatientFromContext(r.Context()))
	if err := svc.Cancel(r.Context(), id, req.Reason); err != nil {
		h.logger.Error("appointment cancel failed", "error", err, "appointment_id", id)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// Doctors returns the bookable provider directory.
// GET /api/doctors
func (h *AppointmentsHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	svc := h.service(middleware.PatientFromContext(r.Context()))
	doctors, err := svc.AvailableDoctors(r.Context())
	if err != nil {
		h.logger.Error("doctor directory fetch failed", "error", err)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctors": doctors})
}
