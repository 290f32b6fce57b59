package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsecare/patient-platform/internal/alerts"
	"github.com/pulsecare/patient-platform/internal/http/middleware"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

// AlertsHandler serves the alert feed. Each patient gets their own
// controller so active filters never leak between users.
type AlertsHandler struct {
	store       alerts.Store
	publisher   alerts.Publisher
	logger      *logging.Logger
	switchDelay time.Duration
	now         func() time.Time

	mu          sync.Mutex
	controllers map[string]*alerts.Controller
}

func NewAlertsHandler(store alerts.Store, publisher alerts.Publisher, switchDelay time.Duration, logger *logging.Logger) *AlertsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if switchDelay <= 0 {
		switchDelay = alerts.DefaultFilterSwitchDelay
	}
	return &AlertsHandler{
		store:       store,
		publisher:   publisher,
		logger:      logger,
		switchDelay: switchDelay,
		now:         time.Now,
		controllers: make(map[string]*alerts.Controller),
	}
}

func (h *AlertsHandler) controller(patientID string) *alerts.Controller {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.controllers[patientID]
	if !ok {
		c = alerts.NewController(patientID, h.store, h.publisher, h.logger).WithSwitchDelay(h.switchDelay)
		h.controllers[patientID] = c
	}
	return c
}

// AlertsResponse is the filtered feed plus the filter that produced it.
type AlertsResponse struct {
	Alerts       []alerts.Alert `json:"alerts"`
	ActiveFilter string         `json:"activeFilter"`
}

// List returns the feed through the patient's active filter. A filter query
// parameter switches the filter first.
// GET /api/alerts?filter=unread
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	c := h.controller(middleware.PatientFromContext(r.Context()))
	if filter := r.URL.Query().Get("filter"); filter != "" {
		c.SetFilter(filter)
	}

	feed, err := c.View(r.Context())
	if err != nil {
		h.logger.Error("alert list failed", "error", err)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AlertsResponse{Alerts: feed, ActiveFilter: c.ActiveFilter()})
}

// SummaryResponse carries the badge counts and the weekly trend.
type SummaryResponse struct {
	Counts      alerts.Counts `json:"counts"`
	WeeklyCount int           `json:"weeklyCount"`
	Trend       string        `json:"trend"`
}

// Summary returns unfiltered feed statistics.
// GET /api/alerts/summary
func (h *AlertsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	feed, err := h.store.ListAlerts(r.Context())
	if err != nil {
		h.logger.Error("alert summary failed", "error", err)
		writeUpstreamError(w, err)
		return
	}
	weekly := alerts.WeeklyCount(feed, h.now())
	writeJSON(w, http.StatusOK, SummaryResponse{
		Counts:      alerts.Count(feed),
		WeeklyCount: weekly,
		Trend:       alerts.TrendFor(weekly),
	})
}

// MarkRead marks one alert as read.
// PUT /api/alerts/{alertID}/read
func (h *AlertsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "alertID")
	c := h.controller(middleware.PatientFromContext(r.Context()))
	if err := c.MarkRead(r.Context(), id); err != nil {
		h.logger.Error("mark alert read failed", "error", err, "alert_id", id)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllRead marks the whole feed as read.
// PUT /api/alerts/read-all
func (h *AlertsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	c := h.controller(middleware.PatientFromContext(r.Context()))
	if err := c.MarkAllRead(r.Context()); err != nil {
		h.logger.Error("mark all alerts read failed", "error", err)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// Delete removes one alert.
// DELETE /api/alerts/{alertID}
func (h *AlertsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "alertID")
	c := h.controller(middleware.PatientFromContext(r.Context()))
	if err := c.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete alert failed", "error", err, "alert_id", id)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ClearAll removes the whole feed.
// DELETE /api/alerts
func (h *AlertsHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	c := h.controller(middleware.PatientFromContext(r.Context()))
	if err := c.ClearAll(r.Context()); err != nil {
		h.logger.Error("clear alerts failed", "error", err)
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
