package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBackendMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBackendMetrics(reg)
	m.ObserveRequest("GET", "/alerts", 200, 0.05)
	m.ObserveRequest("PUT", "/alerts/{id}/read", 0, 0.01)
}

func TestBackendMetricsNilSafe(t *testing.T) {
	var m *BackendMetrics
	m.ObserveRequest("GET", "/alerts", 200, 0.05)
}

func TestCareMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCareMetrics(reg)
	m.ObserveDoseMarked()
	m.ObserveDerivation("overdue")
	m.ObserveEventPublished("medication.taken.v1")
}

func TestCareMetricsNilSafe(t *testing.T) {
	var m *CareMetrics
	m.ObserveDoseMarked()
	m.ObserveDerivation("today")
	m.ObserveEventPublished("alerts.cleared.v1")
}
