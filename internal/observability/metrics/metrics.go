package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics exposes counters/histograms for upstream backend calls.
type BackendMetrics struct {
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	m := &BackendMetrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsecare",
			Subsystem: "backend",
			Name:      "request_total",
			Help:      "Total upstream backend requests",
		}, []string{"method", "path", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pulsecare",
			Subsystem: "backend",
			Name:      "request_latency_seconds",
			Help:      "Latency of upstream backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestTotal, m.requestLatency)
	return m
}

// ObserveRequest records one backend round trip. status 0 means the request
// never produced a response.
func (m *BackendMetrics) ObserveRequest(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, path).Observe(seconds)
}

// CareMetrics exposes counters for the derivation and medication flows.
type CareMetrics struct {
	dosesMarked     prometheus.Counter
	derivationTotal *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
}

func NewCareMetrics(reg prometheus.Registerer) *CareMetrics {
	m := &CareMetrics{
		dosesMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pulsecare",
			Subsystem: "medication",
			Name:      "doses_marked_total",
			Help:      "Total doses marked taken",
		}),
		derivationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsecare",
			Subsystem: "derive",
			Name:      "view_total",
			Help:      "Total derived dashboard views computed",
		}, []string{"view"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsecare",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total events published on the in-process bus",
		}, []string{"type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.dosesMarked, m.derivationTotal, m.eventsPublished)
	return m
}

func (m *CareMetrics) ObserveDoseMarked() {
	if m == nil {
		return
	}
	m.dosesMarked.Inc()
}

func (m *CareMetrics) ObserveDerivation(view string) {
	if m == nil {
		return
	}
	m.derivationTotal.WithLabelValues(view).Inc()
}

func (m *CareMetrics) ObserveEventPublished(eventType string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType).Inc()
}
