package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecare/patient-platform/internal/observability/metrics"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

// Event is one notification on the in-process bus.
type Event struct {
	ID      string
	Type    string
	Payload any
	At      time.Time
}

// Handler receives bus events. Handlers run synchronously on the publisher's
// goroutine and must be fast; anything slow belongs behind a channel.
type Handler func(Event)

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// Bus is the same-process publish/subscribe channel the dashboard components
// use to notify each other: a dose was taken, the alert feed changed, new
// health data arrived.
type Bus struct {
	logger  *logging.Logger
	metrics *metrics.CareMetrics

	mu   sync.RWMutex
	subs map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus(logger *logging.Logger) *Bus {
	if logger == nil {
		logger = logging.Default()
	}
	return &Bus{
		logger: logger,
		subs:   make(map[string][]Handler),
	}
}

// WithMetrics attaches publish counters.
func (b *Bus) WithMetrics(m *metrics.CareMetrics) *Bus {
	b.metrics = m
	return b
}

// Subscribe registers a handler for one event type (or Wildcard for all).
func (b *Bus) Subscribe(eventType string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], h)
	b.mu.Unlock()
}

// Publish dispatches an event to all matching subscribers.
func (b *Bus) Publish(eventType string, payload any) {
	event := Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Payload: payload,
		At:      time.Now().UTC(),
	}

	b.mu.RLock()
	handlers := append(append([]Handler(nil), b.subs[eventType]...), b.subs[Wildcard]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
	b.metrics.ObserveEventPublished(eventType)
	b.logger.Debug("bus event published", "type", eventType, "event_id", event.ID, "subscribers", len(handlers))
}
