package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pulsecare/patient-platform/internal/events"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

// DefaultFilterSwitchDelay is how long the controller waits before hopping
// off an emptied "unread" filter. The pause is an observable contract: the
// user sees their last unread alert flip to read before the list changes.
const DefaultFilterSwitchDelay = 100 * time.Millisecond

// Store delegates alert reads and mutations to the upstream backend.
type Store interface {
	ListAlerts(ctx context.Context) ([]Alert, error)
	MarkAlertRead(ctx context.Context, id string) error
	MarkAllAlertsRead(ctx context.Context) error
	DeleteAlert(ctx context.Context, id string) error
	ClearAlerts(ctx context.Context) error
}

// Publisher notifies sibling dashboard components of feed changes.
type Publisher interface {
	Publish(eventType string, payload any)
}

// Controller owns the active filter for one patient's alert view and applies
// the feed-level UX rules the dashboards rely on.
type Controller struct {
	patientID   string
	store       Store
	publisher   Publisher
	logger      *logging.Logger
	switchDelay time.Duration

	mu           sync.Mutex
	activeFilter string
}

// NewController creates an alert view controller for one patient.
func NewController(patientID string, store Store, publisher Publisher, logger *logging.Logger) *Controller {
	if store == nil {
		panic("alerts: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Controller{
		patientID:    patientID,
		store:        store,
		publisher:    publisher,
		logger:       logger,
		switchDelay:  DefaultFilterSwitchDelay,
		activeFilter: FilterAll,
	}
}

// WithSwitchDelay overrides the filter-switch delay, for tests and demos.
func (c *Controller) WithSwitchDelay(d time.Duration) *Controller {
	if d >= 0 {
		c.switchDelay = d
	}
	return c
}

// ActiveFilter returns the filter currently applied to the view.
func (c *Controller) ActiveFilter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeFilter
}

// SetFilter activates a named filter. Unknown names normalize to "all".
func (c *Controller) SetFilter(name string) {
	switch name {
	case FilterUnread, FilterCritical, FilterWarning, FilterInfo:
	default:
		name = FilterAll
	}
	c.mu.Lock()
	c.activeFilter = name
	c.mu.Unlock()
}

// View fetches the feed and applies the active filter.
func (c *Controller) View(ctx context.Context) ([]Alert, error) {
	feed, err := c.store.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("alerts: list: %w", err)
	}
	return Filter(feed, c.ActiveFilter()), nil
}

// MarkRead marks a single alert read upstream. When the active filter is
// "unread" and this was the last unread alert, the filter switches to "all"
// after the configured delay so the user is not left staring at an empty
// list.
func (c *Controller) MarkRead(ctx context.Context, id string) error {
	feed, err := c.store.ListAlerts(ctx)
	if err != nil {
		return fmt.Errorf("alerts: list before mark read: %w", err)
	}

	if err := c.store.MarkAlertRead(ctx, id); err != nil {
		return fmt.Errorf("alerts: mark read %s: %w", id, err)
	}
	c.publishUpdated(id)

	if c.ActiveFilter() != FilterUnread {
		return nil
	}
	remaining := 0
	for _, a := range feed {
		if !a.IsRead && a.ID != id {
			remaining++
		}
	}
	if remaining == 0 {
		time.AfterFunc(c.switchDelay, func() {
			c.mu.Lock()
			if c.activeFilter == FilterUnread {
				c.activeFilter = FilterAll
			}
			c.mu.Unlock()
		})
	}
	return nil
}

// MarkAllRead marks the whole feed read upstream.
func (c *Controller) MarkAllRead(ctx context.Context) error {
	if err := c.store.MarkAllAlertsRead(ctx); err != nil {
		return fmt.Errorf("alerts: mark all read: %w", err)
	}
	c.publishUpdated("")
	return nil
}

// Delete removes one alert upstream.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.store.DeleteAlert(ctx, id); err != nil {
		return fmt.Errorf("alerts: delete %s: %w", id, err)
	}
	c.publishUpdated(id)
	return nil
}

// ClearAll removes the whole feed upstream.
func (c *Controller) ClearAll(ctx context.Context) error {
	if err := c.store.ClearAlerts(ctx); err != nil {
		return fmt.Errorf("alerts: clear all: %w", err)
	}
	if c.publisher != nil {
		c.publisher.Publish(events.TypeAlertsCleared, events.AlertsClearedV1{
			PatientID: c.patientID,
			ClearedAt: time.Now().UTC(),
		})
	}
	return nil
}

func (c *Controller) publishUpdated(alertID string) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(events.TypeAlertsUpdated, events.AlertsUpdatedV1{
		PatientID: c.patientID,
		AlertID:   alertID,
		UpdatedAt: time.Now().UTC(),
	})
}
