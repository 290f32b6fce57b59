package medication

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pulsecare/patient-platform/internal/alerts"
	"github.com/pulsecare/patient-platform/internal/events"
	"github.com/pulsecare/patient-platform/internal/medtracker"
	"github.com/pulsecare/patient-platform/internal/observability/metrics"
	"github.com/pulsecare/patient-platform/internal/schedule"
	"github.com/pulsecare/patient-platform/pkg/logging"
)

// reminderSource is the upstream alert source for medication reminders.
const reminderSource = "Medication Reminder System"

// ScheduleSource fetches the authoritative medication schedule.
type ScheduleSource interface {
	MedicationSchedule(ctx context.Context) (schedule.DailySchedule, error)
}

// AlertStore is the slice of the alert backend this service touches when a
// dose is marked taken.
type AlertStore interface {
	ListAlerts(ctx context.Context) ([]alerts.Alert, error)
	MarkAlertRead(ctx context.Context, id string) error
}

// Publisher emits domain events after successful mutations.
type Publisher interface {
	Publish(eventType string, payload any)
}

// Service drives the medication dashboard: schedule fetch, dose derivation
// and the mark-as-taken flow.
type Service struct {
	source  ScheduleSource
	tracker *medtracker.Tracker
	alerts  AlertStore
	bus     Publisher
	logger  *logging.Logger
	metrics *metrics.CareMetrics
	now     func() time.Time
}

func NewService(source ScheduleSource, tracker *medtracker.Tracker, alertStore AlertStore, bus Publisher, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		source:  source,
		tracker: tracker,
		alerts:  alertStore,
		bus:     bus,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) WithMetrics(m *metrics.CareMetrics) *Service {
	s.metrics = m
	return s
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ScheduleView is the full dashboard payload: the raw schedule plus the
// derived overdue/upcoming/today buckets with taken flags applied.
type ScheduleView struct {
	Schedule schedule.DailySchedule `json:"schedule"`
	Views    schedule.DerivedViews  `json:"views"`
	Taken    []string               `json:"taken"`
}

// Schedule fetches the daily schedule and derives the dashboard views for
// the patient.
func (s *Service) Schedule(ctx context.Context, patientID string) (ScheduleView, error) {
	daily, err := s.source.MedicationSchedule(ctx)
	if err != nil {
		return ScheduleView{}, fmt.Errorf("medication: fetch schedule: %w", err)
	}

	taken := s.tracker.Load(ctx, patientID)
	views := schedule.Reduce(daily.Schedule, taken, s.now())

	s.metrics.ObserveDerivation("overdue")
	s.metrics.ObserveDerivation("upcoming")
	s.metrics.ObserveDerivation("today")

	return ScheduleView{Schedule: daily, Views: views, Taken: taken.Keys()}, nil
}

// MarkTaken records a dose as taken for today and clears the matching
// reminder alerts. The taken state is the source of truth here: alert
// cleanup and event publishing are best effort and never fail the call.
func (s *Service) MarkTaken(ctx context.Context, patientID, medicationName, scheduledTime string) *medtracker.TakenSet {
	set := s.tracker.MarkTaken(ctx, patientID, medicationName, scheduledTime)
	s.metrics.ObserveDoseMarked()

	s.clearReminderAlerts(ctx)

	if s.bus != nil {
		s.bus.Publish(events.TypeMedicationTaken, events.MedicationTakenV1{
			PatientID:      patientID,
			MedicationName: medicationName,
			ScheduledTime:  scheduledTime,
			TakenAt:        s.now().UTC(),
		})
	}
	return set
}

// ClearTaken wipes today's taken state for the patient.
func (s *Service) ClearTaken(ctx context.Context, patientID string) {
	s.tracker.ClearAll(ctx, patientID)
	if s.bus != nil {
		s.bus.Publish(events.TypeMedicationCleared, events.MedicationClearedV1{
			PatientID: patientID,
			ClearedAt: s.now().UTC(),
		})
	}
}

// IsTaken reports whether a scheduled dose was already marked today.
func (s *Service) IsTaken(ctx context.Context, patientID, medicationName, scheduledTime string) bool {
	return s.tracker.IsTaken(ctx, patientID, medicationName, scheduledTime)
}

// clearReminderAlerts marks every unread medication reminder as read, one by
// one. A failed mark is logged and the loop moves on so one bad alert cannot
// block the rest.
func (s *Service) clearReminderAlerts(ctx context.Context) {
	if s.alerts == nil {
		return
	}
	list, err := s.alerts.ListAlerts(ctx)
	if err != nil {
		s.logger.Warn("medication: listing alerts for reminder cleanup failed", "error", err)
		return
	}
	for _, alert := range list {
		if alert.IsRead || !isMedicationReminder(alert) {
			continue
		}
		if err := s.alerts.MarkAlertRead(ctx, alert.ID); err != nil {
			s.logger.Warn("medication: failed to mark reminder read", "error", err, "alert_id", alert.ID)
		}
	}
}

func isMedicationReminder(alert alerts.Alert) bool {
	if alert.Source == reminderSource {
		return true
	}
	return strings.Contains(strings.ToLower(alert.Title), "medication")
}
