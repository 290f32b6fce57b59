package appointments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pulsecare/patient-platform/pkg/logging"
)

// DefaultReconcileDelay is how long a freshly created appointment stays in
// its optimistic window before the authoritative re-fetch replaces the view.
const DefaultReconcileDelay = 2 * time.Second

// ErrValidation marks form-level failures caught before any network call.
var ErrValidation = errors.New("appointments: validation failed")

// Backend delegates appointment reads and mutations upstream.
type Backend interface {
	ListAppointments(ctx context.Context, params ListParams) ([]Appointment, error)
	CreateAppointment(ctx context.Context, draft Draft) (Appointment, error)
	UpdateAppointment(ctx context.Context, id string, update Update) (Appointment, error)
	AvailableDoctors(ctx context.Context) ([]Doctor, error)
}

// Phase of the creation reconciliation state machine.
type Phase int

const (
	// PhaseConfirmed means the held view matches the last authoritative fetch.
	PhaseConfirmed Phase = iota
	// PhaseOptimistic means the held view contains an entry the backend has
	// not yet confirmed as durably stored.
	PhaseOptimistic
)

// Service holds one patient's appointment view and reconciles optimistic
// inserts against the backend.
type Service struct {
	backend Backend
	logger  *logging.Logger
	delay   time.Duration
	now     func() time.Time

	mu        sync.Mutex
	appts     []Appointment // last authoritative snapshot
	current   []Appointment // held "current" view, may carry an optimistic entry
	phase     Phase
	protected *Appointment // entry shielded from refreshes while optimistic
}

// NewService creates an appointment view service.
func NewService(backend Backend, logger *logging.Logger) *Service {
	if backend == nil {
		panic("appointments: backend cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		backend: backend,
		logger:  logger,
		delay:   DefaultReconcileDelay,
		now:     time.Now,
	}
}

// WithReconcileDelay overrides the optimistic window, for tests and demos.
func (s *Service) WithReconcileDelay(d time.Duration) *Service {
	if d >= 0 {
		s.delay = d
	}
	return s
}

// Phase reports where the creation state machine currently sits.
func (s *Service) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Refresh fetches the authoritative list and rebuilds the held views.
// Unrecognized status values are logged at the ingestion boundary; the
// records stay visible through All but land in neither bucket. While the
// service sits in the optimistic phase a held entry the backend has not
// surfaced yet is re-merged at the front of the current view instead of
// being dropped; only reconcile clears that protection.
func (s *Service) Refresh(ctx context.Context) error {
	fetched, err := s.backend.ListAppointments(ctx, ListParams{})
	if err != nil {
		return fmt.Errorf("appointments: refresh: %w", err)
	}
	for _, a := range fetched {
		if ParseStatus(a.Status) == StatusUnknown {
			s.logger.Warn("appointments: unrecognized status, excluded from buckets",
				"appointment_id", a.ID, "status", a.Status)
		}
	}

	s.mu.Lock()
	s.appts = fetched
	current := Bucketize(fetched, BucketCurrent)
	if s.phase == PhaseOptimistic && s.protected != nil {
		held := true
		for _, a := range current {
			if a.ID == s.protected.ID {
				held = false
				break
			}
		}
		if held {
			current = append([]Appointment{*s.protected}, current...)
		}
	}
	s.current = current
	s.mu.Unlock()
	return nil
}

// All returns the last authoritative snapshot, unbucketed.
func (s *Service) All() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Appointment(nil), s.appts...)
}

// Current returns the held current view, including any optimistic entry.
func (s *Service) Current() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Appointment(nil), s.current...)
}

// Past returns the past bucket from the authoritative snapshot.
func (s *Service) Past() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Bucketize(s.appts, BucketPast)
}

// Create validates and submits a draft. When the backend answers with a
// pending appointment it is prepended to the held current view immediately
// (de-duplicated by id) and the service enters the optimistic phase; after
// the reconcile delay the protection marker clears and an authoritative
// re-fetch replaces the view. A failed re-fetch leaves the optimistic entry
// in place rather than rolling back, so the user never watches their new
// appointment vanish.
func (s *Service) Create(ctx context.Context, draft Draft) (Appointment, error) {
	if draft.DateTime.IsZero() {
		return Appointment{}, fmt.Errorf("%w: date and time are required", ErrValidation)
	}
	if draft.ProviderID == "" {
		return Appointment{}, fmt.Errorf("%w: provider is required", ErrValidation)
	}

	created, err := s.backend.CreateAppointment(ctx, draft)
	if err != nil {
		return Appointment{}, fmt.Errorf("appointments: create: %w", err)
	}

	if ParseStatus(created.Status) == StatusPending {
		s.insertOptimistic(created)
		// The request context dies with the HTTP request, but its values
		// (the caller's bearer token) must survive until the reconcile
		// fetch fires.
		detached := context.WithoutCancel(ctx)
		time.AfterFunc(s.delay, func() { s.reconcile(detached) })
	}
	return created, nil
}

func (s *Service) insertOptimistic(a Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, held := range s.current {
		if held.ID == a.ID {
			return
		}
	}
	s.current = append([]Appointment{a}, s.current...)
	s.phase = PhaseOptimistic
	s.protected = &a
}

func (s *Service) reconcile(ctx context.Context) {
	// The protection marker clears before the fetch: a fetch that races a
	// concurrent refresh must not resurrect the optimistic phase.
	s.mu.Lock()
	s.phase = PhaseConfirmed
	s.protected = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.Refresh(ctx); err != nil {
		// Deliberate leniency: the optimistic entry stays visible.
		s.logger.Warn("appointments: reconcile fetch failed, keeping optimistic view", "error", err)
	}
}

// Cancel marks an appointment cancelled upstream, patches any held copy in
// place, then re-fetches the authoritative list.
func (s *Service) Cancel(ctx context.Context, id, reason string) error {
	now := s.now().UTC()
	updated, err := s.backend.UpdateAppointment(ctx, id, Update{
		Status:             CancelledStatusValue,
		CancelledAt:        &now,
		CancellationReason: reason,
	})
	if err != nil {
		return fmt.Errorf("appointments: cancel %s: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.appts {
		if s.appts[i].ID == id {
			s.appts[i] = updated
		}
	}
	for i := range s.current {
		if s.current[i].ID == id {
			s.current[i] = updated
		}
	}
	if s.protected != nil && s.protected.ID == id {
		// A cancelled entry no longer needs shielding from refreshes.
		s.protected = nil
	}
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("appointments: refresh after cancel failed", "error", err)
	}
	return nil
}

// AvailableDoctors returns the provider directory snapshot.
func (s *Service) AvailableDoctors(ctx context.Context) ([]Doctor, error) {
	doctors, err := s.backend.AvailableDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: available doctors: %w", err)
	}
	return doctors, nil
}
