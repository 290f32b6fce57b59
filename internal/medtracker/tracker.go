// Package medtracker tracks which medication doses a patient has marked taken
// today. The record is scoped to a single calendar day in the patient's local
// timezone: on the first read after midnight the previous day's record is
// discarded wholesale, never rolled into history.
package medtracker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pulsecare/patient-platform/pkg/logging"
)

// takenRecord is the persisted shape: a date marker plus the composite keys
// marked taken on that date.
type takenRecord struct {
	Date        string   `json:"date"`
	Medications []string `json:"medications"`
}

// TakenSet is a point-in-time snapshot of today's taken doses. It satisfies
// schedule.TakenChecker.
type TakenSet struct {
	date string
	keys map[string]struct{}
}

// IsTaken reports membership for a (medication, scheduled time) pair against
// the snapshot's date.
func (s *TakenSet) IsTaken(medicationName, scheduledTime string) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[compositeKey(medicationName, scheduledTime, s.date)]
	return ok
}

// Size returns the number of doses marked taken.
func (s *TakenSet) Size() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the composite keys in the set, for persistence.
func (s *TakenSet) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out
}

func compositeKey(medicationName, scheduledTime, date string) string {
	return medicationName + "|" + scheduledTime + "|" + date
}

// Tracker owns the per-day taken state for all patients.
type Tracker struct {
	storage  Storage
	location *time.Location
	now      func() time.Time
	logger   *logging.Logger
}

// NewTracker creates a tracker. location defines the day boundary; nil means UTC.
func NewTracker(storage Storage, location *time.Location, logger *logging.Logger) *Tracker {
	if storage == nil {
		panic("medtracker: storage cannot be nil")
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Tracker{
		storage:  storage,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock overrides the clock, for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	if now != nil {
		t.now = now
	}
	return t
}

func (t *Tracker) today() string {
	return t.now().In(t.location).Format("2006-01-02")
}

// Load reads the persisted record for a patient. A record carrying a stale
// date marker, a corrupt payload, or a failed read all degrade to an empty
// set; in the stale and corrupt cases the persisted record is wiped so the
// next read starts clean. Load never returns an error.
func (t *Tracker) Load(ctx context.Context, patientID string) *TakenSet {
	today := t.today()
	empty := &TakenSet{date: today, keys: map[string]struct{}{}}

	data, err := t.storage.Read(ctx, patientID)
	if err != nil {
		t.logger.Error("medtracker: read failed, treating as empty", "patient_id", patientID, "error", err)
		return empty
	}
	if data == nil {
		return empty
	}

	var rec takenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.logger.Warn("medtracker: corrupt taken record, clearing", "patient_id", patientID, "error", err)
		t.wipe(ctx, patientID)
		return empty
	}

	if rec.Date != today {
		t.wipe(ctx, patientID)
		return empty
	}

	keys := make(map[string]struct{}, len(rec.Medications))
	for _, k := range rec.Medications {
		keys[k] = struct{}{}
	}
	return &TakenSet{date: today, keys: keys}
}

// MarkTaken records a dose as taken today and persists the updated set.
// Marking the same dose twice is a no-op. Persistence failures are logged,
// never propagated; the caller's action still counts as done.
func (t *Tracker) MarkTaken(ctx context.Context, patientID, medicationName, scheduledTime string) *TakenSet {
	set := t.Load(ctx, patientID)
	key := compositeKey(medicationName, scheduledTime, set.date)
	if _, ok := set.keys[key]; ok {
		return set
	}
	set.keys[key] = struct{}{}

	rec := takenRecord{Date: set.date, Medications: set.Keys()}
	data, err := json.Marshal(rec)
	if err != nil {
		t.logger.Error("medtracker: marshal taken record", "patient_id", patientID, "error", err)
		return set
	}
	if err := t.storage.Write(ctx, patientID, data); err != nil {
		t.logger.Error("medtracker: persist taken record", "patient_id", patientID, "error", err)
	}
	return set
}

// IsTaken answers a single membership query against today's set.
func (t *Tracker) IsTaken(ctx context.Context, patientID, medicationName, scheduledTime string) bool {
	return t.Load(ctx, patientID).IsTaken(medicationName, scheduledTime)
}

// ClearAll empties the patient's taken set and erases the persisted record.
func (t *Tracker) ClearAll(ctx context.Context, patientID string) {
	t.wipe(ctx, patientID)
}

func (t *Tracker) wipe(ctx context.Context, patientID string) {
	if err := t.storage.Delete(ctx, patientID); err != nil {
		t.logger.Error("medtracker: clear taken record", "patient_id", patientID, "error", err)
	}
}
