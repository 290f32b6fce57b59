package events

import "time"

// Event type names carried on the bus and in the outbox.
const (
	TypeMedicationTaken     = "medication.taken.v1"
	TypeMedicationCleared   = "medication.cleared.v1"
	TypeAlertsUpdated       = "alerts.updated.v1"
	TypeAlertsCleared       = "alerts.cleared.v1"
	TypeHealthDataGenerated = "healthdata.generated.v1"
)

type MedicationTakenV1 struct {
	EventID        string    `json:"event_id"`
	PatientID      string    `json:"patient_id"`
	MedicationName string    `json:"medication_name"`
	ScheduledTime  string    `json:"scheduled_time"`
	TakenAt        time.Time `json:"taken_at"`
}

type MedicationClearedV1 struct {
	EventID   string    `json:"event_id"`
	PatientID string    `json:"patient_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

type AlertsUpdatedV1 struct {
	EventID   string    `json:"event_id"`
	PatientID string    `json:"patient_id"`
	AlertID   string    `json:"alert_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AlertsClearedV1 struct {
	EventID   string    `json:"event_id"`
	PatientID string    `json:"patient_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

type HealthDataGeneratedV1 struct {
	EventID     string    `json:"event_id"`
	PatientID   string    `json:"patient_id"`
	DataType    string    `json:"data_type"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PatientScoped is implemented by payloads that belong to one patient; the
// outbox recorder uses it to key durable entries.
type PatientScoped interface {
	Patient() string
}

func (e MedicationTakenV1) Patient() string     { return e.PatientID }
func (e MedicationClearedV1) Patient() string   { return e.PatientID }
func (e AlertsUpdatedV1) Patient() string       { return e.PatientID }
func (e AlertsClearedV1) Patient() string       { return e.PatientID }
func (e HealthDataGeneratedV1) Patient() string { return e.PatientID }
