// Package schedule derives patient-facing views from a fetched medication
// schedule: which doses are overdue, which are coming up, and what today's
// plan looks like. All derivation here is pure; persistence of taken state
// lives in the medtracker package.
package schedule

// Dose is one scheduled administration of a medication at a specific time
// of day. Doses are produced by the upstream schedule computation and are
// read-only inputs here.
type Dose struct {
	MedicationName string `json:"medicationName"`
	Dosage         string `json:"dosage"`
	ScheduledTime  string `json:"scheduledTime"` // "HH:MM", 24-hour local time
	DoseNumber     int    `json:"doseNumber"`
	TotalDoses     int    `json:"totalDoses"`
}

// DailySchedule is the upstream schedule payload.
type DailySchedule struct {
	TotalMedications int      `json:"totalMedications"`
	TotalDailyDoses  int      `json:"totalDailyDoses"`
	Schedule         []Dose   `json:"schedule"`
	Insights         []string `json:"insights"`
}
