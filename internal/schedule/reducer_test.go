package schedule

import (
	"fmt"
	"testing"
	"time"
)

type stubTaken map[string]bool

func (s stubTaken) IsTaken(med, at string) bool { return s[med+"|"+at] }

func TestReduceBuckets(t *testing.T) {
	now := at(9, 0)
	doses := []Dose{
		{MedicationName: "Metformin", ScheduledTime: "08:00", DoseNumber: 1, TotalDoses: 2}, // overdue
		{MedicationName: "Lisinopril", ScheduledTime: "10:00", DoseNumber: 1, TotalDoses: 1}, // upcoming
		{MedicationName: "Aspirin", ScheduledTime: "08:45", DoseNumber: 1, TotalDoses: 1},    // grace window
		{MedicationName: "Metformin", ScheduledTime: "20:00", DoseNumber: 2, TotalDoses: 2},  // far future
	}

	views := Reduce(doses, stubTaken{}, now)

	if len(views.Overdue) != 1 || views.Overdue[0].MedicationName != "Metformin" {
		t.Fatalf("overdue = %+v, want single Metformin 08:00", views.Overdue)
	}
	if len(views.Upcoming) != 1 || views.Upcoming[0].MedicationName != "Lisinopril" {
		t.Fatalf("upcoming = %+v, want single Lisinopril", views.Upcoming)
	}
	if len(views.Today) != 4 {
		t.Fatalf("today = %d doses, want all 4", len(views.Today))
	}
}

func TestReduceExcludesTakenDoses(t *testing.T) {
	now := at(8, 45)
	doses := []Dose{
		{MedicationName: "Metformin", ScheduledTime: "08:00", DoseNumber: 1, TotalDoses: 2},
	}

	before := Reduce(doses, stubTaken{}, now)
	if len(before.Overdue) != 1 {
		t.Fatalf("expected Metformin overdue before marking, got %+v", before.Overdue)
	}

	after := Reduce(doses, stubTaken{"Metformin|08:00": true}, now)
	if len(after.Overdue) != 0 {
		t.Fatalf("expected empty overdue after marking taken, got %+v", after.Overdue)
	}
	// Taken doses remain on today's list; completion is a rendering concern.
	if len(after.Today) != 1 {
		t.Fatalf("expected taken dose to stay in today's list, got %+v", after.Today)
	}
}

func TestReduceTruncatesTodayToSix(t *testing.T) {
	var doses []Dose
	for i := 0; i < 9; i++ {
		doses = append(doses, Dose{
			MedicationName: fmt.Sprintf("Med%d", i),
			ScheduledTime:  fmt.Sprintf("%02d:00", 8+i),
			DoseNumber:     1,
			TotalDoses:     1,
		})
	}

	views := Reduce(doses, nil, at(7, 0))
	if len(views.Today) != 6 {
		t.Fatalf("today = %d doses, want 6", len(views.Today))
	}
	for i, d := range views.Today {
		if d.MedicationName != fmt.Sprintf("Med%d", i) {
			t.Fatalf("today[%d] = %s, input order not preserved", i, d.MedicationName)
		}
	}
}

func TestReduceEmptyScheduleIsEmptyViews(t *testing.T) {
	views := Reduce(nil, nil, time.Now())
	if len(views.Overdue) != 0 || len(views.Upcoming) != 0 || len(views.Today) != 0 {
		t.Fatalf("expected empty views for empty schedule, got %+v", views)
	}
}
