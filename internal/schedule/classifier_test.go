package schedule

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		scheduled    string
		now          time.Time
		wantUpcoming bool
		wantOverdue  bool
	}{
		{"exactly now is neither", "09:00", at(9, 0), false, false},
		{"30m past stays in grace window", "09:00", at(9, 30), false, false},
		{"31m past is overdue", "09:00", at(9, 31), false, true},
		{"1m ahead is upcoming", "09:01", at(9, 0), true, false},
		{"120m ahead is still upcoming", "11:00", at(9, 0), true, false},
		{"121m ahead is not upcoming", "11:01", at(9, 0), false, false},
		{"1m past is neither", "09:00", at(9, 1), false, false},
		{"unparsable time is neither", "9am", at(9, 0), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.scheduled, tt.now)
			if got.IsUpcoming != tt.wantUpcoming {
				t.Errorf("IsUpcoming = %v, want %v", got.IsUpcoming, tt.wantUpcoming)
			}
			if got.IsOverdue != tt.wantOverdue {
				t.Errorf("IsOverdue = %v, want %v", got.IsOverdue, tt.wantOverdue)
			}
		})
	}
}

func TestClassifyLabels(t *testing.T) {
	tests := []struct {
		name      string
		scheduled string
		now       time.Time
		want      string
	}{
		{"short overdue", "08:00", at(8, 45), "45m overdue"},
		{"long overdue", "08:00", at(9, 10), "1h 10m overdue"},
		{"short until", "09:45", at(9, 0), "in 45m"},
		{"long until", "11:00", at(9, 0), "in 2h 0m"},
		{"beyond upcoming window still labeled", "13:30", at(9, 0), "in 4h 30m"},
		{"grace window has no label", "09:00", at(9, 15), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.scheduled, tt.now).Label; got != tt.want {
				t.Errorf("Label = %q, want %q", got, tt.want)
			}
		})
	}
}
