package schedule

import (
	"fmt"
	"time"
)

const (
	// upcomingWindowMinutes bounds how far ahead a dose still counts as
	// "coming up" on the dashboard.
	upcomingWindowMinutes = 120
	// graceWindowMinutes is how long after the scheduled time a dose sits
	// without being flagged overdue.
	graceWindowMinutes = 30
)

// Timing classifies a scheduled time against the current clock.
type Timing struct {
	IsUpcoming bool
	IsOverdue  bool
	// Label is a human-readable distance, e.g. "in 45m" or "1h 10m overdue".
	// Empty when the time is inside the grace window or exactly now.
	Label string
}

// Classify buckets a "HH:MM" scheduled time relative to now. A time exactly
// at now is neither upcoming nor overdue, and times 1-30 minutes in the past
// fall into a grace window where they are neither as well. Callers re-invoke
// on render; there is no internal timer keeping labels fresh.
func Classify(scheduledTime string, now time.Time) Timing {
	sched, err := minutesSinceMidnight(scheduledTime)
	if err != nil {
		return Timing{}
	}
	nowMinutes := now.Hour()*60 + now.Minute()

	diff := sched - nowMinutes
	switch {
	case diff > 0 && diff <= upcomingWindowMinutes:
		return Timing{IsUpcoming: true, Label: untilLabel(diff)}
	case diff > upcomingWindowMinutes:
		return Timing{Label: untilLabel(diff)}
	case -diff > graceWindowMinutes:
		return Timing{IsOverdue: true, Label: overdueLabel(-diff)}
	default:
		return Timing{}
	}
}

func minutesSinceMidnight(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("schedule: parse time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func untilLabel(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("in %dm", minutes)
	}
	return fmt.Sprintf("in %dh %dm", minutes/60, minutes%60)
}

func overdueLabel(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm overdue", minutes)
	}
	return fmt.Sprintf("%dh %dm overdue", minutes/60, minutes%60)
}
