package schedule

import (
	"time"

	"github.com/samber/lo"
)

// todayDisplayLimit caps how many doses the "today" panel shows. The cap is
// part of the derivation contract, not a rendering choice.
const todayDisplayLimit = 6

// TakenChecker answers whether a dose has already been marked taken today.
type TakenChecker interface {
	IsTaken(medicationName, scheduledTime string) bool
}

// DerivedViews are the three dashboard lists computed from one schedule.
type DerivedViews struct {
	Overdue  []Dose `json:"overdue"`
	Upcoming []Dose `json:"upcoming"`
	Today    []Dose `json:"today"`
}

// Reduce combines a fetched schedule with taken state and the clock.
// Taken doses drop out of overdue/upcoming but stay in today's list, where
// the dashboard renders them as completed.
func Reduce(doses []Dose, taken TakenChecker, now time.Time) DerivedViews {
	timings := lo.Map(doses, func(d Dose, _ int) Timing {
		return Classify(d.ScheduledTime, now)
	})

	notTaken := func(d Dose) bool {
		return taken == nil || !taken.IsTaken(d.MedicationName, d.ScheduledTime)
	}

	overdue := lo.Filter(doses, func(d Dose, i int) bool {
		return timings[i].IsOverdue && notTaken(d)
	})
	upcoming := lo.Filter(doses, func(d Dose, i int) bool {
		return timings[i].IsUpcoming && notTaken(d)
	})

	today := doses
	if len(today) > todayDisplayLimit {
		today = today[:todayDisplayLimit]
	}

	return DerivedViews{Overdue: overdue, Upcoming: upcoming, Today: today}
}
