package alerts

import (
	"time"

	"github.com/samber/lo"
)

// Named filters the dashboards can request. FilterAll is the default and the
// fallback for unrecognized names.
const (
	FilterAll      = "all"
	FilterUnread   = "unread"
	FilterCritical = "critical"
	FilterWarning  = "warning"
	FilterInfo     = "info"
)

const weeklyWindow = 7 * 24 * time.Hour

// Trend thresholds: more than five alerts in the trailing week reads as an
// increase, fewer than two as a decrease.
const (
	trendIncreaseThreshold = 5
	trendDecreaseThreshold = 2
)

// Filter applies a named predicate to the feed. Unknown names behave as "all".
func Filter(feed []Alert, name string) []Alert {
	switch name {
	case FilterUnread:
		return lo.Filter(feed, func(a Alert, _ int) bool { return !a.IsRead })
	case FilterCritical, FilterWarning, FilterInfo:
		return lo.Filter(feed, func(a Alert, _ int) bool { return a.Type == name })
	default:
		return feed
	}
}

// Count tallies the feed for badge rendering.
func Count(feed []Alert) Counts {
	c := Counts{Total: len(feed)}
	for _, a := range feed {
		if !a.IsRead {
			c.Unread++
			if a.Type == TypeCritical {
				c.CriticalUnread++
			}
		}
		switch a.Type {
		case TypeCritical:
			c.Critical++
		case TypeWarning:
			c.Warning++
		case TypeInfo:
			c.Info++
		}
	}
	return c
}

// WeeklyCount counts alerts within the trailing seven days of now.
func WeeklyCount(feed []Alert, now time.Time) int {
	cutoff := now.Add(-weeklyWindow)
	return lo.CountBy(feed, func(a Alert) bool {
		return !a.Timestamp.Before(cutoff)
	})
}

// TrendFor classifies a weekly count against the fixed thresholds.
func TrendFor(weeklyCount int) string {
	switch {
	case weeklyCount > trendIncreaseThreshold:
		return TrendIncreasing
	case weeklyCount < trendDecreaseThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
