package alerts

import (
	"testing"
	"time"
)

func feedFixture(now time.Time) []Alert {
	return []Alert{
		{ID: "a1", Type: TypeCritical, Title: "Heart rate spike", Timestamp: now.Add(-1 * time.Hour)},
		{ID: "a2", Type: TypeWarning, Title: "Blood pressure elevated", Timestamp: now.Add(-2 * 24 * time.Hour), IsRead: true},
		{ID: "a3", Type: TypeInfo, Title: "Weekly report ready", Timestamp: now.Add(-6 * 24 * time.Hour), IsRead: true},
		{ID: "a4", Type: TypeCritical, Title: "Oxygen saturation low", Timestamp: now.Add(-8 * 24 * time.Hour)},
		{ID: "a5", Type: TypeSuccess, Title: "Goal reached", Timestamp: now.Add(-30 * time.Minute), IsRead: true},
	}
}

func TestFilter(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	feed := feedFixture(now)

	tests := []struct {
		name    string
		filter  string
		wantIDs []string
	}{
		{"unread", FilterUnread, []string{"a1", "a4"}},
		{"critical", FilterCritical, []string{"a1", "a4"}},
		{"warning", FilterWarning, []string{"a2"}},
		{"info", FilterInfo, []string{"a3"}},
		{"all", FilterAll, []string{"a1", "a2", "a3", "a4", "a5"}},
		{"unknown behaves as all", "bogus", []string{"a1", "a2", "a3", "a4", "a5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(feed, tt.filter)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d alerts, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("alert[%d].ID = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestCount(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := Count(feedFixture(now))

	if c.Total != 5 {
		t.Errorf("Total = %d, want 5", c.Total)
	}
	if c.Unread != 2 {
		t.Errorf("Unread = %d, want 2", c.Unread)
	}
	if c.CriticalUnread != 2 {
		t.Errorf("CriticalUnread = %d, want 2", c.CriticalUnread)
	}
	if c.Critical != 2 || c.Warning != 1 || c.Info != 1 {
		t.Errorf("per-type = %d/%d/%d, want 2/1/1", c.Critical, c.Warning, c.Info)
	}
}

func TestCountEmptyFeed(t *testing.T) {
	if c := Count(nil); c != (Counts{}) {
		t.Fatalf("Count(nil) = %+v, want zero counts", c)
	}
}

func TestWeeklyCount(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	// a4 is 8 days old and falls outside the trailing week.
	if got := WeeklyCount(feedFixture(now), now); got != 4 {
		t.Fatalf("WeeklyCount = %d, want 4", got)
	}
}

func TestTrendThresholds(t *testing.T) {
	tests := []struct {
		weekly int
		want   string
	}{
		{6, TrendIncreasing},
		{1, TrendDecreasing},
		{0, TrendDecreasing},
		{2, TrendStable},
		{3, TrendStable},
		{4, TrendStable},
		{5, TrendStable},
	}
	for _, tt := range tests {
		if got := TrendFor(tt.weekly); got != tt.want {
			t.Errorf("TrendFor(%d) = %s, want %s", tt.weekly, got, tt.want)
		}
	}
}
