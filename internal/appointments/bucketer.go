package appointments

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Bucket names for the two derived appointment views.
const (
	BucketCurrent = "current"
	BucketPast    = "past"
)

// Bucketize filters appointments into the named bucket and orders them.
// Current appointments sort by creation time descending (falling back to the
// appointment time when createdAt is absent); past appointments sort by
// appointment time descending. Appointments with an unrecognized status land
// in neither bucket.
func Bucketize(appts []Appointment, bucket string) []Appointment {
	switch bucket {
	case BucketCurrent:
		out := lo.Filter(appts, func(a Appointment, _ int) bool {
			return ParseStatus(a.Status).IsCurrent()
		})
		sort.SliceStable(out, func(i, j int) bool {
			return sortKeyCurrent(out[i]).After(sortKeyCurrent(out[j]))
		})
		return out
	case BucketPast:
		out := lo.Filter(appts, func(a Appointment, _ int) bool {
			return ParseStatus(a.Status).IsPast()
		})
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DateTime.After(out[j].DateTime)
		})
		return out
	default:
		return nil
	}
}

func sortKeyCurrent(a Appointment) time.Time {
	if !a.CreatedAt.IsZero() {
		return a.CreatedAt
	}
	return a.DateTime
}

// Search filters already-bucketed appointments by a case-insensitive
// substring match over title, provider name, and reason. An empty query
// matches everything.
func Search(appts []Appointment, query string) []Appointment {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return appts
	}
	return lo.Filter(appts, func(a Appointment, _ int) bool {
		return strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.ProviderName), q) ||
			strings.Contains(strings.ToLower(a.Reason), q)
	})
}

// ResolveProviderName joins an appointment against a directory snapshot,
// falling back to the name stored on the appointment when the provider id
// is not in the snapshot.
func ResolveProviderName(a Appointment, directory []Doctor) string {
	for _, d := range directory {
		if d.ID == a.ProviderID && d.Name != "" {
			return d.Name
		}
	}
	return a.ProviderName
}
