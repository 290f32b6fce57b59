package appointments

import "strings"

// Status is the closed vocabulary parsed from upstream free-form status
// strings. Parsing happens once at the ingestion boundary; unrecognized
// values become StatusUnknown rather than silently vanishing.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusApproved
	StatusOpenChat
	StatusCompleted
	StatusCancelled
)

// CancelledStatusValue is the literal the upstream backend expects on a
// cancellation update.
const CancelledStatusValue = "Cancelled"

// ParseStatus normalizes an upstream status string case-insensitively.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending
	case "approved":
		return StatusApproved
	case "open_chat", "open chat":
		return StatusOpenChat
	case "completed":
		return StatusCompleted
	case "cancelled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusOpenChat:
		return "open_chat"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsCurrent reports whether the status belongs to the "current" bucket.
func (s Status) IsCurrent() bool {
	return s == StatusPending || s == StatusApproved || s == StatusOpenChat
}

// IsPast reports whether the status belongs to the "past" bucket.
func (s Status) IsPast() bool {
	return s == StatusCompleted || s == StatusCancelled
}
