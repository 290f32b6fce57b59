// Package appointments buckets and reconciles the patient's appointment list.
// Appointment records are owned by the upstream backend; this package parses
// their free-form status values into a closed vocabulary, derives the
// "current" and "past" views, and manages the optimistic window between
// creating an appointment and the authoritative re-fetch.
package appointments

import "time"

// Appointment is one record in the upstream appointment collection.
type Appointment struct {
	ID                 string     `json:"_id"`
	Title              string     `json:"title,omitempty"`
	Status             string     `json:"status"`
	DateTime           time.Time  `json:"dateTime"`
	CreatedAt          time.Time  `json:"createdAt"`
	ProviderID         string     `json:"providerId"`
	ProviderName       string     `json:"providerName"`
	Reason             string     `json:"reason"`
	Notes              string     `json:"notes,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
}

// Draft is the payload for creating an appointment.
type Draft struct {
	ProviderID   string    `json:"providerId"`
	ProviderName string    `json:"providerName"`
	DateTime     time.Time `json:"dateTime"`
	Reason       string    `json:"reason"`
	Notes        string    `json:"notes,omitempty"`
}

// Update is the payload for editing or cancelling an appointment.
type Update struct {
	Status             string     `json:"status,omitempty"`
	DateTime           *time.Time `json:"dateTime,omitempty"`
	Reason             string     `json:"reason,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
}

// Doctor is an entry in the provider directory, used only to resolve
// display names.
type Doctor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListParams mirror the upstream list endpoint's query parameters.
type ListParams struct {
	Status string
	Past   bool
	SortBy string
	Order  string
	Limit  int
}
