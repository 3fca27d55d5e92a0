package models

import "time"

type Booking struct {
	ID               string    `json:"id"`
	ProviderID       string    `json:"provider_id"`
	ProviderName     string    `json:"provider_name,omitempty"`
	ProviderCategory string    `json:"provider_category,omitempty"`
	ProviderPhone    string    `json:"provider_phone,omitempty"`
	CustomerName     string    `json:"user_name,omitempty"`
	BookingDate      Date      `json:"booking_date"`
	BookingTime      string    `json:"booking_time"` // "15:04"
	Status           string    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
	CompletionNotes  string    `json:"completion_notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProviderBookings is the server-partitioned view of a provider's bookings.
// The client trusts the partition; any bucket may be empty.
type ProviderBookings struct {
	All       []Booking `json:"all"`
	Pending   []Booking `json:"pending"`
	Accepted  []Booking `json:"accepted"`
	Completed []Booking `json:"completed"`
	Cancelled []Booking `json:"cancelled"`
}
