package lifecycle

import (
	"sort"
	"time"

	"fixly/internal/models"
)

// Buckets is the customer-facing partition of a flat booking list.
type Buckets struct {
	Active    []models.Booking
	Completed []models.Booking
	Cancelled []models.Booking
}

// Categorize partitions bookings for display.
//
//   - Active: pending or confirmed with a booking date on or after now,
//     soonest first.
//   - Completed: most recent first.
//   - Cancelled: most recent first.
//
// A pending or confirmed booking whose date has already passed lands in no
// bucket. That mirrors the server contract as observed; whether it is
// intentional is an open product question, so it is preserved rather than
// reclassified.
func Categorize(bookings []models.Booking, now time.Time) Buckets {
	var b Buckets
	for _, booking := range bookings {
		switch Parse(booking.Status) {
		case StatePending, StateAccepted:
			if !booking.BookingDate.Before(now) {
				b.Active = append(b.Active, booking)
			}
		case StateCompleted:
			b.Completed = append(b.Completed, booking)
		case StateCancelled:
			b.Cancelled = append(b.Cancelled, booking)
		}
	}

	sort.SliceStable(b.Active, func(i, j int) bool {
		return b.Active[i].BookingDate.Before(b.Active[j].BookingDate.Time)
	})
	sort.SliceStable(b.Completed, func(i, j int) bool {
		return b.Completed[i].BookingDate.After(b.Completed[j].BookingDate.Time)
	})
	sort.SliceStable(b.Cancelled, func(i, j int) bool {
		return b.Cancelled[i].BookingDate.After(b.Cancelled[j].BookingDate.Time)
	})

	return b
}
