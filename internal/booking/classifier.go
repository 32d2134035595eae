package booking

import (
	"sort"
	"time"

	"github.com/np-mndp/book-my-seat/internal/models"
)

// Partitioned is the result of splitting bookings around "now".
type Partitioned struct {
	Upcoming []models.Booking
	Past     []models.Booking
}

// Partition splits bookings into upcoming (loadIn >= now) and past.
// The split is stable: both sides preserve the input's relative order.
// Sorting is a separate, explicit step.
func Partition(bookings []models.Booking, now time.Time) Partitioned {
	var p Partitioned
	for _, b := range bookings {
		if b.IsUpcoming(now) {
			p.Upcoming = append(p.Upcoming, b)
		} else {
			p.Past = append(p.Past, b)
		}
	}
	return p
}

// SortAscendingByLoadIn returns a copy sorted earliest first, the
// presentation order for upcoming bookings.
func SortAscendingByLoadIn(bookings []models.Booking) []models.Booking {
	sorted := append([]models.Booking(nil), bookings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LoadIn.Before(sorted[j].LoadIn)
	})
	return sorted
}

// SortDescendingByLoadIn returns a copy sorted latest first, the
// presentation order for past bookings.
func SortDescendingByLoadIn(bookings []models.Booking) []models.Booking {
	sorted := append([]models.Booking(nil), bookings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].LoadIn.Before(sorted[i].LoadIn)
	})
	return sorted
}

// Summary aggregates a booking list for the history screen.
type Summary struct {
	FirstTime   *time.Time
	LastTime    *time.Time
	TotalGuests int
}

// Summarize computes first/last reservation time and total guest
// count. An empty list yields nil times and zero guests.
func Summarize(bookings []models.Booking) Summary {
	var s Summary
	for _, b := range bookings {
		s.TotalGuests += b.Guests

		loadIn := b.LoadIn
		if s.FirstTime == nil || loadIn.Before(*s.FirstTime) {
			s.FirstTime = &loadIn
		}
		if s.LastTime == nil || loadIn.After(*s.LastTime) {
			s.LastTime = &loadIn
		}
	}
	return s
}
