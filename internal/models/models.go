// Package models holds the value types shared across the booking core.
package models

import "time"

// DefaultBookingDuration is the reservation window length when the
// caller does not override it: load-out = load-in + 2h.
const DefaultBookingDuration = 2 * time.Hour

// DefaultReminderLead is how long before load-in a reminder fires.
const DefaultReminderLead = 1 * time.Hour

// Role discriminates customer and restaurant-manager accounts.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
)

// Coordinate is an immutable lat/long pair in decimal degrees.
type Coordinate struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Location is a named coordinate, e.g. the user's home area.
type Location struct {
	Coordinate
	Name string `json:"name,omitempty"`
}

// User is the account record returned by the backend on login.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// RestaurantSummary is a read-only projection of a restaurant as
// returned by GET /api/restaurants. DistanceKm is never supplied by
// the server; the geo ranker derives it from the query origin.
type RestaurantSummary struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Coordinate Coordinate `json:"coordinate"`
	Address    string     `json:"address"`
	PriceTier  int        `json:"priceTier"` // 1..5
	ImageRef   string     `json:"imageRef,omitempty"`
	DistanceKm float64    `json:"distanceKm,omitempty"`
}

// Customer is the contact block of a booking.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// BookingDraft is a reservation request being assembled by the user.
// LoadOut is derived from LoadIn unless DurationOverridden is set.
type BookingDraft struct {
	RestaurantID          int64     `json:"restaurantId"`
	Customer              Customer  `json:"customer"`
	Guests                int       `json:"guests"`
	LoadIn                time.Time `json:"loadIn"`
	LoadOut               time.Time `json:"loadOut"`
	DurationOverridden    bool      `json:"-"`
	IsSpecialOccasion     bool      `json:"isSpecialOccasion"`
	EventSpecial          string    `json:"eventSpecial,omitempty"`
	SpecialAccommodations bool      `json:"specialAccommodations"`
	Note                  string    `json:"note,omitempty"`
}

// BookingStatus as reported by the backend.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a draft the backend accepted. The returned record is
// authoritative; "upcoming" vs "past" is derived at read time from
// LoadIn, never stored.
type Booking struct {
	ID         int64             `json:"id"`
	Restaurant RestaurantSummary `json:"restaurant"`
	Status     BookingStatus     `json:"status"`

	Customer              Customer  `json:"customer"`
	Guests                int       `json:"guests"`
	LoadIn                time.Time `json:"loadIn"`
	LoadOut               time.Time `json:"loadOut"`
	IsSpecialOccasion     bool      `json:"isSpecialOccasion"`
	EventSpecial          string    `json:"eventSpecial,omitempty"`
	SpecialAccommodations bool      `json:"specialAccommodations"`
	Note                  string    `json:"note,omitempty"`
}

// IsUpcoming reports whether the booking has not started yet relative
// to now. The boundary counts as upcoming.
func (b *Booking) IsUpcoming(now time.Time) bool {
	return !b.LoadIn.Before(now)
}

// Reminder ties a booking to a scheduled local notification.
// At most one live reminder exists per booking id.
type Reminder struct {
	BookingID      int64     `json:"bookingId"`
	NotificationID string    `json:"notificationId"`
	FireAt         time.Time `json:"fireAt"`
}

// Session is the running client's authentication state. It is owned
// by the session gate and mutated only through its actions.
type Session struct {
	UserID       int64
	DisplayName  string
	Role         Role
	AuthToken    string
	HomeLocation *Location
}

// HasToken reports whether the session is authenticated.
func (s *Session) HasToken() bool {
	return s != nil && s.AuthToken != ""
}
