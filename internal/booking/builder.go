// Package booking validates and submits reservation drafts and
// classifies the resulting bookings into upcoming and past.
package booking

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/np-mndp/book-my-seat/internal/models"
)

// emailRe accepts a basic address shape; the backend does the real
// verification.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Submitter sends an accepted draft to the backend.
type Submitter interface {
	CreateBooking(ctx context.Context, draft models.BookingDraft) (*models.Booking, error)
}

// Builder validates booking drafts and submits them. The clock is
// injectable so validation of "in the future" is testable.
type Builder struct {
	submitter Submitter
	now       func() time.Time
	duration  time.Duration
	logger    zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewBuilder constructs a builder over the given submitter. A zero
// duration falls back to the 2h default.
func NewBuilder(submitter Submitter, duration time.Duration, logger zerolog.Logger) *Builder {
	if duration <= 0 {
		duration = models.DefaultBookingDuration
	}
	return &Builder{
		submitter: submitter,
		now:       time.Now,
		duration:  duration,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

// WithClock overrides the time source. Test hook.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// PrefillCustomer fills empty contact fields from the logged-in user,
// mirroring the booking form's defaults.
func (b *Builder) PrefillCustomer(draft *models.BookingDraft, user models.User) {
	if draft.Customer.Name == "" {
		draft.Customer.Name = user.Name
	}
	if draft.Customer.Phone == "" {
		draft.Customer.Phone = user.Phone
	}
	if draft.Customer.Email == "" {
		draft.Customer.Email = user.Email
	}
}

// Prepare derives LoadOut from LoadIn when the caller has not
// explicitly overridden the duration. LoadOut is never independently
// user-settable.
func (b *Builder) Prepare(draft *models.BookingDraft) {
	if !draft.DurationOverridden {
		draft.LoadOut = draft.LoadIn.Add(b.duration)
	}
}

// OverrideDuration sets an explicit reservation window length.
func (b *Builder) OverrideDuration(draft *models.BookingDraft, d time.Duration) {
	draft.DurationOverridden = true
	draft.LoadOut = draft.LoadIn.Add(d)
}

// Validate checks the draft against all submission rules and returns
// every violation. An empty result means the draft may be submitted.
func (b *Builder) Validate(draft models.BookingDraft) []ValidationError {
	var errs []ValidationError
	now := b.now()

	if draft.RestaurantID <= 0 {
		errs = append(errs, ValidationError{Field: "restaurantId", Message: "restaurant is required"})
	}
	if draft.Guests < 1 {
		errs = append(errs, ValidationError{Field: "guests", Message: "at least one guest is required"})
	}
	if !draft.LoadIn.After(now) {
		errs = append(errs, ValidationError{Field: "loadIn", Message: "reservation time must be in the future"})
	}
	if draft.DurationOverridden {
		if !draft.LoadOut.After(draft.LoadIn) {
			errs = append(errs, ValidationError{Field: "loadOut", Message: "reservation must end after it starts"})
		}
	} else if !draft.LoadOut.Equal(draft.LoadIn.Add(b.duration)) {
		errs = append(errs, ValidationError{Field: "loadOut", Message: "reservation end is derived from the start time"})
	}
	if draft.IsSpecialOccasion && strings.TrimSpace(draft.EventSpecial) == "" {
		errs = append(errs, ValidationError{Field: "eventSpecial", Message: "describe the special occasion"})
	}
	if strings.TrimSpace(draft.Customer.Name) == "" {
		errs = append(errs, ValidationError{Field: "customer.name", Message: "name is required"})
	}
	if strings.TrimSpace(draft.Customer.Phone) == "" {
		errs = append(errs, ValidationError{Field: "customer.phone", Message: "phone is required"})
	}
	switch {
	case strings.TrimSpace(draft.Customer.Email) == "":
		errs = append(errs, ValidationError{Field: "customer.email", Message: "email is required"})
	case !emailRe.MatchString(draft.Customer.Email):
		errs = append(errs, ValidationError{Field: "customer.email", Message: "email address looks invalid"})
	}

	return errs
}

// Submit validates the draft and sends it to the backend. Validation
// failures never reach the network. Backend errors pass through
// untouched so callers can classify them with the api helpers. A
// second submit of the same draft while one is in flight is refused.
func (b *Builder) Submit(ctx context.Context, draft models.BookingDraft) (*models.Booking, error) {
	if errs := b.Validate(draft); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	key := draftKey(draft)
	b.mu.Lock()
	if _, busy := b.inFlight[key]; busy {
		b.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	b.inFlight[key] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.inFlight, key)
		b.mu.Unlock()
	}()

	booking, err := b.submitter.CreateBooking(ctx, draft)
	if err != nil {
		b.logger.Warn().Err(err).
			Int64("restaurant_id", draft.RestaurantID).
			Time("load_in", draft.LoadIn).
			Msg("booking submission failed")
		return nil, err
	}

	b.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("restaurant_id", draft.RestaurantID).
		Int("guests", draft.Guests).
		Msg("booking created")
	return booking, nil
}

func draftKey(d models.BookingDraft) string {
	return fmt.Sprintf("%d|%d|%s", d.RestaurantID, d.LoadIn.Unix(), d.Customer.Email)
}
