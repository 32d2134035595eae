// Package reminders maps confirmed bookings to scheduled local
// notifications. The scheduler owns the toggle semantics and the
// at-most-one-live-reminder-per-booking invariant; actual timer
// bookkeeping lives in the notify dispatcher.
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/np-mndp/book-my-seat/internal/models"
	"github.com/np-mndp/book-my-seat/internal/notify"
)

// Notifier is the local-notification collaborator contract: schedule a
// payload at an absolute time, cancel by id. Assumed reliable but
// fire-and-forget.
type Notifier interface {
	ScheduleAt(fireAt time.Time, payload notify.Payload) (string, error)
	Cancel(id string)
}

// SchedulingWarning flags the "fires immediately" case: the booking
// starts in under the lead time, so the reminder was scheduled for a
// past instant. Non-fatal and caller-visible; the reminder is live.
type SchedulingWarning struct {
	BookingID int64
	FireAt    time.Time
}

func (w *SchedulingWarning) Error() string {
	return fmt.Sprintf("reminder for booking %d fires immediately (lead time already passed)", w.BookingID)
}

// Scheduler toggles reminders for bookings and keeps a swappable store
// of live reminders.
type Scheduler struct {
	notifier Notifier
	store    Store
	lead     time.Duration
	now      func() time.Time
	logger   zerolog.Logger
	metrics  *Metrics
}

// NewScheduler builds a scheduler. A lead <= 0 falls back to the
// 1h default.
func NewScheduler(notifier Notifier, store Store, lead time.Duration, logger zerolog.Logger) *Scheduler {
	if lead <= 0 {
		lead = models.DefaultReminderLead
	}
	return &Scheduler{
		notifier: notifier,
		store:    store,
		lead:     lead,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// WithMetrics attaches Prometheus instrumentation.
func (s *Scheduler) WithMetrics(m *Metrics) *Scheduler {
	s.metrics = m
	return s
}

// Toggle is the pure schedule/cancel flip: a nil current schedules a
// new reminder at loadIn minus the lead and returns it; a non-nil
// current cancels it and returns nil. Repeated toggles with no
// external change are idempotent under even iteration counts. The
// returned warning is non-nil when the reminder fires immediately.
func (s *Scheduler) Toggle(ctx context.Context, booking *models.Booking, current *models.Reminder) (*models.Reminder, *SchedulingWarning, error) {
	if current != nil {
		s.notifier.Cancel(current.NotificationID)
		if s.metrics != nil {
			s.metrics.IncCancelled()
			s.metrics.DecLive()
		}
		s.logger.Info().
			Int64("booking_id", current.BookingID).
			Str("notification_id", current.NotificationID).
			Msg("reminder cancelled")
		return nil, nil, nil
	}

	fireAt := booking.LoadIn.Add(-s.lead)
	payload := notify.Payload{
		Title:     "Upcoming reservation",
		Body:      fmt.Sprintf("Your table at %s is booked for %s.", booking.Restaurant.Title, booking.LoadIn.Format("Mon, Jan 2 15:04")),
		BookingID: booking.ID,
	}

	id, err := s.notifier.ScheduleAt(fireAt, payload)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule reminder for booking %d: %w", booking.ID, err)
	}
	if s.metrics != nil {
		s.metrics.IncScheduled()
		s.metrics.IncLive()
	}

	reminder := &models.Reminder{
		BookingID:      booking.ID,
		NotificationID: id,
		FireAt:         fireAt,
	}

	var warning *SchedulingWarning
	if fireAt.Before(s.now()) {
		warning = &SchedulingWarning{BookingID: booking.ID, FireAt: fireAt}
		s.logger.Warn().
			Int64("booking_id", booking.ID).
			Time("fire_at", fireAt).
			Msg("reminder fires immediately")
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("notification_id", id).
		Time("fire_at", fireAt).
		Msg("reminder scheduled")
	return reminder, warning, nil
}

// ToggleForBooking is the store-backed toggle: it reads the current
// reminder for the booking, flips it, and records the outcome so at
// most one reminder stays live per booking id.
func (s *Scheduler) ToggleForBooking(ctx context.Context, booking *models.Booking) (*models.Reminder, *SchedulingWarning, error) {
	current, err := s.store.Get(ctx, booking.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load reminder for booking %d: %w", booking.ID, err)
	}

	reminder, warning, err := s.Toggle(ctx, booking, current)
	if err != nil {
		return nil, warning, err
	}

	if reminder == nil {
		if err := s.store.Delete(ctx, booking.ID); err != nil {
			return nil, warning, fmt.Errorf("forget reminder for booking %d: %w", booking.ID, err)
		}
		return nil, warning, nil
	}

	if err := s.store.Put(ctx, *reminder); err != nil {
		// The timer is live but untracked; disarm it rather than leak.
		s.notifier.Cancel(reminder.NotificationID)
		if s.metrics != nil {
			s.metrics.DecLive()
		}
		return nil, warning, fmt.Errorf("record reminder for booking %d: %w", booking.ID, err)
	}
	return reminder, warning, nil
}

// Cleanup cancels and forgets reminders whose booking has left
// "upcoming" or no longer exists. It is invoked by the surrounding app
// at refresh points; the scheduler never polls on its own. Cancel
// failures are logged and counted but never block.
func (s *Scheduler) Cleanup(ctx context.Context, bookings []models.Booking, now time.Time) error {
	live, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}

	upcoming := make(map[int64]bool, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		if b.IsUpcoming(now) && b.Status != models.BookingStatusCancelled {
			upcoming[b.ID] = true
		}
	}

	removed := 0
	for _, r := range live {
		if upcoming[r.BookingID] {
			continue
		}

		s.notifier.Cancel(r.NotificationID)
		if err := s.store.Delete(ctx, r.BookingID); err != nil {
			if s.metrics != nil {
				s.metrics.IncCleanupFailures()
			}
			s.logger.Warn().Err(err).
				Int64("booking_id", r.BookingID).
				Msg("failed to forget stale reminder")
			continue
		}
		removed++
	}

	if removed > 0 {
		if s.metrics != nil {
			s.metrics.IncCleanedUp(removed)
		}
		s.logger.Info().Int("removed", removed).Msg("stale reminders cleaned up")
	}

	if s.metrics != nil {
		s.metrics.SetLive(len(live) - removed)
	}
	return nil
}

// Reset discards all reminder bookkeeping without cancelling anything
// notifier-side. This is the logout path: pending state is dropped,
// scheduled OS notifications are left alone.
func (s *Scheduler) Reset(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("reset reminder store: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SetLive(0)
	}
	s.logger.Info().Msg("reminder bookkeeping discarded")
	return nil
}
