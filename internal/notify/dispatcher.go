// Package notify is the local notification collaborator: it schedules
// payloads for delivery at absolute times and cancels them by id.
// Delivery is fire-and-forget; there is no confirmation contract.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrDispatcherClosed is returned by ScheduleAt after Close.
var ErrDispatcherClosed = errors.New("notification dispatcher closed")

// Payload is the content of a scheduled notification.
type Payload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	BookingID int64  `json:"bookingId,omitempty"`
}

// Sender delivers a payload over a concrete channel.
type Sender interface {
	Send(ctx context.Context, payload Payload) error
}

// Dispatcher arms one timer per scheduled notification and delivers
// through the configured sender, rate-limited. A fire time in the past
// delivers immediately rather than being dropped.
type Dispatcher struct {
	sender  Sender
	limiter *rate.Limiter
	logger  zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool

	wg sync.WaitGroup
}

// NewDispatcher wires a dispatcher over sender. sendsPerSecond <= 0
// disables rate limiting.
func NewDispatcher(sender Sender, sendsPerSecond float64, logger zerolog.Logger) *Dispatcher {
	var limiter *rate.Limiter
	if sendsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(sendsPerSecond), 1)
	}
	return &Dispatcher{
		sender:  sender,
		limiter: limiter,
		logger:  logger,
		timers:  make(map[string]*time.Timer),
	}
}

// ScheduleAt arms a notification for fireAt and returns its id.
func (d *Dispatcher) ScheduleAt(fireAt time.Time, payload Payload) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return "", ErrDispatcherClosed
	}

	id := uuid.NewString()
	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	d.timers[id] = time.AfterFunc(delay, func() {
		d.fire(id, payload)
	})

	d.logger.Debug().
		Str("notification_id", id).
		Time("fire_at", fireAt).
		Msg("notification scheduled")
	return id, nil
}

// Cancel disarms a scheduled notification. Cancelling an unknown or
// already-fired id is a no-op.
func (d *Dispatcher) Cancel(id string) {
	d.mu.Lock()
	timer, ok := d.timers[id]
	if ok {
		delete(d.timers, id)
	}
	d.mu.Unlock()

	if ok {
		timer.Stop()
	}
}

// Pending returns the number of armed notifications.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Close disarms all timers and waits for in-progress sends.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	for id, timer := range d.timers {
		timer.Stop()
		delete(d.timers, id)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) fire(id string, payload Payload) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	delete(d.timers, id)
	d.wg.Add(1)
	d.mu.Unlock()
	defer d.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Error().Err(err).Str("notification_id", id).Msg("rate limiter wait failed")
			return
		}
	}

	if err := d.sender.Send(ctx, payload); err != nil {
		// Send failures do not invalidate the booking; log and move on.
		d.logger.Error().Err(err).
			Str("notification_id", id).
			Int64("booking_id", payload.BookingID).
			Msg("notification send failed")
		return
	}

	d.logger.Info().
		Str("notification_id", id).
		Int64("booking_id", payload.BookingID).
		Msg("notification delivered")
}
