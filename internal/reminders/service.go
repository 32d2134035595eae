package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/np-mndp/book-my-seat/internal/booking"
	"github.com/np-mndp/book-my-seat/internal/models"
)

// BookingSource fetches the user's bookings, both sides of the
// backend's partition merged into one list.
type BookingSource interface {
	FetchBookings(ctx context.Context) ([]models.Booking, error)
}

// RefreshService is the app-lifecycle driver: on an interval it
// re-fetches bookings, re-derives the upcoming/past partition against
// the device clock and runs reminder cleanup. It is the only loop in
// the system; the scheduler itself never polls.
type RefreshService struct {
	source    BookingSource
	scheduler *Scheduler
	interval  time.Duration
	logger    zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewRefreshService wires the refresh loop. An interval <= 0 falls
// back to 15 minutes.
func NewRefreshService(source BookingSource, scheduler *Scheduler, interval time.Duration, logger zerolog.Logger) *RefreshService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &RefreshService{
		source:    source,
		scheduler: scheduler,
		interval:  interval,
		logger:    logger,
	}
}

// Start begins the refresh loop. Calling Start on a running service is
// a no-op; a stopped service may be started again.
func (s *RefreshService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx, stopCh)

	s.logger.Info().Dur("interval", s.interval).Msg("refresh service started")
}

// Stop terminates the loop and waits for the in-progress refresh.
func (s *RefreshService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info().Msg("refresh service stopped")
}

func (s *RefreshService) loop(ctx context.Context, stopCh <-chan struct{}) {
	defer s.wg.Done()

	// Run once at startup; the first refresh is also a cleanup point.
	s.RefreshNow(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.RefreshNow(ctx)
		}
	}
}

// RefreshNow performs a single refresh pass and returns the partition
// it derived. Pull-to-refresh calls this directly.
func (s *RefreshService) RefreshNow(ctx context.Context) *booking.Partitioned {
	bookings, err := s.source.FetchBookings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("booking refresh failed")
		return nil
	}

	now := time.Now()
	p := booking.Partition(bookings, now)

	if err := s.scheduler.Cleanup(ctx, bookings, now); err != nil {
		s.logger.Error().Err(err).Msg("reminder cleanup failed")
	}

	s.logger.Debug().
		Int("upcoming", len(p.Upcoming)).
		Int("past", len(p.Past)).
		Msg("bookings refreshed")
	return &p
}
