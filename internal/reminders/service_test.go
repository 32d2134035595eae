package reminders

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/np-mndp/book-my-seat/internal/models"
)

type fakeSource struct {
	bookings []models.Booking
	err      error
	calls    atomic.Int64
}

func (f *fakeSource) FetchBookings(ctx context.Context) ([]models.Booking, error) {
	f.calls.Add(1)
	return f.bookings, f.err
}

func TestRefreshService_RefreshNow(t *testing.T) {
	ctx := context.Background()
	n := newMockNotifier()
	store := NewMemoryStore()
	sched := newTestScheduler(n, store)

	future := *upcomingBooking(1)
	past := *upcomingBooking(2)
	past.LoadIn = time.Now().Add(-2 * time.Hour)

	// A reminder on the past booking must be cleaned up by the refresh.
	_, _, err := sched.ToggleForBooking(ctx, &past)
	require.NoError(t, err)

	src := &fakeSource{bookings: []models.Booking{future, past}}
	svc := NewRefreshService(src, sched, time.Minute, zerolog.Nop())

	p := svc.RefreshNow(ctx)
	require.NotNil(t, p)
	assert.Len(t, p.Upcoming, 1)
	assert.Len(t, p.Past, 1)

	remaining, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestRefreshService_FetchFailureIsNonFatal(t *testing.T) {
	n := newMockNotifier()
	sched := newTestScheduler(n, NewMemoryStore())
	src := &fakeSource{err: errors.New("backend down")}
	svc := NewRefreshService(src, sched, time.Minute, zerolog.Nop())

	assert.Nil(t, svc.RefreshNow(context.Background()))
}

func TestRefreshService_StartStop(t *testing.T) {
	n := newMockNotifier()
	sched := newTestScheduler(n, NewMemoryStore())
	src := &fakeSource{}
	svc := NewRefreshService(src, sched, time.Hour, zerolog.Nop())

	svc.Start(context.Background())
	// Startup triggers an immediate refresh.
	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	svc.Stop()

	// Stop is idempotent.
	svc.Stop()
}

func TestRefreshService_Restart(t *testing.T) {
	n := newMockNotifier()
	sched := newTestScheduler(n, NewMemoryStore())
	src := &fakeSource{}
	svc := NewRefreshService(src, sched, time.Hour, zerolog.Nop())

	ctx := context.Background()

	svc.Start(ctx)
	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	svc.Stop()

	// A stopped service comes back up and refreshes again.
	svc.Start(ctx)
	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	svc.Stop()
}
