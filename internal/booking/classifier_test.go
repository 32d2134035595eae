package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/np-mndp/book-my-seat/internal/models"
)

func at(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 19, 0, 0, 0, time.UTC)
}

func TestPartition(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("splits around now", func(t *testing.T) {
		bookings := []models.Booking{
			{ID: 1, LoadIn: time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)},
			{ID: 2, LoadIn: time.Date(2024, 7, 1, 19, 0, 0, 0, time.UTC)},
		}

		p := Partition(bookings, now)
		require.Len(t, p.Past, 1)
		require.Len(t, p.Upcoming, 1)
		assert.Equal(t, int64(1), p.Past[0].ID)
		assert.Equal(t, int64(2), p.Upcoming[0].ID)
	})

	t.Run("boundary counts as upcoming", func(t *testing.T) {
		p := Partition([]models.Booking{{ID: 5, LoadIn: now}}, now)
		assert.Len(t, p.Upcoming, 1)
		assert.Empty(t, p.Past)
	})

	t.Run("is a true stable partition", func(t *testing.T) {
		bookings := []models.Booking{
			{ID: 3, LoadIn: now.Add(48 * time.Hour)},
			{ID: 1, LoadIn: now.Add(-time.Hour)},
			{ID: 4, LoadIn: now.Add(time.Hour)},
			{ID: 2, LoadIn: now.Add(-48 * time.Hour)},
		}

		p := Partition(bookings, now)
		assert.Equal(t, len(bookings), len(p.Upcoming)+len(p.Past))

		// Relative input order preserved on both sides.
		assert.Equal(t, int64(3), p.Upcoming[0].ID)
		assert.Equal(t, int64(4), p.Upcoming[1].ID)
		assert.Equal(t, int64(1), p.Past[0].ID)
		assert.Equal(t, int64(2), p.Past[1].ID)

		for _, b := range p.Upcoming {
			assert.True(t, b.IsUpcoming(now))
		}
		for _, b := range p.Past {
			assert.False(t, b.IsUpcoming(now))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		p := Partition(nil, now)
		assert.Empty(t, p.Upcoming)
		assert.Empty(t, p.Past)
	})
}

func TestSortByLoadIn(t *testing.T) {
	bookings := []models.Booking{
		{ID: 1, LoadIn: at(2026, 9, 20)},
		{ID: 2, LoadIn: at(2026, 9, 5)},
		{ID: 3, LoadIn: at(2026, 9, 12)},
	}

	t.Run("ascending", func(t *testing.T) {
		sorted := SortAscendingByLoadIn(bookings)
		assert.Equal(t, []int64{2, 3, 1}, ids(sorted))
	})

	t.Run("descending", func(t *testing.T) {
		sorted := SortDescendingByLoadIn(bookings)
		assert.Equal(t, []int64{1, 3, 2}, ids(sorted))
	})

	t.Run("input untouched", func(t *testing.T) {
		_ = SortAscendingByLoadIn(bookings)
		_ = SortDescendingByLoadIn(bookings)
		assert.Equal(t, []int64{1, 2, 3}, ids(bookings))
	})
}

func ids(bookings []models.Booking) []int64 {
	out := make([]int64, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

func TestSummarize(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		s := Summarize(nil)
		assert.Nil(t, s.FirstTime)
		assert.Nil(t, s.LastTime)
		assert.Zero(t, s.TotalGuests)
	})

	t.Run("single booking", func(t *testing.T) {
		when := at(2026, 9, 12)
		s := Summarize([]models.Booking{{LoadIn: when, Guests: 4}})
		require.NotNil(t, s.FirstTime)
		require.NotNil(t, s.LastTime)
		assert.Equal(t, when, *s.FirstTime)
		assert.Equal(t, when, *s.LastTime)
		assert.Equal(t, 4, s.TotalGuests)
	})

	t.Run("multiple bookings", func(t *testing.T) {
		s := Summarize([]models.Booking{
			{LoadIn: at(2026, 9, 12), Guests: 2},
			{LoadIn: at(2026, 9, 5), Guests: 3},
			{LoadIn: at(2026, 9, 20), Guests: 5},
		})
		require.NotNil(t, s.FirstTime)
		assert.Equal(t, at(2026, 9, 5), *s.FirstTime)
		assert.Equal(t, at(2026, 9, 20), *s.LastTime)
		assert.Equal(t, 10, s.TotalGuests)
	})
}
