package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/np-mndp/book-my-seat/internal/models"
)

func TestWriteBookings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")

	bookings := []models.Booking{
		{
			ID:                41,
			Restaurant:        models.RestaurantSummary{Title: "Cafe Boulud", Address: "60 Yorkville Ave"},
			Guests:            2,
			LoadIn:            time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
			LoadOut:           time.Date(2026, 9, 12, 21, 0, 0, 0, time.UTC),
			Status:            models.BookingStatusConfirmed,
			IsSpecialOccasion: true,
			EventSpecial:      "anniversary",
		},
		{
			ID:         42,
			Restaurant: models.RestaurantSummary{Title: "Sushi Kaji", Address: "860 The Queensway"},
			Guests:     4,
			LoadIn:     time.Date(2026, 9, 20, 18, 30, 0, 0, time.UTC),
			LoadOut:    time.Date(2026, 9, 20, 20, 30, 0, 0, time.UTC),
			Status:     models.BookingStatusPending,
		},
	}

	require.NoError(t, WriteBookings(path, bookings))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)

	assert.Equal(t, "Booking ID", rows[0][0])
	assert.Equal(t, "41", rows[1][0])
	assert.Equal(t, "Cafe Boulud", rows[1][1])
	assert.Equal(t, "anniversary", rows[1][7])
	assert.Equal(t, "Sushi Kaji", rows[2][1])
}

func TestWriteBookings_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteBookings(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Restaurant", rows[0][1])
}
