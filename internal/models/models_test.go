package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_IsUpcoming(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		loadIn   time.Time
		expected bool
	}{
		{name: "future load-in is upcoming", loadIn: now.Add(time.Hour), expected: true},
		{name: "past load-in is not upcoming", loadIn: now.Add(-time.Hour), expected: false},
		{name: "load-in exactly now counts as upcoming", loadIn: now, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Booking{LoadIn: tt.loadIn}
			assert.Equal(t, tt.expected, b.IsUpcoming(now))
		})
	}
}

func TestSession_HasToken(t *testing.T) {
	assert.False(t, (*Session)(nil).HasToken())
	assert.False(t, (&Session{}).HasToken())
	assert.True(t, (&Session{AuthToken: "t"}).HasToken())
}
