package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		dr, err := NewDateRange(day(2), day(4), testNow)
		require.NoError(t, err)
		assert.Equal(t, 2, dr.Nights())
		assert.Equal(t, day(2), dr.CheckIn())
		assert.Equal(t, day(4), dr.CheckOut())
	})

	t.Run("Check-in tomorrow is allowed", func(t *testing.T) {
		_, err := NewDateRange(day(1), day(2), testNow)
		assert.NoError(t, err)
	})

	t.Run("Check-out not after check-in", func(t *testing.T) {
		_, err := NewDateRange(day(3), day(3), testNow)
		assert.ErrorIs(t, err, ErrCheckInAfterCheckOut)

		_, err = NewDateRange(day(4), day(3), testNow)
		assert.ErrorIs(t, err, ErrCheckInAfterCheckOut)
	})

	t.Run("Less than 24 hours ahead", func(t *testing.T) {
		_, err := NewDateRange(day(0), day(2), testNow)
		assert.ErrorIs(t, err, ErrLeadTime)
	})

	t.Run("Thirty nights is the maximum", func(t *testing.T) {
		_, err := NewDateRange(day(1), day(31), testNow)
		assert.NoError(t, err)

		_, err = NewDateRange(day(1), day(32), testNow)
		assert.ErrorIs(t, err, ErrMaxStay)
	})

	t.Run("Clock part is ignored", func(t *testing.T) {
		dr, err := NewDateRange(day(2).Add(15*time.Hour), day(3).Add(time.Hour), testNow)
		require.NoError(t, err)
		assert.Equal(t, 1, dr.Nights())
	})
}

func TestRestoreDateRange(t *testing.T) {
	dr, err := RestoreDateRange(day(-10), day(-8))
	require.NoError(t, err)
	assert.Equal(t, 2, dr.Nights())

	_, err = RestoreDateRange(day(-8), day(-10))
	assert.ErrorIs(t, err, ErrCheckInAfterCheckOut)
}

func TestDateRange_OverlapsWith(t *testing.T) {
	base, _ := NewDateRange(day(2), day(4), testNow)

	tests := []struct {
		name     string
		in, out  int
		overlaps bool
	}{
		{"Shifted by one day", 3, 5, true},
		{"Touching end", 4, 6, false},
		{"Touching start", 1, 2, false},
		{"Contained", 2, 3, true},
		{"Containing", 1, 10, true},
		{"Disjoint", 10, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := NewDateRange(day(tt.in), day(tt.out), testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.overlaps, base.OverlapsWith(other))
			assert.Equal(t, tt.overlaps, other.OverlapsWith(base))
		})
	}
}
