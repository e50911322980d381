package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGrid_MondayStartAndPadding(t *testing.T) {
	// March 2026 starts on a Sunday and ends on a Tuesday.
	anchor := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	g := MonthGrid(anchor, now)

	days := g.Days()
	require.NotEmpty(t, days)
	assert.Zero(t, len(days)%7, "cell count must be a multiple of 7")
	assert.Equal(t, time.Monday, g.First().Weekday())

	// Six faded cells before March 1, five after March 31.
	assert.Equal(t, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), g.First())
	assert.Equal(t, time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), g.Last())

	for _, d := range days {
		if d.Date.Month() == time.March {
			assert.False(t, d.Faded, "anchor month cell %s must not be faded", d.Key())
		} else {
			assert.True(t, d.Faded, "padding cell %s must be faded", d.Key())
		}
		assert.Equal(t, d.Key() == "2026-03-10", d.Today)
	}
}

func TestMonthGrid_NoPaddingNeeded(t *testing.T) {
	// June 2026: starts Monday, ends Tuesday; only trailing padding.
	anchor := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	g := MonthGrid(anchor, anchor)

	assert.Equal(t, anchor, g.First())
	assert.Equal(t, time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC), g.Last())
}

func TestWeekGrid_BusinessWeek(t *testing.T) {
	anchor := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC) // Wednesday

	g := WeekGrid(anchor, anchor, false)

	require.Len(t, g.Weeks, 1)
	require.Len(t, g.Weeks[0], 5)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), g.First())
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), g.Last())
	assert.True(t, g.Weeks[0][2].Today)
}

func TestWeekGrid_FullWeek(t *testing.T) {
	anchor := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	g := WeekGrid(anchor, anchor, true)

	require.Len(t, g.Weeks, 1)
	require.Len(t, g.Weeks[0], 7)
	assert.Equal(t, time.Sunday, g.Last().Weekday())
}
