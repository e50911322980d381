package calendar

import "time"

// Day is a single calendar cell.
type Day struct {
	Date  time.Time
	Faded bool // Belongs to an adjacent month (month view padding)
	Today bool
}

// Key returns the cell's day key.
func (d Day) Key() DayKey {
	return KeyFor(d.Date)
}

// Week is one 7-day row of the month grid.
type Week []Day

// Grid is the cell matrix for one rendered period. For the month view
// Weeks holds full Monday-to-Sunday rows; for the week views it holds a
// single row of 5 or 7 days. Grids are immutable: navigation rebuilds
// them rather than mutating in place.
type Grid struct {
	Weeks []Week
}

// First returns the date of the top-left cell.
func (g Grid) First() time.Time {
	return g.Weeks[0][0].Date
}

// Last returns the date of the bottom-right cell.
func (g Grid) Last() time.Time {
	lastWeek := g.Weeks[len(g.Weeks)-1]
	return lastWeek[len(lastWeek)-1].Date
}

// Days iterates all cells in row-major order.
func (g Grid) Days() []Day {
	var days []Day
	for _, w := range g.Weeks {
		days = append(days, w...)
	}
	return days
}

// MonthGrid builds the month matrix for the anchor's month. Weeks start
// on Monday; cells from the previous and next months pad the first and
// last rows and are marked faded. The total cell count is always a
// multiple of 7 and the anchor month itself is fully represented.
func MonthGrid(anchor, now time.Time) Grid {
	year, month := anchor.Year(), anchor.Month()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, anchor.Location())
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()

	today := KeyFor(now)
	var cells []Day

	// Leading days from the previous month so the grid opens on a Monday.
	lead := (int(firstOfMonth.Weekday()) + 6) % 7
	for i := lead; i > 0; i-- {
		date := firstOfMonth.AddDate(0, 0, -i)
		cells = append(cells, Day{Date: date, Faded: true, Today: KeyFor(date) == today})
	}

	for i := 0; i < daysInMonth; i++ {
		date := firstOfMonth.AddDate(0, 0, i)
		cells = append(cells, Day{Date: date, Today: KeyFor(date) == today})
	}

	// Trailing days from the next month to complete the final row.
	for len(cells)%7 != 0 {
		date := cells[len(cells)-1].Date.AddDate(0, 0, 1)
		cells = append(cells, Day{Date: date, Faded: true, Today: KeyFor(date) == today})
	}

	weeks := make([]Week, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, Week(cells[i:i+7]))
	}
	return Grid{Weeks: weeks}
}

// WeekGrid builds a single-row grid for the week containing the anchor:
// Monday through Friday for the business-week view, Monday through
// Sunday for the full-week view.
func WeekGrid(anchor, now time.Time, full bool) Grid {
	monday := StartOfWeek(anchor)
	today := KeyFor(now)

	days := 5
	if full {
		days = 7
	}

	week := make(Week, 0, days)
	for i := 0; i < days; i++ {
		date := monday.AddDate(0, 0, i)
		week = append(week, Day{Date: date, Today: KeyFor(date) == today})
	}
	return Grid{Weeks: []Week{week}}
}
