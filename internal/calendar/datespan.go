// Package calendar provides pure date math for the visit calendar:
// week/month boundaries, day spans, the week/month cell grids, and the
// overlap-aware row packing used by both views.
package calendar

import (
	"time"
)

// DayKey identifies a calendar day ("2006-01-02"). Events and grid cells
// must derive keys through KeyFor so span lookups always line up.
type DayKey string

const dayKeyLayout = "2006-01-02"

// KeyFor returns the DayKey for a timestamp.
func KeyFor(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyLayout))
}

// StartOfDay truncates a timestamp to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday at midnight of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return KeyFor(a) == KeyFor(b)
}

// Span expands an inclusive [start, end] range into the ordered list of
// day keys it covers, at day granularity. End before start yields just
// the start day.
func Span(start, end time.Time) []DayKey {
	first := StartOfDay(start)
	last := StartOfDay(end)
	if last.Before(first) {
		last = first
	}

	var keys []DayKey
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		keys = append(keys, KeyFor(d))
	}
	return keys
}

// ParseTimestamp parses an external date or datetime value. Jira custom
// fields come in several shapes: full RFC 3339 with offset, the wire
// format with milliseconds, or a bare date for date-only pickers.
// Returns the zero time and false when nothing matches.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05.999Z",
		dayKeyLayout,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// DefaultRange returns the fallback query window used when no anchor is
// known: the last 365 days up to today.
func DefaultRange(now time.Time) (start, end time.Time) {
	end = StartOfDay(now)
	start = end.AddDate(0, 0, -365)
	return start, end
}
