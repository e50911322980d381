package calendar

import (
	"sort"
	"time"

	"github.com/xalt/visitcal/internal/domain"
)

// RowAssignment is the derived, ephemeral layout for one render pass:
// each event gets a display row such that no two events sharing a
// calendar day share a row. Recomputed whenever the event set or grid
// changes; never persisted.
type RowAssignment struct {
	Rows      map[string]int      // Event id -> assigned row index
	Spans     map[string][]DayKey // Event id -> full day span
	DayEvents map[DayKey][]string // Day -> event ids covering it, ordered by row
	maxRow    map[DayKey]int      // Day -> highest row index in use
}

// MaxRow returns the highest row index in use across the given days, or
// -1 when no event touches them. Callers size rendered cell heights
// from this: a week row needs MaxRow(week)+1 event rows.
func (ra RowAssignment) MaxRow(days []Day) int {
	max := -1
	for _, d := range days {
		if r, ok := ra.maxRow[d.Key()]; ok && r > max {
			max = r
		}
	}
	return max
}

// RowFor returns the assigned row for an event id and whether the event
// is part of this render pass at all.
func (ra RowAssignment) RowFor(id string) (int, bool) {
	r, ok := ra.Rows[id]
	return r, ok
}

// AssignRows packs events into display rows for the given grid using
// greedy interval coloring over day buckets:
//
//  1. Expand each event into its inclusive day span.
//  2. Sort by descending span length, then ascending start, so long
//     visits claim rows first and keep a stable placement as short
//     events come and go.
//  3. Give each event the smallest row that is free on every day of its
//     span, then mark those days occupied.
//
// Events whose span does not intersect the grid window are left out of
// the assignment entirely (they are simply not rendered this pass).
func AssignRows(events []domain.VisitEvent, grid Grid) RowAssignment {
	ra := RowAssignment{
		Rows:      make(map[string]int),
		Spans:     make(map[string][]DayKey),
		DayEvents: make(map[DayKey][]string),
		maxRow:    make(map[DayKey]int),
	}
	if len(grid.Weeks) == 0 {
		return ra
	}

	windowFirst := StartOfDay(grid.First())
	windowLast := StartOfDay(grid.Last())

	type spanned struct {
		event domain.VisitEvent
		span  []DayKey
	}

	visible := make([]spanned, 0, len(events))
	for _, ev := range events {
		if StartOfDay(ev.End).Before(windowFirst) || StartOfDay(ev.Start).After(windowLast) {
			continue
		}
		visible = append(visible, spanned{event: ev, span: Span(ev.Start, ev.End)})
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if len(visible[i].span) != len(visible[j].span) {
			return len(visible[i].span) > len(visible[j].span)
		}
		if !visible[i].event.Start.Equal(visible[j].event.Start) {
			return visible[i].event.Start.Before(visible[j].event.Start)
		}
		return visible[i].event.Key < visible[j].event.Key
	})

	occupied := make(map[DayKey]map[int]bool)

	for _, s := range visible {
		row := 0
	search:
		for {
			for _, day := range s.span {
				if occupied[day][row] {
					row++
					continue search
				}
			}
			break
		}

		id := s.event.ID
		ra.Rows[id] = row
		ra.Spans[id] = s.span
		for _, day := range s.span {
			if occupied[day] == nil {
				occupied[day] = make(map[int]bool)
			}
			occupied[day][row] = true
			ra.DayEvents[day] = append(ra.DayEvents[day], id)
			if cur, ok := ra.maxRow[day]; !ok || row > cur {
				ra.maxRow[day] = row
			}
		}
	}

	// Order per-day lists by row so renderers can walk them top to bottom.
	for day := range ra.DayEvents {
		ids := ra.DayEvents[day]
		sort.SliceStable(ids, func(i, j int) bool {
			return ra.Rows[ids[i]] < ra.Rows[ids[j]]
		})
	}

	return ra
}

// HourBuckets groups events by their starting hour of day. The week view
// packs each hour bucket independently, so two events at different hours
// never compete for the same rows.
func HourBuckets(events []domain.VisitEvent) map[int][]domain.VisitEvent {
	buckets := make(map[int][]domain.VisitEvent)
	for _, ev := range events {
		h := ev.Start.Hour()
		buckets[h] = append(buckets[h], ev)
	}
	return buckets
}

// VisibleWindow is a convenience used by the TUI to decide the query
// range for a view: it pads the anchor month out to full grid weeks so
// events on faded cells are fetched too.
func VisibleWindow(anchor, now time.Time, mode domain.ViewMode) (start, end time.Time) {
	switch mode {
	case domain.ViewMonth:
		g := MonthGrid(anchor, now)
		return g.First(), g.Last()
	case domain.ViewFullWeek:
		g := WeekGrid(anchor, now, true)
		return g.First(), g.Last()
	default:
		g := WeekGrid(anchor, now, false)
		return g.First(), g.Last()
	}
}
