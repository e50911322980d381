// Package store provides the in-memory state layer for visit calendar data.
// It handles event storage, day indexing, and fetch-generation bookkeeping
// following the "deep modules" principle - simple interface hiding the
// indexing and staleness logic.
package store

import (
	"errors"
	"sort"
	"time"

	"github.com/xalt/visitcal/internal/calendar"
	"github.com/xalt/visitcal/internal/domain"
	"github.com/xalt/visitcal/internal/logging"
)

// ErrEventNotFound indicates the requested event does not exist.
var ErrEventNotFound = errors.New("event not found")

// Store manages the in-memory visit event state.
// It owns the current settings, the event set from the most recent
// completed fetch, and the day index derived from it.
type Store struct {
	settings domain.Settings

	// Event storage
	events map[string]*domain.VisitEvent // Event ID -> event

	// Day index: day key -> []event ID, sorted by start time.
	// Rebuilt whenever the event set is replaced.
	days map[calendar.DayKey][]string

	// Fetch generation bookkeeping. Each fetch takes a token from
	// NextGeneration; only the latest token may publish results, so a
	// slow stale response never overwrites a newer one.
	issued    uint64
	published uint64

	// Counts from the last published ingestion pass
	dropped int
}

// New creates a new empty Store with default settings.
func New() *Store {
	return &Store{
		settings: domain.DefaultSettings(),
		events:   make(map[string]*domain.VisitEvent),
		days:     make(map[calendar.DayKey][]string),
	}
}

// SetSettings replaces the active settings wholesale.
func (s *Store) SetSettings(settings domain.Settings) {
	settings.Normalize()
	s.settings = settings
}

// Settings returns the active settings.
func (s *Store) Settings() domain.Settings {
	return s.settings
}

// NextGeneration issues a fetch token. The caller passes it back to
// ReplaceEvents when the fetch completes.
func (s *Store) NextGeneration() uint64 {
	s.issued++
	return s.issued
}

// ReplaceEvents publishes a completed fetch. Results from a superseded
// generation are dropped (last requested wins) and the method reports
// whether the store changed.
func (s *Store) ReplaceEvents(generation uint64, events []domain.VisitEvent, dropped int) bool {
	if generation != s.issued {
		logging.Debug("dropping stale fetch result",
			"generation", generation,
			"current", s.issued,
		)
		return false
	}

	s.events = make(map[string]*domain.VisitEvent, len(events))
	for i := range events {
		ev := events[i]
		s.events[ev.ID] = &ev
	}
	s.published = generation
	s.dropped = dropped
	s.rebuildDays()
	return true
}

// Generation returns the most recently published generation.
func (s *Store) Generation() uint64 {
	return s.published
}

// DroppedCount returns how many issues the last published fetch
// discarded for missing start times.
func (s *Store) DroppedCount() int {
	return s.dropped
}

// GetEvent retrieves an event by ID, returning ErrEventNotFound if absent.
func (s *Store) GetEvent(id string) (*domain.VisitEvent, error) {
	ev, exists := s.events[id]
	if !exists {
		return nil, ErrEventNotFound
	}
	return ev, nil
}

// AllEvents returns every stored event, sorted by start time then key
// so iteration order is stable across calls.
func (s *Store) AllEvents() []domain.VisitEvent {
	events := make([]domain.VisitEvent, 0, len(s.events))
	for _, ev := range s.events {
		events = append(events, *ev)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Key < events[j].Key
	})
	return events
}

// EventsInRange returns events whose day span intersects [start, end].
func (s *Store) EventsInRange(start, end time.Time) []domain.VisitEvent {
	first := calendar.StartOfDay(start)
	last := calendar.StartOfDay(end)

	var events []domain.VisitEvent
	for _, ev := range s.AllEvents() {
		if calendar.StartOfDay(ev.End).Before(first) || calendar.StartOfDay(ev.Start).After(last) {
			continue
		}
		events = append(events, ev)
	}
	return events
}

// DayEventIDs returns the event IDs covering one day, sorted by start.
func (s *Store) DayEventIDs(key calendar.DayKey) []string {
	ids, exists := s.days[key]
	if !exists {
		return []string{}
	}
	result := make([]string, len(ids))
	copy(result, ids)
	return result
}

// Clear drops all events, preserving settings and generation state.
func (s *Store) Clear() {
	s.events = make(map[string]*domain.VisitEvent)
	s.days = make(map[calendar.DayKey][]string)
	s.dropped = 0
}

// Reset completely resets the store to initial state.
func (s *Store) Reset() {
	s.settings = domain.DefaultSettings()
	s.issued = 0
	s.published = 0
	s.Clear()
}

// rebuildDays reconstructs the day index from the current event set.
func (s *Store) rebuildDays() {
	s.days = make(map[calendar.DayKey][]string)

	for id, ev := range s.events {
		for _, key := range calendar.Span(ev.Start, ev.End) {
			s.days[key] = append(s.days[key], id)
		}
	}

	for key := range s.days {
		ids := s.days[key]
		sort.Slice(ids, func(i, j int) bool {
			a, b := s.events[ids[i]], s.events[ids[j]]
			if !a.Start.Equal(b.Start) {
				return a.Start.Before(b.Start)
			}
			return a.Key < b.Key
		})
	}
}
