// Package domain defines the normalized domain types for the visit calendar.
// These types represent the core concepts independent of the Jira REST API structure.
package domain

import "time"

// WireTime is the timestamp layout used on the resolver wire:
// ISO 8601 with millisecond precision and a UTC marker.
const WireTime = "2006-01-02T15:04:05.000Z"

// StatusCategory is the closed set of Jira status categories used for color-coding.
type StatusCategory string

const (
	CategoryNew           StatusCategory = "new"
	CategoryIndeterminate StatusCategory = "indeterminate"
	CategoryDone          StatusCategory = "done"
	CategoryUndefined     StatusCategory = "undefined"
)

// ParseStatusCategory maps a raw category key to the closed set,
// falling back to CategoryUndefined for anything unrecognized.
func ParseStatusCategory(key string) StatusCategory {
	switch StatusCategory(key) {
	case CategoryNew, CategoryIndeterminate, CategoryDone:
		return StatusCategory(key)
	default:
		return CategoryUndefined
	}
}

// CustomFieldValue is one resolved additional field on an event.
// Values are kept as an ordered slice so the configured display order survives.
type CustomFieldValue struct {
	ID    string `json:"id"`    // Locally-defined field id from settings
	Label string `json:"label"` // Display label configured by the admin
	Value string `json:"value"` // Normalized field value
}

// VisitEvent is the canonical calendar event produced by ingestion.
// Every constructed event has a valid Start and End >= Start.
type VisitEvent struct {
	ID          string         // Jira issue id
	Key         string         // Human-readable issue key (e.g. "HR-123")
	Summary     string         // Issue summary, never empty
	Description string         // Flattened plain-text description
	Status      string         // Status display name
	Category    StatusCategory // Status category for color-coding
	Start       time.Time      // Mandatory start time (UTC)
	End         time.Time      // Explicit or inferred end time (UTC)
	EndInferred bool           // True when End was fabricated by the duration heuristic
	Assignee    string         // Assignee display name, empty when unassigned
	Site        string         // Mapped site field
	VisitType   string         // Mapped visit type field
	VisitorName string         // Mapped visitor name field

	CustomFields []CustomFieldValue // Admin-configured additional fields, in order
}

// MultiDay reports whether the event crosses a calendar-day boundary.
// Classification is done at midnight granularity, so a two-hour event
// from 23:00 to 01:00 is multi-day.
func (e VisitEvent) MultiDay() bool {
	return truncateDay(e.End).After(truncateDay(e.Start))
}

// Duration returns the event duration.
func (e VisitEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ViewMode selects which calendar layout is rendered.
type ViewMode string

const (
	ViewMonth    ViewMode = "month"
	ViewWeek     ViewMode = "week"     // Monday-Friday business week
	ViewFullWeek ViewMode = "fullweek" // Monday-Sunday
)
