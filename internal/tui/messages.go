// Package tui provides Bubble Tea models for the interactive TUI.
package tui

import (
	"github.com/xalt/visitcal/internal/domain"
	"github.com/xalt/visitcal/internal/ingest"
	"github.com/xalt/visitcal/internal/jira"
)

// ProjectSelectedMsg is emitted when the user selects a project.
type ProjectSelectedMsg struct {
	Project jira.Project
}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// eventsLoadedMsg carries a completed fetch back into the update loop.
// The generation token lets the store drop results that were superseded
// by a newer fetch.
type eventsLoadedMsg struct {
	generation uint64
	events     []domain.VisitEvent
	report     ingest.Report
}

// eventsErrorMsg reports a failed fetch.
type eventsErrorMsg struct {
	generation uint64
	err        error
}

// openDetailMsg asks the app to show an event's detail view.
type openDetailMsg struct{ event *domain.VisitEvent }

// closeDetailMsg returns from the detail view to the calendar.
type closeDetailMsg struct{}
