package ingest

import (
	"strings"
	"time"

	"github.com/xalt/visitcal/internal/calendar"
	"github.com/xalt/visitcal/internal/domain"
	"github.com/xalt/visitcal/internal/jira"
	"github.com/xalt/visitcal/internal/logging"
)

// defaultSummary labels issues whose summary field came back empty.
const defaultSummary = "Untitled Visit"

// longVisitKeywords mark visit types that usually span days. A summary
// or visit type containing one gets a two-day inferred duration instead
// of the one-hour default.
var longVisitKeywords = []string{
	"week",
	"day",
	"month",
	"installation",
	"project",
	"migration",
	"training",
	"deployment",
	"implementation",
}

const (
	longVisitDuration    = 48 * time.Hour
	defaultVisitDuration = time.Hour
)

// Report summarizes one ingestion pass.
type Report struct {
	Total   int // Raw issues seen
	Valid   int // Events produced
	Dropped int // Issues discarded for missing/unparseable start
}

// Issues converts raw Jira issues into calendar events using the
// configured field mapping. Issues without a parseable start time are
// dropped and counted; everything else degrades field by field, so one
// malformed value never loses the event.
func Issues(raw []jira.Issue, settings domain.Settings) ([]domain.VisitEvent, Report) {
	report := Report{Total: len(raw)}

	events := make([]domain.VisitEvent, 0, len(raw))
	var droppedKeys []string

	for _, issue := range raw {
		ev, ok := event(issue, settings)
		if !ok {
			report.Dropped++
			droppedKeys = append(droppedKeys, issue.Key)
			continue
		}
		events = append(events, ev)
	}
	report.Valid = len(events)

	if report.Dropped > 0 {
		kvs := []any{"dropped", report.Dropped, "total", report.Total}
		// Small drop counts name offenders so a misconfigured mapping
		// is easy to spot in the log.
		if report.Dropped <= 5 {
			n := len(droppedKeys)
			if n > 2 {
				n = 2
			}
			kvs = append(kvs, "sample", strings.Join(droppedKeys[:n], ", "))
		}
		logging.Warn("dropped visits without a parseable start time", kvs...)
	}

	return events, report
}

// event builds one calendar event, reporting false when the issue has
// no usable start time.
func event(issue jira.Issue, settings domain.Settings) (domain.VisitEvent, bool) {
	fields := issue.Fields
	mapping := settings.Fields

	start, ok := calendar.ParseTimestamp(NormalizeField(fields[mapping.StartField]))
	if !ok {
		return domain.VisitEvent{}, false
	}

	ev := domain.VisitEvent{
		ID:          issue.ID,
		Key:         issue.Key,
		Summary:     NormalizeField(fields["summary"]),
		Description: FlattenDescription(fields["description"]),
		Start:       start,
		Assignee:    NormalizeField(fields["assignee"]),
		Site:        NormalizeField(fields[mapping.Site]),
		VisitType:   NormalizeField(fields[mapping.VisitType]),
		VisitorName: NormalizeField(fields[mapping.VisitorName]),
	}
	if ev.Summary == "" {
		ev.Summary = defaultSummary
	}

	ev.Status, ev.Category = resolveStatus(fields["status"])

	// An explicit end only counts when it parses and does not precede
	// the start; otherwise the duration heuristic takes over.
	if end, ok := calendar.ParseTimestamp(NormalizeField(fields[mapping.EndField])); ok && !end.Before(start) {
		ev.End = end
	} else {
		ev.End = start.Add(inferDuration(ev.Summary, ev.VisitType))
		ev.EndInferred = true
	}

	for _, f := range mapping.AdditionalFields {
		ev.CustomFields = append(ev.CustomFields, domain.CustomFieldValue{
			ID:    f.ID,
			Label: f.Label,
			Value: NormalizeField(fields[f.JiraFieldID]),
		})
	}

	return ev, true
}

// resolveStatus extracts the status name and category, defaulting to an
// open/new presentation when the field is absent or malformed.
func resolveStatus(raw any) (string, domain.StatusCategory) {
	name := "Open"
	category := domain.CategoryNew

	obj, ok := raw.(map[string]any)
	if !ok {
		return name, category
	}
	if s, ok := obj["name"].(string); ok && s != "" {
		name = s
	}
	if cat, ok := obj["statusCategory"].(map[string]any); ok {
		if key, ok := cat["key"].(string); ok && key != "" {
			category = domain.ParseStatusCategory(key)
		}
	}
	return name, category
}

// inferDuration guesses how long a visit without an end time lasts by
// scanning the summary and visit type for long-visit keywords.
func inferDuration(summary, visitType string) time.Duration {
	haystack := strings.ToLower(summary + " " + visitType)
	for _, kw := range longVisitKeywords {
		if strings.Contains(haystack, kw) {
			return longVisitDuration
		}
	}
	return defaultVisitDuration
}
