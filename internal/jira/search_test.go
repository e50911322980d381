package jira

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xalt/visitcal/internal/domain"
)

func window() (time.Time, time.Time) {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
}

func TestBuildJQL_ProjectScopedRequestTypes(t *testing.T) {
	s := domain.DefaultSettings()
	s.WorkItemTypes = []domain.WorkItemType{
		{Name: "Visit", ProjectKey: "VIS", Kind: domain.WorkItemRequestType},
		{Name: "Audit", ProjectKey: "OPS", Kind: domain.WorkItemIssueType},
	}

	start, end := window()
	jql := BuildJQL(s, start, end)

	assert.Contains(t, jql, `(project = "VIS" AND "Request Type" = "Visit")`)
	assert.Contains(t, jql, `(project = "OPS" AND issuetype = "Audit")`)
	assert.Contains(t, jql, ` OR `)
	assert.Contains(t, jql, `"customfield_10061" >= "2026-03-01"`)
	assert.Contains(t, jql, `"customfield_10061" <= "2026-03-31"`)
	assert.Contains(t, jql, "ORDER BY created DESC")
}

func TestBuildJQL_LegacyFallback(t *testing.T) {
	s := domain.DefaultSettings()
	s.ProjectKey = "VIS"
	// DefaultSettings carries RequestTypes = ["Visit"] with no explicit
	// project scoping; the legacy project key binds them.
	jql := BuildJQL(s, time.Now(), time.Now())

	assert.Contains(t, jql, `(project = "VIS" AND "Request Type" = "Visit")`)
}

func TestBuildJQL_NoSelectionScansWindowOnly(t *testing.T) {
	s := domain.Settings{Fields: domain.FieldMapping{StartField: "customfield_10061"}}

	start, end := window()
	jql := BuildJQL(s, start, end)

	assert.NotContains(t, jql, "project")
	assert.NotContains(t, jql, "Request Type")
	assert.Contains(t, jql, `"customfield_10061" >= "2026-03-01"`)
}

func TestBuildJQL_EscapesQuotes(t *testing.T) {
	s := domain.Settings{
		WorkItemTypes: []domain.WorkItemType{
			{Name: `Visit "VIP"`, ProjectKey: "VIS", Kind: domain.WorkItemRequestType},
		},
		Fields: domain.FieldMapping{StartField: "customfield_10061"},
	}

	jql := BuildJQL(s, time.Now(), time.Now())

	assert.Contains(t, jql, `"Visit \"VIP\""`)
}
