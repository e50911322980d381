package jira

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xalt/visitcal/internal/domain"
)

// Issue is one work item as returned by the search API. Fields is kept
// as a raw map because the interesting values live under configurable
// custom field ids; the ingest layer normalizes them.
type Issue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

type searchRequest struct {
	JQL        string   `json:"jql"`
	Fields     []string `json:"fields"`
	MaxResults int      `json:"maxResults"`
}

type searchResponse struct {
	Issues []Issue `json:"issues"`
}

// Search runs a JQL query and returns the matching issues with the
// requested fields populated. The call is retried under the client's
// backoff policy; failures carry the FETCH_VISITS_ERROR code.
func (c *Client) Search(ctx context.Context, jql string, fields []string, maxResults int) ([]Issue, error) {
	body := searchRequest{JQL: jql, Fields: fields, MaxResults: maxResults}

	var resp searchResponse
	err := c.withRetry(ctx, func() error {
		resp = searchResponse{}
		return c.doJSON(ctx, "POST", "/rest/api/3/search/jql", body, CodeFetchVisits, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Issues, nil
}

// quoteJQL wraps a value for use in a JQL clause, escaping embedded
// quotes and backslashes.
func quoteJQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// workItemClause renders one configured work item type as a JQL
// condition, scoped to its project when one is set.
func workItemClause(item domain.WorkItemType) string {
	var typeCond string
	switch item.Kind {
	case domain.WorkItemIssueType:
		typeCond = fmt.Sprintf("issuetype = %s", quoteJQL(item.Name))
	default:
		typeCond = fmt.Sprintf(`"Request Type" = %s`, quoteJQL(item.Name))
	}

	if item.ProjectKey == "" {
		return typeCond
	}
	return fmt.Sprintf("(project = %s AND %s)", quoteJQL(item.ProjectKey), typeCond)
}

// BuildJQL assembles the visit query from the user's settings and a
// date window on the configured start field. Multiple work item types
// are OR-ed together; an empty configuration scans every issue in the
// window. Results are ordered newest-created first so truncated key
// pages keep the most recent visits.
func BuildJQL(settings domain.Settings, start, end time.Time) string {
	var clauses []string

	items := settings.EffectiveWorkItems()
	if len(items) > 0 {
		conds := make([]string, 0, len(items))
		for _, item := range items {
			conds = append(conds, workItemClause(item))
		}
		clauses = append(clauses, "("+strings.Join(conds, " OR ")+")")
	}

	startField := quoteJQL(settings.Fields.StartField)
	clauses = append(clauses,
		fmt.Sprintf("%s >= %s", startField, quoteJQL(start.Format("2006-01-02"))),
		fmt.Sprintf("%s <= %s", startField, quoteJQL(end.Format("2006-01-02"))),
	)

	return strings.Join(clauses, " AND ") + " ORDER BY created DESC"
}
