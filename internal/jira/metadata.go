package jira

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Project is a minimal project descriptor for the settings pickers.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Field describes one Jira field definition.
type Field struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Status is one workflow status with its category key
// ("new", "indeterminate" or "done").
type Status struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// IssueType describes one issue type available in a project.
type IssueType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pagination safety caps for the project listing. Sites with more
// projects than this get a truncated picker rather than an unbounded
// crawl.
const (
	projectPageSize = 50
	maxProjectPages = 20
)

// SearchProjects lists the site's projects ordered by name, following
// pagination until the API reports the last page or the safety cap hits.
func (c *Client) SearchProjects(ctx context.Context) ([]Project, error) {
	var all []Project

	for page := 0; page < maxProjectPages; page++ {
		q := url.Values{}
		q.Set("startAt", fmt.Sprint(page*projectPageSize))
		q.Set("maxResults", fmt.Sprint(projectPageSize))
		q.Set("orderBy", "name")

		var resp struct {
			Values []Project `json:"values"`
			IsLast bool      `json:"isLast"`
		}
		err := c.withRetry(ctx, func() error {
			resp.Values = nil
			return c.doJSON(ctx, "GET", "/rest/api/3/project/search?"+q.Encode(), nil, CodeFetchProjects, &resp)
		})
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Values...)
		if resp.IsLast || len(resp.Values) == 0 {
			break
		}
	}
	return all, nil
}

// ListCustomFields returns the site's custom field definitions sorted by
// name, for the field mapping picker. Built-in fields are filtered out
// since the mapping only ever targets custom fields.
func (c *Client) ListCustomFields(ctx context.Context) ([]Field, error) {
	var raw []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Custom bool   `json:"custom"`
	}
	err := c.withRetry(ctx, func() error {
		raw = nil
		return c.doJSON(ctx, "GET", "/rest/api/3/field", nil, CodeFetchFields, &raw)
	})
	if err != nil {
		return nil, err
	}

	var fields []Field
	for _, f := range raw {
		if f.Custom || strings.HasPrefix(f.ID, "customfield_") {
			fields = append(fields, Field{ID: f.ID, Name: f.Name})
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields, nil
}

// ProjectStatuses returns the distinct workflow statuses across all
// issue types in a project, deduplicated by status id.
func (c *Client) ProjectStatuses(ctx context.Context, projectKey string) ([]Status, error) {
	var raw []struct {
		Statuses []struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			StatusCategory struct {
				Key string `json:"key"`
			} `json:"statusCategory"`
		} `json:"statuses"`
	}
	path := "/rest/api/3/project/" + url.PathEscape(projectKey) + "/statuses"
	err := c.withRetry(ctx, func() error {
		raw = nil
		return c.doJSON(ctx, "GET", path, nil, CodeFetchFields, &raw)
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var statuses []Status
	for _, issueType := range raw {
		for _, s := range issueType.Statuses {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			statuses = append(statuses, Status{ID: s.ID, Name: s.Name, Category: s.StatusCategory.Key})
		}
	}
	return statuses, nil
}

// ProjectIssueTypes returns the issue types available in a project, for
// configurations that select by issue type instead of request type.
func (c *Client) ProjectIssueTypes(ctx context.Context, projectKey string) ([]IssueType, error) {
	var resp struct {
		IssueTypes []IssueType `json:"issueTypes"`
	}
	path := "/rest/api/3/project/" + url.PathEscape(projectKey)
	err := c.withRetry(ctx, func() error {
		resp.IssueTypes = nil
		return c.doJSON(ctx, "GET", path, nil, CodeFetchProjects, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.IssueTypes, nil
}
