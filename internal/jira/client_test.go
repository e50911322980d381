package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xalt/visitcal/internal/auth"
)

func testCreds() auth.Credentials {
	return auth.Credentials{Email: "user@example.com", Token: "atat_test"}
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, testCreds())
	require.NoError(t, err)
	c.SetRetryPolicy(RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, Factor: 2})
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", testCreds())
	assert.Error(t, err)

	_, err = New("https://example.atlassian.net", auth.Credentials{})
	assert.Error(t, err)

	c, err := New("https://example.atlassian.net/", testCreds())
	require.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net", c.BaseURL())
}

func TestSearch_SendsAuthAndBody(t *testing.T) {
	var gotBody searchRequest
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/rest/api/3/search/jql", r.URL.Path)

		email, token, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user@example.com", email)
		assert.Equal(t, "atat_test", token)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(searchResponse{Issues: []Issue{
			{ID: "10001", Key: "VIS-1", Fields: map[string]any{"summary": "Plant tour"}},
		}})
	}))

	issues, err := c.Search(context.Background(), `project = "VIS"`, []string{"key"}, 5000)

	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "VIS-1", issues[0].Key)
	assert.Equal(t, "Plant tour", issues[0].Fields["summary"])
	assert.Equal(t, `project = "VIS"`, gotBody.JQL)
	assert.Equal(t, []string{"key"}, gotBody.Fields)
	assert.Equal(t, 5000, gotBody.MaxResults)
}

func TestSearch_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessages":["Field 'customfield_10061' does not exist"]}`))
	}))

	_, err := c.Search(context.Background(), "bogus", nil, 100)

	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, CodeFetchVisits, apiErr.Code)
	assert.Contains(t, apiErr.Message, "customfield_10061")
}

func TestSearch_RateLimitRetriedThenSucceeds(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(searchResponse{Issues: []Issue{{ID: "1", Key: "VIS-9"}}})
	}))

	issues, err := c.Search(context.Background(), "q", nil, 100)

	require.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestSearch_ServerErrorExhaustsRetries(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Search(context.Background(), "q", nil, 100)

	require.Error(t, err)
	// Initial attempt plus three retries.
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestSearch_RateLimitCodeOverride(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.Search(context.Background(), "q", nil, 100)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeRateLimit, apiErr.Code)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(&APIError{StatusCode: 404}))
	assert.False(t, IsRetryable(&APIError{StatusCode: 400}))
	assert.True(t, IsRetryable(&APIError{StatusCode: 429}))
	assert.True(t, IsRetryable(&APIError{StatusCode: 500}))
	assert.True(t, IsRetryable(&APIError{StatusCode: 503}))
	assert.True(t, IsRetryable(assert.AnError)) // plain transport error
}

func TestSearchProjects_Paginates(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/project/search", r.URL.Path)
		switch r.URL.Query().Get("startAt") {
		case "0":
			json.NewEncoder(w).Encode(map[string]any{
				"values": []Project{{ID: "1", Key: "VIS", Name: "Visits"}},
				"isLast": false,
			})
		default:
			json.NewEncoder(w).Encode(map[string]any{
				"values": []Project{{ID: "2", Key: "OPS", Name: "Operations"}},
				"isLast": true,
			})
		}
	}))

	projects, err := c.SearchProjects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "VIS", projects[0].Key)
	assert.Equal(t, "OPS", projects[1].Key)
}

func TestListCustomFields_FiltersAndSorts(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"summary","name":"Summary","custom":false},
			{"id":"customfield_10066","name":"Type of visit","custom":true},
			{"id":"customfield_10061","name":"Time of visit","custom":true}
		]`))
	}))

	fields, err := c.ListCustomFields(context.Background())

	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "customfield_10061", fields[0].ID)
	assert.Equal(t, "customfield_10066", fields[1].ID)
}

func TestProjectStatuses_Dedupes(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/project/VIS/statuses", r.URL.Path)
		w.Write([]byte(`[
			{"statuses":[{"id":"1","name":"Open","statusCategory":{"key":"new"}},{"id":"3","name":"Done","statusCategory":{"key":"done"}}]},
			{"statuses":[{"id":"1","name":"Open","statusCategory":{"key":"new"}}]}
		]`))
	}))

	statuses, err := c.ProjectStatuses(context.Background(), "VIS")

	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "Open", statuses[0].Name)
	assert.Equal(t, "new", statuses[0].Category)
	assert.Equal(t, "done", statuses[1].Category)
}
