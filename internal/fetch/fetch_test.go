package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xalt/visitcal/internal/domain"
	"github.com/xalt/visitcal/internal/jira"
)

// fakeSearcher scripts the key phase and per-chunk responses.
type fakeSearcher struct {
	mu        sync.Mutex
	keyIssues []jira.Issue
	keyErr    error
	chunkErr  map[string]error // first key of chunk -> error
	calls     []string
}

func (f *fakeSearcher) Search(ctx context.Context, jql string, fields []string, maxResults int) ([]jira.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !strings.HasPrefix(jql, "key in (") {
		f.calls = append(f.calls, jql)
		return f.keyIssues, f.keyErr
	}

	f.calls = append(f.calls, jql)

	keys := strings.Split(strings.TrimSuffix(strings.TrimPrefix(jql, "key in ("), ")"), ", ")
	if err := f.chunkErr[keys[0]]; err != nil {
		return nil, err
	}
	issues := make([]jira.Issue, 0, len(keys))
	for _, k := range keys {
		issues = append(issues, jira.Issue{Key: k, Fields: map[string]any{"summary": k}})
	}
	return issues, nil
}

func keyIssues(n int) []jira.Issue {
	issues := make([]jira.Issue, 0, n)
	for i := 0; i < n; i++ {
		issues = append(issues, jira.Issue{Key: fmt.Sprintf("VIS-%d", i+1)})
	}
	return issues
}

func fetchWindow() (time.Time, time.Time) {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
}

func TestVisits_EmptyWindow(t *testing.T) {
	f := &fakeSearcher{}
	start, end := fetchWindow()

	issues, err := Visits(context.Background(), f, domain.DefaultSettings(), start, end)

	require.NoError(t, err)
	assert.Empty(t, issues)
	// Only the key phase ran; no chunk queries for zero keys.
	assert.Len(t, f.calls, 1)
}

func TestVisits_KeyPhaseFailureIsHard(t *testing.T) {
	f := &fakeSearcher{keyErr: &jira.APIError{StatusCode: 502, Code: jira.CodeFetchVisits, Message: "bad gateway"}}
	start, end := fetchWindow()

	_, err := Visits(context.Background(), f, domain.DefaultSettings(), start, end)

	require.Error(t, err)
	var apiErr *jira.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestVisits_ChunksOf50PreserveOrder(t *testing.T) {
	f := &fakeSearcher{keyIssues: keyIssues(120)}
	start, end := fetchWindow()

	issues, err := Visits(context.Background(), f, domain.DefaultSettings(), start, end)

	require.NoError(t, err)
	require.Len(t, issues, 120)

	// 1 key phase call + 3 chunk calls (50/50/20).
	assert.Len(t, f.calls, 4)

	// Flattened order follows chunk order even though chunks ran in
	// parallel: first key first, last key last.
	assert.Equal(t, "VIS-1", issues[0].Key)
	assert.Equal(t, "VIS-50", issues[49].Key)
	assert.Equal(t, "VIS-51", issues[50].Key)
	assert.Equal(t, "VIS-120", issues[119].Key)
}

func TestVisits_FailedChunkDegradesToPartial(t *testing.T) {
	f := &fakeSearcher{
		keyIssues: keyIssues(120),
		chunkErr:  map[string]error{"VIS-51": assert.AnError},
	}
	start, end := fetchWindow()

	issues, err := Visits(context.Background(), f, domain.DefaultSettings(), start, end)

	require.NoError(t, err)
	// Middle chunk of 50 dropped.
	assert.Len(t, issues, 70)
	assert.Equal(t, "VIS-1", issues[0].Key)
	assert.Equal(t, "VIS-51", issues[50].Key)
}

func TestChunkKeys(t *testing.T) {
	chunks := chunkKeys([]string{"a", "b", "c", "d", "e"}, 2)

	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"a", "b"}, chunks[0])
	assert.Equal(t, []string{"c", "d"}, chunks[1])
	assert.Equal(t, []string{"e"}, chunks[2])

	assert.Nil(t, chunkKeys(nil, 2))
}
