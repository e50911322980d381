// Package fetch orchestrates the two-phase visit download: one cheap
// query for matching issue keys, then parallel chunked queries for full
// field data. The split keeps each request under the API's per-call
// result limits while still covering arbitrarily large windows.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xalt/visitcal/internal/domain"
	"github.com/xalt/visitcal/internal/jira"
	"github.com/xalt/visitcal/internal/logging"
)

const (
	// keyPhaseLimit bounds the cheap key-only query. Windows with more
	// visits than this are truncated to the most recently created ones.
	keyPhaseLimit = 5000

	// chunkSize is how many keys each detail query covers. Jira's
	// "key in (...)" clause and response paging both stay comfortable
	// at this size.
	chunkSize = 50

	chunkResultLimit = 100
)

// Searcher is the slice of the Jira client the orchestrator needs.
type Searcher interface {
	Search(ctx context.Context, jql string, fields []string, maxResults int) ([]jira.Issue, error)
}

// Visits downloads every issue matching the settings within [start, end].
//
// Phase one fetches only keys for the full window. Phase two splits the
// keys into chunks and fetches full field data for each chunk in
// parallel. A failed chunk degrades to an empty slot (logged, partial
// results win over total failure); a failed key phase is a hard error
// since nothing at all can be shown.
func Visits(ctx context.Context, client Searcher, settings domain.Settings, start, end time.Time) ([]jira.Issue, error) {
	jql := jira.BuildJQL(settings, start, end)

	keyIssues, err := client.Search(ctx, jql, []string{"key"}, keyPhaseLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching visit keys: %w", err)
	}

	keys := make([]string, 0, len(keyIssues))
	for _, is := range keyIssues {
		if is.Key != "" {
			keys = append(keys, is.Key)
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	chunks := chunkKeys(keys, chunkSize)
	fields := settings.FieldList()

	// Each chunk writes its own slot so flattening preserves chunk
	// order regardless of completion order.
	results := make([][]jira.Issue, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []string) {
			defer wg.Done()

			chunkJQL := fmt.Sprintf("key in (%s)", strings.Join(chunk, ", "))
			issues, err := client.Search(ctx, chunkJQL, fields, chunkResultLimit)
			if err != nil {
				logging.Warn("visit chunk fetch failed, continuing without it",
					"chunk", i,
					"keys", len(chunk),
					"error", err,
				)
				return
			}
			results[i] = issues
		}(i, chunk)
	}
	wg.Wait()

	var all []jira.Issue
	for _, r := range results {
		all = append(all, r...)
	}

	logging.Info("visit fetch complete",
		"keys", len(keys),
		"chunks", len(chunks),
		"issues", len(all),
	)
	return all, nil
}

// chunkKeys splits keys into consecutive groups of at most size.
func chunkKeys(keys []string, size int) [][]string {
	var chunks [][]string
	for len(keys) > 0 {
		n := size
		if n > len(keys) {
			n = len(keys)
		}
		chunks = append(chunks, keys[:n])
		keys = keys[n:]
	}
	return chunks
}
