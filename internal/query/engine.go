// Package query implements the five read operations, each bound to one
// partition scheme of the index.
package query

import (
	"context"
	"strings"
	"time"

	"github.com/arxdex/arxdex/internal/index"
	"github.com/arxdex/arxdex/internal/store"
)

// DefaultLimit applies when a limited operation is called with a
// non-positive limit.
const DefaultLimit = 20

// maxIDSuffix closes the date-range upper bound after the end date, so
// every id published on the end date sorts inside the range.
const maxIDSuffix = "zzzzzzz"

// Result is the envelope every operation returns.
type Result struct {
	QueryType       string         `json:"query_type"`
	Parameters      map[string]any `json:"parameters"`
	Results         []index.Item   `json:"results"`
	Count           int            `json:"count"`
	ExecutionTimeMs int64          `json:"execution_time_ms"`
}

// Engine answers queries against a store. Operations are read-only and
// independent; each one is a single partition-scoped round trip.
type Engine struct {
	Store store.Store
}

// run executes one store request and wraps it in a result envelope. The
// elapsed time covers the store round trip only and is an observability
// signal, not a performance contract.
func (e *Engine) run(ctx context.Context, queryType string, params map[string]any, req store.Request) (*Result, error) {
	start := time.Now()
	items, err := e.Store.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Result{
		QueryType:       queryType,
		Parameters:      params,
		Results:         items,
		Count:           len(items),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// RecentInCategory returns the newest papers in a category, newest
// first, capped at limit.
func (e *Engine) RecentInCategory(ctx context.Context, category string, limit int) (*Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return e.run(ctx, "recent_in_category",
		map[string]any{"category": category, "limit": limit},
		store.Request{
			Partition:  index.CategoryPrefix + category,
			Descending: true,
			Limit:      limit,
		})
}

// PapersByAuthor returns every paper by an author, oldest first.
func (e *Engine) PapersByAuthor(ctx context.Context, author string) (*Result, error) {
	return e.run(ctx, "papers_by_author",
		map[string]any{"author_name": author},
		store.Request{
			Index:     store.AuthorIndex,
			Partition: index.AuthorPrefix + author,
		})
}

// GetByID looks a paper up by its id. Zero results mean not-found: the
// envelope reports Count 0 and no error.
func (e *Engine) GetByID(ctx context.Context, arxivID string) (*Result, error) {
	res, err := e.run(ctx, "get_paper_by_id",
		map[string]any{"arxiv_id": arxivID},
		store.Request{
			Index:     store.PaperIDIndex,
			Partition: index.PaperPrefix + arxivID,
		})
	if err != nil {
		return nil, err
	}
	if len(res.Results) > 1 {
		res.Results = res.Results[:1]
		res.Count = 1
	}
	return res, nil
}

// PapersInDateRange returns a category's papers published within
// [start, end] inclusive, oldest first. Dates are YYYY-MM-DD strings.
func (e *Engine) PapersInDateRange(ctx context.Context, category, start, end string) (*Result, error) {
	return e.run(ctx, "papers_in_date_range",
		map[string]any{"category": category, "start_date": start, "end_date": end},
		store.Request{
			Partition: index.CategoryPrefix + category,
			SortLow:   start + "#",
			SortHigh:  end + "#" + maxIDSuffix,
		})
}

// PapersByKeyword returns the newest papers matching a keyword, newest
// first, capped at limit. The keyword is case-folded to match the
// extractor's output.
func (e *Engine) PapersByKeyword(ctx context.Context, keyword string, limit int) (*Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return e.run(ctx, "papers_by_keyword",
		map[string]any{"keyword": keyword, "limit": limit},
		store.Request{
			Index:      store.KeywordIndex,
			Partition:  index.KeywordPrefix + strings.ToLower(keyword),
			Descending: true,
			Limit:      limit,
		})
}
