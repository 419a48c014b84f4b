// Package loader drives the load pipeline: build the canonical record,
// extract keywords, project index items, and batch-write them to the
// store.
package loader

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/arxdex/arxdex/internal/index"
	"github.com/arxdex/arxdex/internal/keywords"
	"github.com/arxdex/arxdex/internal/paper"
	"github.com/arxdex/arxdex/internal/store"
)

// Stats accumulates load counters. Counters only ever sum, so partial
// results from parallel workers merge with Add in any order.
type Stats struct {
	PapersLoaded  int `json:"papers_loaded"`
	PapersSkipped int `json:"papers_skipped"`
	PaperItems    int `json:"paper_items"`
	CategoryItems int `json:"category_items"`
	AuthorItems   int `json:"author_items"`
	KeywordItems  int `json:"keyword_items"`
}

// TotalItems is the number of stored items across all partitions.
func (s Stats) TotalItems() int {
	return s.PaperItems + s.CategoryItems + s.AuthorItems + s.KeywordItems
}

// DenormalizationFactor is total items per successfully loaded paper.
func (s Stats) DenormalizationFactor() float64 {
	if s.PapersLoaded == 0 {
		return 0
	}
	return float64(s.TotalItems()) / float64(s.PapersLoaded)
}

// Add merges another partial result into s.
func (s *Stats) Add(o Stats) {
	s.PapersLoaded += o.PapersLoaded
	s.PapersSkipped += o.PapersSkipped
	s.PaperItems += o.PaperItems
	s.CategoryItems += o.CategoryItems
	s.AuthorItems += o.AuthorItems
	s.KeywordItems += o.KeywordItems
}

// Loader loads raw records into a store.
type Loader struct {
	Store store.Store

	// TopK keywords kept per abstract; keywords.DefaultTopK when zero.
	TopK int

	// Workers sets the number of parallel load workers; values below 2
	// load sequentially.
	Workers int

	// WriteLimit optionally throttles item writes (items per second).
	WriteLimit *rate.Limiter
}

// Load runs the pipeline over raws. Records failing validation are
// skipped and counted; a store-level failure aborts the whole load.
// Because every item write is an overwrite at its exact key, reloading
// the same input is idempotent.
func (l *Loader) Load(ctx context.Context, raws []paper.Raw) (Stats, error) {
	if l.Workers > 1 {
		return l.loadParallel(ctx, raws)
	}

	var stats Stats
	for _, raw := range raws {
		partial, err := l.loadOne(ctx, raw)
		if err != nil {
			return stats, err
		}
		stats.Add(partial)
	}
	return stats, nil
}

// loadParallel fans records out to Workers goroutines. Per-record work
// shares no mutable state; each worker keeps its own partial Stats and
// the results are summed after the group drains. The first store error
// cancels the group and aborts the load.
func (l *Loader) loadParallel(ctx context.Context, raws []paper.Raw) (Stats, error) {
	g, ctx := errgroup.WithContext(ctx)
	records := make(chan paper.Raw)

	g.Go(func() error {
		defer close(records)
		for _, raw := range raws {
			select {
			case records <- raw:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	partials := make([]Stats, l.Workers)
	for i := 0; i < l.Workers; i++ {
		i := i
		g.Go(func() error {
			for raw := range records {
				partial, err := l.loadOne(ctx, raw)
				if err != nil {
					return err
				}
				partials[i].Add(partial)
			}
			return nil
		})
	}

	var stats Stats
	err := g.Wait()
	for _, p := range partials {
		stats.Add(p)
	}
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// loadOne processes a single record end to end.
func (l *Loader) loadOne(ctx context.Context, raw paper.Raw) (Stats, error) {
	p, err := paper.Build(raw)
	if errors.Is(err, paper.ErrSkip) {
		return Stats{PapersSkipped: 1}, nil
	}
	if err != nil {
		return Stats{}, err
	}

	p.Keywords = keywords.Extract(p.Abstract, l.TopK)
	items := index.Project(p)

	if l.WriteLimit != nil {
		if err := l.WriteLimit.WaitN(ctx, len(items)); err != nil {
			return Stats{}, err
		}
	}
	if err := l.Store.BatchPut(ctx, items); err != nil {
		return Stats{}, fmt.Errorf("loading %s: %w", p.ArxivID, err)
	}

	return Stats{
		PapersLoaded:  1,
		PaperItems:    1,
		CategoryItems: len(p.Categories),
		AuthorItems:   len(p.Authors),
		KeywordItems:  len(p.Keywords),
	}, nil
}
