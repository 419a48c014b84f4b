package query

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arxdex/arxdex/internal/loader"
	"github.com/arxdex/arxdex/internal/paper"
	"github.com/arxdex/arxdex/internal/store/sqlite"
)

// newEngine loads a small corpus into a temp SQLite store.
func newEngine(t *testing.T) *Engine {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	raws := []paper.Raw{
		{
			ID:         "2301.00001",
			Title:      "Graph Neural Networks for Traffic",
			Authors:    []string{"A. Lee", "B. Chen"},
			Abstract:   "graph neural networks traffic graph prediction traffic networks graph",
			Categories: []string{"cs.LG"},
			Published:  "2023-01-15T10:30:00Z",
		},
		{
			ID:         "2302.00002",
			Title:      "Scaling Graph Transformers",
			Authors:    []string{"A. Lee"},
			Abstract:   "graph transformers scaling graph attention",
			Categories: []string{"cs.LG", "cs.AI"},
			Published:  "2023-02-20T12:00:00Z",
		},
		{
			ID:         "2212.00003",
			Title:      "Older Work",
			Authors:    []string{"B. Chen"},
			Abstract:   "attention models",
			Categories: []string{"cs.AI"},
			Published:  "2022-12-01T00:00:00Z",
		},
	}

	if _, err := (&loader.Loader{Store: s}).Load(context.Background(), raws); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return &Engine{Store: s}
}

func TestRecentInCategory(t *testing.T) {
	e := newEngine(t)

	res, err := e.RecentInCategory(context.Background(), "cs.LG", 10)
	if err != nil {
		t.Fatalf("RecentInCategory: %v", err)
	}
	if res.QueryType != "recent_in_category" {
		t.Errorf("QueryType = %q", res.QueryType)
	}
	if res.Count != 2 {
		t.Fatalf("Count = %d, want 2", res.Count)
	}
	// Newest first.
	if res.Results[0].ArxivID != "2302.00002" || res.Results[1].ArxivID != "2301.00001" {
		t.Errorf("order = %s, %s", res.Results[0].ArxivID, res.Results[1].ArxivID)
	}
	for i := 1; i < len(res.Results); i++ {
		if res.Results[i-1].SK < res.Results[i].SK {
			t.Errorf("sort keys increase at %d", i)
		}
	}
}

func TestRecentInCategoryLimit(t *testing.T) {
	e := newEngine(t)

	res, err := e.RecentInCategory(context.Background(), "cs.LG", 1)
	if err != nil {
		t.Fatalf("RecentInCategory: %v", err)
	}
	if res.Count != 1 || res.Results[0].ArxivID != "2302.00002" {
		t.Errorf("limited result = %+v", res.Results)
	}
}

func TestPapersByAuthor(t *testing.T) {
	e := newEngine(t)

	res, err := e.PapersByAuthor(context.Background(), "A. Lee")
	if err != nil {
		t.Fatalf("PapersByAuthor: %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("Count = %d, want 2", res.Count)
	}
	// Ascending: oldest first.
	if res.Results[0].ArxivID != "2301.00001" {
		t.Errorf("first = %s, want 2301.00001", res.Results[0].ArxivID)
	}
}

func TestGetByID(t *testing.T) {
	e := newEngine(t)

	res, err := e.GetByID(context.Background(), "2212.00003")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if res.Count != 1 || res.Results[0].Title != "Older Work" {
		t.Errorf("result = %+v", res.Results)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	e := newEngine(t)

	res, err := e.GetByID(context.Background(), "9999.99999")
	if err != nil {
		t.Fatalf("unknown id must not error, got %v", err)
	}
	if res.Count != 0 || len(res.Results) != 0 {
		t.Errorf("result = %+v, want empty", res.Results)
	}
}

func TestPapersInDateRange(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name       string
		category   string
		start, end string
		wantIDs    []string
	}{
		{
			name:     "inclusive of end date",
			category: "cs.LG",
			start:    "2023-01-01",
			end:      "2023-02-20",
			wantIDs:  []string{"2301.00001", "2302.00002"},
		},
		{
			name:     "excludes other categories",
			category: "cs.AI",
			start:    "2022-01-01",
			end:      "2022-12-31",
			wantIDs:  []string{"2212.00003"},
		},
		{
			name:     "empty window",
			category: "cs.LG",
			start:    "2020-01-01",
			end:      "2020-12-31",
			wantIDs:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.PapersInDateRange(context.Background(), tt.category, tt.start, tt.end)
			if err != nil {
				t.Fatalf("PapersInDateRange: %v", err)
			}
			if res.Count != len(tt.wantIDs) {
				t.Fatalf("Count = %d, want %d", res.Count, len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if res.Results[i].ArxivID != id {
					t.Errorf("result[%d] = %s, want %s", i, res.Results[i].ArxivID, id)
				}
				date := res.Results[i].Published
				if date < tt.start || date > tt.end {
					t.Errorf("date %s outside [%s, %s]", date, tt.start, tt.end)
				}
			}
		})
	}
}

func TestPapersByKeyword(t *testing.T) {
	e := newEngine(t)

	res, err := e.PapersByKeyword(context.Background(), "GRAPH", 10)
	if err != nil {
		t.Fatalf("PapersByKeyword: %v", err)
	}
	// Case-folded lookup matches both graph papers, newest first.
	if res.Count != 2 {
		t.Fatalf("Count = %d, want 2", res.Count)
	}
	if res.Results[0].ArxivID != "2302.00002" {
		t.Errorf("first = %s, want 2302.00002", res.Results[0].ArxivID)
	}
}

func TestDefaultLimitApplied(t *testing.T) {
	e := newEngine(t)

	res, err := e.RecentInCategory(context.Background(), "cs.LG", 0)
	if err != nil {
		t.Fatalf("RecentInCategory: %v", err)
	}
	if got := res.Parameters["limit"]; got != DefaultLimit {
		t.Errorf("echoed limit = %v, want %d", got, DefaultLimit)
	}
}
