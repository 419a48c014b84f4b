package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/arxdex/arxdex/internal/loader"
	"github.com/arxdex/arxdex/internal/paper"
	"github.com/arxdex/arxdex/internal/query"
	"github.com/arxdex/arxdex/internal/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
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
			Authors:    []string{"A. Lee"},
			Abstract:   "graph neural networks traffic graph",
			Categories: []string{"cs.LG"},
			Published:  "2023-01-15T10:30:00Z",
		},
		{
			ID:         "2302.00002",
			Title:      "Attention Models",
			Authors:    []string{"B. Chen"},
			Abstract:   "attention models graph",
			Categories: []string{"cs.LG"},
			Published:  "2023-02-20T08:00:00Z",
		},
	}
	if _, err := (&loader.Loader{Store: s}).Load(context.Background(), raws); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ts := httptest.NewServer(New(&query.Engine{Store: s}))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return resp.StatusCode, body
}

func TestRecentRoute(t *testing.T) {
	ts := newTestServer(t)

	code, body := get(t, ts, "/papers/recent?category=cs.LG&limit=1")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["count"].(float64) != 1 {
		t.Errorf("count = %v", body["count"])
	}
	papers := body["papers"].([]any)
	first := papers[0].(map[string]any)
	if first["arxiv_id"] != "2302.00002" {
		t.Errorf("newest = %v", first["arxiv_id"])
	}
}

func TestRecentMissingCategory(t *testing.T) {
	ts := newTestServer(t)

	code, body := get(t, ts, "/papers/recent")
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if body["error"] == "" {
		t.Error("missing error message")
	}
}

func TestAuthorRoute(t *testing.T) {
	ts := newTestServer(t)

	code, body := get(t, ts, "/papers/author/"+url.PathEscape("A. Lee"))
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["author"] != "A. Lee" || body["count"].(float64) != 1 {
		t.Errorf("body = %v", body)
	}
}

func TestGetRoute(t *testing.T) {
	ts := newTestServer(t)

	code, body := get(t, ts, "/papers/2301.00001")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["title"] != "Graph Neural Networks for Traffic" {
		t.Errorf("title = %v", body["title"])
	}
}

func TestGetRouteNotFound(t *testing.T) {
	ts := newTestServer(t)

	code, _ := get(t, ts, "/papers/9999.99999")
	if code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestSearchRoute(t *testing.T) {
	ts := newTestServer(t)

	code, body := get(t, ts, "/papers/search?category=cs.LG&start=2023-01-01&end=2023-01-31")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["count"].(float64) != 1 {
		t.Errorf("count = %v", body["count"])
	}

	code, _ = get(t, ts, "/papers/search?category=cs.LG")
	if code != http.StatusBadRequest {
		t.Errorf("missing dates: status = %d, want 400", code)
	}
}

func TestKeywordRoute(t *testing.T) {
	ts := newTestServer(t)

	// Uppercase input is case-folded before lookup.
	code, body := get(t, ts, "/papers/keyword/GRAPH")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["count"].(float64) != 2 {
		t.Errorf("count = %v", body["count"])
	}
}

func TestKeywordRouteEmptyResultIsArray(t *testing.T) {
	ts := newTestServer(t)

	code, body := get(t, ts, "/papers/keyword/nonexistent")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if _, ok := body["papers"].([]any); !ok {
		t.Errorf("papers = %v, want empty array", body["papers"])
	}
}

func TestInvalidLimit(t *testing.T) {
	ts := newTestServer(t)

	code, _ := get(t, ts, "/papers/recent?category=cs.LG&limit=zero")
	if code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
}
