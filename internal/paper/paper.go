// Package paper defines the canonical paper record and its construction
// from loosely structured source data.
package paper

import (
	"errors"
	"strings"
	"time"
)

// Paper is the canonical in-memory representation of one paper. It is
// built once per load attempt and carries everything the index projector
// denormalizes into stored items.
type Paper struct {
	ArxivID    string   `json:"arxiv_id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	Categories []string `json:"categories"`
	Keywords   []string `json:"keywords"`  // derived from the abstract
	Published  string   `json:"published"` // calendar date, YYYY-MM-DD
}

// Raw is one loosely structured source record. Several fields accept
// alias names; Build probes them in a fixed order.
type Raw struct {
	ArxivID    string   `json:"arxiv_id"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	Categories []string `json:"categories"`
	Published  string   `json:"published"`
	Updated    string   `json:"updated"`
	Date       string   `json:"date"`
}

// ErrSkip reports that a record is missing a required field and should be
// excluded from the load. It is an expected outcome, not a failure: the
// loader counts it and continues.
var ErrSkip = errors.New("record missing required field")

// Build normalizes a raw record into a canonical Paper. The id may appear
// as arxiv_id or id, the timestamp as published, updated, or date; the
// first non-empty alias wins. Records missing id, title, or timestamp
// return ErrSkip. Keywords are left empty; the keyword extractor fills
// them in before projection.
func Build(raw Raw) (Paper, error) {
	id := firstNonEmpty(raw.ArxivID, raw.ID)
	published := firstNonEmpty(raw.Published, raw.Updated, raw.Date)

	if id == "" || raw.Title == "" || published == "" {
		return Paper{}, ErrSkip
	}

	return Paper{
		ArxivID:    id,
		Title:      raw.Title,
		Authors:    raw.Authors,
		Abstract:   raw.Abstract,
		Categories: raw.Categories,
		Published:  NormalizeDate(published),
	}, nil
}

// dateLayouts are tried in order when normalizing a source timestamp.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeDate truncates an ISO-8601 timestamp to its calendar date.
// A trailing Z parses as a zero offset. When no layout matches, the
// first 10 characters of the raw string are kept as the date; malformed
// input is preserved in truncated form rather than rejected.
func NormalizeDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if len(raw) > 10 {
		return raw[:10]
	}
	return raw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
