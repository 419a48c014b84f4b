package paper

import (
	"errors"
	"testing"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "UTC marker",
			raw:  "2023-01-15T10:30:00Z",
			want: "2023-01-15",
		},
		{
			name: "explicit zero offset",
			raw:  "2023-01-15T10:30:00+00:00",
			want: "2023-01-15",
		},
		{
			name: "non-zero offset keeps wall-clock date",
			raw:  "2023-06-30T23:15:00+02:00",
			want: "2023-06-30",
		},
		{
			name: "no timezone",
			raw:  "2022-11-01T08:00:00",
			want: "2022-11-01",
		},
		{
			name: "bare date",
			raw:  "2021-05-09",
			want: "2021-05-09",
		},
		{
			name: "malformed falls back to first 10 chars",
			raw:  "2023-13-45Txx:yy:zz",
			want: "2023-13-45",
		},
		{
			name: "short malformed kept whole",
			raw:  "garbage",
			want: "garbage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.raw); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	raw := Raw{
		ID:        "2301.00001",
		Title:     "Graph Neural Networks for Traffic",
		Authors:   []string{"A. Lee", "B. Chen"},
		Abstract:  "graph neural networks",
		Published: "2023-01-15T10:30:00Z",
	}

	p, err := Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.ArxivID != "2301.00001" {
		t.Errorf("ArxivID = %q, want %q", p.ArxivID, "2301.00001")
	}
	if p.Published != "2023-01-15" {
		t.Errorf("Published = %q, want %q", p.Published, "2023-01-15")
	}
	if len(p.Keywords) != 0 {
		t.Errorf("Keywords should be empty before extraction, got %v", p.Keywords)
	}
}

func TestBuildAliases(t *testing.T) {
	tests := []struct {
		name     string
		raw      Raw
		wantID   string
		wantDate string
	}{
		{
			name:     "arxiv_id preferred over id",
			raw:      Raw{ArxivID: "a", ID: "b", Title: "t", Published: "2023-01-01"},
			wantID:   "a",
			wantDate: "2023-01-01",
		},
		{
			name:     "id alias",
			raw:      Raw{ID: "b", Title: "t", Published: "2023-01-01"},
			wantID:   "b",
			wantDate: "2023-01-01",
		},
		{
			name:     "updated alias",
			raw:      Raw{ID: "b", Title: "t", Updated: "2022-02-02T00:00:00Z"},
			wantID:   "b",
			wantDate: "2022-02-02",
		},
		{
			name:     "date alias",
			raw:      Raw{ID: "b", Title: "t", Date: "2020-12-31"},
			wantID:   "b",
			wantDate: "2020-12-31",
		},
		{
			name:     "published preferred over updated",
			raw:      Raw{ID: "b", Title: "t", Published: "2023-03-03", Updated: "2022-02-02"},
			wantID:   "b",
			wantDate: "2023-03-03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(tt.raw)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if p.ArxivID != tt.wantID {
				t.Errorf("ArxivID = %q, want %q", p.ArxivID, tt.wantID)
			}
			if p.Published != tt.wantDate {
				t.Errorf("Published = %q, want %q", p.Published, tt.wantDate)
			}
		})
	}
}

func TestBuildSkips(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
	}{
		{name: "missing id", raw: Raw{Title: "t", Published: "2023-01-01"}},
		{name: "missing title", raw: Raw{ID: "x", Published: "2023-01-01"}},
		{name: "missing date", raw: Raw{ID: "x", Title: "t"}},
		{name: "empty record", raw: Raw{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.raw); !errors.Is(err, ErrSkip) {
				t.Errorf("Build = %v, want ErrSkip", err)
			}
		})
	}
}
