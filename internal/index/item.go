// Package index turns one canonical paper into the denormalized set of
// keyed items that serve each read pattern with a single partition
// lookup.
//
// Key scheme (one table, three secondary indexes):
//
//	PAPER#<id>       SK "A"            GSI2 (id, date)    direct lookup
//	CATEGORY#<cat>   SK <date>#<id>                       recent / date range
//	AUTHOR#<author>  SK <date>#<id>    GSI1 = (PK, SK)    author lookup
//	KEYWORD#<kw>     SK <date>#<id>    GSI3 = (PK, SK)    keyword lookup
//
// Sort keys embed the date first, so lexicographic order is date order.
package index

import "github.com/arxdex/arxdex/internal/paper"

// Key prefixes for the four partition schemes.
const (
	PaperPrefix    = "PAPER#"
	CategoryPrefix = "CATEGORY#"
	AuthorPrefix   = "AUTHOR#"
	KeywordPrefix  = "KEYWORD#"
)

// PaperSortKey is the constant sort key of the single PAPER# item.
const PaperSortKey = "A"

// Item is one stored index entry: the composite keys plus a full copy of
// the canonical payload. Every item carries the whole paper so that no
// query needs a second lookup.
type Item struct {
	PK     string `dynamodbav:"PK" json:"PK"`
	SK     string `dynamodbav:"SK" json:"SK"`
	GSI1PK string `dynamodbav:"GSI1PK,omitempty" json:"GSI1PK,omitempty"`
	GSI1SK string `dynamodbav:"GSI1SK,omitempty" json:"GSI1SK,omitempty"`
	GSI2PK string `dynamodbav:"GSI2PK,omitempty" json:"GSI2PK,omitempty"`
	GSI2SK string `dynamodbav:"GSI2SK,omitempty" json:"GSI2SK,omitempty"`
	GSI3PK string `dynamodbav:"GSI3PK,omitempty" json:"GSI3PK,omitempty"`
	GSI3SK string `dynamodbav:"GSI3SK,omitempty" json:"GSI3SK,omitempty"`

	ArxivID    string   `dynamodbav:"arxiv_id" json:"arxiv_id"`
	Title      string   `dynamodbav:"title" json:"title"`
	Authors    []string `dynamodbav:"authors" json:"authors"`
	Abstract   string   `dynamodbav:"abstract" json:"abstract"`
	Categories []string `dynamodbav:"categories" json:"categories"`
	Keywords   []string `dynamodbav:"keywords" json:"keywords"`
	Published  string   `dynamodbav:"published" json:"published"`
}

// Project fans one canonical record out into its full item set:
// 1 paper item + one item per category, author, and keyword. Repeated
// values within a list are not deduplicated; duplicate source entries
// yield duplicate items.
func Project(p paper.Paper) []Item {
	items := make([]Item, 0, 1+len(p.Categories)+len(p.Authors)+len(p.Keywords))

	core := Item{
		ArxivID:    p.ArxivID,
		Title:      p.Title,
		Authors:    p.Authors,
		Abstract:   p.Abstract,
		Categories: p.Categories,
		Keywords:   p.Keywords,
		Published:  p.Published,
	}
	dateID := p.Published + "#" + p.ArxivID

	// Direct lookup: constant sort key, id-keyed secondary pair with the
	// date as its sort key.
	item := core
	item.PK = PaperPrefix + p.ArxivID
	item.SK = PaperSortKey
	item.GSI2PK = PaperPrefix + p.ArxivID
	item.GSI2SK = p.Published
	items = append(items, item)

	for _, cat := range p.Categories {
		item := core
		item.PK = CategoryPrefix + cat
		item.SK = dateID
		items = append(items, item)
	}

	for _, author := range p.Authors {
		item := core
		item.PK = AuthorPrefix + author
		item.SK = dateID
		item.GSI1PK = item.PK
		item.GSI1SK = item.SK
		items = append(items, item)
	}

	for _, kw := range p.Keywords {
		item := core
		item.PK = KeywordPrefix + kw
		item.SK = dateID
		item.GSI3PK = item.PK
		item.GSI3SK = item.SK
		items = append(items, item)
	}

	return items
}
