// Package store defines the key-value capability the index layer depends
// on: a composite (partition, sort) primary key, three independently
// keyed secondary indexes over the same items, partition-scoped queries
// with optional sort-key range, reverse order, and limit, and a batched
// upsert that overwrites on matching composite key.
package store

import (
	"context"
	"errors"

	"github.com/arxdex/arxdex/internal/index"
)

// Secondary index names, shared by every backend.
const (
	AuthorIndex  = "AuthorIndex"  // GSI1: author partition, date#id sort
	PaperIDIndex = "PaperIdIndex" // GSI2: paper id partition, date sort
	KeywordIndex = "KeywordIndex" // GSI3: keyword partition, date#id sort
)

// ErrTableNotFound reports that the destination table or database does
// not exist. Callers that can provision the destination branch on it.
var ErrTableNotFound = errors.New("table not found")

// Request describes one partition-scoped query.
type Request struct {
	// Index selects a secondary index by name; empty means the base
	// table keys.
	Index string

	// Partition is the full partition key value, prefix included.
	Partition string

	// SortLow/SortHigh bound the sort key inclusively when both are
	// non-empty. Empty strings mean no range condition.
	SortLow  string
	SortHigh string

	// Descending reverses the sort-key order.
	Descending bool

	// Limit caps the result count when positive.
	Limit int
}

// Store is implemented by each storage backend.
type Store interface {
	// BatchPut upserts items, overwriting any existing item with the
	// same composite key. Re-submitting an identical item is a no-op
	// semantically.
	BatchPut(ctx context.Context, items []index.Item) error

	// Query returns the items of one partition in sort-key order.
	Query(ctx context.Context, req Request) ([]index.Item, error)
}
