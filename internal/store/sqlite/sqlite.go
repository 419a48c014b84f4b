// Package sqlite implements the store contract on a local SQLite
// database. The composite primary key maps onto a (pk, sk) PRIMARY KEY
// and the secondary indexes onto ordinary SQL indexes over the gsi
// columns, so range queries and reverse order keep their
// lexicographic-string semantics.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/arxdex/arxdex/internal/index"
	"github.com/arxdex/arxdex/internal/store"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed index store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens or creates the database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS items (
			pk TEXT NOT NULL,
			sk TEXT NOT NULL,
			gsi1pk TEXT,
			gsi1sk TEXT,
			gsi2pk TEXT,
			gsi2sk TEXT,
			gsi3pk TEXT,
			gsi3sk TEXT,
			payload TEXT NOT NULL,
			PRIMARY KEY (pk, sk)
		);

		CREATE INDEX IF NOT EXISTS idx_items_gsi1 ON items(gsi1pk, gsi1sk)
			WHERE gsi1pk IS NOT NULL;
		CREATE INDEX IF NOT EXISTS idx_items_gsi2 ON items(gsi2pk, gsi2sk)
			WHERE gsi2pk IS NOT NULL;
		CREATE INDEX IF NOT EXISTS idx_items_gsi3 ON items(gsi3pk, gsi3sk)
			WHERE gsi3pk IS NOT NULL;
	`

	_, err := db.Exec(schema)
	return err
}

// BatchPut upserts items inside one transaction. INSERT OR REPLACE on
// the (pk, sk) primary key gives overwrite-on-conflicting-key semantics.
func (s *Store) BatchPut(ctx context.Context, items []index.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO items (
			pk, sk, gsi1pk, gsi1sk, gsi2pk, gsi2sk, gsi3pk, gsi3sk, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		payload, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("marshaling item %s/%s: %w", it.PK, it.SK, err)
		}
		_, err = stmt.ExecContext(ctx,
			it.PK, it.SK,
			nullable(it.GSI1PK), nullable(it.GSI1SK),
			nullable(it.GSI2PK), nullable(it.GSI2SK),
			nullable(it.GSI3PK), nullable(it.GSI3SK),
			string(payload),
		)
		if err != nil {
			return fmt.Errorf("upserting item %s/%s: %w", it.PK, it.SK, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// indexColumns maps a store index name to its (partition, sort) columns.
func indexColumns(name string) (string, string, error) {
	switch name {
	case "":
		return "pk", "sk", nil
	case store.AuthorIndex:
		return "gsi1pk", "gsi1sk", nil
	case store.PaperIDIndex:
		return "gsi2pk", "gsi2sk", nil
	case store.KeywordIndex:
		return "gsi3pk", "gsi3sk", nil
	default:
		return "", "", fmt.Errorf("unknown index %q", name)
	}
}

// Query returns the items of one partition ordered by sort key.
func (s *Store) Query(ctx context.Context, req store.Request) ([]index.Item, error) {
	pkCol, skCol, err := indexColumns(req.Index)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT payload FROM items WHERE %s = ?", pkCol)
	args := []any{req.Partition}

	if req.SortLow != "" && req.SortHigh != "" {
		query += fmt.Sprintf(" AND %s BETWEEN ? AND ?", skCol)
		args = append(args, req.SortLow, req.SortHigh)
	}

	order := "ASC"
	if req.Descending {
		order = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", skCol, order)

	if req.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, req.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", req.Partition, err)
	}
	defer rows.Close()

	var items []index.Item
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var it index.Item
		if err := json.Unmarshal([]byte(payload), &it); err != nil {
			return nil, fmt.Errorf("parsing payload for %s: %w", req.Partition, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// nullable converts an empty string to NULL so the partial gsi indexes
// stay sparse, matching how items absent from a secondary index behave.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
