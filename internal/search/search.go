// Package search maintains a local full-text address index. The index is
// a throwaway SQLite FTS5 file rebuilt from the record store on demand;
// queries return address ids ranked by relevance.
//
// Requires mattn/go-sqlite3 compiled with the sqlite_fts5 build tag
// (`go build -tags sqlite_fts5`, or `make build`); without it every
// index operation fails with "no such module: fts5".
package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/artifex-data/heimr/internal/records"
)

type Index struct {
	db *sql.DB
}

// Open opens or creates the index file. Use ":memory:" for tests.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error { return ix.db.Close() }

// Build replaces the index contents with the given entries in one
// transaction.
func (ix *Index) Build(ctx context.Context, entries []records.IndexEntry) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting index build: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DROP TABLE IF EXISTS address_fts`,
		`CREATE VIRTUAL TABLE address_fts USING fts5(body, address_id UNINDEXED)`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("preparing index table: %w", err)
		}
	}

	insert, err := tx.PrepareContext(ctx, `INSERT INTO address_fts (body, address_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing index insert: %w", err)
	}
	defer insert.Close()

	for _, e := range entries {
		if _, err := insert.ExecContext(ctx, e.Text, e.AddressID); err != nil {
			return fmt.Errorf("indexing address %d: %w", e.AddressID, err)
		}
	}
	return tx.Commit()
}

// Search returns address ids ranked by FTS5 relevance. The query is
// tokenized and matched as prefix terms, so partial street names work.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]int64, error) {
	match := prefixQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := ix.db.QueryContext(ctx,
		`SELECT address_id FROM address_fts WHERE address_fts MATCH ? ORDER BY rank LIMIT ?`,
		match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// prefixQuery turns free text into an FTS5 prefix match, quoting each
// token so punctuation in user input cannot reach the query parser.
func prefixQuery(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " ")
}
