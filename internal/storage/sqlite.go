package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

const selectEntryFields = `doi, year, file, run_id, fetched_at`

// OpenDB opens or creates a SQLite database at the given path.
// Use ":memory:" for a throwaway database.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS publications (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			doi TEXT NOT NULL,
			year INTEGER NOT NULL,
			file TEXT NOT NULL,
			run_id TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_publications_doi ON publications(doi);
		CREATE INDEX IF NOT EXISTS idx_publications_year ON publications(year);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and reloads it from a manifest file.
// Manifest order is kept in seq so ties sort in discovery order.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	entries, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM publications"); err != nil {
		return 0, fmt.Errorf("clearing publications table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO publications (doi, year, file, run_id, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.DOI, e.Year, e.File, e.RunID, e.FetchedAt.Unix()); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", e.DOI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(entries), nil
}

// ListFilters narrows List results.
type ListFilters struct {
	SinceYear int // Minimum year (0 = no minimum; unknown years are then included)
	Limit     int // 0 = no limit
}

// List returns publications newest first, unknown years last, manifest order for ties.
func (d *DB) List(filters ListFilters) ([]Entry, error) {
	query := `SELECT ` + selectEntryFields + ` FROM publications WHERE 1=1`
	var args []interface{}

	if filters.SinceYear > 0 {
		query += " AND year >= ?"
		args = append(args, filters.SinceYear)
	}

	query += " ORDER BY year DESC, seq ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByDOI returns the most recently inserted entry for doi, or nil if absent.
func (d *DB) GetByDOI(doi string) (*Entry, error) {
	row := d.db.QueryRow(`SELECT `+selectEntryFields+` FROM publications WHERE doi = ? ORDER BY seq DESC LIMIT 1`, doi)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// Count returns the number of publications in the database.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM publications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting publications: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var fetchedAt int64
	if err := s.Scan(&e.DOI, &e.Year, &e.File, &e.RunID, &fetchedAt); err != nil {
		return nil, err
	}
	e.FetchedAt = time.Unix(fetchedAt, 0).UTC()
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating publications: %w", err)
	}
	return entries, nil
}
