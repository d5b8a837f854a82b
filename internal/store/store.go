// Package store keeps a sqlite catalog of completed conversions so batch
// runs can skip inputs that have not changed since the last run.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Conversion is one catalog row, keyed by the source file path.
type Conversion struct {
	ID            int64
	SourcePath    string
	SourceHash    string
	PageCount     int
	QuestionCount int
	IssueCount    int
	OutputPath    string
	ProcessedAt   time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_path TEXT NOT NULL UNIQUE,
		source_hash TEXT NOT NULL,
		page_count INTEGER NOT NULL DEFAULT 0,
		question_count INTEGER NOT NULL DEFAULT 0,
		issue_count INTEGER NOT NULL DEFAULT 0,
		output_path TEXT NOT NULL DEFAULT '',
		processed_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// GetSourceHash returns the recorded content hash for a source path.
// Returns empty string and nil error if the path was never converted.
func (s *Store) GetSourceHash(sourcePath string) (string, error) {
	var hash string
	err := s.db.QueryRow(
		`SELECT source_hash FROM conversions WHERE source_path = ?`, sourcePath,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// RecordConversion upserts the catalog row for a source path.
func (s *Store) RecordConversion(c Conversion) error {
	_, err := s.db.Exec(
		`INSERT INTO conversions (source_path, source_hash, page_count, question_count, issue_count, output_path, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET
			source_hash = excluded.source_hash,
			page_count = excluded.page_count,
			question_count = excluded.question_count,
			issue_count = excluded.issue_count,
			output_path = excluded.output_path,
			processed_at = excluded.processed_at`,
		c.SourcePath, c.SourceHash, c.PageCount, c.QuestionCount, c.IssueCount, c.OutputPath, c.ProcessedAt,
	)
	return err
}

// GetConversion returns the catalog row for a source path.
func (s *Store) GetConversion(sourcePath string) (Conversion, error) {
	var c Conversion
	err := s.db.QueryRow(
		`SELECT id, source_path, source_hash, page_count, question_count, issue_count, output_path, processed_at
		 FROM conversions WHERE source_path = ?`, sourcePath,
	).Scan(&c.ID, &c.SourcePath, &c.SourceHash, &c.PageCount, &c.QuestionCount, &c.IssueCount, &c.OutputPath, &c.ProcessedAt)
	return c, err
}

// ListConversions returns every catalog row, most recent first.
func (s *Store) ListConversions() ([]Conversion, error) {
	rows, err := s.db.Query(
		`SELECT id, source_path, source_hash, page_count, question_count, issue_count, output_path, processed_at
		 FROM conversions ORDER BY processed_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conversion
	for rows.Next() {
		var c Conversion
		if err := rows.Scan(&c.ID, &c.SourcePath, &c.SourceHash, &c.PageCount, &c.QuestionCount, &c.IssueCount, &c.OutputPath, &c.ProcessedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
