package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/justinqcash1/s3search/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	identifier  TEXT NOT NULL,
	zip_file    TEXT NOT NULL,
	file_in_zip TEXT NOT NULL,
	local_path  TEXT NOT NULL,
	s3_path     TEXT NOT NULL
);
`

// SQLiteStore implements Store on a SQLite file, giving the session a
// durable result record that survives the process.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddRecord appends one match record.
func (s *SQLiteStore) AddRecord(rec types.MatchRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO matches (identifier, zip_file, file_in_zip, local_path, s3_path)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Identifier, rec.ZipFile, rec.FileInZip, rec.LocalPath, rec.S3Path)
	if err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}
	return nil
}

// Records returns all records in insertion order.
func (s *SQLiteStore) Records() ([]types.MatchRecord, error) {
	rows, err := s.db.Query(`
		SELECT identifier, zip_file, file_in_zip, local_path, s3_path
		FROM matches ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var records []types.MatchRecord
	for rows.Next() {
		var rec types.MatchRecord
		if err := rows.Scan(&rec.Identifier, &rec.ZipFile, &rec.FileInZip, &rec.LocalPath, &rec.S3Path); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear resets the accumulation to empty.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM matches`); err != nil {
		return fmt.Errorf("clearing matches: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
