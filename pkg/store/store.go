// Package store accumulates the match records of one search session.
// The default backend is in-memory; a SQLite backend provides the durable
// result record.
package store

import (
	"github.com/justinqcash1/s3search/pkg/types"
)

// Store is the session-scoped accumulation of match records. Records are
// append-only during a run and cleared only by an explicit reset between
// independent runs.
type Store interface {
	// AddRecord appends one match record.
	AddRecord(rec types.MatchRecord) error

	// Records returns all records in insertion order.
	Records() ([]types.MatchRecord, error)

	// Clear resets the accumulation to empty.
	Clear() error

	// Close releases backend resources.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the SQLite database file path. Empty or ":memory:" selects
	// the in-memory store.
	Path string
}

// New creates a Store for the given config.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" || cfg.Path == ":memory:" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}
