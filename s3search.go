// Package s3search finds known identifiers inside password-protected
// archives stored in S3.
//
// A run lists folders under a bucket prefix, downloads every zip archive,
// extracts it with the configured password, and scans the extracted text
// files for whole-token occurrences of the supplied identifiers. Matches
// accumulate for the session and can be exported as CSV.
//
// # Basic Usage
//
// Configure and execute a run:
//
//	runner, err := s3search.NewRunner(s3search.Config{
//	    AccessKey:       os.Getenv("AWS_ACCESS_KEY_ID"),
//	    SecretKey:       os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	    Bucket:          "exports",
//	    IdentifiersFile: "identifiers.txt",
//	    ArchivePassword: "hunter2",
//	    OutputFile:      "results.csv",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer runner.Close()
//
//	if err := runner.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Observing Progress
//
// Attach an observer to receive status text, progress percentages, and
// per-archive match summaries as the run advances:
//
//	runner, err := s3search.NewRunner(cfg, s3search.WithObserver(myObserver))
//
// Call Stop from any goroutine to request cancellation; the run finishes
// the archive in flight and then winds down, keeping every match found so
// far.
package s3search

import (
	"github.com/justinqcash1/s3search/pkg/logging"
	"github.com/justinqcash1/s3search/pkg/search"
	"github.com/justinqcash1/s3search/pkg/store"
	"github.com/justinqcash1/s3search/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/justinqcash1/s3search" without subpackages.
type (
	// Config is the full configuration of one search run.
	Config = search.Config

	// Runner executes search runs.
	Runner = search.Runner

	// Option configures a Runner.
	Option = search.Option

	// Observer receives status, progress, and result updates during a run.
	Observer = search.Observer

	// MatchRecord is one identifier occurrence inside one archived file.
	MatchRecord = types.MatchRecord

	// Logger is the structured logger components report through.
	Logger = logging.Logger

	// Store is the session-scoped accumulation of match records.
	Store = store.Store
)

// Re-export sentinel errors callers branch on.
var (
	ErrMissingConfig = search.ErrMissingConfig
	ErrNoIdentifiers = search.ErrNoIdentifiers
)

// NewRunner builds a Runner for the given configuration.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	return search.NewRunner(cfg, opts...)
}

// WithObserver sets the observer receiving status/progress/result updates.
func WithObserver(obs Observer) Option {
	return search.WithObserver(obs)
}

// WithLogger sets the structured logger.
func WithLogger(log Logger) Option {
	return search.WithLogger(log)
}

// WithStore injects a session store; the caller keeps ownership.
func WithStore(st Store) Option {
	return search.WithStore(st)
}
