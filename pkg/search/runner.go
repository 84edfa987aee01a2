// Package search drives one search run: folder listing, archive download,
// authenticated extraction, content scanning, and result aggregation, under
// a cooperative stop flag with guaranteed scratch cleanup.
package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/justinqcash1/s3search/pkg/archive"
	"github.com/justinqcash1/s3search/pkg/identifier"
	"github.com/justinqcash1/s3search/pkg/logging"
	"github.com/justinqcash1/s3search/pkg/remote"
	"github.com/justinqcash1/s3search/pkg/scan"
	"github.com/justinqcash1/s3search/pkg/store"
	"github.com/justinqcash1/s3search/pkg/types"
)

// Lister is the remote-store surface a run needs. *remote.Client satisfies
// it; tests substitute fakes.
type Lister interface {
	Connect(ctx context.Context) error
	ListFolders(ctx context.Context, bucket, prefix string) []string
	FilterObjectsByExtension(ctx context.Context, bucket, prefix, ext string) []string
	ObjectSize(ctx context.Context, bucket, key string) int64
	Download(ctx context.Context, bucket, key, localPath string) bool
}

// Config is the full configuration of one search run.
type Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string

	Bucket string
	Prefix string

	IdentifiersFile   string
	IdentifiersFormat identifier.Format

	ArchivePassword string

	// OutputFile, when set, receives the CSV export at the end of the run.
	OutputFile string

	// StorePath selects the session store backend; empty means in-memory.
	StorePath string
}

var (
	// ErrMissingConfig is returned when credentials, bucket, or the
	// identifiers file were not supplied.
	ErrMissingConfig = errors.New("aws credentials and bucket name are required")

	// ErrNoIdentifiers is returned when the identifiers file yields no
	// usable entries.
	ErrNoIdentifiers = errors.New("no identifiers loaded")
)

func (c Config) validate() error {
	if c.AccessKey == "" || c.SecretKey == "" || c.Bucket == "" {
		return ErrMissingConfig
	}
	if c.IdentifiersFile == "" {
		return fmt.Errorf("identifiers file is required")
	}
	if _, err := os.Stat(c.IdentifiersFile); err != nil {
		return fmt.Errorf("identifiers file does not exist: %s", c.IdentifiersFile)
	}
	return nil
}

// Option configures a Runner.
type Option func(*Runner)

// WithObserver sets the observer receiving status/progress/result updates.
func WithObserver(obs Observer) Option {
	return func(r *Runner) { r.obs = obs }
}

// WithLogger sets the structured logger.
func WithLogger(log logging.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithStore injects a session store, overriding Config.StorePath. The
// caller keeps ownership and must close it.
func WithStore(st store.Store) Option {
	return func(r *Runner) {
		r.store = st
		r.ownsStore = false
	}
}

// WithRemote injects a remote-store constructor, used by tests to substitute
// a fake listing adapter.
func WithRemote(connect func(ctx context.Context) (Lister, error)) Option {
	return func(r *Runner) { r.connect = connect }
}

// Runner executes search runs. A Runner supports one run at a time;
// starting a new run while one is active is a caller error. The match
// accumulation persists across runs until Reset.
type Runner struct {
	cfg       Config
	obs       Observer
	log       logging.Logger
	store     store.Store
	ownsStore bool
	connect   func(ctx context.Context) (Lister, error)

	stop         atomic.Bool
	lastProgress int
}

// NewRunner builds a Runner for the given configuration.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	r := &Runner{
		cfg: cfg,
		obs: NopObserver{},
		log: logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.store == nil {
		st, err := store.New(store.Config{Path: cfg.StorePath})
		if err != nil {
			return nil, fmt.Errorf("opening session store: %w", err)
		}
		r.store = st
		r.ownsStore = true
	}

	if r.connect == nil {
		r.connect = func(ctx context.Context) (Lister, error) {
			return remote.New(ctx, remote.Config{
				AccessKey: cfg.AccessKey,
				SecretKey: cfg.SecretKey,
				Region:    cfg.Region,
				Endpoint:  cfg.Endpoint,
			}, r.log)
		}
	}
	return r, nil
}

// Stop requests cooperative cancellation. The flag is polled before each
// folder and before each archive; in-flight downloads, extractions, and
// scans are never interrupted.
func (r *Runner) Stop() {
	r.stop.Store(true)
}

// Records returns the session accumulation so far, in discovery order.
// Valid after a stopped or failed run: partial results are never rolled
// back.
func (r *Runner) Records() ([]types.MatchRecord, error) {
	return r.store.Records()
}

// Reset clears the session accumulation. Only call between independent
// runs, never while one is active.
func (r *Runner) Reset() error {
	return r.store.Clear()
}

// Close releases the session store if the Runner owns it.
func (r *Runner) Close() error {
	if r.ownsStore {
		return r.store.Close()
	}
	return nil
}

// Run executes one search run to completion, stop, or failure. Scratch
// cleanup is guaranteed on every exit path. Errors have already been
// reported to the observer when Run returns.
func (r *Runner) Run(ctx context.Context) error {
	r.stop.Store(false)
	r.lastProgress = 0

	if err := r.cfg.validate(); err != nil {
		r.obs.OnStatus(err.Error())
		return err
	}

	conn, err := r.connect(ctx)
	if err == nil {
		err = conn.Connect(ctx)
	}
	if err != nil {
		r.obs.OnStatus("Failed to connect to AWS S3. Check credentials.")
		return err
	}

	extractor := archive.NewExtractor(r.cfg.ArchivePassword, r.log)
	defer func() {
		if cerr := extractor.Cleanup(); cerr != nil {
			r.log.Error(ctx, "scratch cleanup failed", "error", cerr)
		}
	}()

	scratch, err := extractor.ScratchDir()
	if err != nil {
		r.obs.OnStatus(fmt.Sprintf("Error preparing working directory: %v", err))
		return err
	}

	ids, err := identifier.Load(r.cfg.IdentifiersFile, r.cfg.IdentifiersFormat)
	if err != nil || len(ids) == 0 {
		r.obs.OnStatus(fmt.Sprintf("No identifiers found in %s", r.cfg.IdentifiersFile))
		if err != nil {
			return err
		}
		return ErrNoIdentifiers
	}
	r.obs.OnStatus(fmt.Sprintf("Loaded %d identifiers from %s", len(ids), r.cfg.IdentifiersFile))

	scanner := scan.NewScanner(ids, r.store, r.log)

	r.obs.OnStatus(fmt.Sprintf("Listing folders in bucket %s...", r.cfg.Bucket))
	folders := conn.ListFolders(ctx, r.cfg.Bucket, r.cfg.Prefix)
	if len(folders) == 0 {
		// No child folders: fall back to the prefix itself, or to the
		// bucket root when no prefix was given.
		if r.cfg.Prefix != "" {
			folders = []string{r.cfg.Prefix}
		} else {
			folders = []string{""}
		}
	}
	r.obs.OnStatus(fmt.Sprintf("Found %d folders to search", len(folders)))

	r.processFolders(ctx, conn, extractor, scanner, scratch, folders)

	if r.cfg.OutputFile != "" {
		if scanner.SaveResults(r.cfg.OutputFile) {
			r.obs.OnStatus(fmt.Sprintf("Results saved to %s", r.cfg.OutputFile))
		} else {
			r.obs.OnStatus(fmt.Sprintf("Failed to save results to %s", r.cfg.OutputFile))
		}
	}

	r.reportProgress(100)
	if r.stop.Load() {
		r.obs.OnStatus("Search stopped")
	} else {
		r.obs.OnStatus("Search completed")
	}
	return nil
}

// processFolders walks every folder and archive sequentially, polling the
// stop flag before each folder and before each archive.
func (r *Runner) processFolders(ctx context.Context, conn Lister, extractor *archive.Extractor, scanner *scan.Scanner, scratch string, folders []string) {
	total := len(folders)
	done := 0

	for i, folder := range folders {
		if r.stop.Load() {
			r.obs.OnStatus("Search stopped by user")
			break
		}
		r.obs.OnStatus(fmt.Sprintf("Searching folder %d/%d: %s", i+1, total, folder))

		zips := conn.FilterObjectsByExtension(ctx, r.cfg.Bucket, folder, ".zip")
		if len(zips) == 0 {
			r.obs.OnStatus(fmt.Sprintf("No zip files found in folder %s", folder))
			done++
			r.reportProgress(100 * done / total)
			continue
		}
		r.obs.OnStatus(fmt.Sprintf("Found %d zip files in folder %s", len(zips), folder))

		for zi, key := range zips {
			if r.stop.Load() {
				break
			}
			r.reportProgress(interpolate(done, total, zi, len(zips)))
			r.obs.OnStatus(fmt.Sprintf("Processing zip %d/%d: %s", zi+1, len(zips), key))
			r.processArchive(ctx, conn, extractor, scanner, scratch, key)
		}
		done++
	}
}

// processArchive downloads, extracts, and scans one archive. Every failure
// is local: logged, reported, and skipped.
func (r *Runner) processArchive(ctx context.Context, conn Lister, extractor *archive.Extractor, scanner *scan.Scanner, scratch, key string) {
	if size := conn.ObjectSize(ctx, r.cfg.Bucket, key); size >= 0 {
		r.log.Info(ctx, "archive size", "key", key, "bytes", size)
	}

	local := filepath.Join(scratch, filepath.Base(key))
	if !conn.Download(ctx, r.cfg.Bucket, key, local) {
		r.obs.OnStatus(fmt.Sprintf("Failed to download %s", key))
		return
	}

	// Archives in different folders can share a base name; a fresh
	// directory per archive keeps their entries from mixing.
	extractDir, err := os.MkdirTemp(scratch, "extract-")
	if err != nil {
		r.obs.OnStatus(fmt.Sprintf("Error preparing extraction directory: %v", err))
		return
	}
	res := extractor.Extract(local, extractDir)
	if res.Outcome != types.ExtractSuccess {
		r.obs.OnStatus(fmt.Sprintf("Failed to extract %s: %s", key, res.Outcome))
		return
	}

	origin := types.ObjectRef{Bucket: r.cfg.Bucket, Key: key}.URI()
	records := scanner.SearchZipContents(local, res.Dir, origin)
	if len(records) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matches in %s:\n", len(records), key)
	for _, rec := range records {
		fmt.Fprintf(&b, "  - %s in %s\n", rec.Identifier, rec.FileInZip)
	}
	r.obs.OnResult(b.String())
}

// interpolate computes overall progress from folder and archive indexes.
func interpolate(foldersDone, totalFolders, zipIdx, zipsInFolder int) int {
	return int(100 * (float64(foldersDone)/float64(totalFolders) +
		(float64(zipIdx)/float64(zipsInFolder))/float64(totalFolders)))
}

// reportProgress clamps progress to be non-decreasing before reporting.
// The raw interpolation can regress when folder sizes vary.
func (r *Runner) reportProgress(p int) {
	if p < r.lastProgress {
		p = r.lastProgress
	}
	if p > 100 {
		p = 100
	}
	r.lastProgress = p
	r.obs.OnProgress(p)
}
