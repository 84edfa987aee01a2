// Package scan finds whole-token identifier occurrences in extracted text
// files and accumulates match records in the session store.
package scan

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/justinqcash1/s3search/pkg/logging"
	"github.com/justinqcash1/s3search/pkg/report"
	"github.com/justinqcash1/s3search/pkg/store"
	"github.com/justinqcash1/s3search/pkg/types"
)

// textExtensions is the allow-list of file suffixes the scanner will open.
// Everything else is treated as binary and never read.
var textExtensions = map[string]struct{}{
	".txt":  {},
	".csv":  {},
	".log":  {},
	".md":   {},
	".json": {},
	".xml":  {},
	".html": {},
	".htm":  {},
}

// FileMatch pairs an identifier with the file it was found in.
type FileMatch struct {
	Identifier string
	Path       string
}

// Scanner tests files for whole-token occurrences of a fixed identifier
// set. An Aho-Corasick pass over the unique literals prunes files quickly;
// a word-boundary regexp per identifier confirms each hit, so correctness
// never depends on the prefilter.
type Scanner struct {
	identifiers []string
	patterns    []*regexp.Regexp
	literals    []string // unique identifiers, prefilter dictionary order
	prefilter   *ahocorasick.Matcher
	store       store.Store
	log         logging.Logger
}

// NewScanner compiles the identifier set. Duplicate identifiers are kept
// and produce duplicate match records. The store handle is owned by the
// caller for the duration of one run.
func NewScanner(identifiers []string, st store.Store, log logging.Logger) *Scanner {
	if log == nil {
		log = logging.NopLogger{}
	}

	s := &Scanner{
		identifiers: identifiers,
		patterns:    make([]*regexp.Regexp, len(identifiers)),
		store:       st,
		log:         log,
	}

	seen := make(map[string]struct{}, len(identifiers))
	for i, id := range identifiers {
		s.patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(id) + `\b`)
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			s.literals = append(s.literals, id)
		}
	}
	if len(s.literals) > 0 {
		s.prefilter = ahocorasick.NewStringMatcher(s.literals)
	}
	return s
}

// SearchFile returns the identifiers that occur in the file as standalone
// tokens, at most once each per file. Unreadable or binary content is
// skipped with a warning.
func (s *Scanner) SearchFile(path string) []string {
	ctx := context.Background()

	content, err := os.ReadFile(path)
	if err != nil {
		s.log.Error(ctx, "error reading file", "path", path, "error", err)
		return nil
	}
	if isBinary(content) {
		s.log.Warn(ctx, "skipping file with undecodable content", "path", path)
		return nil
	}

	present := make(map[string]bool)
	if s.prefilter != nil {
		for _, hit := range s.prefilter.Match(content) {
			present[s.literals[hit]] = true
		}
	}

	var matched []string
	for i, id := range s.identifiers {
		if !present[id] {
			continue
		}
		if s.patterns[i].Match(content) {
			matched = append(matched, id)
			s.log.Info(ctx, "found identifier", "identifier", id, "path", path)
		}
	}
	return matched
}

// SearchDirectory scans every allow-listed text file under dir, walking
// subdirectories when recursive is true, and returns one FileMatch per
// (identifier, file) pair in deterministic walk order.
func (s *Scanner) SearchDirectory(dir string, recursive bool) []FileMatch {
	ctx := context.Background()

	var candidates []string
	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isTextFile(path) {
				candidates = append(candidates, path)
			}
			return nil
		})
		if err != nil {
			s.log.Error(ctx, "error walking directory", "dir", dir, "error", err)
			return nil
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.log.Error(ctx, "error listing directory", "dir", dir, "error", err)
			return nil
		}
		for _, e := range entries {
			if !e.IsDir() && isTextFile(e.Name()) {
				candidates = append(candidates, filepath.Join(dir, e.Name()))
			}
		}
	}

	s.log.Info(ctx, "searching text files", "dir", dir, "count", len(candidates))

	var matches []FileMatch
	for _, path := range candidates {
		for _, id := range s.SearchFile(path) {
			matches = append(matches, FileMatch{Identifier: id, Path: path})
		}
	}
	return matches
}

// SearchZipContents scans the extraction root of one archive, stamps each
// match with the archive base name and originPath, appends the records to
// the session store, and returns the new records.
func (s *Scanner) SearchZipContents(archivePath, extractDir, originPath string) []types.MatchRecord {
	ctx := context.Background()

	origin := originPath
	if origin == "" {
		origin = "Unknown"
	}

	var records []types.MatchRecord
	for _, m := range s.SearchDirectory(extractDir, true) {
		rel, err := filepath.Rel(extractDir, m.Path)
		if err != nil {
			rel = m.Path
		}
		rec := types.MatchRecord{
			Identifier: m.Identifier,
			ZipFile:    filepath.Base(archivePath),
			FileInZip:  filepath.ToSlash(rel),
			LocalPath:  m.Path,
			S3Path:     origin,
		}
		if err := s.store.AddRecord(rec); err != nil {
			s.log.Error(ctx, "error recording match", "identifier", rec.Identifier, "error", err)
		}
		records = append(records, rec)
	}

	s.log.Info(ctx, "archive scan finished", "archive", archivePath, "matches", len(records))
	return records
}

// SaveResults writes the full session accumulation to a CSV file. Returns
// false on failure instead of an error; accumulated records are unaffected.
func (s *Scanner) SaveResults(path string) bool {
	ctx := context.Background()

	records, err := s.store.Records()
	if err != nil {
		s.log.Error(ctx, "error reading session records", "error", err)
		return false
	}
	if err := report.WriteCSV(path, records); err != nil {
		s.log.Error(ctx, "error saving results", "path", path, "error", err)
		return false
	}
	s.log.Info(ctx, "saved results", "path", path, "count", len(records))
	return true
}

// ClearResults resets the session accumulation. Only used between
// independent runs, never mid-run.
func (s *Scanner) ClearResults() error {
	return s.store.Clear()
}

func isTextFile(path string) bool {
	_, ok := textExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// isBinary reports whether content looks undecodable as text, checking the
// first 8KB for null bytes.
func isBinary(content []byte) bool {
	checkSize := len(content)
	if checkSize > 8192 {
		checkSize = 8192
	}
	return bytes.IndexByte(content[:checkSize], 0) != -1
}
