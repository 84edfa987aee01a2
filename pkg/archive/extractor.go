// Package archive unpacks password-protected archives into a run-scoped
// scratch directory and classifies failures so the caller can skip a bad
// archive without aborting the run.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/yeka/zip"

	"github.com/justinqcash1/s3search/pkg/logging"
	"github.com/justinqcash1/s3search/pkg/types"
)

// Result is the outcome of unpacking one archive. Files holds the absolute
// paths of every extracted regular file when Outcome is ExtractSuccess, and
// Dir is the directory the entries were unpacked into, so paths relative to
// Dir are the entry names as written in the archive.
type Result struct {
	Outcome types.ExtractOutcome
	Dir     string
	Files   []string
}

// Extractor owns the archive password and a lazily-created scratch
// directory reused for the whole run. Not safe for concurrent use; one run
// is strictly sequential by design.
type Extractor struct {
	password string
	scratch  string
	log      logging.Logger
}

// NewExtractor creates an extractor. An empty password means the archives
// are expected to be unprotected.
func NewExtractor(password string, log logging.Logger) *Extractor {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Extractor{password: password, log: log}
}

// ScratchDir returns the run-scoped temporary directory, creating it on
// first use.
func (e *Extractor) ScratchDir() (string, error) {
	if e.scratch != "" {
		if _, err := os.Stat(e.scratch); err == nil {
			return e.scratch, nil
		}
	}
	dir, err := os.MkdirTemp("", "s3search-")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	e.scratch = dir
	e.log.Info(context.Background(), "created scratch directory", "path", dir)
	return dir, nil
}

// Extract unpacks every entry of the archive into a subdirectory of destDir
// named from the archive's base name, so entries from different archives
// never collide. An empty destDir uses the scratch directory. Failures are
// reported in the Result, never panicked.
func (e *Extractor) Extract(archivePath, destDir string) Result {
	ctx := context.Background()

	if destDir == "" {
		dir, err := e.ScratchDir()
		if err != nil {
			e.log.Error(ctx, "scratch directory unavailable", "error", err)
			return Result{Outcome: types.ExtractOtherFailure}
		}
		destDir = dir
	}

	base := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	subdir := filepath.Join(destDir, base)
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		e.log.Error(ctx, "error creating extraction directory", "path", subdir, "error", err)
		return Result{Outcome: types.ExtractOtherFailure}
	}

	var res Result
	if strings.EqualFold(filepath.Ext(archivePath), ".7z") {
		res = e.extract7z(ctx, archivePath, subdir)
	} else {
		res = e.extractZip(ctx, archivePath, subdir)
	}
	res.Dir = subdir

	if res.Outcome == types.ExtractSuccess {
		e.log.Info(ctx, "extracted archive", "archive", archivePath, "files", len(res.Files))
	} else {
		e.log.Error(ctx, "extraction failed", "archive", archivePath, "cause", res.Outcome.String())
	}
	return res
}

func (e *Extractor) extractZip(ctx context.Context, archivePath, subdir string) Result {
	rc, err := zip.OpenReader(archivePath)
	if err != nil {
		return Result{Outcome: types.ExtractBadArchive}
	}
	defer rc.Close()

	var files []string
	for _, f := range rc.File {
		if f.IsEncrypted() {
			f.SetPassword(e.password)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(filepath.Join(subdir, filepath.FromSlash(f.Name)), 0o755); err != nil {
				return Result{Outcome: types.ExtractOtherFailure, Files: files}
			}
			continue
		}
		path, err := e.writeEntry(subdir, f.Name, f.Open)
		if err != nil {
			return Result{Outcome: e.classifyZipErr(err), Files: files}
		}
		files = append(files, path)
		e.log.Debug(ctx, "extracted entry", "entry", f.Name, "path", path)
	}
	return Result{Outcome: types.ExtractSuccess, Files: files}
}

func (e *Extractor) extract7z(ctx context.Context, archivePath, subdir string) Result {
	rc, err := sevenzip.OpenReaderWithPassword(archivePath, e.password)
	if err != nil {
		if isEncrypted7zErr(err) {
			return Result{Outcome: types.ExtractWrongPassword}
		}
		return Result{Outcome: types.ExtractBadArchive}
	}
	defer rc.Close()

	var files []string
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(filepath.Join(subdir, filepath.FromSlash(f.Name)), 0o755); err != nil {
				return Result{Outcome: types.ExtractOtherFailure, Files: files}
			}
			continue
		}
		path, err := e.writeEntry(subdir, f.Name, f.Open)
		if err != nil {
			return Result{Outcome: e.classify7zErr(err), Files: files}
		}
		files = append(files, path)
		e.log.Debug(ctx, "extracted entry", "entry", f.Name, "path", path)
	}
	return Result{Outcome: types.ExtractSuccess, Files: files}
}

// writeEntry copies one archive entry to disk under subdir, rejecting entry
// names that would escape it.
func (e *Extractor) writeEntry(subdir, name string, open func() (io.ReadCloser, error)) (string, error) {
	target := filepath.Join(subdir, filepath.FromSlash(name))
	if target != subdir && !strings.HasPrefix(target, subdir+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes extraction directory", name)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}

	src, err := open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(target)
		return "", err
	}
	return target, nil
}

// classifyZipErr maps a yeka/zip entry error to an outcome. A checksum
// mismatch after decryption with a supplied password is treated as a wrong
// password, matching what AES verification reports directly.
func (e *Extractor) classifyZipErr(err error) types.ExtractOutcome {
	switch {
	case errors.Is(err, zip.ErrPassword), errors.Is(err, zip.ErrDecryption):
		return types.ExtractWrongPassword
	case errors.Is(err, zip.ErrChecksum) && e.password != "":
		return types.ExtractWrongPassword
	case errors.Is(err, zip.ErrFormat), errors.Is(err, zip.ErrAlgorithm):
		return types.ExtractBadArchive
	default:
		return types.ExtractOtherFailure
	}
}

// classify7zErr maps a sevenzip entry error to an outcome. The library
// flags errors on encrypted streams; a checksum failure with a password in
// play is also read as a bad password, since decrypting with the wrong key
// yields garbage that fails the stored CRC.
func (e *Extractor) classify7zErr(err error) types.ExtractOutcome {
	if isEncrypted7zErr(err) {
		return types.ExtractWrongPassword
	}
	if e.password != "" && strings.Contains(strings.ToLower(err.Error()), "checksum") {
		return types.ExtractWrongPassword
	}
	return types.ExtractOtherFailure
}

// isEncrypted7zErr reports whether the error came from an encrypted stream,
// which with a user-supplied password means the password was wrong.
func isEncrypted7zErr(err error) bool {
	var re *sevenzip.ReadError
	return errors.As(err, &re) && re.Encrypted
}

// Cleanup removes the scratch directory and everything under it. Idempotent
// and safe to call even if nothing was ever extracted.
func (e *Extractor) Cleanup() error {
	if e.scratch == "" {
		return nil
	}
	if err := os.RemoveAll(e.scratch); err != nil {
		return fmt.Errorf("removing scratch directory: %w", err)
	}
	e.log.Info(context.Background(), "removed scratch directory", "path", e.scratch)
	e.scratch = ""
	return nil
}
