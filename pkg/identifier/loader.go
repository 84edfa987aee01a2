// Package identifier loads the search-term list for one run.
package identifier

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format selects how the identifiers file is parsed. There is no
// auto-detection; the caller chooses explicitly.
type Format string

const (
	// FormatLine is one identifier per line; blank lines are skipped and
	// leading/trailing whitespace is removed.
	FormatLine Format = "line"

	// FormatCSV takes the first field of each non-empty row; remaining
	// fields are ignored.
	FormatCSV Format = "csv"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatLine, FormatCSV:
		return Format(s), nil
	case "":
		return FormatLine, nil
	default:
		return "", fmt.Errorf("unknown identifiers format %q (want line or csv)", s)
	}
}

// Load reads identifiers from path in the given format. Order matches the
// file; duplicates are kept. An empty result is a terminal condition for the
// caller: no identifiers means nothing to search.
func Load(path string, format Format) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening identifiers file: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return loadCSV(f)
	case FormatLine, "":
		return loadLines(f)
	default:
		return nil, fmt.Errorf("unknown identifiers format %q", format)
	}
}

func loadLines(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading identifiers: %w", err)
	}
	return ids, nil
}

func loadCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var ids []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading identifiers csv: %w", err)
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		ids = append(ids, row[0])
	}
	return ids, nil
}
