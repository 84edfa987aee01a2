// Package report serializes accumulated match records to the flat CSV
// artifact of a run.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/justinqcash1/s3search/pkg/types"
)

// header is the fixed column order of the export.
var header = []string{"Identifier", "Zip File", "File in Zip", "S3 Path"}

// Write emits the header row followed by one row per record, in the order
// given. Nothing is filtered or deduplicated.
func Write(w io.Writer, records []types.MatchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.Identifier, rec.ZipFile, rec.FileInZip, rec.S3Path}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the export to a file at path.
func WriteCSV(path string, records []types.MatchRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}

	err = Write(f, records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
