package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/justinqcash1/s3search/pkg/logging"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "s3search",
	Short: "Search password-protected S3 archives for known identifiers",
	Long: `s3search downloads zip archives from an S3 bucket, extracts them with a
shared password, and scans the extracted text files for whole-token
occurrences of identifiers you supply. Matches are reported as they are
found and can be exported to CSV.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// buildLogger maps the verbosity flags onto a structured logger writing to
// stderr, keeping stdout clean for search output.
func buildLogger() logging.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return logging.NewSlogLogger(slog.New(h))
}
