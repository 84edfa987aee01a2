package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/justinqcash1/s3search/pkg/config"
	"github.com/justinqcash1/s3search/pkg/search"
)

var (
	searchConfigPath string
	searchAccessKey  string
	searchSecretKey  string
	searchRegion     string
	searchEndpoint   string
	searchBucket     string
	searchPrefix     string
	searchIDsFile    string
	searchIDFormat   string
	searchPassword   string
	searchOutput     string
	searchStore      string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a search over the archives in a bucket",
	Long: `Download every zip archive under the bucket prefix, extract it with the
archive password, and scan the extracted text files for the identifiers.
Press Ctrl-C once to stop after the archive in flight; matches found so
far are kept and exported.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchConfigPath, "config", "", "Path to YAML run configuration")
	searchCmd.Flags().StringVar(&searchAccessKey, "access-key", "", "AWS access key (or AWS_ACCESS_KEY_ID)")
	searchCmd.Flags().StringVar(&searchSecretKey, "secret-key", "", "AWS secret key (or AWS_SECRET_ACCESS_KEY)")
	searchCmd.Flags().StringVar(&searchRegion, "region", "", "AWS region (or AWS_REGION)")
	searchCmd.Flags().StringVar(&searchEndpoint, "endpoint", "", "Custom S3 endpoint (S3-compatible stores)")
	searchCmd.Flags().StringVar(&searchBucket, "bucket", "", "Bucket to search")
	searchCmd.Flags().StringVar(&searchPrefix, "prefix", "", "Key prefix limiting the folders searched")
	searchCmd.Flags().StringVar(&searchIDsFile, "identifiers", "", "Path to the identifiers file")
	searchCmd.Flags().StringVar(&searchIDFormat, "id-format", "", "Identifiers file format: line or csv")
	searchCmd.Flags().StringVar(&searchPassword, "password", "", "Archive password (prompted when omitted)")
	searchCmd.Flags().StringVar(&searchOutput, "output", "", "CSV file receiving the results")
	searchCmd.Flags().StringVar(&searchStore, "store", "", "Session store path (default in-memory)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	file := &config.File{}
	if searchConfigPath != "" {
		loaded, err := config.Load(searchConfigPath)
		if err != nil {
			return err
		}
		file = loaded
	}
	applyFlags(file)
	file.ApplyEnv()

	if file.ArchivePassword == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		pw, err := promptPassword(cmd)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		file.ArchivePassword = pw
	}

	cfg, err := file.SearchConfig()
	if err != nil {
		return err
	}

	colored := term.IsTerminal(int(os.Stdout.Fd()))
	obs := newConsoleObserver(cmd.OutOrStdout(), colored, quiet)

	runner, err := search.NewRunner(cfg,
		search.WithObserver(obs),
		search.WithLogger(buildLogger()),
	)
	if err != nil {
		return err
	}
	defer runner.Close()

	// First Ctrl-C requests a cooperative stop; a second one aborts hard.
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		obs.OnStatus("Stopping search...")
		runner.Stop()
		<-sigs
		os.Exit(1)
	}()

	return runner.Run(cmd.Context())
}

// applyFlags overlays non-empty command-line flags onto the loaded file.
func applyFlags(f *config.File) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&f.AccessKey, searchAccessKey)
	set(&f.SecretKey, searchSecretKey)
	set(&f.Region, searchRegion)
	set(&f.Endpoint, searchEndpoint)
	set(&f.Bucket, searchBucket)
	set(&f.Prefix, searchPrefix)
	set(&f.IdentifiersFile, searchIDsFile)
	set(&f.IdentifiersFormat, searchIDFormat)
	set(&f.ArchivePassword, searchPassword)
	set(&f.OutputFile, searchOutput)
	set(&f.StorePath, searchStore)
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Archive password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
