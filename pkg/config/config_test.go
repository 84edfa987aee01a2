package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinqcash1/s3search/pkg/identifier"
)

func TestParse(t *testing.T) {
	f, err := Parse([]byte(`
access_key: AKIAEXAMPLE
secret_key: shh
region: us-west-2
bucket: archives
prefix: exports/
identifiers_file: ids.txt
identifiers_format: csv
archive_password: pw
output_file: out.csv
store_path: session.db
`))
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", f.AccessKey)
	assert.Equal(t, "archives", f.Bucket)
	assert.Equal(t, "exports/", f.Prefix)
	assert.Equal(t, "csv", f.IdentifiersFormat)
	assert.Equal(t, "session.db", f.StorePath)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("bucket: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bucket: archives\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "archives", f.Bucket)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "env-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret")
	t.Setenv("AWS_REGION", "eu-central-1")

	f := &File{AccessKey: "file-key"}
	f.ApplyEnv()

	// File values win; only gaps are filled from the environment.
	assert.Equal(t, "file-key", f.AccessKey)
	assert.Equal(t, "env-secret", f.SecretKey)
	assert.Equal(t, "eu-central-1", f.Region)
}

func TestSearchConfig(t *testing.T) {
	f := &File{
		Bucket:            "archives",
		IdentifiersFile:   "ids.csv",
		IdentifiersFormat: "csv",
	}
	cfg, err := f.SearchConfig()
	require.NoError(t, err)
	assert.Equal(t, identifier.FormatCSV, cfg.IdentifiersFormat)
	assert.Equal(t, "archives", cfg.Bucket)
}

func TestSearchConfig_DefaultFormat(t *testing.T) {
	cfg, err := (&File{}).SearchConfig()
	require.NoError(t, err)
	assert.Equal(t, identifier.FormatLine, cfg.IdentifiersFormat)
}

func TestSearchConfig_BadFormat(t *testing.T) {
	_, err := (&File{IdentifiersFormat: "tsv"}).SearchConfig()
	assert.Error(t, err)
}
