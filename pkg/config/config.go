// Package config loads run configuration from a YAML file, with environment
// fallbacks for AWS credentials so they can stay out of config files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/justinqcash1/s3search/pkg/identifier"
	"github.com/justinqcash1/s3search/pkg/search"
)

// File is the YAML shape of a run configuration. Every field is optional in
// the file; required fields are enforced by the run itself.
type File struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`

	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`

	IdentifiersFile   string `yaml:"identifiers_file"`
	IdentifiersFormat string `yaml:"identifiers_format"`

	ArchivePassword string `yaml:"archive_password"`

	OutputFile string `yaml:"output_file"`
	StorePath  string `yaml:"store_path"`
}

// Parse decodes a run configuration from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &f, nil
}

// Load reads and decodes a run configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return Parse(data)
}

// ApplyEnv fills missing credential fields from the standard AWS environment
// variables. File values win over the environment.
func (f *File) ApplyEnv() {
	if f.AccessKey == "" {
		f.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if f.SecretKey == "" {
		f.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	if f.Region == "" {
		f.Region = os.Getenv("AWS_REGION")
	}
}

// SearchConfig converts the file into a runnable search configuration.
func (f *File) SearchConfig() (search.Config, error) {
	format, err := identifier.ParseFormat(f.IdentifiersFormat)
	if err != nil {
		return search.Config{}, err
	}
	return search.Config{
		AccessKey:         f.AccessKey,
		SecretKey:         f.SecretKey,
		Region:            f.Region,
		Endpoint:          f.Endpoint,
		Bucket:            f.Bucket,
		Prefix:            f.Prefix,
		IdentifiersFile:   f.IdentifiersFile,
		IdentifiersFormat: format,
		ArchivePassword:   f.ArchivePassword,
		OutputFile:        f.OutputFile,
		StorePath:         f.StorePath,
	}, nil
}
