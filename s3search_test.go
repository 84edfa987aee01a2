package s3search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunner_DefaultsToMemoryStore(t *testing.T) {
	runner, err := NewRunner(Config{})
	require.NoError(t, err)
	defer runner.Close()

	records, err := runner.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRun_RejectsIncompleteConfig(t *testing.T) {
	runner, err := NewRunner(Config{Bucket: "archives"})
	require.NoError(t, err)
	defer runner.Close()

	err = runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrMissingConfig)
}
