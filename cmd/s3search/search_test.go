package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justinqcash1/s3search/pkg/config"
)

func resetSearchFlags(t *testing.T) {
	t.Helper()
	orig := []struct {
		p *string
		v string
	}{
		{&searchAccessKey, searchAccessKey},
		{&searchSecretKey, searchSecretKey},
		{&searchBucket, searchBucket},
		{&searchPrefix, searchPrefix},
		{&searchPassword, searchPassword},
	}
	t.Cleanup(func() {
		for _, o := range orig {
			*o.p = o.v
		}
	})
}

func TestApplyFlags_FlagsOverrideFile(t *testing.T) {
	resetSearchFlags(t)
	searchBucket = "from-flag"
	searchPassword = "flag-pw"

	f := &config.File{Bucket: "from-file", Prefix: "keep/", ArchivePassword: "file-pw"}
	applyFlags(f)

	assert.Equal(t, "from-flag", f.Bucket)
	assert.Equal(t, "flag-pw", f.ArchivePassword)
	// Unset flags leave file values alone.
	assert.Equal(t, "keep/", f.Prefix)
}

func TestApplyFlags_EmptyFlagsKeepFile(t *testing.T) {
	resetSearchFlags(t)

	f := &config.File{Bucket: "from-file", AccessKey: "ak"}
	applyFlags(f)

	assert.Equal(t, "from-file", f.Bucket)
	assert.Equal(t, "ak", f.AccessKey)
}
