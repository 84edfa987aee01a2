package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinqcash1/s3search/pkg/store"
	"github.com/justinqcash1/s3search/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestScanner(ids ...string) (*Scanner, *store.MemoryStore) {
	st := store.NewMemory()
	return NewScanner(ids, st, nil), st
}

func TestSearchFile_WholeTokenOnly(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestScanner("ABC123")

	// Standalone token matches.
	standalone := writeFile(t, dir, "standalone.txt", "found ABC123 here")
	assert.Equal(t, []string{"ABC123"}, s.SearchFile(standalone))

	// Substring of a longer token does not.
	embedded := writeFile(t, dir, "embedded.txt", "found XABC123Y and ABC1234 here")
	assert.Empty(t, s.SearchFile(embedded))
}

func TestSearchFile_AtMostOncePerFile(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestScanner("ABC123")
	path := writeFile(t, dir, "many.txt", "ABC123 then again ABC123 and ABC123")

	assert.Equal(t, []string{"ABC123"}, s.SearchFile(path))
}

func TestSearchFile_MetacharactersLiteral(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestScanner("AB.12")
	path := writeFile(t, dir, "dots.txt", "ABX12 is not it, AB.12 is")

	assert.Equal(t, []string{"AB.12"}, s.SearchFile(path))
}

func TestSearchFile_DuplicateIdentifiersDuplicateMatches(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestScanner("ABC123", "ABC123")
	path := writeFile(t, dir, "dup.txt", "ABC123 appears")

	assert.Equal(t, []string{"ABC123", "ABC123"}, s.SearchFile(path))
}

func TestSearchFile_BinarySkipped(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestScanner("ABC123")
	path := filepath.Join(dir, "blob.txt")
	require.NoError(t, os.WriteFile(path, []byte("ABC123\x00trailing"), 0o644))

	assert.Empty(t, s.SearchFile(path))
}

func TestSearchDirectory_ExtensionAllowList(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestScanner("ABC123")
	writeFile(t, dir, "a.txt", "ABC123")
	writeFile(t, dir, "b.TXT", "ABC123")
	writeFile(t, dir, "c.bin", "ABC123")
	writeFile(t, dir, "d.pdf", "ABC123")

	matches := s.SearchDirectory(dir, true)

	var paths []string
	for _, m := range matches {
		paths = append(paths, filepath.Base(m.Path))
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.TXT"}, paths)
}

func TestSearchDirectory_Recursive(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestScanner("ABC123")
	writeFile(t, dir, "top.txt", "ABC123")
	writeFile(t, dir, "deep/nested/inner.log", "ABC123")

	assert.Len(t, s.SearchDirectory(dir, true), 2)
	assert.Len(t, s.SearchDirectory(dir, false), 1)
}

func TestSearchZipContents(t *testing.T) {
	extractDir := t.TempDir()
	s, st := newTestScanner("ABC123456")
	writeFile(t, extractDir, "reports/jan.txt", "token ABC123456 present")
	writeFile(t, extractDir, "reports/feb.txt", "nothing")

	records := s.SearchZipContents("/tmp/dl/batch.zip", extractDir, "s3://bucket/2024/batch.zip")

	require.Len(t, records, 1)
	assert.Equal(t, "ABC123456", records[0].Identifier)
	assert.Equal(t, "batch.zip", records[0].ZipFile)
	assert.Equal(t, "reports/jan.txt", records[0].FileInZip)
	assert.Equal(t, "s3://bucket/2024/batch.zip", records[0].S3Path)
	assert.Equal(t, filepath.Join(extractDir, "reports", "jan.txt"), records[0].LocalPath)

	// Appended to the session store too.
	stored, err := st.Records()
	require.NoError(t, err)
	assert.Equal(t, records, stored)
}

func TestSearchZipContents_UnknownOrigin(t *testing.T) {
	extractDir := t.TempDir()
	s, _ := newTestScanner("ABC123")
	writeFile(t, extractDir, "a.txt", "ABC123")

	records := s.SearchZipContents("/tmp/dl/batch.zip", extractDir, "")

	require.Len(t, records, 1)
	assert.Equal(t, "Unknown", records[0].S3Path)
}

func TestSaveResults_And_ClearResults(t *testing.T) {
	extractDir := t.TempDir()
	s, st := newTestScanner("ABC123")
	writeFile(t, extractDir, "a.txt", "ABC123")
	s.SearchZipContents("batch.zip", extractDir, "s3://b/batch.zip")

	out := filepath.Join(t.TempDir(), "results.csv")
	require.True(t, s.SaveResults(out))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Identifier,Zip File,File in Zip,S3 Path")
	assert.Contains(t, string(content), "ABC123,batch.zip,a.txt,s3://b/batch.zip")

	require.NoError(t, s.ClearResults())
	records, err := st.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveResults_FailureReturnsFalse(t *testing.T) {
	s, st := newTestScanner("ABC123")
	require.NoError(t, st.AddRecord(types.MatchRecord{Identifier: "ABC123"}))

	assert.False(t, s.SaveResults(filepath.Join(t.TempDir(), "no", "such", "dir.csv")))

	// Accumulation survives a failed export.
	records, err := st.Records()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
