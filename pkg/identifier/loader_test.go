package identifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_LineFormat(t *testing.T) {
	path := writeFile(t, "ids.txt", "ABC123\n\n  XYZ789  \n\nDEF456\n")

	ids, err := Load(path, FormatLine)

	require.NoError(t, err)
	assert.Equal(t, []string{"ABC123", "XYZ789", "DEF456"}, ids)
}

func TestLoad_LineFormat_PreservesDuplicates(t *testing.T) {
	path := writeFile(t, "ids.txt", "ABC123\nABC123\n")

	ids, err := Load(path, FormatLine)

	require.NoError(t, err)
	assert.Equal(t, []string{"ABC123", "ABC123"}, ids)
}

func TestLoad_CSVFormat_FirstColumn(t *testing.T) {
	path := writeFile(t, "ids.csv", "ABC123,John,Doe\nXYZ789,Jane,Smith\n")

	ids, err := Load(path, FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, []string{"ABC123", "XYZ789"}, ids)
}

func TestLoad_CSVFormat_SkipsEmptyRows(t *testing.T) {
	path := writeFile(t, "ids.csv", "ABC123,x\n\nXYZ789,y\n")

	ids, err := Load(path, FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, []string{"ABC123", "XYZ789"}, ids)
}

func TestLoad_MissingFile(t *testing.T) {
	ids, err := Load(filepath.Join(t.TempDir(), "nope.txt"), FormatLine)

	assert.Error(t, err)
	assert.Empty(t, ids)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, "ids.txt", "")

	ids, err := Load(path, FormatLine)

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatLine, f)

	_, err = ParseFormat("tsv")
	assert.Error(t, err)
}
