package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMimeTypeOf(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	assert.Equal(t, "image/png", MimeTypeOf(png))
	assert.Equal(t, "application/octet-stream", MimeTypeOf([]byte("plain text here")))
	assert.Equal(t, "application/octet-stream", MimeTypeOf(nil))
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.xlsm")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "b.xlsm")))

	nested := filepath.Join(dir, "x", "y", "report.csv")
	got, err := CreateFileWithDir(nested)
	require.NoError(t, err)
	assert.Equal(t, nested, got)
	assert.DirExists(t, filepath.Join(dir, "x", "y"))

	assert.True(t, SliceHasStr([]string{"a", "b"}, "b"))
	assert.False(t, SliceHasStr(nil, "b"))
}
