package upload

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestFromPath_ExtensionType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Pan.JPG")
	require.NoError(t, os.WriteFile(path, []byte("not really a jpeg"), 0o600))

	f, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "Pan.JPG", f.Name)
	assert.Equal(t, "image/jpeg", f.ContentType)
	assert.Equal(t, int64(17), f.Size)
	assert.Equal(t, "jpg", f.Extension())
	assert.True(t, f.IsImage())

	r, err := f.Open()
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "not really a jpeg", string(b))
}

func TestFromPath_SniffsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.bin")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	f, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
}

func TestFromPath_Errors(t *testing.T) {
	_, err := FromPath(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)

	_, err = FromPath(t.TempDir())
	require.Error(t, err)
}

func TestFromBytes(t *testing.T) {
	f := FromBytes("id.png", "", pngHeader)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, int64(len(pngHeader)), f.Size)

	// Re-openable.
	for range 2 {
		r, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, b)
	}

	_, err := (&File{Name: "x"}).Open()
	require.Error(t, err)
}
