package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("", "previews")
	require.NoError(t, err)

	// macOS temp dirs resolve through /private
	wantResolved, _ := filepath.EvalSymlinks(filepath.Join(tmp, "previews"))
	gotResolved, _ := filepath.EvalSymlinks(got)
	require.Equal(t, wantResolved, gotResolved)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureSubdDir_ExplicitParentIdempotent(t *testing.T) {
	parent := t.TempDir()

	first, err := EnsureSubdDir(parent, "previews")
	require.NoError(t, err)
	second, err := EnsureSubdDir(parent, "previews")
	require.NoError(t, err)

	require.Equal(t, filepath.Join(parent, "previews"), first)
	require.Equal(t, first, second)
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(parent, "previews"), []byte("x"), 0o660))

	_, err := EnsureSubdDir(parent, "previews")
	require.Error(t, err)
}

func TestCopyToTemp(t *testing.T) {
	dir := t.TempDir()

	path, err := CopyToTemp(dir, ".png", strings.NewReader("pixels"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, ".png"))
	require.Equal(t, dir, filepath.Dir(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "pixels", string(b))
}
