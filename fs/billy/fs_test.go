package billy

import (
	"io"
	iofs "io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	parentfs "github.com/hhm970/Museum-Kiosk-Pipeline-Project/fs"
)

func testCreateNested(t *testing.T, fs parentfs.Filesystem, root string) {
	t.Helper()
	p := filepath.Join(root, "bucket_data", "lmnh_hist_data_0.csv")

	f, err := fs.Create(p)
	require.NoError(t, err)
	_, err = f.Write([]byte("at,site\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	info, err := fs.Stat(filepath.Join(root, "bucket_data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	got, err := fs.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "at,site\n", string(got))
}

func testOpenReadRemove(t *testing.T, fs parentfs.Filesystem, root string) {
	t.Helper()
	p := filepath.Join(root, "open.csv")
	require.NoError(t, fs.WriteFile(p, []byte("abc"), 0o644))

	f, err := fs.Open(p)
	require.NoError(t, err)
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())
	require.NoError(t, f.Close())

	require.NoError(t, fs.Remove(p))
	ok, err := fs.Exists(p)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testReadDirSorted(t *testing.T, fs parentfs.Filesystem, root string) {
	t.Helper()
	dir := filepath.Join(root, "sorted")
	require.NoError(t, fs.MkdirAll(dir, 0o755))
	for _, name := range []string{"c.csv", "a.csv", "b.json"} {
		require.NoError(t, fs.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	entries, err := fs.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.csv", "b.json", "c.csv"}, names)
}

func testMissing(t *testing.T, fs parentfs.Filesystem, root string) {
	t.Helper()
	p := filepath.Join(root, "missing.csv")

	ok, err := fs.Exists(p)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = fs.Open(p)
	var pathErr *iofs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "open", pathErr.Op)
	assert.ErrorIs(t, err, iofs.ErrNotExist)

	assert.Error(t, fs.Remove(p))
}

// runSuite runs a battery of consistency tests against a Filesystem impl.
func runSuite(t *testing.T, fs parentfs.Filesystem, root string) {
	t.Helper()
	testCreateNested(t, fs, root)
	testOpenReadRemove(t, fs, root)
	testReadDirSorted(t, fs, root)
	testMissing(t, fs, root)
}

func TestInMemoryFS_Suite(t *testing.T) {
	runSuite(t, NewInMemoryFS(), "/")
}

func TestOSFS_Suite(t *testing.T) {
	root := t.TempDir()
	runSuite(t, NewOSFS(root), ".")
}
