package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallade/gallade/internal/fsutil"
)

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a", "b", "c.txt")

	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("hello"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")

	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("v1"), 0o644))
	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("v2"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestWriteFileAtomicLeavesNoTempFilesBehind(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")
	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("v1"), 0o644))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "f.txt", entries[0].Name())
}

func TestRemoveEmptyAncestorsStopsAtRoot(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ns", "name", "1.0.0")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	require.NoError(t, fsutil.RemoveEmptyAncestors(root, dir))

	_, err := os.Stat(filepath.Join(root, "ns"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(root)
	assert.NoError(t, err)
}

func TestRemoveEmptyAncestorsStopsAtSharedDirectory(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "ns", "name", "1.0.0")
	b := filepath.Join(root, "ns", "name", "2.0.0")
	require.NoError(t, os.MkdirAll(a, 0o755))
	require.NoError(t, os.MkdirAll(b, 0o755))

	require.NoError(t, fsutil.RemoveEmptyAncestors(root, a))

	_, err := os.Stat(filepath.Join(root, "ns", "name"))
	assert.NoError(t, err, "name dir should remain because 2.0.0 still lives under it")
	_, err = os.Stat(b)
	assert.NoError(t, err)
}

func TestSHA256Hex(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", fsutil.SHA256Hex(nil))
	assert.Equal(t, 64, len(fsutil.SHA256Hex([]byte("hello"))))
}
