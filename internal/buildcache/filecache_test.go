package buildcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_MissReturnsFalse(t *testing.T) {
	cache, err := NewFileCache(t.TempDir(), 1<<20)
	require.NoError(t, err)

	ok := cache.Fetch("nope", filepath.Join(t.TempDir(), "out.o"))
	assert.False(t, ok)
}

func TestStoreThenFetch_Hit(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := NewFileCache(cacheDir, 1<<20)
	require.NoError(t, err)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "a.cpp.o")
	require.NoError(t, os.WriteFile(src, []byte("object bytes"), 0o644))

	require.NoError(t, cache.Store("key1", src))
	assert.EqualValues(t, 1, cache.FilesCount())
	assert.Greater(t, cache.BytesOnDisk(), int64(0))

	dst := filepath.Join(srcDir, "restored.o")
	ok := cache.Fetch("key1", dst)
	require.True(t, ok)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "object bytes", string(data))
}

func TestStore_EvictsOldestWhenOverHardLimit(t *testing.T) {
	cacheDir := t.TempDir()
	// Hard limit small enough that a second entry forces eviction of the first.
	cache, err := NewFileCache(cacheDir, 5)
	require.NoError(t, err)

	srcDir := t.TempDir()
	a := filepath.Join(srcDir, "a.o")
	require.NoError(t, os.WriteFile(a, []byte("1234567890"), 0o644))
	b := filepath.Join(srcDir, "b.o")
	require.NoError(t, os.WriteFile(b, []byte("1234567890"), 0o644))

	require.NoError(t, cache.Store("a", a))
	require.NoError(t, cache.Store("b", b))

	// "a" should have been evicted to respect the hard limit; "b" survives.
	assert.False(t, cache.Fetch("a", filepath.Join(srcDir, "restored-a.o")))
	assert.True(t, cache.Fetch("b", filepath.Join(srcDir, "restored-b.o")))
}

func TestStore_DuplicateKeyDoesNotDoubleCount(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := NewFileCache(cacheDir, 1<<20)
	require.NoError(t, err)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "a.o")
	require.NoError(t, os.WriteFile(src, []byte("bytes"), 0o644))

	require.NoError(t, cache.Store("same", src))
	require.NoError(t, cache.Store("same", src))
	assert.EqualValues(t, 1, cache.FilesCount())
}
