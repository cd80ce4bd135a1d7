package fileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("// "+rel+"\n"), 0644))
}

func TestResolve_DirectoriesAndLiteralFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/main.cpp")
	touch(t, root, "src/util.cpp")
	touch(t, root, "src/util.hpp")
	touch(t, root, "src/README.md") // not code, ignored
	touch(t, root, "extra/standalone.cpp")

	got, err := Resolve(Spec{
		SourceFiles:       []string{"extra/standalone.cpp"},
		SourceDirectories: []string{"src"},
	}, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"extra/standalone.cpp", "src/main.cpp", "src/util.cpp", "src/util.hpp"}, got)
}

func TestResolve_ExclusionsAppliedLast(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/main.cpp")
	touch(t, root, "src/legacy/old.cpp")

	got, err := Resolve(Spec{
		SourceFiles:         []string{"src/main.cpp"},
		SourceDirectories:   []string{"src"},
		ExcludedDirectories: []string{"src/legacy"},
	}, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.cpp"}, got)
}

func TestResolve_ExcludedFileOverridesLiteralInclusion(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/main.cpp")

	got, err := Resolve(Spec{
		SourceFiles:   []string{"src/main.cpp"},
		ExcludedFiles: []string{"src/main.cpp"},
	}, root)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve_NonexistentLiteralFileSkipped(t *testing.T) {
	root := t.TempDir()
	got, err := Resolve(Spec{SourceFiles: []string{"nope.cpp"}}, root)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClassifyExt(t *testing.T) {
	assert.Equal(t, KindSource, ClassifyExt("a/b.cpp"))
	assert.Equal(t, KindHeader, ClassifyExt("a/b.hpp"))
	assert.Equal(t, KindNone, ClassifyExt("a/b.txt"))
}
