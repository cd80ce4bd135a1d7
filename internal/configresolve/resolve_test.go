package configresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easy-make/easy-make/internal/common"
)

func strPtr(s string) *string { return &s }

func newTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.cpp"), []byte("int main(){}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "extra.cpp"), []byte("void extra(){}"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "vendor"), 0o755))
	return root
}

func TestNewConfigResolver_DuplicateName(t *testing.T) {
	root := newTestProject(t)
	_, err := NewConfigResolver([]Configuration{
		{Name: "debug"},
		{Name: "debug"},
	}, root)
	require.Error(t, err)
	var cfgErr *common.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewConfigResolver_MissingName(t *testing.T) {
	root := newTestProject(t)
	_, err := NewConfigResolver([]Configuration{{Name: ""}}, root)
	require.Error(t, err)
}

func TestResolveOne_SelfParent(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "debug", Parent: "debug"},
	}, root)
	require.NoError(t, err)

	_, err = r.ResolveOne("debug")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own parent")
}

func TestResolveOne_MissingParentSuggestsClosest(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "debug", Parent: "relese"},
		{Name: "release"},
	}, root)
	require.NoError(t, err)

	_, err = r.ResolveOne("debug")
	require.Error(t, err)
	var cfgErr *common.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "release", cfgErr.Suggestion)
}

func TestResolveOne_ParentCycle(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "a", Parent: "b"},
		{Name: "b", Parent: "c"},
		{Name: "c", Parent: "a"},
	}, root)
	require.NoError(t, err)

	_, err = r.ResolveOne("a")
	require.Error(t, err)
	var cycleErr *common.CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestResolveOne_FieldInheritance(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{
			Name:               "base",
			Compiler:           strPtr("g++"),
			Standard:           strPtr("17"),
			Warnings:           []string{"-Wall"},
			OutputName:         strPtr("app"),
			SourceFiles:        []string{"main.cpp"},
			IncludeDirectories: []string{"include"},
		},
		{
			Name:     "debug",
			Parent:   "base",
			Standard: strPtr("20"),
			Defines:  []string{"DEBUG=1"},
		},
	}, root)
	require.NoError(t, err)

	resolved, err := r.ResolveOne("debug")
	require.NoError(t, err)

	assert.Equal(t, "g++", resolved.Compiler, "inherited from parent")
	assert.Equal(t, "20", resolved.Standard, "child's own value wins")
	assert.Equal(t, []string{"-Wall"}, resolved.Warnings, "inherited from parent")
	assert.Equal(t, []string{"DEBUG=1"}, resolved.Defines, "child's own value")
	assert.Equal(t, "app", resolved.OutputName)
	assert.Equal(t, "", resolved.Parent)
}

func TestResolveOne_GrandparentChain(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "root", Compiler: strPtr("clang++"), OutputName: strPtr("app")},
		{Name: "middle", Parent: "root", Standard: strPtr("17")},
		{Name: "leaf", Parent: "middle", Optimization: strPtr("2")},
	}, root)
	require.NoError(t, err)

	resolved, err := r.ResolveOne("leaf")
	require.NoError(t, err)
	assert.Equal(t, "clang++", resolved.Compiler)
	assert.Equal(t, "17", resolved.Standard)
	assert.Equal(t, "2", resolved.Optimization)
}

func TestValidate_RejectsUnknownCompiler(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "odd", Compiler: strPtr("tcc"), OutputName: strPtr("app")},
	}, root)
	require.NoError(t, err)

	_, err = r.ResolveOne("odd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiler must be one of")
}

func TestValidate_RejectsBadWarningPrefix(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "warny", Compiler: strPtr("g++"), Warnings: []string{"all"}},
	}, root)
	require.NoError(t, err)

	_, err = r.ResolveOne("warny")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must start with -W")
}

func TestValidate_SkipsWarningAndOptimizationChecksForMSVC(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "msvc", Compiler: strPtr("cl"), Warnings: []string{"/W4"}, Optimization: strPtr("max")},
	}, root)
	require.NoError(t, err)

	_, err = r.ResolveOne("msvc")
	require.NoError(t, err)
}

func TestValidate_RejectsNonSourceExtension(t *testing.T) {
	root := newTestProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "header.hpp"), []byte(""), 0o644))
	r, err := NewConfigResolver([]Configuration{
		{Name: "bad", Compiler: strPtr("g++"), SourceFiles: []string{"header.hpp"}},
	}, root)
	require.NoError(t, err)

	_, err = r.ResolveOne("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a recognized source extension")
}

func TestValidate_RejectsMissingSourceFile(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "bad", Compiler: strPtr("g++"), SourceFiles: []string{"nope.cpp"}},
	}, root)
	require.NoError(t, err)

	_, err = r.ResolveOne("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source file does not exist")
}

func TestValidate_RejectsMissingSourceDirectory(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "bad", Compiler: strPtr("g++"), SourceDirectories: []string{"nope"}},
	}, root)
	require.NoError(t, err)

	_, err = r.ResolveOne("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source directory does not exist")
}

func TestValidate_AcceptsValidExistingPaths(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{
			Name:                "good",
			Compiler:            strPtr("g++"),
			OutputName:          strPtr("app"),
			SourceFiles:         []string{"main.cpp"},
			SourceDirectories:   []string{"src"},
			ExcludedDirectories: []string{"vendor"},
			ExcludedFiles:       []string{"extra.cpp"},
		},
	}, root)
	require.NoError(t, err)

	resolved, err := r.ResolveOne("good")
	require.NoError(t, err)
	assert.True(t, resolved.IsComplete())
}

func TestResolveAll_FilterComplete(t *testing.T) {
	root := newTestProject(t)
	r, err := NewConfigResolver([]Configuration{
		{Name: "complete", Compiler: strPtr("g++"), OutputName: strPtr("app")},
		{Name: "incomplete", Compiler: strPtr("g++")},
	}, root)
	require.NoError(t, err)

	complete, err := r.ResolveAll(FilterComplete)
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, "complete", complete[0].Name)

	incomplete, err := r.ResolveAll(FilterIncomplete)
	require.NoError(t, err)
	require.Len(t, incomplete, 1)
	assert.Equal(t, "incomplete", incomplete[0].Name)

	all, err := r.ResolveAll(FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIsComplete(t *testing.T) {
	c := &ResolvedConfiguration{Compiler: "g++", OutputName: "app"}
	assert.True(t, c.IsComplete())

	c2 := &ResolvedConfiguration{Compiler: "g++"}
	assert.False(t, c2.IsComplete())
}
