// Package fileset materializes a configuration's source and header file
// set from its source_files/source_directories lists, minus its
// excluded_files/excluded_directories lists.
package fileset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/easy-make/easy-make/internal/common"
)

// FileKind classifies a file by its extension. Files of any other
// extension are non-code and ignored entirely by FileSet.
type FileKind int

const (
	KindNone FileKind = iota
	KindSource
	KindHeader
)

var sourceExts = map[string]bool{".cpp": true, ".cc": true, ".cxx": true}
var headerExts = map[string]bool{".h": true, ".hh": true, ".hpp": true, ".hxx": true}

// ClassifyExt returns the FileKind for a file name based on its extension.
func ClassifyExt(path string) FileKind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case sourceExts[ext]:
		return KindSource
	case headerExts[ext]:
		return KindHeader
	default:
		return KindNone
	}
}

// IsSourceExt reports whether ext (with leading dot, e.g. ".cpp") is a
// recognized source extension.
func IsSourceExt(ext string) bool {
	return sourceExts[strings.ToLower(ext)]
}

// Spec describes the subset of a resolved Configuration that FileSet needs.
// Kept decoupled from internal/configresolve so fileset has no dependency
// on it (configresolve depends on fileset instead, for validating listed
// source files exist).
type Spec struct {
	SourceFiles         []string
	SourceDirectories   []string
	ExcludedFiles       []string
	ExcludedDirectories []string
}

// Resolve walks spec's source directories (recursively) and adds
// spec.SourceFiles, then removes everything matched by
// ExcludedFiles/ExcludedDirectories. Exclusions always apply last,
// regardless of how an entry was added. The result is every surviving
// path (source or header), relative to projectRoot, sorted.
func Resolve(spec Spec, projectRoot string) ([]string, error) {
	included := make(map[string]struct{})

	for _, rel := range spec.SourceFiles {
		abs := filepath.Join(projectRoot, rel)
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		included[common.NormalizeRelPath(rel)] = struct{}{}
	}

	for _, relDir := range spec.SourceDirectories {
		found, err := walkCodeFiles(projectRoot, relDir)
		if err != nil {
			return nil, err
		}
		for _, rel := range found {
			included[rel] = struct{}{}
		}
	}

	for _, rel := range spec.ExcludedFiles {
		delete(included, common.NormalizeRelPath(rel))
	}

	for _, relDir := range spec.ExcludedDirectories {
		found, err := walkCodeFiles(projectRoot, relDir)
		if err != nil {
			return nil, err
		}
		for _, rel := range found {
			delete(included, rel)
		}
	}

	out := make([]string, 0, len(included))
	for rel := range included {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}

// walkCodeFiles recursively walks relDir (relative to projectRoot) and
// returns every source/header file found, relative to projectRoot.
func walkCodeFiles(projectRoot, relDir string) ([]string, error) {
	absDir := filepath.Join(projectRoot, relDir)
	var found []string

	err := filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ClassifyExt(path) == KindNone {
			return nil
		}
		rel, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return err
		}
		found = append(found, common.NormalizeRelPath(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
