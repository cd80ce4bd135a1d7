// Package changeset implements the change analysis at the core of
// easy-make's incremental rebuild decision.
package changeset

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/easy-make/easy-make/internal/fileset"
	"github.com/easy-make/easy-make/internal/graph"
	"github.com/easy-make/easy-make/internal/metadata"
)

// Result is the output of Analyze: which object files to remove and which
// source files must be (re)compiled.
type Result struct {
	FilesToDelete  []string // unsorted: consumers only need set membership
	FilesToCompile []string // sorted, deduplicated, sources only
}

// Analyzer computes Result from the old and new hash/graph snapshots plus
// the object directory's actual on-disk state.
type Analyzer struct {
	// ObjectDir is the directory holding this configuration's object files.
	ObjectDir string
	// ObjectNameFor maps a source path to its object file name.
	ObjectNameFor func(path string) string
}

// NewAnalyzer returns an Analyzer for objectDir using the standard
// object-naming scheme (directory separators replaced by '-', ".o"
// suffix appended).
func NewAnalyzer(objectDir string) *Analyzer {
	return &Analyzer{ObjectDir: objectDir, ObjectNameFor: ObjectNameFor}
}

// ObjectNameFor maps a source path to its object file name.
func ObjectNameFor(path string) string {
	norm := filepath.ToSlash(path)
	out := make([]byte, 0, len(norm)+2)
	for i := 0; i < len(norm); i++ {
		if norm[i] == '/' {
			out = append(out, '-')
		} else {
			out = append(out, norm[i])
		}
	}
	return string(out) + ".o"
}

// Analyze determines which object files are stale and which source files
// need recompilation, in five steps: removed files, directly changed
// files, files orphaned by header removal, transitive reachability from
// changed files through the include graph, then union/filter/sort.
func (a *Analyzer) Analyze(
	oldHashes, newHashes metadata.HashMap,
	oldGraph, newGraph metadata.DependencyGraph,
) Result {
	// Step 1: removed files.
	var filesToDelete []string
	for p := range oldHashes {
		if _, ok := newHashes[p]; !ok {
			filesToDelete = append(filesToDelete, p)
		}
	}

	// Step 2: changed files, either a missing object (for sources) or a hash mismatch.
	changed := make(map[string]struct{})
	for p := range newHashes {
		if fileset.IsSourceExt(filepath.Ext(p)) {
			objPath := filepath.Join(a.ObjectDir, a.ObjectNameFor(p))
			if _, err := os.Stat(objPath); err != nil {
				changed[p] = struct{}{}
				continue
			}
		}
		if oldHash, ok := oldHashes[p]; ok {
			if oldHash != newHashes[p] {
				changed[p] = struct{}{}
			}
		}
	}

	// Step 3: files affected by header removal, unioning in old_graph's
	// recorded dependents for every included-key absent from new_graph.
	affected := make(map[string]struct{})
	for includedKey, dependents := range oldGraph {
		if _, stillIncluded := newGraph[includedKey]; !stillIncluded {
			for _, dep := range dependents {
				affected[dep] = struct{}{}
			}
		}
	}

	// Step 4: forward reachability in new_graph from the seed set `changed`.
	g := graph.New[string]()
	for included, includers := range newGraph {
		g.AddNode(included)
		for _, includer := range includers {
			g.AddEdge(included, includer)
		}
	}
	seeds := make([]string, 0, len(changed))
	for p := range changed {
		seeds = append(seeds, p)
	}
	reachable := g.ReachableFrom(seeds)

	// Step 5: union, filter to sources, sort, dedup.
	union := make(map[string]struct{}, len(affected)+len(reachable))
	for p := range affected {
		union[p] = struct{}{}
	}
	for p := range reachable {
		union[p] = struct{}{}
	}

	filesToCompile := make([]string, 0, len(union))
	for p := range union {
		if fileset.IsSourceExt(filepath.Ext(p)) {
			filesToCompile = append(filesToCompile, p)
		}
	}
	sort.Strings(filesToCompile)

	return Result{FilesToDelete: filesToDelete, FilesToCompile: filesToCompile}
}
