// Package orchestrator wires every core component together into a single
// build operation: resolve the file set, hash and scan it, diff against
// the previous build's metadata, persist the new metadata, then compile
// and link.
package orchestrator

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/easy-make/easy-make/internal/buildcache"
	"github.com/easy-make/easy-make/internal/changeset"
	"github.com/easy-make/easy-make/internal/common"
	"github.com/easy-make/easy-make/internal/compiler"
	"github.com/easy-make/easy-make/internal/configresolve"
	"github.com/easy-make/easy-make/internal/fileset"
	"github.com/easy-make/easy-make/internal/graph"
	"github.com/easy-make/easy-make/internal/hashutil"
	"github.com/easy-make/easy-make/internal/includes"
	"github.com/easy-make/easy-make/internal/metadata"
)

// Options controls a single build_once invocation.
type Options struct {
	ProjectRoot string
	BuildDir    string // e.g. "build"; metadata and objects live under BuildDir/{config}/
	Parallel    bool

	// IncludeRoots are searched, after the including file's own directory,
	// to resolve quoted #include directives.
	IncludeRoots []string

	// Cache, if non-nil, is consulted and populated by the Compiler for
	// every compiled file.
	Cache *buildcache.FileCache

	Logger *common.Logger
	Out    io.Writer
}

// Report summarizes one build_once invocation's outcome.
type Report struct {
	ConfigName     string
	FilesToCompile []string
	FilesToDelete  []string
	Failures       int
	Linked         bool
}

// BuildOnce runs the full incremental build for one resolved configuration:
// FileSet -> (Hasher + IncludeScanner + IncludeResolver -> new dep graph) +
// MetadataStore(old hashes, old graph) -> ChangeAnalyzer -> MetadataStore
// write (before compilation) -> object deletion -> Compiler -> Linker.
func BuildOnce(cfg *configresolve.ResolvedConfiguration, opts Options) (*Report, error) {
	objectDir := filepath.Join(opts.ProjectRoot, opts.BuildDir, cfg.Name)

	files, err := fileset.Resolve(fileset.Spec{
		SourceFiles:         cfg.SourceFiles,
		SourceDirectories:   cfg.SourceDirectories,
		ExcludedFiles:       cfg.ExcludedFiles,
		ExcludedDirectories: cfg.ExcludedDirectories,
	}, opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving file set: %w", err)
	}

	newHashes := make(metadata.HashMap, len(files))
	newGraph := make(metadata.DependencyGraph)
	includeDirs := includes.IncludeDirs{Roots: opts.IncludeRoots}

	for _, rel := range files {
		abs := filepath.Join(opts.ProjectRoot, rel)
		h, err := hashutil.HashFile(abs)
		if err != nil {
			return nil, fmt.Errorf("hashing %s: %w", rel, err)
		}
		newHashes[rel] = h

		for _, raw := range includes.ScanQuotedIncludes(abs) {
			resolved, ok := includes.ResolveInclude(raw, rel, opts.ProjectRoot, includeDirs.Roots)
			if !ok {
				continue
			}
			newGraph[resolved] = append(newGraph[resolved], rel)
		}
	}
	for key, includers := range newGraph {
		newGraph[key] = dedupe(includers)
	}

	if cycle, found := detectGraphCycle(newGraph); found {
		return nil, &common.CycleError{Cycle: cycle}
	}

	store := metadata.NewStore(opts.ProjectRoot, opts.BuildDir)
	oldHashes := store.LoadHashes(cfg.Name)
	oldGraph := store.LoadGraph(cfg.Name)

	analyzer := changeset.NewAnalyzer(objectDir)
	result := analyzer.Analyze(oldHashes, newHashes, oldGraph, newGraph)

	// Metadata is written to reflect the new state before any compilation
	// starts, so a build interrupted mid-compile still recovers correctly
	// on the next run instead of forgetting what it meant to do.
	if err := store.StoreHashes(cfg.Name, newHashes); err != nil {
		return nil, fmt.Errorf("storing hashes: %w", err)
	}
	if err := store.StoreGraph(cfg.Name, newGraph); err != nil {
		return nil, fmt.Errorf("storing graph: %w", err)
	}

	for _, rel := range result.FilesToCompile {
		objPath := filepath.Join(objectDir, changeset.ObjectNameFor(rel))
		_ = removeIfExists(objPath)
	}
	for _, rel := range result.FilesToDelete {
		objPath := filepath.Join(objectDir, changeset.ObjectNameFor(rel))
		_ = removeIfExists(objPath)
	}

	report := &Report{
		ConfigName:     cfg.Name,
		FilesToCompile: result.FilesToCompile,
		FilesToDelete:  result.FilesToDelete,
	}

	c := &compiler.Compiler{
		Config:        cfg,
		ProjectRoot:   opts.ProjectRoot,
		ObjectDir:     objectDir,
		ObjectNameFor: changeset.ObjectNameFor,
		Logger:        opts.Logger,
		Hashes:        newHashes,
	}
	if opts.Cache != nil {
		c.Cache = opts.Cache
	}

	if len(result.FilesToCompile) > 0 {
		failures, err := c.CompileAll(result.FilesToCompile, opts.Parallel, opts.Out)
		if err != nil {
			return nil, fmt.Errorf("compiling: %w", err)
		}
		report.Failures = failures

		if failures > 0 {
			return report, &common.CompilationFailure{FailedFiles: result.FilesToCompile}
		}
	}

	linked, err := c.Link()
	report.Linked = linked
	if err != nil {
		return report, err
	}
	return report, nil
}

func detectGraphCycle(depGraph metadata.DependencyGraph) (string, bool) {
	g := graph.New[string]()
	for included, includers := range depGraph {
		g.AddNode(included)
		for _, includer := range includers {
			g.AddEdge(included, includer)
		}
	}
	return graph.FindCycle(g, graph.OrderedLess[string])
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
