package configresolve

import (
	"fmt"
	"sort"

	"dario.cat/mergo"

	"github.com/easy-make/easy-make/internal/common"
	"github.com/easy-make/easy-make/internal/graph"
	"github.com/easy-make/easy-make/internal/suggest"
)

var validCompilers = map[string]bool{"g++": true, "clang++": true, "cl": true}
var validStandards = map[string]bool{"98": true, "03": true, "11": true, "14": true, "17": true, "20": true, "23": true, "26": true}
var validOptimizations = map[string]bool{"0": true, "1": true, "2": true, "3": true, "s": true, "fast": true}

// ConfigResolver resolves single-parent inheritance across a set of
// configurations and validates the resolved result.
type ConfigResolver struct {
	byName      map[string]*Configuration
	order       []string // input order, for ResolveAll
	projectRoot string
}

// NewConfigResolver validates name existence/uniqueness and builds the
// name index; it does not yet resolve inheritance or validate field
// values (those happen in ResolveOne/ResolveAll). projectRoot is used to
// resolve the path-existence checks validate performs afterward.
func NewConfigResolver(configurations []Configuration, projectRoot string) (*ConfigResolver, error) {
	byName := make(map[string]*Configuration, len(configurations))
	order := make([]string, 0, len(configurations))
	seenAt := make(map[string]int)

	for i := range configurations {
		c := &configurations[i]
		if c.Name == "" {
			return nil, &common.ConfigError{ConfigName: fmt.Sprintf("#%d", i), Message: "configuration has no name"}
		}
		if firstIdx, dup := seenAt[c.Name]; dup {
			return nil, &common.ConfigError{
				ConfigName: c.Name,
				Message:    fmt.Sprintf("duplicate configuration name (also used by configuration #%d and #%d)", firstIdx, i),
			}
		}
		seenAt[c.Name] = i
		byName[c.Name] = c
		order = append(order, c.Name)
	}

	return &ConfigResolver{byName: byName, order: order, projectRoot: projectRoot}, nil
}

// checkParentGraph validates: no self-parent, every parent exists, and the
// parent graph as a whole is acyclic. Run once, eagerly, because a cycle
// anywhere must abort resolution of every configuration, not just the ones
// on the cycle.
func (r *ConfigResolver) checkParentGraph() error {
	g := graph.New[string]()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
		g.AddNode(name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := r.byName[name]
		if c.Parent == "" {
			continue
		}
		if c.Parent == c.Name {
			return &common.ConfigError{ConfigName: c.Name, Message: "configuration cannot be its own parent"}
		}
		if _, ok := r.byName[c.Parent]; !ok {
			candidates := make([]string, 0, len(r.byName))
			for n := range r.byName {
				candidates = append(candidates, n)
			}
			suggestion, _ := suggest.Closest(c.Parent, candidates)
			return &common.ConfigError{
				ConfigName: c.Name,
				Message:    fmt.Sprintf("parent %q does not exist", c.Parent),
				Suggestion: suggestion,
			}
		}
		g.AddEdge(c.Name, c.Parent)
	}

	if cycle, found := graph.FindCycle(g, graph.OrderedLess[string]); found {
		return &common.CycleError{Cycle: cycle}
	}
	return nil
}

// ResolveOne resolves a single configuration by name. Validation stage 1
// (names) is done by NewConfigResolver; stage 2 (parents) by
// checkParentGraph, which runs at the start of every ResolveOne and
// ResolveAll call. An unknown name is reported as a ConfigError with the
// closest existing name as suggestion.
func (r *ConfigResolver) ResolveOne(name string) (*ResolvedConfiguration, error) {
	if err := r.checkParentGraph(); err != nil {
		return nil, err
	}
	if _, ok := r.byName[name]; !ok {
		suggestion, _ := suggest.Closest(name, r.order)
		return nil, &common.ConfigError{ConfigName: name, Message: "configuration does not exist", Suggestion: suggestion}
	}

	memo := make(map[string]*Configuration)
	merged, err := r.resolveChain(name, memo)
	if err != nil {
		return nil, err
	}

	resolved := toResolvedConfiguration(merged)
	if err := validate(resolved, r.projectRoot); err != nil {
		return nil, err
	}
	return resolved, nil
}

// ResolveAll resolves every configuration, preserving input order, and
// applies filter.
func (r *ConfigResolver) ResolveAll(filter Filter) ([]*ResolvedConfiguration, error) {
	if err := r.checkParentGraph(); err != nil {
		return nil, err
	}

	memo := make(map[string]*Configuration)
	out := make([]*ResolvedConfiguration, 0, len(r.order))
	for _, name := range r.order {
		merged, err := r.resolveChain(name, memo)
		if err != nil {
			return nil, err
		}
		resolved := toResolvedConfiguration(merged)
		if err := validate(resolved, r.projectRoot); err != nil {
			return nil, err
		}

		switch filter {
		case FilterComplete:
			if !resolved.IsComplete() {
				continue
			}
		case FilterIncomplete:
			if resolved.IsComplete() {
				continue
			}
		}
		out = append(out, resolved)
	}
	return out, nil
}

// resolveChain returns the fully merged Configuration for name: every
// optional field taken from name's own configuration if present, else
// from its resolved parent, recursively. Memoized in memo so each
// configuration is merged at most once per ResolveOne/ResolveAll call.
func (r *ConfigResolver) resolveChain(name string, memo map[string]*Configuration) (*Configuration, error) {
	if cached, ok := memo[name]; ok {
		return cached, nil
	}

	c := r.byName[name] // existence checked by ResolveOne (name) and checkParentGraph (parents)
	merged := *c         // shallow copy; fields filled in below
	merged.Parent = ""

	if c.Parent != "" {
		parent, err := r.resolveChain(c.Parent, memo)
		if err != nil {
			return nil, err
		}
		if err := mergo.Merge(&merged, *parent); err != nil {
			return nil, fmt.Errorf("resolving %q: %w", name, err)
		}
	}

	memo[name] = &merged
	return &merged, nil
}

func toResolvedConfiguration(c *Configuration) *ResolvedConfiguration {
	r := &ResolvedConfiguration{
		Name:                c.Name,
		Warnings:            c.Warnings,
		CompilationFlags:    c.CompilationFlags,
		LinkFlags:           c.LinkFlags,
		Defines:             c.Defines,
		IncludeDirectories:  c.IncludeDirectories,
		SourceFiles:         c.SourceFiles,
		SourceDirectories:   c.SourceDirectories,
		ExcludedFiles:       c.ExcludedFiles,
		ExcludedDirectories: c.ExcludedDirectories,
	}
	if c.Compiler != nil {
		r.Compiler = *c.Compiler
	}
	if c.Standard != nil {
		r.Standard = *c.Standard
	}
	if c.Optimization != nil {
		r.Optimization = *c.Optimization
	}
	if c.OutputName != nil {
		r.OutputName = *c.OutputName
	}
	if c.OutputPath != nil {
		r.OutputPath = *c.OutputPath
	}
	return r
}
