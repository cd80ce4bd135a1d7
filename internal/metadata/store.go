// Package metadata persists the per-configuration content-hash map and
// include dependency graph between builds, so the next build can tell
// what changed.
package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/easy-make/easy-make/internal/common"
	"github.com/easy-make/easy-make/internal/hashutil"
)

// HashMap maps a project-relative path to the content hash it had when
// last recorded.
type HashMap map[string]hashutil.ContentHash

// DependencyGraph maps an included file path to the list of files that
// include it, mirroring the on-disk dependency-graph.json shape.
type DependencyGraph map[string][]string

// hashEntry is the on-disk shape of one build-data.json element.
type hashEntry struct {
	Path string `json:"path"`
	Hash uint64 `json:"hash"`
}

// Store reads and writes build-data.json and dependency-graph.json under
// {project_root}/{build_dir}/{configuration_name}/.
type Store struct {
	projectRoot string
	buildDir    string
}

// NewStore returns a Store rooted at projectRoot, using buildDir (e.g.
// "build") as the top-level build directory name.
func NewStore(projectRoot, buildDir string) *Store {
	return &Store{projectRoot: projectRoot, buildDir: buildDir}
}

func (s *Store) configDir(configName string) string {
	return filepath.Join(s.projectRoot, s.buildDir, configName)
}

func (s *Store) hashesPath(configName string) string {
	return filepath.Join(s.configDir(configName), "build-data.json")
}

func (s *Store) graphPath(configName string) string {
	return filepath.Join(s.configDir(configName), "dependency-graph.json")
}

// LoadHashes returns the hash map recorded for configName, or an empty map
// if the file does not exist or cannot be opened.
func (s *Store) LoadHashes(configName string) HashMap {
	data, err := os.ReadFile(s.hashesPath(configName))
	if err != nil {
		return HashMap{}
	}

	var entries []hashEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return HashMap{}
	}

	out := make(HashMap, len(entries))
	for _, e := range entries {
		out[e.Path] = hashutil.ContentHash(e.Hash)
	}
	return out
}

// LoadGraph returns the dependency graph recorded for configName, or an
// empty graph if the file does not exist or cannot be opened.
func (s *Store) LoadGraph(configName string) DependencyGraph {
	data, err := os.ReadFile(s.graphPath(configName))
	if err != nil {
		return DependencyGraph{}
	}

	var g DependencyGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return DependencyGraph{}
	}
	if g == nil {
		return DependencyGraph{}
	}
	return g
}

// StoreHashes creates the configuration directory tree if needed and
// overwrites build-data.json with hashes, sorted by path so the file is
// stable across runs with identical content.
func (s *Store) StoreHashes(configName string, hashes HashMap) error {
	path := s.hashesPath(configName)
	if err := common.MkdirForFile(path); err != nil {
		return err
	}

	entries := make([]hashEntry, 0, len(hashes))
	for p, h := range hashes {
		entries = append(entries, hashEntry{Path: p, Hash: uint64(h)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// StoreGraph creates the configuration directory tree if needed and
// overwrites dependency-graph.json with g. If g is empty, the file is
// deleted instead of writing an empty JSON value.
func (s *Store) StoreGraph(configName string, g DependencyGraph) error {
	path := s.graphPath(configName)

	if len(g) == 0 {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if err := common.MkdirForFile(path); err != nil {
		return err
	}

	// Sort each includer list for stable output; map key order is handled
	// by encoding/json, which sorts string map keys automatically.
	sorted := make(DependencyGraph, len(g))
	for k, includers := range g {
		cp := append([]string(nil), includers...)
		sort.Strings(cp)
		sorted[k] = cp
	}

	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
