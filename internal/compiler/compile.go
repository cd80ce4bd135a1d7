// Package compiler drives compiler subprocesses: per-file compilation
// through a bounded worker pool and the final link step.
package compiler

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/easy-make/easy-make/internal/common"
	"github.com/easy-make/easy-make/internal/configresolve"
	"github.com/easy-make/easy-make/internal/hashutil"
)

// Compiler drives compilation and linking for one resolved configuration.
type Compiler struct {
	Config      *configresolve.ResolvedConfiguration
	ProjectRoot string
	ObjectDir   string
	ObjectNameFor func(path string) string
	Logger      *common.Logger

	// Hashes is the current build's content hash per source file (the
	// same values persisted to build-data.json). The cache key is derived
	// from these, never from the file path alone, so an edited file never
	// hits a stale cache entry keyed by its old content.
	Hashes map[string]hashutil.ContentHash

	// Cache, if non-nil, is consulted before invoking the compiler
	// subprocess for each file and populated with the produced object on
	// success.
	Cache Cache
}

// Cache is the subset of buildcache.FileCache the Compiler needs; kept as
// an interface here so compiler has no import-time dependency on the cache
// package's on-disk layout.
type Cache interface {
	// Fetch places a cached object for key at dst, returning true on a hit.
	Fetch(key string, dst string) bool
	// Store records dst (the object file just produced) under key.
	Store(key string, dst string) error
}

type fileResult struct {
	file       string
	exitCode   int
	diagnostic []byte
	failed     bool
}

// workerCount returns the worker pool size: 1 if sequential compilation
// was requested, otherwise max(1, hardware_concurrency/2).
func workerCount(parallel bool) int {
	if !parallel {
		return 1
	}
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// CompileAll compiles every file in filesToCompile (already sorted by the
// caller) and returns the number of failures. Progress lines and
// diagnostic buffers are emitted, in submission order, to out.
func (c *Compiler) CompileAll(filesToCompile []string, parallel bool, out io.Writer) (int, error) {
	if err := os.MkdirAll(c.ObjectDir, os.ModePerm); err != nil {
		return 0, fmt.Errorf("creating object directory: %w", err)
	}

	flags := ComposeFlags(c.Config)
	total := len(filesToCompile)
	results := make([]chan fileResult, total)
	for i := range results {
		results[i] = make(chan fileResult, 1)
	}

	g := new(errgroup.Group)
	g.SetLimit(workerCount(parallel))

	for i, file := range filesToCompile {
		i, file := i, file
		g.Go(func() error {
			results[i] <- c.compileOne(flags, file)
			return nil
		})
	}

	var failures []string
	for i, file := range filesToCompile {
		fmt.Fprintf(out, "[%d/%d] compiling %s\n", i+1, total, file)
		res := <-results[i]
		pct := ((i + 1) * 100) / total
		fmt.Fprintf(out, "[%d/%d] %d%% %s\n", i+1, total, pct, file)
		if len(res.diagnostic) > 0 {
			out.Write(res.diagnostic)
		}
		if res.failed {
			failures = append(failures, file)
		}
	}

	_ = g.Wait() // compileOne never returns an error; workers always report via the channel

	sort.Strings(failures)
	return len(failures), nil
}

func (c *Compiler) compileOne(flags, file string) fileResult {
	objName := c.ObjectNameFor(file)
	objPath := filepath.Join(c.ObjectDir, objName)

	contentHash, hashKnown := c.Hashes[file]
	useCache := c.Cache != nil && hashKnown
	cacheKey := cacheKeyFor(c.Config, flags, contentHash)

	if useCache && c.Cache.Fetch(cacheKey, objPath) {
		return fileResult{file: file, exitCode: 0}
	}

	tmpPath := filepath.Join(os.TempDir(), "easy-make-"+objName+"-"+uuid.New().String()+".diag")
	defer os.Remove(tmpPath)

	args := []string{}
	if flags != "" {
		args = append(args, splitFlags(flags)...)
	}
	args = append(args, "-fdiagnostics-color=always", "-c", file, "-o", objPath)

	cmd := exec.Command(c.Config.Compiler, args...)
	cmd.Dir = c.ProjectRoot

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fileResult{file: file, failed: true, diagnostic: []byte(err.Error() + "\n")}
	}
	cmd.Stdout = tmp
	cmd.Stderr = tmp

	runErr := cmd.Run()
	tmp.Close()

	diagnostic, readErr := os.ReadFile(tmpPath)
	if readErr != nil {
		diagnostic = nil
	}

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	} else if runErr != nil {
		exitCode = -1
	}

	failed := exitCode != 0
	if !failed && useCache {
		_ = c.Cache.Store(cacheKey, objPath)
	}
	if c.Logger != nil && failed {
		c.Logger.Error("compile failed", file, "exit", exitCode)
	}

	return fileResult{file: file, exitCode: exitCode, diagnostic: diagnostic, failed: failed}
}

// cacheKeyFor derives a cache key from compiler, flags and the source
// file's content hash, never its path, so that editing a file invalidates
// its cache entry instead of hitting the object built from the old bytes.
// Two configurations compiling byte-identical source with identical flags
// still share one entry.
func cacheKeyFor(c *configresolve.ResolvedConfiguration, flags string, contentHash hashutil.ContentHash) string {
	return fmt.Sprintf("%s|%s|%016x", c.Compiler, flags, uint64(contentHash))
}

// splitFlags splits a pre-composed, space-joined flag string back into
// argv entries. ComposeFlags never introduces quoting, so a naive split on
// spaces round-trips every flag it produces.
func splitFlags(flags string) []string {
	var out []string
	start := -1
	for i := 0; i < len(flags); i++ {
		if flags[i] == ' ' {
			if start >= 0 {
				out = append(out, flags[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, flags[start:])
	}
	return out
}
