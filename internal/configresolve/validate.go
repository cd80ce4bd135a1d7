package configresolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/easy-make/easy-make/internal/common"
	"github.com/easy-make/easy-make/internal/fileset"
)

// isMSVC reports whether compiler is the MSVC front end, for which
// warning/optimization syntax differs.
func isMSVC(compiler string) bool {
	return compiler == "cl"
}

// validate checks that a resolved configuration's field values make sense:
// known compiler/standard/optimization values, well-formed warning flags,
// and that every referenced path actually exists under projectRoot.
// Required-after-resolution fields (name, compiler, output_name) are NOT
// enforced here: whether a configuration is complete enough to build is a
// separate Filter concern, not a hard validation failure.
func validate(c *ResolvedConfiguration, projectRoot string) error {
	if c.Compiler != "" && !validCompilers[c.Compiler] {
		return &common.ConfigError{
			ConfigName: c.Name,
			Message:    "compiler must be one of g++, clang++, cl, got " + c.Compiler,
		}
	}

	if c.Standard != "" && !validStandards[c.Standard] {
		return &common.ConfigError{
			ConfigName: c.Name,
			Message:    "standard must be one of 98, 03, 11, 14, 17, 20, 23, 26, got " + c.Standard,
		}
	}

	msvc := isMSVC(c.Compiler)
	if !msvc {
		for _, w := range c.Warnings {
			if !strings.HasPrefix(w, "-W") || w == "-W" {
				return &common.ConfigError{
					ConfigName: c.Name,
					Message:    "every warning must start with -W and not be exactly -W, got " + w,
				}
			}
		}

		if c.Optimization != "" && !validOptimizations[c.Optimization] {
			return &common.ConfigError{
				ConfigName: c.Name,
				Message:    "optimization must be one of 0, 1, 2, 3, s, fast, got " + c.Optimization,
			}
		}
	}

	for _, sf := range c.SourceFiles {
		ext := filepath.Ext(sf)
		if !fileset.IsSourceExt(ext) {
			return &common.ConfigError{
				ConfigName: c.Name,
				Message: "listed source file " + sf + " has extension " + ext +
					", which is not a recognized source extension (.cpp, .cc, .cxx). " +
					"Headers must not be listed directly in source_files, they are discovered " +
					"transitively via #include and tracked in the dependency graph instead",
			}
		}
		if _, err := os.Stat(filepath.Join(projectRoot, sf)); err != nil {
			return &common.ConfigError{ConfigName: c.Name, Message: "source file does not exist: " + sf}
		}
	}

	for _, dir := range c.SourceDirectories {
		if err := mustBeDir(filepath.Join(projectRoot, dir)); err != nil {
			return &common.ConfigError{ConfigName: c.Name, Message: "source directory does not exist: " + dir}
		}
	}
	for _, dir := range c.ExcludedDirectories {
		if err := mustBeDir(filepath.Join(projectRoot, dir)); err != nil {
			return &common.ConfigError{ConfigName: c.Name, Message: "excluded directory does not exist: " + dir}
		}
	}
	for _, f := range c.ExcludedFiles {
		if _, err := os.Stat(filepath.Join(projectRoot, f)); err != nil {
			return &common.ConfigError{ConfigName: c.Name, Message: "excluded file does not exist: " + f}
		}
	}

	return nil
}

func mustBeDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return os.ErrInvalid
	}
	return nil
}
