package compiler

import (
	"strings"

	"github.com/easy-make/easy-make/internal/configresolve"
)

// isMSVC reports whether compiler is the MSVC front end, for which the
// optimization flag syntax differs from GCC/Clang.
func isMSVC(compiler string) bool {
	return compiler == "cl"
}

// ComposeFlags concatenates a resolved configuration's flags into a single
// space-separated string, in a fixed order (standard, warnings,
// compilation flags, optimization, defines, include directories). Any
// field that is absent (empty string or empty slice) is skipped entirely.
func ComposeFlags(c *configresolve.ResolvedConfiguration) string {
	var parts []string

	if c.Standard != "" {
		parts = append(parts, "-std=c++"+c.Standard)
	}
	parts = append(parts, c.Warnings...)
	parts = append(parts, c.CompilationFlags...)

	if c.Optimization != "" {
		if isMSVC(c.Compiler) {
			parts = append(parts, "/O"+c.Optimization)
		} else {
			parts = append(parts, "-O"+c.Optimization)
		}
	}

	for _, d := range c.Defines {
		parts = append(parts, "-D"+d)
	}
	for _, inc := range c.IncludeDirectories {
		parts = append(parts, "-I"+inc)
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}
