// Package configresolve resolves single-parent configuration inheritance
// and validates the resolved result.
package configresolve

// Configuration is a named bundle of compiler/flags/source-set/output
// information with every field optional except Name, so that inheritance
// can fill in the rest from a named Parent.
type Configuration struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`

	Compiler           *string  `json:"compiler,omitempty"`
	Standard           *string  `json:"standard,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
	CompilationFlags   []string `json:"compilation_flags,omitempty"`
	LinkFlags          []string `json:"link_flags,omitempty"`
	Optimization       *string  `json:"optimization,omitempty"`
	Defines            []string `json:"defines,omitempty"`
	IncludeDirectories []string `json:"include_directories,omitempty"`

	SourceFiles         []string `json:"source_files,omitempty"`
	SourceDirectories   []string `json:"source_directories,omitempty"`
	ExcludedFiles       []string `json:"excluded_files,omitempty"`
	ExcludedDirectories []string `json:"excluded_directories,omitempty"`

	OutputName *string `json:"output_name,omitempty"`
	OutputPath *string `json:"output_path,omitempty"`
}

// ResolvedConfiguration is a Configuration after parent-chain merging;
// Parent is always cleared (it has been consumed by resolution).
type ResolvedConfiguration struct {
	Name   string
	Parent string // always empty after resolution

	Compiler         string
	Standard         string // empty if unset
	Warnings         []string
	CompilationFlags []string
	LinkFlags        []string
	Optimization     string // empty if unset
	Defines          []string
	IncludeDirectories []string

	SourceFiles         []string
	SourceDirectories   []string
	ExcludedFiles       []string
	ExcludedDirectories []string

	OutputName string
	OutputPath string
}

// IsComplete reports whether compiler and output_name are both present,
// i.e. whether this configuration can actually be built.
func (c *ResolvedConfiguration) IsComplete() bool {
	return c.Compiler != "" && c.OutputName != ""
}

// Filter selects which resolved configurations ResolveAll returns.
type Filter int

const (
	FilterAll Filter = iota
	FilterComplete
	FilterIncomplete
)
