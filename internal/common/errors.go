package common

import "fmt"

// ConfigError reports a problem found while resolving or validating
// configurations: a missing name, a duplicate name, an unknown
// configuration name, a self-referencing or dangling parent, an invalid
// value, or a listed path that does not exist. A cycle among parents is
// reported as a CycleError.
type ConfigError struct {
	ConfigName string
	Message    string
	Suggestion string // optional "did you mean" hint, empty if none
}

func (e *ConfigError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("configuration %q: %s (did you mean %q?)", e.ConfigName, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("configuration %q: %s", e.ConfigName, e.Message)
}

// CycleError reports a cycle found in a header-include dependency graph or
// among configuration parents. Cycle is the canonical "a -> b -> a" string.
type CycleError struct {
	Cycle string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency: %s", e.Cycle)
}

// CompilationFailure reports that one or more files failed to compile.
type CompilationFailure struct {
	FailedFiles []string // sorted
}

func (e *CompilationFailure) Error() string {
	return fmt.Sprintf("%d file(s) failed to compile: %v", len(e.FailedFiles), e.FailedFiles)
}

// LinkFailure reports that the linker returned a non-zero exit code.
type LinkFailure struct {
	Reason string
}

func (e *LinkFailure) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("link failed: %s", e.Reason)
	}
	return "link failed"
}
