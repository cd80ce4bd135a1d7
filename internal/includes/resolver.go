package includes

import (
	"os"
	"path/filepath"

	"github.com/easy-make/easy-make/internal/common"
)

// IncludeDirs is the ordered list of additional roots searched for a
// quoted #include once the including file's own directory has failed,
// generalized from the -I/-iquote/-isystem search-group ordering a real
// C++ compiler invocation carries.
type IncludeDirs struct {
	Roots []string // relative to project root, searched in order
}

// ResolveInclude resolves rawInclude (the string captured from an
// #include "..." directive) against, in order: (1) the directory
// containing includingFile, then (2) each entry of includeRoots. The
// first candidate that exists as a regular file under projectRoot wins.
// The returned path is relative to projectRoot and lexically normalized.
// Returns ("", false) if no candidate resolves, which is typical for
// system or vendored headers that aren't part of the tracked dependency
// graph.
func ResolveInclude(rawInclude, includingFile, projectRoot string, includeRoots []string) (string, bool) {
	candidates := make([]string, 0, 1+len(includeRoots))
	candidates = append(candidates, filepath.Dir(includingFile))
	candidates = append(candidates, includeRoots...)

	for _, root := range candidates {
		relCandidate := filepath.Join(root, rawInclude)
		absCandidate := filepath.Join(projectRoot, relCandidate)

		info, err := os.Stat(absCandidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		return common.NormalizeRelPath(relCandidate), true
	}

	return "", false
}
