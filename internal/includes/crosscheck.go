package includes

import (
	"bufio"
	"bytes"
	"os/exec"
	"strings"
)

// CrossCheckWithCompilerM runs `{compiler} -M {cppInFile}` and reports
// whether every header it names was also found by ScanQuotedIncludes plus
// ResolveInclude for cppInFile. It is a development/test-only confidence
// check, not part of the build core: the regex scanner is deliberately not
// a full preprocessor, so it can miss includes reached only through macro
// expansion. A mismatch here is a signal to investigate, not a build
// failure.
func CrossCheckWithCompilerM(compiler, projectRoot, cppInFile string, resolved []string) (bool, error) {
	cmd := exec.Command(compiler, "-M", cppInFile)
	cmd.Dir = projectRoot
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return false, err
	}

	cxxFound := parseMakeDepOutput(out.String())

	resolvedSet := make(map[string]struct{}, len(resolved))
	for _, r := range resolved {
		resolvedSet[r] = struct{}{}
	}

	equal := true
	for _, h := range cxxFound {
		if _, ok := resolvedSet[h]; !ok {
			equal = false
		}
	}
	return equal, nil
}

// parseMakeDepOutput extracts header paths from `cxx -M`'s Makefile-rule
// output, skipping the target, line-continuations, and the source file
// itself.
func parseMakeDepOutput(output string) []string {
	var headers []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimSuffix(scanner.Text(), "\\"))
		line = strings.TrimSpace(line)
		if first {
			if idx := strings.Index(line, ":"); idx >= 0 {
				line = strings.TrimSpace(line[idx+1:])
			}
			first = false
		}
		for _, field := range strings.Fields(line) {
			if strings.HasSuffix(field, ".cpp") || strings.HasSuffix(field, ".cc") || strings.HasSuffix(field, ".cxx") {
				continue
			}
			headers = append(headers, field)
		}
	}
	return headers
}
