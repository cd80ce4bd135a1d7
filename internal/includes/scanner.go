// Package includes extracts and resolves quoted #include directives,
// the basis of the header dependency graph.
package includes

import (
	"bufio"
	"os"
	"regexp"
)

var quotedIncludeRe = regexp.MustCompile(`^\s*#\s*include\s*"([^"]+)"`)

// ScanQuotedIncludes reads path line by line and returns every quoted
// #include argument found, in order of appearance, duplicates preserved.
// Angle-bracket includes (<...>) are intentionally ignored. A file that
// cannot be opened or read yields an empty list, not an error. This
// matches sources that list headers produced by other build steps.
func ScanQuotedIncludes(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var found []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if m := quotedIncludeRe.FindStringSubmatch(scanner.Text()); m != nil {
			found = append(found, m[1])
		}
	}
	return found
}
