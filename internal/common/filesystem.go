package common

import (
	"os"
	"path/filepath"
)

// MkdirForFile ensures the directory containing fileName exists.
func MkdirForFile(fileName string) error {
	return os.MkdirAll(filepath.Dir(fileName), os.ModePerm)
}

// NormalizeRelPath lexically cleans a relative path and forces forward
// slashes, so that paths stored in metadata are stable across host OSes.
func NormalizeRelPath(relPath string) string {
	cleaned := filepath.ToSlash(filepath.Clean(relPath))
	if cleaned == "." {
		return ""
	}
	return cleaned
}
