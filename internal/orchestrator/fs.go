package orchestrator

import "os"

// removeIfExists deletes path, treating "already absent" as success: stale
// object deletion runs unconditionally, and a file already removed by an
// interrupted previous build is not an error.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
