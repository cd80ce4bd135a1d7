package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/easy-make/easy-make/internal/configresolve"
)

// readConfigurations reads the on-disk shape this CLI expects: a bare
// JSON array of configurations. Richer file formats (nested project
// metadata, comments, includes) are not supported; this is the minimal
// shape []configresolve.Configuration needs to exist at all.
func readConfigurations(path string) ([]configresolve.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	var configs []configresolve.Configuration
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}
	return configs, nil
}
