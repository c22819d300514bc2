package main

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// structured reports whether the output format is JSON or YAML.
func (a *app) structured() bool {
	return a.format == formatJSON || a.format == formatYAML
}

// printStructured writes v as indented JSON or YAML depending on --format.
func (a *app) printStructured(v any) error {
	switch a.format {
	case formatYAML:
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
