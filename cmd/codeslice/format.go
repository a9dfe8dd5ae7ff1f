package main

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"codeslice/internal/emit"
)

// OutputFormat represents the CLI output encodings
type OutputFormat string

const (
	// JSONOutput renders indented JSON
	JSONOutput OutputFormat = "json"
	// YAMLOutput renders YAML
	YAMLOutput OutputFormat = "yaml"
)

// FormatResults encodes a result set in the requested format
func FormatResults(results []emit.FileResult, format OutputFormat) (string, error) {
	switch format {
	case JSONOutput:
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case YAMLOutput:
		data, err := yaml.Marshal(results)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected json or yaml)", format)
	}
}
