package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Presets is a named-expression table loaded from a --presets YAML file
// (SPEC_FULL.md §2.3), adapted from the teacher's internal/style
// LoadConfig: a flat map of name to filter expression text rather than a
// geometry-keyed tag-filter tree, since this module's "style" is the
// expression language itself.
type Presets map[string]string

// LoadPresets reads a YAML file of the form `name: expression` pairs.
func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read presets file: %w", err)
	}
	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parse presets YAML: %w", err)
	}
	return p, nil
}

// Resolve returns the expression named by ref, or ref itself if no
// preset by that name exists (so a bare expression string always works
// even when --presets is set).
func (p Presets) Resolve(ref string) string {
	if expr, ok := p[ref]; ok {
		return expr
	}
	return ref
}
