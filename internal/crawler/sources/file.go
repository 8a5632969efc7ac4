package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the layout of a rulesets YAML file
type File struct {
	Sites []*Ruleset `yaml:"sites"`
}

// LoadFile reads rulesets from a YAML file and validates each of them
func LoadFile(path string) ([]*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rulesets file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates rulesets from YAML
func Parse(data []byte) ([]*Ruleset, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode rulesets: %w", err)
	}
	if len(f.Sites) == 0 {
		return nil, fmt.Errorf("%w: file defines no sites", ErrInvalidRuleset)
	}

	seen := make(map[string]bool, len(f.Sites))
	for _, r := range f.Sites {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: site %s defined twice", ErrInvalidRuleset, r.Name)
		}
		seen[r.Name] = true
	}
	return f.Sites, nil
}

// Merge overlays rulesets on base; a ruleset with the same name replaces the base one
func Merge(base, overlay []*Ruleset) []*Ruleset {
	merged := make([]*Ruleset, 0, len(base)+len(overlay))
	replaced := make(map[string]*Ruleset, len(overlay))
	for _, r := range overlay {
		replaced[r.Name] = r
	}
	for _, r := range base {
		if o, ok := replaced[r.Name]; ok {
			merged = append(merged, o)
			delete(replaced, r.Name)
			continue
		}
		merged = append(merged, r)
	}
	for _, r := range overlay {
		if _, ok := replaced[r.Name]; ok {
			merged = append(merged, r)
		}
	}
	return merged
}
