package signatures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// definitionsFile is the on-disk YAML shape of an external signature overlay.
// Entries append after the builtin database, so builtin declarations keep
// first-match priority.
type definitionsFile struct {
	Processes     []Signature       `yaml:"processes"`
	Filenames     []Signature       `yaml:"filenames"`
	Registry      []Signature       `yaml:"registry"`
	Hashes        map[string]string `yaml:"hashes"`
	AdwareMarkers []string          `yaml:"adware_markers"`
}

// LoadFile merges an external YAML definitions file into the store.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read signature file: %w", err)
	}

	var defs definitionsFile
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("parse signature file: %w", err)
	}

	for _, sig := range append(append(defs.Processes, defs.Filenames...), defs.Registry...) {
		if sig.Pattern == "" {
			return fmt.Errorf("signature file %s: entry with empty pattern", path)
		}
	}

	s.processes = append(s.processes, defs.Processes...)
	s.filenames = append(s.filenames, defs.Filenames...)
	s.registry = append(s.registry, defs.Registry...)
	s.adwareMarkers = append(s.adwareMarkers, defs.AdwareMarkers...)
	if len(defs.Hashes) > 0 {
		s.MergeHashes(defs.Hashes)
	}
	return nil
}
