// Package dictionary holds the keyword data used by the free-text heuristic
// matcher: sugar-bearing ingredient terms and allergen synonym groups.
// The data ships embedded but can be replaced by a versioned YAML file, so
// dictionary updates do not require a redeploy.
package dictionary

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// SynonymGroup maps a canonical allergen group name to the ingredient-text
// synonyms and derivatives that imply its presence.
type SynonymGroup struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Dictionaries is the full keyword data set. Slices keep declaration order;
// the matcher iterates them in order so output is stable and testable.
type Dictionaries struct {
	SugarTerms    []string       `yaml:"sugar_terms"`
	SynonymGroups []SynonymGroup `yaml:"synonym_groups"`
}

// Default returns the embedded dictionaries.
func Default() *Dictionaries {
	d, err := parse(defaultsYAML)
	if err != nil {
		// The embedded file is validated by tests; a parse failure here is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("dictionary: embedded defaults: %v", err))
	}
	return d
}

// Load reads dictionaries from path. An empty path returns the embedded
// defaults.
func Load(path string) (*Dictionaries, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read %s: %w", path, err)
	}

	d, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("dictionary: parse %s: %w", path, err)
	}
	return d, nil
}

func parse(raw []byte) (*Dictionaries, error) {
	var d Dictionaries
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Dictionaries) validate() error {
	if len(d.SugarTerms) == 0 {
		return fmt.Errorf("sugar_terms must not be empty")
	}
	seen := make(map[string]bool, len(d.SynonymGroups))
	for i, g := range d.SynonymGroups {
		if g.Name == "" {
			return fmt.Errorf("synonym_groups[%d]: name is required", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("synonym_groups[%d]: duplicate group %q", i, g.Name)
		}
		seen[g.Name] = true
		if len(g.Keywords) == 0 {
			return fmt.Errorf("synonym_groups[%d] (%s): keywords must not be empty", i, g.Name)
		}
	}
	return nil
}
