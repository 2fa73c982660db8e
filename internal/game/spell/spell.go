// Package spell provides class ability definitions and per-character
// spellbooks. Learned-spell state is owned by each character instance;
// there is no process-wide class registry, so two characters of the same
// class never share cooldown or learning state.
package spell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spell is a content-defined class ability. Exactly one of Damage or Heal
// is expected to be non-zero, but the engine does not enforce a payload.
type Spell struct {
	Name string `yaml:"name"`
	Rank int    `yaml:"rank"`
	// LevelRequired is the character level at which the spell (or this
	// rank of it) is learned.
	LevelRequired int `yaml:"level_required"`
	ManaCost      int `yaml:"mana_cost"`
	Damage        int `yaml:"damage"`
	Heal          int `yaml:"heal"`
	// Cooldown is the number of turns before the spell can be cast again.
	Cooldown int `yaml:"cooldown"`
}

// Validate checks the definition invariants.
func (s Spell) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("spell: name must not be empty")
	}
	if s.Rank < 1 {
		return fmt.Errorf("spell %q: rank must be >= 1, got %d", s.Name, s.Rank)
	}
	if s.LevelRequired < 1 {
		return fmt.Errorf("spell %q: level_required must be >= 1, got %d", s.Name, s.LevelRequired)
	}
	if s.ManaCost < 0 {
		return fmt.Errorf("spell %q: mana_cost must be >= 0, got %d", s.Name, s.ManaCost)
	}
	if s.Cooldown < 0 {
		return fmt.Errorf("spell %q: cooldown must be >= 0, got %d", s.Name, s.Cooldown)
	}
	return nil
}

// LoadSpells reads every *.yaml file in dir, each declaring the spell list
// for one class, and returns the lists keyed by class id.
//
// Precondition: dir must be a readable directory.
func LoadSpells(dir string) (map[string][]Spell, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading spell dir %q: %w", dir, err)
	}

	classes := make(map[string][]Spell)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var file struct {
			Class  string  `yaml:"class"`
			Spells []Spell `yaml:"spells"`
		}
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if file.Class == "" {
			return nil, fmt.Errorf("%q: class must not be empty", path)
		}
		for _, s := range file.Spells {
			if err := s.Validate(); err != nil {
				return nil, fmt.Errorf("%q: %w", path, err)
			}
		}
		classes[file.Class] = append(classes[file.Class], file.Spells...)
	}
	return classes, nil
}
