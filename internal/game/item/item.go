// Package item provides item definitions and the character inventory:
// a mapping of item name to (item, count) with a reserved gold entry.
package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrItemNotFound is returned when an inventory or vendor lookup references
// an item that is not present.
var ErrItemNotFound = errors.New("item not found")

// WeaponStats holds the damage range of an equippable weapon.
type WeaponStats struct {
	MinDamage int `yaml:"min_damage"`
	MaxDamage int `yaml:"max_damage"`
}

// Item is a content-defined item. Weapon is non-nil for equippable weapons.
type Item struct {
	Name     string `yaml:"name"`
	BuyPrice int    `yaml:"buy_price"`
	// QuestRelationID links the item to the quest it advances; 0 = none.
	QuestRelationID int          `yaml:"quest_relation_id"`
	Weapon          *WeaponStats `yaml:"weapon"`
}

// IsWeapon reports whether the item can be equipped as a weapon.
func (i Item) IsWeapon() bool { return i.Weapon != nil }

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff the name is non-empty, the buy price is
// >= 0, and any weapon range satisfies 0 <= min <= max.
func (i Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item: name must not be empty")
	}
	if i.Name == GoldKey {
		return fmt.Errorf("item %q: name is reserved", i.Name)
	}
	if i.BuyPrice < 0 {
		return fmt.Errorf("item %q: buy_price must be >= 0, got %d", i.Name, i.BuyPrice)
	}
	if i.Weapon != nil {
		if i.Weapon.MinDamage < 0 {
			return fmt.Errorf("item %q: weapon min_damage must be >= 0, got %d", i.Name, i.Weapon.MinDamage)
		}
		if i.Weapon.MinDamage > i.Weapon.MaxDamage {
			return fmt.Errorf("item %q: weapon min_damage (%d) must be <= max_damage (%d)",
				i.Name, i.Weapon.MinDamage, i.Weapon.MaxDamage)
		}
	}
	return nil
}

// String returns the item display name, tagged for weapons.
func (i Item) String() string {
	if i.IsWeapon() {
		return fmt.Sprintf("%s (%d-%d damage)", i.Name, i.Weapon.MinDamage, i.Weapon.MaxDamage)
	}
	return i.Name
}

// LoadItems reads every *.yaml file in dir, parses each as a list of item
// definitions, and returns them keyed by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all validated items keyed by their numeric entry,
// or an error on the first parse or validation failure.
func LoadItems(dir string) (map[int]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading item dir %q: %w", dir, err)
	}

	items := make(map[int]Item)
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
			Items map[int]Item `yaml:"items"`
		}
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for entry, it := range file.Items {
			if err := it.Validate(); err != nil {
				return nil, fmt.Errorf("%q entry %d: %w", path, entry, err)
			}
			items[entry] = it
		}
	}
	return items, nil
}
