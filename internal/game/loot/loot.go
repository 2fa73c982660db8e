// Package loot implements probabilistic loot resolution: per-item drop
// rolls against a loot table and gold reward rolls, both drawing through an
// injectable dice.Source.
package loot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ashfall-games/ashfall/internal/game/dice"
	"github.com/ashfall-games/ashfall/internal/game/item"
)

// ErrNotDropped signals that a requested item was never rolled or has
// already been taken. This is a normal outcome, not a failure; callers must
// treat it as an expected branch.
var ErrNotDropped = errors.New("loot not dropped")

// Entry is one (item, drop chance) pair in a loot table.
type Entry struct {
	ItemID int `yaml:"item"`
	// Chance is the drop chance in percent, 0-100. 100 always drops,
	// 0 never drops.
	Chance int `yaml:"chance"`
}

// Table is an ordered list of possible drops associated with a creature
// template.
type Table struct {
	Entries []Entry `yaml:"entries"`
}

// Validate checks that every entry references an item and has a chance in
// [0, 100]. An empty table is valid.
func (t Table) Validate() error {
	for i, e := range t.Entries {
		if e.ItemID <= 0 {
			return fmt.Errorf("loot table: entry[%d] must reference an item, got %d", i, e.ItemID)
		}
		if e.Chance < 0 || e.Chance > 100 {
			return fmt.Errorf("loot table: entry[%d] chance must be in [0, 100], got %d", i, e.Chance)
		}
	}
	return nil
}

// Drop is one rolled reward: either a gold amount or an item.
type Drop struct {
	Gold int
	Item item.Item
}

// IsGold reports whether this drop is the currency entry.
func (d Drop) IsGold() bool { return d.Gold > 0 }

// Result maps drop name to the rolled reward. The reserved "gold" key holds
// the currency drop. A Result is populated only after the owning monster
// dies.
type Result map[string]Drop

// Take removes and returns the named drop.
//
// Postcondition: The drop is no longer present in the result. Returns
// ErrNotDropped when the name was never rolled or was already taken.
func (r Result) Take(name string) (Drop, error) {
	d, ok := r[name]
	if !ok {
		return Drop{}, fmt.Errorf("taking %q: %w", name, ErrNotDropped)
	}
	delete(r, name)
	return d, nil
}

// Roll resolves every entry of table with one independent uniform draw each.
// An entry drops iff its chance percentage is at least the draw scaled to
// [0, 100); a chance of 100 therefore always drops and a chance of 0 never
// does.
//
// Precondition: table must have passed Validate; items must resolve every
// entry's ItemID.
// Postcondition: Returns the dropped items keyed by name. A missing item
// definition is a content-data error and aborts the roll.
func Roll(src dice.Source, table Table, items map[int]item.Item) (Result, error) {
	result := make(Result)
	for _, e := range table.Entries {
		if e.Chance <= 0 {
			continue
		}
		if float64(e.Chance) < src.Float64()*100 {
			continue
		}
		it, ok := items[e.ItemID]
		if !ok {
			return nil, fmt.Errorf("loot roll: item %d is not defined", e.ItemID)
		}
		result[it.Name] = Drop{Item: it}
	}
	return result, nil
}

// RollGold returns a uniform gold amount in [minGold, maxGold] inclusive.
//
// Precondition: 0 <= minGold <= maxGold.
func RollGold(src dice.Source, minGold, maxGold int) int {
	return dice.RollRange(src, minGold, maxGold)
}

// LoadTables reads every *.yaml file in dir as a mapping of table entry id
// to Table.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all validated tables or an error on the first
// failure.
func LoadTables(dir string) (map[int]Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading loot dir %q: %w", dir, err)
	}

	tables := make(map[int]Table)
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
			Tables map[int]Table `yaml:"loot_tables"`
		}
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for id, tbl := range file.Tables {
			if err := tbl.Validate(); err != nil {
				return nil, fmt.Errorf("%q table %d: %w", path, id, err)
			}
			tables[id] = tbl
		}
	}
	return tables, nil
}
