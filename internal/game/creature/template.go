// Package creature defines the world's inhabitants: monsters the character
// fights, friendly NPCs that gossip, and vendor NPCs that sell. Templates
// are loaded from YAML and resolved once at load time into typed variants;
// nothing downstream ever branches on a type tag again.
package creature

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/loot"
)

// Kind discriminates creature templates at load time.
type Kind string

const (
	KindMonster  Kind = "monster"
	KindFriendly Kind = "fnpc"
	KindVendor   Kind = "vendor"
)

// Ware is one vendor stock entry in a template.
type Ware struct {
	ItemID int `yaml:"item"`
	Count  int `yaml:"count"`
}

// Template is the raw YAML shape of a creature definition.
type Template struct {
	Entry  int    `yaml:"entry"`
	Kind   Kind   `yaml:"kind"`
	Name   string `yaml:"name"`
	Health int    `yaml:"health"`
	Mana   int    `yaml:"mana"`
	Level  int    `yaml:"level"`

	MinDamage int `yaml:"min_damage"`
	MaxDamage int `yaml:"max_damage"`

	// QuestRelationID links a monster to a kill quest, 0 for none.
	QuestRelationID int `yaml:"quest_relation_id"`
	// LootTableID selects the monster's drop table, 0 for none.
	LootTableID int `yaml:"loot_table"`

	// Gossip is what a friendly NPC says; "$N" expands to the player name.
	Gossip string `yaml:"gossip"`
	// GossipScript names a Lua gossip hook, empty for the static line.
	GossipScript string `yaml:"gossip_script"`

	Wares []Ware `yaml:"wares"`
}

// Validate checks the template invariants for its kind.
func (t Template) Validate() error {
	if t.Entry <= 0 {
		return fmt.Errorf("creature template: entry must be >= 1, got %d", t.Entry)
	}
	if t.Name == "" {
		return fmt.Errorf("creature template %d: name must not be empty", t.Entry)
	}
	if t.Health < 1 {
		return fmt.Errorf("creature template %d: health must be >= 1", t.Entry)
	}
	if t.Level < 1 {
		return fmt.Errorf("creature template %d: level must be >= 1", t.Entry)
	}
	switch t.Kind {
	case KindMonster:
		if t.MinDamage < 0 || t.MaxDamage < t.MinDamage {
			return fmt.Errorf("creature template %d: damage range %d-%d is invalid",
				t.Entry, t.MinDamage, t.MaxDamage)
		}
		if len(t.Wares) > 0 {
			return fmt.Errorf("creature template %d: a monster cannot carry wares", t.Entry)
		}
	case KindFriendly:
		if t.LootTableID != 0 {
			return fmt.Errorf("creature template %d: a friendly NPC cannot carry a loot table", t.Entry)
		}
	case KindVendor:
		for i, w := range t.Wares {
			if w.ItemID <= 0 {
				return fmt.Errorf("creature template %d: wares[%d] must reference an item", t.Entry, i)
			}
			if w.Count < 1 {
				return fmt.Errorf("creature template %d: wares[%d] count must be >= 1", t.Entry, i)
			}
		}
	default:
		return fmt.Errorf("creature template %d: unknown kind %q", t.Entry, t.Kind)
	}
	return nil
}

// LoadTemplates reads every *.yaml file in dir as a `creatures:` list.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all validated templates keyed by entry, or an error
// on the first parse, validation, or duplicate-entry failure.
func LoadTemplates(dir string) (map[int]Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading creature dir %q: %w", dir, err)
	}

	templates := make(map[int]Template)
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
			Creatures []Template `yaml:"creatures"`
		}
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, tmpl := range file.Creatures {
			if err := tmpl.Validate(); err != nil {
				return nil, fmt.Errorf("%q: %w", path, err)
			}
			if _, dup := templates[tmpl.Entry]; dup {
				return nil, fmt.Errorf("%q: duplicate creature entry %d", path, tmpl.Entry)
			}
			templates[tmpl.Entry] = tmpl
		}
	}
	return templates, nil
}

// Definitions holds the resolved typed variants of every creature template.
// Monsters are spawnable blueprints; NPCs are live singletons.
type Definitions struct {
	Monsters map[int]MonsterDef
	Friendly map[int]*FriendlyNPC
	Vendors  map[int]*VendorNPC
}

// Resolve turns raw templates into typed definitions, binding loot tables
// and vendor wares against the item catalog exactly once.
//
// Postcondition: Every monster's loot table and every vendor's wares
// resolve, or an error names the broken reference.
func Resolve(templates map[int]Template, items map[int]item.Item, lootTables map[int]loot.Table) (Definitions, error) {
	defs := Definitions{
		Monsters: make(map[int]MonsterDef),
		Friendly: make(map[int]*FriendlyNPC),
		Vendors:  make(map[int]*VendorNPC),
	}
	for entry, tmpl := range templates {
		switch tmpl.Kind {
		case KindMonster:
			var table loot.Table
			if tmpl.LootTableID != 0 {
				t, ok := lootTables[tmpl.LootTableID]
				if !ok {
					return Definitions{}, fmt.Errorf(
						"creature %d: loot table %d is not defined", entry, tmpl.LootTableID)
				}
				table = t
			}
			defs.Monsters[entry] = MonsterDef{
				Entry:           entry,
				Name:            tmpl.Name,
				Health:          tmpl.Health,
				Mana:            tmpl.Mana,
				Level:           tmpl.Level,
				MinDamage:       tmpl.MinDamage,
				MaxDamage:       tmpl.MaxDamage,
				QuestRelationID: tmpl.QuestRelationID,
				LootTable:       table,
				Items:           items,
			}
		case KindFriendly:
			defs.Friendly[entry] = NewFriendlyNPC(tmpl)
		case KindVendor:
			vendor, err := NewVendorNPC(tmpl, items)
			if err != nil {
				return Definitions{}, err
			}
			defs.Vendors[entry] = vendor
		}
	}
	return defs, nil
}
