// Package content loads the external game tables from a YAML content root
// and cross-validates the references between them. The engine consumes the
// aggregate; it never touches the filesystem itself.
//
// Layout under the content root:
//
//	progression.yaml   level stats, xp requirements, creature rewards
//	items/*.yaml       item definitions
//	loot_tables/*.yaml drop tables
//	quests/*.yaml      quest definitions
//	creatures/*.yaml   monster / NPC / vendor templates
//	spells/*.yaml      per-class spell lists
//	scripts/*.lua      gossip scripts (loaded by the scripting runner)
package content

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ashfall-games/ashfall/internal/game/creature"
	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/loot"
	"github.com/ashfall-games/ashfall/internal/game/progression"
	"github.com/ashfall-games/ashfall/internal/game/quest"
	"github.com/ashfall-games/ashfall/internal/game/spell"
)

// Pack is the full loaded content set.
type Pack struct {
	Progression progression.Tables
	Items       map[int]item.Item
	LootTables  map[int]loot.Table
	Quests      map[int]quest.Quest
	Creatures   creature.Definitions
	ClassSpells map[string][]spell.Spell
}

// ScriptsDir returns the gossip script directory under root.
func ScriptsDir(root string) string { return filepath.Join(root, "scripts") }

// Load reads every content table under root and cross-validates references
// between them.
//
// Postcondition: Returns a fully resolved pack, or an error naming the
// first broken table or dangling reference. A partial pack is never
// returned.
func Load(root string, log *zap.Logger) (*Pack, error) {
	if log == nil {
		log = zap.NewNop()
	}

	tables, err := progression.LoadTables(filepath.Join(root, "progression.yaml"))
	if err != nil {
		return nil, err
	}
	items, err := item.LoadItems(filepath.Join(root, "items"))
	if err != nil {
		return nil, err
	}
	lootTables, err := loot.LoadTables(filepath.Join(root, "loot_tables"))
	if err != nil {
		return nil, err
	}
	quests, err := quest.LoadQuests(filepath.Join(root, "quests"))
	if err != nil {
		return nil, err
	}
	classSpells, err := spell.LoadSpells(filepath.Join(root, "spells"))
	if err != nil {
		return nil, err
	}
	templates, err := creature.LoadTemplates(filepath.Join(root, "creatures"))
	if err != nil {
		return nil, err
	}
	defs, err := creature.Resolve(templates, items, lootTables)
	if err != nil {
		return nil, err
	}

	p := &Pack{
		Progression: tables,
		Items:       items,
		LootTables:  lootTables,
		Quests:      quests,
		Creatures:   defs,
		ClassSpells: classSpells,
	}
	if err := p.verifyReferences(); err != nil {
		return nil, err
	}

	log.Info("content loaded",
		zap.Int("items", len(items)),
		zap.Int("loot_tables", len(lootTables)),
		zap.Int("quests", len(quests)),
		zap.Int("monsters", len(defs.Monsters)),
		zap.Int("npcs", len(defs.Friendly)+len(defs.Vendors)),
		zap.Int("classes", len(classSpells)),
	)
	return p, nil
}

// verifyReferences checks every cross-table reference so a dangling ID
// fails at load instead of mid-combat.
func (p *Pack) verifyReferences() error {
	for id, tbl := range p.LootTables {
		for _, e := range tbl.Entries {
			if _, ok := p.Items[e.ItemID]; !ok {
				return fmt.Errorf("loot table %d: item %d is not defined", id, e.ItemID)
			}
		}
	}
	for id, it := range p.Items {
		if it.QuestRelationID != 0 {
			if _, ok := p.Quests[it.QuestRelationID]; !ok {
				return fmt.Errorf("item %d: quest %d is not defined", id, it.QuestRelationID)
			}
		}
	}
	for entry, def := range p.Creatures.Monsters {
		if def.QuestRelationID != 0 {
			if _, ok := p.Quests[def.QuestRelationID]; !ok {
				return fmt.Errorf("creature %d: quest %d is not defined", entry, def.QuestRelationID)
			}
		}
	}
	return nil
}
