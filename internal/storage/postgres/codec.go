package postgres

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ashfall-games/ashfall/internal/content"
	"github.com/ashfall-games/ashfall/internal/game/character"
	"github.com/ashfall-games/ashfall/internal/game/damage"
	"github.com/ashfall-games/ashfall/internal/game/effect"
	"github.com/ashfall-games/ashfall/internal/game/item"
)

// SnapshotCharacter flattens a live character into its persisted form,
// mapping inventory and equipment back to content item IDs.
//
// Postcondition: Every held item resolves to a content ID, or an error
// names the unknown item. The starter weapon maps to equipped ID 0 and is
// dropped from the inventory rows.
func SnapshotCharacter(c *character.Character, items map[int]item.Item) (SavedCharacter, error) {
	idsByName := make(map[string]int, len(items))
	for id, it := range items {
		idsByName[it.Name] = id
	}

	sc := SavedCharacter{
		Name:       c.Name,
		Class:      c.Class,
		Level:      c.Level,
		Experience: c.Experience,
		Health:     c.Health,
		MaxHealth:  c.MaxHealth,
		Mana:       c.Mana,
		MaxMana:    c.MaxMana,
		Strength:   c.Strength,
		Armor:      c.Armor,
		Gold:       c.Inventory.Gold(),
	}

	if id, ok := idsByName[c.EquippedWeapon.Name]; ok {
		sc.EquippedItemID = id
	}

	for name, slot := range c.Inventory.Slots() {
		if character.IsStarter(slot.Item) {
			continue
		}
		id, ok := idsByName[name]
		if !ok {
			return SavedCharacter{}, fmt.Errorf("saving %q: item %q has no content id", c.Name, name)
		}
		sc.Items = append(sc.Items, SavedItem{ItemID: id, Count: slot.Count})
	}

	for qid, q := range c.QuestLog {
		sc.Quests = append(sc.Quests, SavedQuest{QuestID: qid, Kills: q.Kills})
	}

	for _, d := range c.ActiveDoTs() {
		sc.DoTs = append(sc.DoTs, SavedDoT{
			Name:          d.Name,
			DamagePerTick: d.DamagePerTick.Phys,
			Duration:      d.Duration,
			CasterLevel:   d.CasterLevel(),
		})
	}
	return sc, nil
}

// RestoreCharacter rebuilds a live character from its persisted form,
// resolving item and quest IDs against the content pack. Saved DoTs are
// reconstructed without a caster and re-associated via UpdateCasterLevel.
//
// Postcondition: Returns the rebuilt character, or an error naming the
// first dangling content reference.
func RestoreCharacter(sc SavedCharacter, pack *content.Pack, log *zap.Logger) (*character.Character, error) {
	st := character.SavedState{
		Level:      sc.Level,
		Experience: sc.Experience,
		Health:     sc.Health,
		MaxHealth:  sc.MaxHealth,
		Mana:       sc.Mana,
		MaxMana:    sc.MaxMana,
		Strength:   sc.Strength,
		Armor:      sc.Armor,
		Gold:       sc.Gold,
	}

	if sc.EquippedItemID != 0 {
		weapon, ok := pack.Items[sc.EquippedItemID]
		if !ok {
			return nil, fmt.Errorf("restoring %q: equipped item %d is not defined", sc.Name, sc.EquippedItemID)
		}
		st.EquippedWeapon = weapon
	}

	for _, saved := range sc.Items {
		it, ok := pack.Items[saved.ItemID]
		if !ok {
			return nil, fmt.Errorf("restoring %q: item %d is not defined", sc.Name, saved.ItemID)
		}
		st.Inventory = append(st.Inventory, character.SavedSlot{Item: it, Count: saved.Count})
	}

	for _, saved := range sc.Quests {
		q, ok := pack.Quests[saved.QuestID]
		if !ok {
			return nil, fmt.Errorf("restoring %q: quest %d is not defined", sc.Name, saved.QuestID)
		}
		st.Quests = append(st.Quests, character.SavedQuest{Quest: q, Kills: saved.Kills})
	}

	for _, saved := range sc.DoTs {
		d := effect.NewDoT(saved.Name, damage.New(saved.DamagePerTick), saved.Duration, 0)
		d.UpdateCasterLevel(saved.CasterLevel)
		st.DoTs = append(st.DoTs, d)
	}

	return character.Restore(character.Config{
		Name:        sc.Name,
		Health:      sc.MaxHealth,
		Mana:        sc.MaxMana,
		Class:       sc.Class,
		ClassSpells: pack.ClassSpells[sc.Class],
		Tables:      pack.Progression,
		Logger:      log,
	}, st)
}
