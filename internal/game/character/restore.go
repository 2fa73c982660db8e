package character

import (
	"fmt"

	"github.com/ashfall-games/ashfall/internal/game/effect"
	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/quest"
)

// SavedSlot is one persisted inventory entry.
type SavedSlot struct {
	Item  item.Item
	Count int
}

// SavedQuest is one persisted quest-log entry with its kill progress.
type SavedQuest struct {
	Quest quest.Quest
	Kills int
}

// SavedState is a character's persisted progress, already resolved against
// the content pack by the storage layer.
type SavedState struct {
	Level      int
	Experience int
	Health     int
	MaxHealth  int
	Mana       int
	MaxMana    int
	Strength   int
	Armor      int
	Gold       int

	// EquippedWeapon is the saved weapon; a zero item keeps the starter.
	EquippedWeapon item.Item
	Inventory      []SavedSlot
	Quests         []SavedQuest
	// DoTs are the effects still ticking at save time, caster level already
	// re-associated via UpdateCasterLevel.
	DoTs []*effect.DoT
}

// Restore rebuilds a character from persisted progress: stats, weapon,
// inventory, quest log with kill counters, and still-ticking DoTs. Class
// spells are re-learned from the saved level rather than persisted.
//
// Precondition: st.Level >= 1 and st.Health >= 1; dead characters are never
// saved.
// Postcondition: Returns the rebuilt character, or a table lookup error for
// the saved level.
func Restore(cfg Config, st SavedState) (*Character, error) {
	if st.Level < 1 {
		return nil, fmt.Errorf("restoring %q: level %d is invalid", cfg.Name, st.Level)
	}
	if st.Health < 1 {
		return nil, fmt.Errorf("restoring %q: health %d is invalid", cfg.Name, st.Health)
	}

	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	xpReq, err := cfg.Tables.XPToLevel(st.Level)
	if err != nil {
		return nil, fmt.Errorf("restoring %q: %w", cfg.Name, err)
	}

	c.Level = st.Level
	c.Experience = st.Experience
	c.XPToLevel = xpReq
	c.Strength = st.Strength
	c.Armor = st.Armor
	c.MaxHealth = st.MaxHealth
	c.MaxMana = st.MaxMana
	c.Health = min(st.Health, st.MaxHealth)
	c.Mana = min(st.Mana, st.MaxMana)

	c.Spellbook.LearnUpTo(c.classSpells, c.Level)
	if st.EquippedWeapon.IsWeapon() {
		c.equipWeapon(st.EquippedWeapon)
	} else {
		// Re-derive starter damage from the restored strength.
		c.equipWeapon(c.EquippedWeapon)
	}

	for _, slot := range st.Inventory {
		c.Inventory.Add(slot.Item, slot.Count)
	}
	c.Inventory.AwardGold(st.Gold)

	for _, sq := range st.Quests {
		restored := sq.Quest
		restored.Kills = sq.Kills
		restored.CheckItems(c.Inventory)
		c.QuestLog[restored.ID] = &restored
	}

	for _, d := range st.DoTs {
		c.AddDoT(d)
	}
	return c, nil
}
