// Package character defines the player character: the entity that owns
// progression state, an inventory, a quest log, a spellbook, and the active
// status effects that buffs and DoTs mutate.
package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ashfall-games/ashfall/internal/game/damage"
	"github.com/ashfall-games/ashfall/internal/game/dice"
	"github.com/ashfall-games/ashfall/internal/game/entity"
	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/progression"
	"github.com/ashfall-games/ashfall/internal/game/quest"
	"github.com/ashfall-games/ashfall/internal/game/spell"
)

// starterWeapon is equipped at creation before any content item is.
var starterWeapon = item.Item{
	Name:   "Starter Weapon",
	Weapon: &item.WeaponStats{MinDamage: 0, MaxDamage: 1},
}

// IsStarter reports whether it is the creation-time starter weapon. The
// starter has no content ID and is never persisted.
func IsStarter(it item.Item) bool { return it.Name == starterWeapon.Name }

// Character is a player character. Not safe for concurrent use; the turn
// loop owns it exclusively during processing.
type Character struct {
	entity.LivingState

	Level      int
	Experience int
	// XPToLevel is the requirement to advance from the current level,
	// looked up from the progression tables.
	XPToLevel int
	Strength  int
	Armor     int

	// Class identifies the character class whose spell list feeds the
	// spellbook; empty for classless characters.
	Class string

	// MinDamage and MaxDamage are derived from the equipped weapon and
	// strength; recomputed on every equip.
	MinDamage float64
	MaxDamage float64

	EquippedWeapon item.Item
	Inventory      *item.Inventory
	QuestLog       map[int]*quest.Quest
	Spellbook      *spell.Spellbook

	buffs []*appliedBuff
	dots  []*activeDoT

	tables      progression.Tables
	classSpells []spell.Spell
	log         *zap.Logger
}

// Config carries the construction parameters for a character.
type Config struct {
	Name     string
	Health   int
	Mana     int
	Strength int
	Armor    int
	Class    string
	// ClassSpells is the spell list the spellbook learns from as the
	// character levels; owned by this instance, never shared.
	ClassSpells []spell.Spell
	Tables      progression.Tables
	Logger      *zap.Logger
}

// New creates a level-1 character with full resources, the starter weapon
// equipped, an empty inventory and quest log, and its class spells learned
// for level 1.
//
// Precondition: cfg.Tables must define the XP requirement for level 1.
// Postcondition: Returns a ready character or the table lookup error.
func New(cfg Config) (*Character, error) {
	xpReq, err := cfg.Tables.XPToLevel(1)
	if err != nil {
		return nil, fmt.Errorf("creating character %q: %w", cfg.Name, err)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Character{
		LivingState: entity.NewLivingState(cfg.Name, cfg.Health, cfg.Mana),
		Level:       1,
		XPToLevel:   xpReq,
		Strength:    cfg.Strength,
		Armor:       cfg.Armor,
		Class:       cfg.Class,
		Inventory:   item.NewInventory(),
		QuestLog:    make(map[int]*quest.Quest),
		Spellbook:   spell.NewSpellbook(),
		tables:      cfg.Tables,
		classSpells: cfg.ClassSpells,
		log:         log,
	}
	c.Spellbook.LearnUpTo(c.classSpells, c.Level)
	c.equipWeapon(starterWeapon)
	return c, nil
}

// equipWeapon sets the equipped weapon and recomputes the damage range:
// weapon damage plus 10% of strength on both ends.
func (c *Character) equipWeapon(weapon item.Item) {
	c.EquippedWeapon = weapon
	c.MinDamage = float64(weapon.Weapon.MinDamage) + 0.1*float64(c.Strength)
	c.MaxDamage = float64(weapon.Weapon.MaxDamage) + 0.1*float64(c.Strength)
}

// EquipItem equips the named weapon from the inventory.
//
// Exactly one unit of the item leaves the inventory (the slot is deleted at
// zero), and the previously equipped weapon goes back in, merging counts if
// one is already held.
//
// Postcondition: Returns item.ErrItemNotFound when the item is absent, or
// an error when it is not a weapon; the character is unchanged on error.
func (c *Character) EquipItem(name string) error {
	slot, ok := c.Inventory.Get(name)
	if !ok {
		return fmt.Errorf("equipping %q: %w", name, item.ErrItemNotFound)
	}
	if !slot.Item.IsWeapon() {
		return fmt.Errorf("equipping %q: not a weapon", name)
	}

	if _, err := c.Inventory.RemoveOne(name); err != nil {
		return err
	}
	c.Inventory.Add(c.EquippedWeapon, 1)
	c.equipWeapon(slot.Item)

	c.log.Info("equipped weapon",
		zap.String("character", c.Name),
		zap.String("weapon", slot.Item.Name),
	)
	return nil
}

// LeaveCombat leaves combat, fully regenerates, resets spell cooldowns, and
// strips all remaining status effects (reversing buff deltas symmetrically).
// Regeneration happens before the buffs come off, so losing buffed health
// headroom clamps to the unbuffed maximum instead of reading as damage.
func (c *Character) LeaveCombat() {
	c.LivingState.LeaveCombat()
	for len(c.buffs) > 0 {
		c.RemoveBuff(c.buffs[0].buff)
	}
	c.dots = nil
	c.Spellbook.ResetCooldowns()
}

// BuyItem performs the character side of a vendor sale: the price is
// deducted and the goods are awarded (running any quest-item cascade).
//
// Postcondition: Returns an error and changes nothing when the balance
// does not cover the price.
func (c *Character) BuyItem(it item.Item, count, price int) error {
	if err := c.Inventory.SpendGold(price); err != nil {
		return fmt.Errorf("buying %q: %w", it.Name, err)
	}
	_, err := c.AwardItem(it, count)
	return err
}

// Snapshot is the character view exposed to the display layer.
type Snapshot struct {
	entity.Snapshot

	Level      int
	Experience int
	XPToLevel  int
	Strength   int
	Armor      int
	MinDamage  float64
	MaxDamage  float64
	Weapon     string
}

// Snapshot returns the character's current display state.
func (c *Character) Snapshot() Snapshot {
	return Snapshot{
		Snapshot:   c.LivingState.Snapshot(),
		Level:      c.Level,
		Experience: c.Experience,
		XPToLevel:  c.XPToLevel,
		Strength:   c.Strength,
		Armor:      c.Armor,
		MinDamage:  c.MinDamage,
		MaxDamage:  c.MaxDamage,
		Weapon:     c.EquippedWeapon.Name,
	}
}

// AutoAttackDamage computes one raw swing against a target of the given
// level, rolling over the derived weapon damage range.
func (c *Character) AutoAttackDamage(src dice.Source, targetLevel int) damage.Damage {
	return damage.AutoAttack(src, c.Level, int(c.MinDamage), int(c.MaxDamage), targetLevel)
}

// TakeAttack applies an incoming swing: armor mitigation first, then the
// health decrement and death check. Only characters mitigate; monsters take
// raw damage.
//
// Postcondition: Returns the mitigated damage actually applied and whether
// the hit killed the character.
func (c *Character) TakeAttack(attackerName string, raw damage.Damage, attackerLevel int) (damage.Damage, bool) {
	mitigated := damage.ApplyArmorMitigation(raw, c.Armor, attackerLevel)
	died := c.TakeDamage(mitigated.Points())
	c.log.Debug("character hit",
		zap.String("character", c.Name),
		zap.String("attacker", attackerName),
		zap.Float64("raw", raw.Phys),
		zap.Float64("mitigated", mitigated.Phys),
		zap.Int("health", c.Health),
	)
	if died {
		c.log.Info("character has died", zap.String("character", c.Name))
	}
	return mitigated, died
}
