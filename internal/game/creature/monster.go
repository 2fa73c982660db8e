package creature

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashfall-games/ashfall/internal/game/damage"
	"github.com/ashfall-games/ashfall/internal/game/dice"
	"github.com/ashfall-games/ashfall/internal/game/entity"
	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/loot"
	"github.com/ashfall-games/ashfall/internal/game/progression"
)

// MonsterDef is a spawnable monster blueprint with its content references
// already resolved.
type MonsterDef struct {
	Entry           int
	Name            string
	Health          int
	Mana            int
	Level           int
	MinDamage       int
	MaxDamage       int
	QuestRelationID int
	LootTable       loot.Table
	// Items is the item catalog loot rolls resolve against.
	Items map[int]item.Item
}

// Monster is a live hostile creature. Rewards are resolved at spawn time:
// the XP reward comes from the creature-reward table for its level and the
// gold reward is rolled once from the level's gold range.
type Monster struct {
	entity.LivingState

	// GUID uniquely identifies this spawn; two wolves from the same
	// blueprint are distinct combatants.
	GUID  string
	Entry int

	level           int
	minDamage       int
	maxDamage       int
	xpReward        int
	goldReward      int
	questRelationID int

	lootTable loot.Table
	items     map[int]item.Item
	src       dice.Source
	drops     loot.Result

	log *zap.Logger
}

// Spawn creates a live monster from the blueprint with full resources.
//
// Precondition: tables must define the XP and gold rewards for the
// blueprint's level.
// Postcondition: Returns a ready monster with its rewards resolved, or the
// table lookup error.
func (d MonsterDef) Spawn(src dice.Source, tables progression.Tables, log *zap.Logger) (*Monster, error) {
	xp, err := tables.XPReward(d.Level)
	if err != nil {
		return nil, fmt.Errorf("spawning %q: %w", d.Name, err)
	}
	goldRange, err := tables.GoldReward(d.Level)
	if err != nil {
		return nil, fmt.Errorf("spawning %q: %w", d.Name, err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	m := &Monster{
		LivingState:     entity.NewLivingState(d.Name, d.Health, d.Mana),
		GUID:            uuid.NewString(),
		Entry:           d.Entry,
		level:           d.Level,
		minDamage:       d.MinDamage,
		maxDamage:       d.MaxDamage,
		xpReward:        xp,
		goldReward:      loot.RollGold(src, goldRange.Min, goldRange.Max),
		questRelationID: d.QuestRelationID,
		lootTable:       d.LootTable,
		items:           d.Items,
		src:             src,
		log:             log,
	}
	m.log.Debug("monster spawned",
		zap.String("monster", m.Name),
		zap.String("guid", m.GUID),
		zap.Int("level", m.level),
	)
	return m, nil
}

// Level is the monster's level.
func (m *Monster) Level() int { return m.level }

// XPReward is the base experience awarded for killing this monster.
func (m *Monster) XPReward() int { return m.xpReward }

// QuestRelationID links the monster to a kill quest, 0 for none.
func (m *Monster) QuestRelationID() int { return m.questRelationID }

// String describes the monster for display, e.g.
// "Creature Level 2 Wolf - 50/50 HP | 10/10 Mana | 2-6 Damage".
func (m *Monster) String() string {
	return fmt.Sprintf("Creature Level %d %s - %d/%d HP | %d/%d Mana | %d-%d Damage",
		m.level, m.Name, m.Health, m.MaxHealth, m.Mana, m.MaxMana, m.minDamage, m.maxDamage)
}

// AutoAttackDamage computes one raw swing against a target of the given
// level, rolling over the monster's damage range.
func (m *Monster) AutoAttackDamage(targetLevel int) damage.Damage {
	return damage.AutoAttack(m.src, m.level, m.minDamage, m.maxDamage, targetLevel)
}

// TakeAttack applies an incoming swing. Monsters have no armor; the raw
// damage lands in full. Death resolves the loot roll.
//
// Postcondition: Returns true iff the hit killed the monster; the drops are
// populated exactly once, on death.
func (m *Monster) TakeAttack(raw damage.Damage) (died bool, err error) {
	if !m.TakeDamage(raw.Points()) {
		return false, nil
	}
	if err := m.rollLoot(); err != nil {
		return true, err
	}
	m.log.Info("monster has died",
		zap.String("monster", m.Name),
		zap.String("guid", m.GUID),
	)
	return true, nil
}

// rollLoot resolves the drop table and records the gold reward under the
// reserved gold key.
func (m *Monster) rollLoot() error {
	drops, err := loot.Roll(m.src, m.lootTable, m.items)
	if err != nil {
		return fmt.Errorf("resolving loot of %q: %w", m.Name, err)
	}
	drops[item.GoldKey] = loot.Drop{Gold: m.goldReward}
	m.drops = drops
	return nil
}

// Loot returns the resolved drops. Empty until the monster dies.
func (m *Monster) Loot() loot.Result { return m.drops }

// GiveLoot removes and returns the named drop.
//
// Postcondition: Returns loot.ErrNotDropped when the name was never rolled
// or was already taken; callers treat that as a normal branch.
func (m *Monster) GiveLoot(name string) (loot.Drop, error) {
	return m.drops.Take(name)
}
