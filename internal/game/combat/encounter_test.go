package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashfall-games/ashfall/internal/game/character"
	"github.com/ashfall-games/ashfall/internal/game/combat"
	"github.com/ashfall-games/ashfall/internal/game/creature"
	"github.com/ashfall-games/ashfall/internal/game/damage"
	"github.com/ashfall-games/ashfall/internal/game/dice"
	"github.com/ashfall-games/ashfall/internal/game/effect"
	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/loot"
	"github.com/ashfall-games/ashfall/internal/game/progression"
	"github.com/ashfall-games/ashfall/internal/game/quest"
	"github.com/ashfall-games/ashfall/internal/game/spell"
)

func combatTables() progression.Tables {
	return progression.Tables{
		LevelStats: map[int]progression.LevelStats{
			2: {Health: 10, Mana: 10, Strength: 2, Armor: 5},
		},
		XPRequirements:    map[int]int{1: 400, 2: 800},
		CreatureXPRewards: map[int]int{1: 50},
		CreatureGoldRewards: map[int]progression.GoldRange{
			1: {Min: 2, Max: 5},
		},
	}
}

var combatItems = map[int]item.Item{
	1: {Name: "Wolf Meat", QuestRelationID: 2},
}

// newFighter builds a level-1 character with no armor so raw and mitigated
// damage coincide; mitigation math has its own tests.
func newFighter(t *testing.T) *character.Character {
	t.Helper()
	c, err := character.New(character.Config{
		Name:   "Netherblood",
		Health: 100,
		Mana:   100,
		Class:  "paladin",
		ClassSpells: []spell.Spell{
			{Name: "Smite", Rank: 1, LevelRequired: 1, ManaCost: 5, Damage: 120, Cooldown: 1},
			{Name: "Flash of Light", Rank: 1, LevelRequired: 1, ManaCost: 5, Heal: 10, Cooldown: 2},
			{Name: "Greater Smite", Rank: 1, LevelRequired: 1, ManaCost: 200, Damage: 500},
		},
		Tables: combatTables(),
	})
	require.NoError(t, err)

	sword := item.Item{Name: "Greatsword", Weapon: &item.WeaponStats{MinDamage: 10, MaxDamage: 10}}
	c.Inventory.Add(sword, 1)
	require.NoError(t, c.EquipItem("Greatsword"))
	return c
}

func spawnWolf(t *testing.T, src dice.Source, health int) *creature.Monster {
	t.Helper()
	def := creature.MonsterDef{
		Entry:           1,
		Name:            "Wolf",
		Health:          health,
		Mana:            10,
		Level:           1,
		MinDamage:       2,
		MaxDamage:       6,
		QuestRelationID: 7,
		LootTable:       loot.Table{Entries: []loot.Entry{{ItemID: 1, Chance: 100}}},
		Items:           combatItems,
	}
	m, err := def.Spawn(src, combatTables(), nil)
	require.NoError(t, err)
	return m
}

// TestNewEncounter_EngagesBothSides verifies engagement.
func TestNewEncounter_EngagesBothSides(t *testing.T) {
	src := dice.NewSeeded(3)
	c := newFighter(t)
	m := spawnWolf(t, src, 100)

	e := combat.NewEncounter(c, m, src, nil)
	assert.True(t, c.IsInCombat())
	assert.True(t, m.IsInCombat())
	assert.False(t, e.IsOver())
}

// TestCharacterAttack_KillResolvesInOrder verifies the load-bearing death
// sequence: health decrement, death, loot roll, kill-award cascade,
// disengagement — and that the encounter refuses further actions.
func TestCharacterAttack_KillResolvesInOrder(t *testing.T) {
	// ints: gold roll at spawn, then swing rolls; floats: loot draws.
	src := dice.NewSequence([]int{0}, []float64{0.5})
	c := newFighter(t)
	m := spawnWolf(t, src, 5)
	e := combat.NewEncounter(c, m, src, nil)

	result, kill, err := e.CharacterAttack()
	require.NoError(t, err)

	assert.True(t, result.DefenderDied)
	assert.InDelta(t, 10.0, result.Damage.Phys, 1e-9, "forced minimum swing of the 10-10 sword")
	assert.False(t, m.IsAlive())

	require.NotNil(t, kill)
	assert.Equal(t, 50, kill.XP)
	assert.Zero(t, kill.BonusXP, "equal levels")
	assert.Equal(t, 50, c.Experience)

	assert.False(t, c.IsInCombat(), "winner disengages after the cascade")
	assert.Equal(t, c.MaxHealth, c.Health)

	assert.Contains(t, m.Loot(), item.GoldKey, "loot rolled on death")
	assert.Contains(t, m.Loot(), "Wolf Meat")

	_, _, err = e.CharacterAttack()
	assert.ErrorIs(t, err, combat.ErrEncounterOver)
	_, err = e.MonsterAttack()
	assert.ErrorIs(t, err, combat.ErrEncounterOver)
}

// TestCharacterAttack_NoLootBeforeDeath verifies loot stays unrolled while
// the monster lives.
func TestCharacterAttack_NoLootBeforeDeath(t *testing.T) {
	src := dice.NewSequence([]int{0}, []float64{0.5})
	c := newFighter(t)
	m := spawnWolf(t, src, 100)
	e := combat.NewEncounter(c, m, src, nil)

	result, kill, err := e.CharacterAttack()
	require.NoError(t, err)
	assert.False(t, result.DefenderDied)
	assert.Nil(t, kill)
	assert.Empty(t, m.Loot())

	_, err = e.LootDrop(item.GoldKey)
	assert.ErrorContains(t, err, "monster is alive")
}

// TestMonsterAttack verifies the monster swing lands raw on an unarmored
// character and a killing blow ends the encounter.
func TestMonsterAttack(t *testing.T) {
	// ints: gold roll, then Intn(6) for the 2-6 swing (value 2 → roll 4).
	src := dice.NewSequence([]int{0, 2}, []float64{0.5})
	c := newFighter(t)
	m := spawnWolf(t, src, 100)
	e := combat.NewEncounter(c, m, src, nil)

	result, err := e.MonsterAttack()
	require.NoError(t, err)
	assert.Equal(t, "Wolf", result.Attacker)
	assert.InDelta(t, 4.0, result.Damage.Phys, 1e-9)
	assert.False(t, result.DefenderDied)
	assert.Equal(t, 96, c.Health)
}

// TestMonsterAttack_KillEndsEncounter verifies a lethal swing flips the
// encounter over.
func TestMonsterAttack_KillEndsEncounter(t *testing.T) {
	src := dice.NewSequence([]int{0}, []float64{0.5})
	c := newFighter(t)
	def := creature.MonsterDef{
		Entry: 2, Name: "Ogre", Health: 100, Mana: 1, Level: 1,
		MinDamage: 500, MaxDamage: 500, Items: combatItems,
	}
	m, err := def.Spawn(src, combatTables(), nil)
	require.NoError(t, err)
	e := combat.NewEncounter(c, m, src, nil)

	result, err := e.MonsterAttack()
	require.NoError(t, err)
	assert.True(t, result.DefenderDied)
	assert.False(t, c.IsAlive())
	assert.True(t, e.IsOver())
}

// TestEndTurn_TicksBothSides verifies the character's effects tick before
// the monster's DoTs, and a DoT kill runs the same cascade as an attack
// kill.
func TestEndTurn_TicksBothSides(t *testing.T) {
	src := dice.NewSequence([]int{0}, []float64{0.5})
	c := newFighter(t)
	m := spawnWolf(t, src, 10)
	e := combat.NewEncounter(c, m, src, nil)

	c.AddDoT(effect.NewDoT("Rend", damage.New(3), 2, 1))
	e.AfflictMonster(effect.NewDoT("Melting", damage.New(5), 3, 1))

	report, err := e.EndTurn()
	require.NoError(t, err)
	assert.False(t, report.CharacterDied)
	assert.False(t, report.MonsterDied)
	assert.Equal(t, 97, c.Health)
	assert.Equal(t, 5, m.Health)

	report, err = e.EndTurn()
	require.NoError(t, err)
	assert.True(t, report.MonsterDied)
	require.NotNil(t, report.Kill)
	assert.Equal(t, 50, report.Kill.XP)
	assert.Contains(t, m.Loot(), item.GoldKey, "DoT kill still rolls loot")
	assert.True(t, e.IsOver())
}

// TestEndTurn_CharacterDoTDeath verifies a lethal character DoT ends the
// encounter before the monster side ticks.
func TestEndTurn_CharacterDoTDeath(t *testing.T) {
	src := dice.NewSequence([]int{0}, []float64{0.5})
	c := newFighter(t)
	m := spawnWolf(t, src, 10)
	e := combat.NewEncounter(c, m, src, nil)

	c.AddDoT(effect.NewDoT("Plague", damage.New(200), 2, 1))
	e.AfflictMonster(effect.NewDoT("Melting", damage.New(5), 3, 1))

	report, err := e.EndTurn()
	require.NoError(t, err)
	assert.True(t, report.CharacterDied)
	assert.Equal(t, 10, m.Health, "monster side never ticked")
	assert.True(t, e.IsOver())
}

// TestLootDrop verifies gold goes to the balance and items run the
// quest-item cascade.
func TestLootDrop(t *testing.T) {
	src := dice.NewSequence([]int{0}, []float64{0.5})
	c := newFighter(t)
	c.AddQuest(quest.Quest{ID: 2, Name: "Supper Time", XPReward: 150,
		RequiredItems: map[string]int{"Wolf Meat": 1}})
	m := spawnWolf(t, src, 5)
	e := combat.NewEncounter(c, m, src, nil)

	_, _, err := e.CharacterAttack()
	require.NoError(t, err)

	gold, err := e.LootDrop(item.GoldKey)
	require.NoError(t, err)
	assert.Equal(t, 2, gold.Gold, "forced minimum of the 2-5 range")
	assert.Equal(t, 2, c.Inventory.Gold())

	_, err = e.LootDrop("Wolf Meat")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Inventory.Count("Wolf Meat"))
	assert.NotContains(t, c.QuestLog, 2, "quest-item cascade completed the quest")

	_, err = e.LootDrop("Wolf Meat")
	assert.ErrorIs(t, err, loot.ErrNotDropped)
}

// TestCastSpell_Gates verifies the unlearned, cooldown, and mana gates all
// refuse before any mutation.
func TestCastSpell_Gates(t *testing.T) {
	src := dice.NewSequence([]int{0}, []float64{0.5})
	c := newFighter(t)
	m := spawnWolf(t, src, 1000)
	e := combat.NewEncounter(c, m, src, nil)

	_, _, err := e.CastSpell("Polymorph")
	assert.ErrorContains(t, err, "not learned")

	_, _, err = e.CastSpell("Greater Smite")
	assert.ErrorContains(t, err, "needs 200 mana")
	assert.Equal(t, 100, c.Mana, "failed cast spends nothing")

	_, kill, err := e.CastSpell("Smite")
	require.NoError(t, err)
	assert.Nil(t, kill)
	assert.Equal(t, 95, c.Mana)
	assert.Equal(t, 880, m.Health)

	_, _, err = e.CastSpell("Smite")
	assert.ErrorContains(t, err, "on cooldown")
}

// TestCastSpell_KillRunsCascade verifies an offensive cast resolves a kill
// exactly like an auto-attack.
func TestCastSpell_KillRunsCascade(t *testing.T) {
	src := dice.NewSequence([]int{0}, []float64{0.5})
	c := newFighter(t)
	m := spawnWolf(t, src, 100)
	e := combat.NewEncounter(c, m, src, nil)

	result, kill, err := e.CastSpell("Smite")
	require.NoError(t, err)
	assert.True(t, result.MonsterDied)
	require.NotNil(t, kill)
	assert.Equal(t, 50, kill.XP)
	assert.Contains(t, m.Loot(), "Wolf Meat")
	assert.True(t, e.IsOver())
}

// TestCastSpell_Heal verifies a healing cast restores clamped health.
func TestCastSpell_Heal(t *testing.T) {
	src := dice.NewSequence([]int{0}, []float64{0.5})
	c := newFighter(t)
	m := spawnWolf(t, src, 100)
	e := combat.NewEncounter(c, m, src, nil)

	c.TakeDamage(4)
	result, kill, err := e.CastSpell("Flash of Light")
	require.NoError(t, err)
	assert.Nil(t, kill)
	assert.Equal(t, 4, result.Healed, "clamped at max health")
	assert.Equal(t, c.MaxHealth, c.Health)
	assert.Equal(t, 100, m.Health, "heal never touches the monster")
}
