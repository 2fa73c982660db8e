package spell_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashfall-games/ashfall/internal/game/spell"
)

var paladinSpells = []spell.Spell{
	{Name: "Seal of Righteousness", Rank: 1, LevelRequired: 1, ManaCost: 4, Damage: 2, Cooldown: 0},
	{Name: "Seal of Righteousness", Rank: 2, LevelRequired: 4, ManaCost: 6, Damage: 4, Cooldown: 0},
	{Name: "Flash of Light", Rank: 1, LevelRequired: 3, ManaCost: 5, Heal: 10, Cooldown: 3},
}

// TestSpellbook_LearnUpTo verifies level gating and highest-rank-wins.
func TestSpellbook_LearnUpTo(t *testing.T) {
	b := spell.NewSpellbook()
	b.LearnUpTo(paladinSpells, 3)

	require.Equal(t, 2, b.Len())
	sor, ok := b.Get("Seal of Righteousness")
	require.True(t, ok)
	assert.Equal(t, 1, sor.Rank)
	assert.True(t, b.Knows("Flash of Light"))

	// Leveling to 4 upgrades the seal to rank 2.
	b.LearnUpTo(paladinSpells, 4)
	sor, _ = b.Get("Seal of Righteousness")
	assert.Equal(t, 2, sor.Rank)

	// Re-learning never downgrades.
	b.LearnUpTo(paladinSpells[:1], 4)
	sor, _ = b.Get("Seal of Righteousness")
	assert.Equal(t, 2, sor.Rank)
}

// TestSpellbook_PerInstanceState verifies two books never share learned
// state.
func TestSpellbook_PerInstanceState(t *testing.T) {
	a := spell.NewSpellbook()
	b := spell.NewSpellbook()
	a.LearnUpTo(paladinSpells, 10)

	assert.NotZero(t, a.Len())
	assert.Zero(t, b.Len())
}

// TestSpellbook_Cooldowns verifies cast gating, per-turn ticking, and the
// leave-combat reset.
func TestSpellbook_Cooldowns(t *testing.T) {
	b := spell.NewSpellbook()
	b.LearnUpTo(paladinSpells, 3)

	require.NoError(t, b.StartCooldown("Flash of Light"))
	fol, _ := b.Get("Flash of Light")
	assert.False(t, fol.Ready())
	assert.Equal(t, 3, fol.CooldownRemaining())

	err := b.StartCooldown("Flash of Light")
	assert.Error(t, err, "recast while cooling down")

	b.TickCooldowns()
	b.TickCooldowns()
	assert.Equal(t, 1, fol.CooldownRemaining())

	b.ResetCooldowns()
	assert.True(t, fol.Ready())

	assert.Error(t, b.StartCooldown("Unknown Spell"))
}

// TestSpell_Validate covers definition invariants.
func TestSpell_Validate(t *testing.T) {
	assert.NoError(t, paladinSpells[0].Validate())
	assert.Error(t, spell.Spell{Rank: 1, LevelRequired: 1}.Validate(), "missing name")
	assert.Error(t, spell.Spell{Name: "x", LevelRequired: 1}.Validate(), "rank 0")
	assert.Error(t, spell.Spell{Name: "x", Rank: 1}.Validate(), "level 0")
	assert.Error(t, spell.Spell{Name: "x", Rank: 1, LevelRequired: 1, Cooldown: -1}.Validate())
}

// TestLoadSpells parses class spell content.
func TestLoadSpells(t *testing.T) {
	dir := t.TempDir()
	content := `class: paladin
spells:
  - name: Seal of Righteousness
    rank: 1
    level_required: 1
    mana_cost: 4
    damage: 2
  - name: Flash of Light
    rank: 1
    level_required: 3
    mana_cost: 5
    heal: 10
    cooldown: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paladin.yaml"), []byte(content), 0o644))

	classes, err := spell.LoadSpells(dir)
	require.NoError(t, err)
	require.Contains(t, classes, "paladin")
	require.Len(t, classes["paladin"], 2)
	assert.Equal(t, 10, classes["paladin"][1].Heal)
}
