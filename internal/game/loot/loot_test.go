package loot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ashfall-games/ashfall/internal/game/dice"
	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/loot"
)

var testItems = map[int]item.Item{
	1: {Name: "Wolf Meat", BuyPrice: 1},
	2: {Name: "Wolf Pelt", BuyPrice: 3},
	3: {Name: "Worn Axe", BuyPrice: 10, Weapon: &item.WeaponStats{MinDamage: 2, MaxDamage: 6}},
}

// TestRoll_GuaranteedAndImpossible verifies the distribution edges: a 100%
// chance always drops and a 0% chance never drops, across repeated trials.
func TestRoll_GuaranteedAndImpossible(t *testing.T) {
	table := loot.Table{Entries: []loot.Entry{
		{ItemID: 1, Chance: 100},
		{ItemID: 2, Chance: 0},
	}}
	require.NoError(t, table.Validate())

	src := dice.NewSeeded(5)
	for i := 0; i < 500; i++ {
		result, err := loot.Roll(src, table, testItems)
		require.NoError(t, err)
		assert.Contains(t, result, "Wolf Meat")
		assert.NotContains(t, result, "Wolf Pelt")
	}
}

// TestRoll_ChanceThreshold verifies the drop condition: the item drops iff
// chance >= draw*100.
func TestRoll_ChanceThreshold(t *testing.T) {
	table := loot.Table{Entries: []loot.Entry{{ItemID: 1, Chance: 30}}}

	// Draw 0.25 → 25 <= 30 → drops.
	result, err := loot.Roll(dice.NewSequence(nil, []float64{0.25}), table, testItems)
	require.NoError(t, err)
	assert.Contains(t, result, "Wolf Meat")

	// Draw 0.31 → 31 > 30 → no drop.
	result, err = loot.Roll(dice.NewSequence(nil, []float64{0.31}), table, testItems)
	require.NoError(t, err)
	assert.NotContains(t, result, "Wolf Meat")

	// Draw exactly 0.30 → 30 >= 30 → drops.
	result, err = loot.Roll(dice.NewSequence(nil, []float64{0.30}), table, testItems)
	require.NoError(t, err)
	assert.Contains(t, result, "Wolf Meat")
}

// TestRoll_MissingItemDefinition verifies a dangling item reference aborts
// the roll as a content-data error.
func TestRoll_MissingItemDefinition(t *testing.T) {
	table := loot.Table{Entries: []loot.Entry{{ItemID: 99, Chance: 100}}}
	_, err := loot.Roll(dice.NewSeeded(1), table, testItems)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")
}

// TestRollGold_Bounds verifies gold rolls are inclusive on both ends.
func TestRollGold_Bounds(t *testing.T) {
	src := dice.NewSeeded(3)
	sawMin, sawMax := false, false
	for i := 0; i < 5000; i++ {
		g := loot.RollGold(src, 2, 5)
		require.GreaterOrEqual(t, g, 2)
		require.LessOrEqual(t, g, 5)
		if g == 2 {
			sawMin = true
		}
		if g == 5 {
			sawMax = true
		}
	}
	assert.True(t, sawMin)
	assert.True(t, sawMax)
}

// TestResult_Take verifies drops can be taken exactly once, with the
// not-dropped branch signalled as a normal outcome.
func TestResult_Take(t *testing.T) {
	result := loot.Result{
		"gold":      {Gold: 7},
		"Wolf Meat": {Item: testItems[1]},
	}

	d, err := result.Take("gold")
	require.NoError(t, err)
	assert.True(t, d.IsGold())
	assert.Equal(t, 7, d.Gold)

	d, err = result.Take("Wolf Meat")
	require.NoError(t, err)
	assert.Equal(t, "Wolf Meat", d.Item.Name)

	// Second take of the same name is not-dropped, not a failure.
	_, err = result.Take("Wolf Meat")
	assert.ErrorIs(t, err, loot.ErrNotDropped)

	_, err = result.Take("Worn Axe")
	assert.ErrorIs(t, err, loot.ErrNotDropped)
}

// TestTable_Validate covers the chance and reference invariants.
func TestTable_Validate(t *testing.T) {
	assert.NoError(t, loot.Table{}.Validate(), "empty table is valid")
	assert.Error(t, loot.Table{Entries: []loot.Entry{{ItemID: 0, Chance: 50}}}.Validate())
	assert.Error(t, loot.Table{Entries: []loot.Entry{{ItemID: 1, Chance: 101}}}.Validate())
	assert.Error(t, loot.Table{Entries: []loot.Entry{{ItemID: 1, Chance: -1}}}.Validate())
}

// TestRoll_DropRate_Property verifies rolls are independent per entry and
// every dropped item resolves to a known definition.
func TestRoll_DropRate_Property(t *testing.T) {
	src := dice.NewSeeded(17)
	rapid.Check(t, func(rt *rapid.T) {
		chance := rapid.IntRange(1, 100).Draw(rt, "chance")
		table := loot.Table{Entries: []loot.Entry{
			{ItemID: 1, Chance: chance},
			{ItemID: 2, Chance: chance},
		}}

		result, err := loot.Roll(src, table, testItems)
		require.NoError(rt, err)
		for name := range result {
			assert.Contains(rt, []string{"Wolf Meat", "Wolf Pelt"}, name)
		}
	})
}

// TestLoadTables parses loot table content.
func TestLoadTables(t *testing.T) {
	dir := t.TempDir()
	content := `loot_tables:
  1:
    entries:
      - item: 1
        chance: 100
      - item: 2
        chance: 20
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wolves.yaml"), []byte(content), 0o644))

	tables, err := loot.LoadTables(dir)
	require.NoError(t, err)
	require.Contains(t, tables, 1)
	require.Len(t, tables[1].Entries, 2)
	assert.Equal(t, 20, tables[1].Entries[1].Chance)
}
