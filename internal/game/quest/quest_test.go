package quest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/quest"
)

// TestQuest_KillObjective verifies the kill counter drives completion.
func TestQuest_KillObjective(t *testing.T) {
	q := quest.Quest{ID: 1, Name: "A Canine Menace", RequiredKills: 3,
		MonsterName: "Wolf", XPReward: 300}
	require.NoError(t, q.Validate())

	q.UpdateKills()
	q.UpdateKills()
	assert.False(t, q.IsComplete())

	q.UpdateKills()
	assert.True(t, q.IsComplete())
	assert.Equal(t, "A Canine Menace - 3/3 Wolf slain.", q.String())
}

// TestQuest_ItemObjective verifies completion tracks the inventory counts
// at the last check.
func TestQuest_ItemObjective(t *testing.T) {
	q := quest.Quest{ID: 2, Name: "Supper Time", XPReward: 150,
		RequiredItems: map[string]int{"Wolf Meat": 2}}
	require.NoError(t, q.Validate())

	inv := item.NewInventory()
	meat := item.Item{Name: "Wolf Meat", QuestRelationID: 2}

	inv.Add(meat, 1)
	q.CheckItems(inv)
	assert.False(t, q.IsComplete())

	inv.Add(meat, 1)
	q.CheckItems(inv)
	assert.True(t, q.IsComplete())
}

// TestQuest_Validate covers the definition invariants.
func TestQuest_Validate(t *testing.T) {
	assert.Error(t, quest.Quest{Name: "x", RequiredKills: 1}.Validate(), "missing id")
	assert.Error(t, quest.Quest{ID: 1, RequiredKills: 1}.Validate(), "missing name")
	assert.Error(t, quest.Quest{ID: 1, Name: "x"}.Validate(), "no objective")
	assert.Error(t, quest.Quest{ID: 1, Name: "x",
		RequiredItems: map[string]int{"y": 0}}.Validate(), "zero item count")
	assert.NoError(t, quest.Quest{ID: 1, Name: "x",
		RequiredItems: map[string]int{"y": 1}}.Validate())
}

// TestLoadQuests parses quest content and rejects duplicates.
func TestLoadQuests(t *testing.T) {
	dir := t.TempDir()
	content := `quests:
  - id: 1
    name: A Canine Menace
    xp_reward: 300
    required_kills: 3
    monster_name: Wolf
  - id: 2
    name: Supper Time
    xp_reward: 150
    required_items:
      Wolf Meat: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "northshire.yaml"), []byte(content), 0o644))

	quests, err := quest.LoadQuests(dir)
	require.NoError(t, err)
	require.Len(t, quests, 2)
	assert.Equal(t, 3, quests[1].RequiredKills)
	assert.Equal(t, 2, quests[2].RequiredItems["Wolf Meat"])

	dup := `quests:
  - id: 1
    name: Again
    required_kills: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.yaml"), []byte(dup), 0o644))
	_, err = quest.LoadQuests(dir)
	assert.Error(t, err)
}
