package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashfall-games/ashfall/internal/content"
)

const progressionYAML = `level_stats:
  2:
    health: 10
    mana: 10
    strength: 2
    armor: 5
xp_requirements:
  1: 400
  2: 800
creature_xp_rewards:
  1: 50
  2: 75
creature_gold_rewards:
  1:
    min: 2
    max: 5
  2:
    min: 4
    max: 9
`

const itemsYAML = `items:
  1:
    name: Wolf Meat
    buy_price: 1
    quest_relation_id: 2
  2:
    name: Worn Axe
    buy_price: 10
    weapon:
      min_damage: 2
      max_damage: 6
  3:
    name: Linen Cloth
    buy_price: 1
`

const lootYAML = `loot_tables:
  1:
    entries:
      - item: 1
        chance: 80
      - item: 3
        chance: 25
`

const questsYAML = `quests:
  - id: 2
    name: Supper Time
    xp_reward: 150
    required_items:
      Wolf Meat: 2
  - id: 7
    name: A Canine Menace
    xp_reward: 300
    required_kills: 5
    monster_name: Wolf
`

const creaturesYAML = `creatures:
  - entry: 1
    kind: monster
    name: Wolf
    health: 50
    mana: 10
    level: 2
    min_damage: 2
    max_damage: 6
    quest_relation_id: 7
    loot_table: 1
  - entry: 5
    kind: fnpc
    name: Elder
    health: 10
    level: 1
    gossip: "Greetings, $N."
  - entry: 10
    kind: vendor
    name: Peddler
    health: 10
    level: 1
    wares:
      - item: 3
        count: 5
`

const spellsYAML = `class: paladin
spells:
  - name: Seal of Righteousness
    rank: 1
    level_required: 1
    mana_cost: 4
    damage: 2
`

func writeContentRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"progression.yaml":        progressionYAML,
		"items/items.yaml":        itemsYAML,
		"loot_tables/tables.yaml": lootYAML,
		"quests/elwynn.yaml":      questsYAML,
		"creatures/elwynn.yaml":   creaturesYAML,
		"spells/paladin.yaml":     spellsYAML,
	}
	for rel, body := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func TestLoad(t *testing.T) {
	root := writeContentRoot(t)

	pack, err := content.Load(root, nil)
	require.NoError(t, err)

	assert.Len(t, pack.Items, 3)
	assert.Len(t, pack.LootTables, 1)
	assert.Len(t, pack.Quests, 2)
	assert.Len(t, pack.Creatures.Monsters, 1)
	assert.Len(t, pack.Creatures.Friendly, 1)
	assert.Len(t, pack.Creatures.Vendors, 1)
	assert.Contains(t, pack.ClassSpells, "paladin")

	wolf := pack.Creatures.Monsters[1]
	assert.Equal(t, "Wolf", wolf.Name)
	assert.Len(t, wolf.LootTable.Entries, 2, "loot table bound at load")

	xp, err := pack.Progression.XPReward(2)
	require.NoError(t, err)
	assert.Equal(t, 75, xp)
}

func TestLoad_DanglingLootItem(t *testing.T) {
	root := writeContentRoot(t)
	bad := `loot_tables:
  1:
    entries:
      - item: 99
        chance: 80
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "loot_tables", "tables.yaml"), []byte(bad), 0o644))

	_, err := content.Load(root, nil)
	assert.ErrorContains(t, err, "item 99")
}

func TestLoad_DanglingCreatureQuest(t *testing.T) {
	root := writeContentRoot(t)
	bad := `creatures:
  - entry: 1
    kind: monster
    name: Wolf
    health: 50
    level: 2
    min_damage: 2
    max_damage: 6
    quest_relation_id: 99
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "creatures", "elwynn.yaml"), []byte(bad), 0o644))

	_, err := content.Load(root, nil)
	assert.ErrorContains(t, err, "quest 99")
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	root := writeContentRoot(t)
	bad := `quests:
  - id: 2
    name: Supper Time
    xp_reward: 150
    required_kills: 1
    surprise: true
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "quests", "elwynn.yaml"), []byte(bad), 0o644))

	_, err := content.Load(root, nil)
	assert.Error(t, err, "strict decoding rejects unknown fields")
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := content.Load(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
