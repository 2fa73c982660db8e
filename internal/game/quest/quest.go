// Package quest implements kill and item-collection quest objectives and
// their completion-triggered rewards.
package quest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ashfall-games/ashfall/internal/game/item"
)

// ErrQuestNotFound is returned when a quest log lookup references a quest
// that is not present.
var ErrQuestNotFound = errors.New("quest not found")

// Quest tracks one quest's objectives and progress. A quest is owned by
// exactly one character's quest log and is removed from the log the moment
// it completes; completion is single-shot.
type Quest struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	XPReward int    `yaml:"xp_reward"`

	// RequiredKills is the kill objective; 0 means no kill objective.
	RequiredKills int `yaml:"required_kills"`
	// MonsterName is the display name of the kill target.
	MonsterName string `yaml:"monster_name"`
	// RequiredItems maps item name to the count the character must hold;
	// empty means no item objective.
	RequiredItems map[string]int `yaml:"required_items"`

	// Kills is the current kill progress counter.
	Kills int `yaml:"-"`
	// itemsSatisfied latches once the inventory has covered the item
	// objective.
	itemsSatisfied bool
}

// Validate checks the definition invariants: an id, a name, and at least
// one objective.
func (q Quest) Validate() error {
	if q.ID <= 0 {
		return fmt.Errorf("quest: id must be > 0, got %d", q.ID)
	}
	if q.Name == "" {
		return fmt.Errorf("quest %d: name must not be empty", q.ID)
	}
	if q.RequiredKills < 0 {
		return fmt.Errorf("quest %d: required_kills must be >= 0, got %d", q.ID, q.RequiredKills)
	}
	if q.RequiredKills == 0 && len(q.RequiredItems) == 0 {
		return fmt.Errorf("quest %d: must have a kill or item objective", q.ID)
	}
	for name, count := range q.RequiredItems {
		if count <= 0 {
			return fmt.Errorf("quest %d: required count for %q must be > 0, got %d", q.ID, name, count)
		}
	}
	return nil
}

// UpdateKills increments the kill progress counter by one.
func (q *Quest) UpdateKills() { q.Kills++ }

// CheckItems records whether the inventory currently satisfies the item
// objective. A quest with no item objective is unaffected.
func (q *Quest) CheckItems(inv *item.Inventory) {
	if len(q.RequiredItems) == 0 {
		return
	}
	for name, count := range q.RequiredItems {
		if inv.Count(name) < count {
			q.itemsSatisfied = false
			return
		}
	}
	q.itemsSatisfied = true
}

// IsComplete reports whether any objective is met: the required kill count
// reached, or the item objective satisfied at the last CheckItems call.
func (q *Quest) IsComplete() bool {
	if q.RequiredKills > 0 && q.Kills >= q.RequiredKills {
		return true
	}
	return q.itemsSatisfied
}

// String describes the quest progress for the quest log display.
func (q *Quest) String() string {
	if q.RequiredKills > 0 {
		return fmt.Sprintf("%s - %d/%d %s slain.", q.Name, q.Kills, q.RequiredKills, q.MonsterName)
	}
	return fmt.Sprintf("%s - collect %d items.", q.Name, len(q.RequiredItems))
}

// LoadQuests reads every *.yaml file in dir, each holding a list of quest
// definitions, and returns them keyed by quest ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all validated quests or an error on the first
// parse or validation failure.
func LoadQuests(dir string) (map[int]Quest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading quest dir %q: %w", dir, err)
	}

	quests := make(map[int]Quest)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var file struct {
			Quests []Quest `yaml:"quests"`
		}
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, q := range file.Quests {
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("%q: %w", path, err)
			}
			if _, dup := quests[q.ID]; dup {
				return nil, fmt.Errorf("%q: duplicate quest id %d", path, q.ID)
			}
			quests[q.ID] = q
		}
	}
	return quests, nil
}
