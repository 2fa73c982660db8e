// Package progression implements experience accrual and the level-up
// cascade: per-level stat growth tables, XP requirements, and the creature
// kill reward rules.
package progression

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TrivialKillLevelDiff is the character-over-monster level advantage at
// which a kill stops awarding experience.
const TrivialKillLevelDiff = 5

// killBonusScale is the XP bonus per level the monster has over the
// character: 10% of the base reward per level.
const killBonusScale = 0.1

// MissingLevelError reports a level absent from an external content table.
// This indicates corrupt content data and is fatal to the triggering
// operation; it is never recovered locally.
type MissingLevelError struct {
	Table string
	Level int
}

func (e MissingLevelError) Error() string {
	return fmt.Sprintf("level %d is not defined in the %s table", e.Level, e.Table)
}

// LevelStats holds the per-level stat growth applied on level-up.
type LevelStats struct {
	Health   int `yaml:"health"`
	Mana     int `yaml:"mana"`
	Strength int `yaml:"strength"`
	Armor    int `yaml:"armor"`
}

// GoldRange is the inclusive gold reward range for a creature level.
type GoldRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Tables aggregates every level-keyed content table the progression
// tracker consumes. The engine does not care how they are loaded.
type Tables struct {
	// LevelStats maps a level to the stat deltas gained on reaching it.
	LevelStats map[int]LevelStats `yaml:"level_stats"`
	// XPRequirements maps a level to the experience required to advance
	// from it.
	XPRequirements map[int]int `yaml:"xp_requirements"`
	// CreatureXPRewards maps a creature level to the XP awarded on kill.
	CreatureXPRewards map[int]int `yaml:"creature_xp_rewards"`
	// CreatureGoldRewards maps a creature level to its gold drop range.
	CreatureGoldRewards map[int]GoldRange `yaml:"creature_gold_rewards"`
}

// StatsForLevel returns the stat growth for reaching level.
//
// Postcondition: Returns MissingLevelError when the table does not define
// the level; callers must treat that as fatal to the level-up.
func (t Tables) StatsForLevel(level int) (LevelStats, error) {
	s, ok := t.LevelStats[level]
	if !ok {
		return LevelStats{}, MissingLevelError{Table: "level_stats", Level: level}
	}
	return s, nil
}

// XPToLevel returns the experience required to advance from level.
func (t Tables) XPToLevel(level int) (int, error) {
	xp, ok := t.XPRequirements[level]
	if !ok {
		return 0, MissingLevelError{Table: "xp_requirements", Level: level}
	}
	return xp, nil
}

// XPReward returns the base experience a creature of the given level awards.
func (t Tables) XPReward(level int) (int, error) {
	xp, ok := t.CreatureXPRewards[level]
	if !ok {
		return 0, MissingLevelError{Table: "creature_xp_rewards", Level: level}
	}
	return xp, nil
}

// GoldReward returns the gold range a creature of the given level awards.
func (t Tables) GoldReward(level int) (GoldRange, error) {
	g, ok := t.CreatureGoldRewards[level]
	if !ok {
		return GoldRange{}, MissingLevelError{Table: "creature_gold_rewards", Level: level}
	}
	return g, nil
}

// Validate checks the table contents.
//
// Postcondition: Returns nil iff all stat deltas are non-negative, all XP
// values are non-negative, and all gold ranges satisfy 0 <= min <= max.
func (t Tables) Validate() error {
	for level, s := range t.LevelStats {
		if s.Health < 0 || s.Mana < 0 || s.Strength < 0 || s.Armor < 0 {
			return fmt.Errorf("level_stats[%d]: deltas must be >= 0", level)
		}
	}
	for level, xp := range t.XPRequirements {
		if xp <= 0 {
			return fmt.Errorf("xp_requirements[%d]: requirement must be > 0, got %d", level, xp)
		}
	}
	for level, xp := range t.CreatureXPRewards {
		if xp < 0 {
			return fmt.Errorf("creature_xp_rewards[%d]: reward must be >= 0, got %d", level, xp)
		}
	}
	for level, g := range t.CreatureGoldRewards {
		if g.Min < 0 {
			return fmt.Errorf("creature_gold_rewards[%d]: min must be >= 0, got %d", level, g.Min)
		}
		if g.Min > g.Max {
			return fmt.Errorf("creature_gold_rewards[%d]: min (%d) must be <= max (%d)", level, g.Min, g.Max)
		}
	}
	return nil
}

// KillReward computes the experience for killing a monster.
//
// A character 5 or more levels above the monster gets nothing (trivial-kill
// suppression). A character below the monster's level gets a bonus of 10%
// of the base reward per level of difference, floored.
//
// Postcondition: xp is the (possibly suppressed) base reward and bonus the
// level-difference bonus; the caller awards xp+bonus.
func KillReward(characterLevel, monsterLevel, baseXP int) (xp, bonus int) {
	diff := characterLevel - monsterLevel
	if diff >= TrivialKillLevelDiff {
		return 0, 0
	}
	if diff < 0 {
		bonus = int(float64(baseXP) * killBonusScale * math.Abs(float64(diff)))
	}
	return baseXP, bonus
}

// LoadTables reads the progression tables from a single YAML file.
//
// Precondition: path must be a readable file.
// Postcondition: Returns validated Tables or an error.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading progression tables %q: %w", path, err)
	}
	var t Tables
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Tables{}, fmt.Errorf("parsing %q: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Tables{}, fmt.Errorf("%q: %w", path, err)
	}
	return t, nil
}
