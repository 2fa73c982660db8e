package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ashfall-games/ashfall/internal/game/item"
	"github.com/ashfall-games/ashfall/internal/game/progression"
	"github.com/ashfall-games/ashfall/internal/game/quest"
)

// Kill is the slice of a dead monster the progression cascade reads.
type Kill interface {
	// Level is the monster's level.
	Level() int
	// XPReward is the base experience the monster awards.
	XPReward() int
	// QuestRelationID links the monster to a quest, 0 for none.
	QuestRelationID() int
}

// KillResult reports the outcome of a kill-award cascade for the display
// layer.
type KillResult struct {
	XP             int
	BonusXP        int
	QuestCompleted bool
	LeveledUp      bool
}

// AwardMonsterKill runs the full kill cascade: experience (with trivial-kill
// suppression and the underdog bonus), then the quest kill counter and a
// completion check when the monster relates to a quest in the log. Quest
// completion awards its own XP and may itself trigger a level-up.
//
// Postcondition: Returns the cascade outcome, or a fatal table lookup error
// from a level-up.
func (c *Character) AwardMonsterKill(k Kill) (KillResult, error) {
	var result KillResult
	result.XP, result.BonusXP = progression.KillReward(c.Level, k.Level(), k.XPReward())

	c.log.Info("experience awarded",
		zap.String("character", c.Name),
		zap.Int("xp", result.XP),
		zap.Int("bonus_xp", result.BonusXP),
	)

	leveled, err := c.AwardExperience(result.XP + result.BonusXP)
	if err != nil {
		return result, err
	}
	result.LeveledUp = leveled

	if qid := k.QuestRelationID(); qid != 0 {
		if q, ok := c.QuestLog[qid]; ok {
			q.UpdateKills()
			if q.IsComplete() {
				questLeveled, err := c.CompleteQuest(qid)
				if err != nil {
					return result, err
				}
				result.QuestCompleted = true
				result.LeveledUp = result.LeveledUp || questLeveled
			}
		}
	}
	return result, nil
}

// AwardExperience adds experience and performs the level-up check.
//
// The check is single-step: one award triggers at most one level-up, and
// experience resets to zero afterwards — overflow past the new requirement
// is discarded rather than re-checked. Content tables space requirements
// widely enough that a single award crossing two thresholds does not occur
// in practice.
//
// Postcondition: Returns whether a level-up happened; a missing entry in
// the level-stats or xp-requirement table aborts with the lookup error.
func (c *Character) AwardExperience(xp int) (bool, error) {
	c.Experience += xp
	if c.Experience < c.XPToLevel {
		return false, nil
	}
	if err := c.levelUp(); err != nil {
		return false, err
	}
	c.Experience = 0
	xpReq, err := c.tables.XPToLevel(c.Level)
	if err != nil {
		return true, fmt.Errorf("after level-up of %q: %w", c.Name, err)
	}
	c.XPToLevel = xpReq
	return true, nil
}

// levelUp advances one level: the per-level stat deltas are added to the
// maximums, resources fully regenerate, and new class spells are learned.
//
// Postcondition: A missing level in the stats table is fatal and leaves
// level and stats unchanged.
func (c *Character) levelUp() error {
	stats, err := c.tables.StatsForLevel(c.Level + 1)
	if err != nil {
		return fmt.Errorf("leveling up %q: %w", c.Name, err)
	}

	c.Level++
	c.MaxHealth += stats.Health
	c.MaxMana += stats.Mana
	c.Strength += stats.Strength
	c.Armor += stats.Armor
	c.Regenerate()
	c.equipWeapon(c.EquippedWeapon)
	c.Spellbook.LearnUpTo(c.classSpells, c.Level)

	c.log.Info("level up",
		zap.String("character", c.Name),
		zap.Int("level", c.Level),
		zap.Int("health_gained", stats.Health),
		zap.Int("mana_gained", stats.Mana),
		zap.Int("strength_gained", stats.Strength),
		zap.Int("armor_gained", stats.Armor),
	)
	return nil
}

// AddQuest puts a quest into the quest log, keyed by its ID.
func (c *Character) AddQuest(q quest.Quest) {
	copied := q
	c.QuestLog[q.ID] = &copied
}

// CompleteQuest removes the quest from the log and awards its experience.
// Removal happens before the award, so completion is single-shot even when
// the XP cascade re-enters quest state.
//
// Postcondition: The quest ID is no longer in the log. Returns whether the
// reward leveled the character, or quest.ErrQuestNotFound.
func (c *Character) CompleteQuest(id int) (bool, error) {
	q, ok := c.QuestLog[id]
	if !ok {
		return false, fmt.Errorf("completing quest %d: %w", id, quest.ErrQuestNotFound)
	}
	delete(c.QuestLog, id)

	c.log.Info("quest completed",
		zap.String("character", c.Name),
		zap.String("quest", q.Name),
		zap.Int("xp_reward", q.XPReward),
	)
	return c.AwardExperience(q.XPReward)
}

// AwardItem puts count units of an item into the inventory and runs the
// quest-item cascade: when the item relates to a quest in the log, the
// quest re-checks its item objective and completes if satisfied.
//
// Postcondition: Returns whether a quest completed, or a fatal table error
// from a triggered level-up.
func (c *Character) AwardItem(it item.Item, count int) (bool, error) {
	c.Inventory.Add(it, count)

	qid := it.QuestRelationID
	if qid == 0 {
		return false, nil
	}
	q, ok := c.QuestLog[qid]
	if !ok {
		return false, nil
	}
	q.CheckItems(c.Inventory)
	if !q.IsComplete() {
		return false, nil
	}
	if _, err := c.CompleteQuest(qid); err != nil {
		return false, err
	}
	return true, nil
}

// AwardGold adds gold to the inventory balance.
func (c *Character) AwardGold(amount int) {
	c.Inventory.AwardGold(amount)
}
