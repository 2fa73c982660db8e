// Package combat orchestrates one character-versus-monster encounter. Each
// attack runs the same fixed sequence: damage computed, armor mitigation
// applied (character defender only), health decremented, death checked, and
// on death the loot roll or the kill-award cascade. The order is
// load-bearing: later steps read state mutated by earlier ones.
package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ashfall-games/ashfall/internal/game/character"
	"github.com/ashfall-games/ashfall/internal/game/creature"
	"github.com/ashfall-games/ashfall/internal/game/damage"
	"github.com/ashfall-games/ashfall/internal/game/dice"
	"github.com/ashfall-games/ashfall/internal/game/effect"
	"github.com/ashfall-games/ashfall/internal/game/loot"
)

// ErrEncounterOver signals an action attempted after one side has died.
var ErrEncounterOver = errors.New("encounter is over")

// AttackResult reports one resolved swing for the display layer.
type AttackResult struct {
	Attacker string
	Defender string
	// Damage is what actually landed: mitigated for a character defender,
	// raw for a monster.
	Damage       damage.Damage
	DefenderDied bool
}

// TurnReport reports the end-of-turn effect ticks.
type TurnReport struct {
	CharacterDied bool
	MonsterDied   bool
	// Kill is the award cascade outcome when a DoT killed the monster this
	// turn, nil otherwise.
	Kill *character.KillResult
}

// Encounter is one character-versus-monster fight. It is single-threaded:
// the turn loop owns it exclusively and every operation runs to completion
// before the next input.
type Encounter struct {
	Character *character.Character
	Monster   *creature.Monster

	src         dice.Source
	monsterDoTs []*effect.DoT
	over        bool
	log         *zap.Logger
}

// NewEncounter engages both sides and returns the running encounter.
func NewEncounter(c *character.Character, m *creature.Monster, src dice.Source, log *zap.Logger) *Encounter {
	if log == nil {
		log = zap.NewNop()
	}
	c.EnterCombat()
	m.EnterCombat()
	log.Info("combat engaged",
		zap.String("character", c.Name),
		zap.String("monster", m.Name),
		zap.String("monster_guid", m.GUID),
	)
	return &Encounter{Character: c, Monster: m, src: src, log: log}
}

// IsOver reports whether one side has died.
func (e *Encounter) IsOver() bool { return e.over }

// CharacterAttack resolves one character swing. Monsters take the raw roll;
// a killing blow rolls the loot and runs the kill-award cascade (XP, bonus,
// quest completion, level-up) before returning.
//
// Postcondition: Returns the swing outcome and, on a kill, the cascade
// result. Fails with ErrEncounterOver after either side has died, or with a
// fatal content-table error surfaced by the cascade.
func (e *Encounter) CharacterAttack() (AttackResult, *character.KillResult, error) {
	if e.over {
		return AttackResult{}, nil, ErrEncounterOver
	}

	raw := e.Character.AutoAttackDamage(e.src, e.Monster.Level())
	died, err := e.Monster.TakeAttack(raw)
	if err != nil {
		return AttackResult{}, nil, err
	}

	result := AttackResult{
		Attacker:     e.Character.Name,
		Defender:     e.Monster.Name,
		Damage:       raw,
		DefenderDied: died,
	}
	e.log.Debug("character swing",
		zap.String("character", e.Character.Name),
		zap.String("monster", e.Monster.Name),
		zap.Float64("damage", raw.Phys),
		zap.Bool("killed", died),
	)
	if !died {
		return result, nil, nil
	}

	kill, err := e.finishMonster()
	if err != nil {
		return result, nil, err
	}
	return result, kill, nil
}

// MonsterAttack resolves one monster swing against the character: the roll
// is mitigated by the character's armor before the health decrement.
//
// Postcondition: Returns the mitigated outcome, or ErrEncounterOver.
func (e *Encounter) MonsterAttack() (AttackResult, error) {
	if e.over {
		return AttackResult{}, ErrEncounterOver
	}

	raw := e.Monster.AutoAttackDamage(e.Character.Level)
	mitigated, died := e.Character.TakeAttack(e.Monster.Name, raw, e.Monster.Level())
	if died {
		e.over = true
	}
	return AttackResult{
		Attacker:     e.Monster.Name,
		Defender:     e.Character.Name,
		Damage:       mitigated,
		DefenderDied: died,
	}, nil
}

// AfflictMonster attaches a DoT to the monster, ticked on EndTurn.
func (e *Encounter) AfflictMonster(d *effect.DoT) {
	e.monsterDoTs = append(e.monsterDoTs, d)
}

// EndTurn advances every timed effect by one turn: the character's buffs,
// DoTs, and spell cooldowns first, then the DoTs afflicting the monster. A
// DoT kill resolves exactly like an attack kill, loot and cascade included.
//
// Postcondition: Returns who died this turn and any kill cascade outcome,
// or ErrEncounterOver.
func (e *Encounter) EndTurn() (TurnReport, error) {
	if e.over {
		return TurnReport{}, ErrEncounterOver
	}

	var report TurnReport
	if e.Character.TickEffects() {
		report.CharacterDied = true
		e.over = true
		return report, nil
	}

	target := &monsterTarget{monster: e.Monster}
	dots := e.monsterDoTs[:0]
	for _, d := range e.monsterDoTs {
		died, expired := d.Tick(target)
		if target.err != nil {
			return report, target.err
		}
		if died {
			report.MonsterDied = true
		}
		if !expired {
			dots = append(dots, d)
		}
	}
	e.monsterDoTs = dots

	if report.MonsterDied {
		kill, err := e.finishMonster()
		if err != nil {
			return report, err
		}
		report.Kill = kill
	}
	return report, nil
}

// LootDrop takes the named drop from the dead monster and awards it to the
// character: gold goes to the balance, items into the inventory with the
// quest-item cascade.
//
// Postcondition: Returns the drop taken, loot.ErrNotDropped when it was
// never rolled or already taken, or an error when the monster is alive.
func (e *Encounter) LootDrop(name string) (loot.Drop, error) {
	if e.Monster.IsAlive() {
		return loot.Drop{}, fmt.Errorf("looting %q: monster is alive", e.Monster.Name)
	}
	drop, err := e.Monster.GiveLoot(name)
	if err != nil {
		return loot.Drop{}, err
	}
	if drop.IsGold() {
		e.Character.AwardGold(drop.Gold)
		return drop, nil
	}
	if _, err := e.Character.AwardItem(drop.Item, 1); err != nil {
		return drop, err
	}
	return drop, nil
}

// finishMonster runs the character side of a monster death: the kill-award
// cascade, then disengagement. The monster's loot stays available on its
// corpse.
func (e *Encounter) finishMonster() (*character.KillResult, error) {
	e.over = true
	kill, err := e.Character.AwardMonsterKill(e.Monster)
	if err != nil {
		return nil, err
	}
	e.Character.LeaveCombat()
	return &kill, nil
}

// monsterTarget adapts the monster's attack path to the DoT tick contract
// so a DoT kill still rolls loot.
type monsterTarget struct {
	monster *creature.Monster
	err     error
}

func (t *monsterTarget) TakeDamage(amount int) bool {
	died, err := t.monster.TakeAttack(damage.New(float64(amount)))
	if err != nil && t.err == nil {
		t.err = err
	}
	return died
}
