package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ashfall-games/ashfall/internal/game/character"
	"github.com/ashfall-games/ashfall/internal/game/damage"
)

// CastResult reports one resolved spell cast.
type CastResult struct {
	Spell string
	// Damage is what landed on the monster for an offensive spell.
	Damage damage.Damage
	// Healed is the health restored to the caster for a healing spell.
	Healed      int
	MonsterDied bool
}

// CastSpell resolves one spell cast by the character. The gates run before
// any mutation: the spell must be learned, off cooldown, and affordable.
// A successful cast spends the mana, starts the cooldown, then applies the
// spell's damage to the monster (kill cascade included) and its heal to the
// caster.
//
// Postcondition: Returns the cast outcome and any kill cascade result, an
// error naming the failed gate with the character unchanged, or
// ErrEncounterOver.
func (e *Encounter) CastSpell(name string) (CastResult, *character.KillResult, error) {
	if e.over {
		return CastResult{}, nil, ErrEncounterOver
	}

	known, ok := e.Character.Spellbook.Get(name)
	if !ok {
		return CastResult{}, nil, fmt.Errorf("casting %q: spell is not learned", name)
	}
	if !known.Ready() {
		return CastResult{}, nil, fmt.Errorf(
			"casting %q: on cooldown for %d more turns", name, known.CooldownRemaining())
	}
	if !e.Character.HasMana(known.ManaCost) {
		return CastResult{}, nil, fmt.Errorf(
			"casting %q: needs %d mana, %d available", name, known.ManaCost, e.Character.Mana)
	}

	e.Character.SpendMana(known.ManaCost)
	if err := e.Character.Spellbook.StartCooldown(name); err != nil {
		return CastResult{}, nil, err
	}

	result := CastResult{Spell: name}
	e.log.Debug("spell cast",
		zap.String("character", e.Character.Name),
		zap.String("spell", name),
		zap.Int("mana_cost", known.ManaCost),
	)

	if known.Damage > 0 {
		result.Damage = damage.New(float64(known.Damage))
		died, err := e.Monster.TakeAttack(result.Damage)
		if err != nil {
			return result, nil, err
		}
		result.MonsterDied = died
	}
	if known.Heal > 0 {
		before := e.Character.Health
		e.Character.Heal(known.Heal)
		result.Healed = e.Character.Health - before
	}

	if !result.MonsterDied {
		return result, nil, nil
	}
	kill, err := e.finishMonster()
	if err != nil {
		return result, nil, err
	}
	return result, kill, nil
}
