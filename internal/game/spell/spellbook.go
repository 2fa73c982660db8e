package spell

import "fmt"

// KnownSpell is a learned spell plus its live cooldown counter.
type KnownSpell struct {
	Spell

	// cooldownRemaining counts down one per turn; 0 = ready.
	cooldownRemaining int
}

// Ready reports whether the spell is off cooldown.
func (k *KnownSpell) Ready() bool { return k.cooldownRemaining == 0 }

// CooldownRemaining returns the turns left before the spell is ready.
func (k *KnownSpell) CooldownRemaining() int { return k.cooldownRemaining }

// Spellbook is the per-character learned spell set. Each character owns its
// own Spellbook instance.
type Spellbook struct {
	known map[string]*KnownSpell
}

// NewSpellbook returns an empty spellbook.
func NewSpellbook() *Spellbook {
	return &Spellbook{known: make(map[string]*KnownSpell)}
}

// LearnUpTo learns every spell in defs whose required level is at or below
// level. When multiple ranks of the same spell qualify, the highest rank
// wins; re-learning a lower rank is a no-op.
//
// Postcondition: For every qualifying name, Get(name) returns the highest
// qualifying rank.
func (b *Spellbook) LearnUpTo(defs []Spell, level int) {
	for _, def := range defs {
		if def.LevelRequired > level {
			continue
		}
		existing, ok := b.known[def.Name]
		if ok && existing.Rank >= def.Rank {
			continue
		}
		b.known[def.Name] = &KnownSpell{Spell: def}
	}
}

// Get returns the learned spell with the given name.
func (b *Spellbook) Get(name string) (*KnownSpell, bool) {
	s, ok := b.known[name]
	return s, ok
}

// Knows reports whether the named spell has been learned.
func (b *Spellbook) Knows(name string) bool {
	_, ok := b.known[name]
	return ok
}

// Len returns the number of learned spells.
func (b *Spellbook) Len() int { return len(b.known) }

// All returns the learned spells. The map is shared; callers must not
// modify it.
func (b *Spellbook) All() map[string]*KnownSpell { return b.known }

// StartCooldown puts the named spell on cooldown after a cast.
//
// Postcondition: Returns an error if the spell is unknown or still cooling
// down; otherwise the spell's counter is set to its full cooldown.
func (b *Spellbook) StartCooldown(name string) error {
	s, ok := b.known[name]
	if !ok {
		return fmt.Errorf("spell %q is not learned", name)
	}
	if !s.Ready() {
		return fmt.Errorf("spell %q is on cooldown for %d more turns", name, s.cooldownRemaining)
	}
	s.cooldownRemaining = s.Cooldown
	return nil
}

// TickCooldowns advances every cooldown counter by one turn.
func (b *Spellbook) TickCooldowns() {
	for _, s := range b.known {
		if s.cooldownRemaining > 0 {
			s.cooldownRemaining--
		}
	}
}

// ResetCooldowns zeroes every cooldown counter. Called when the owning
// character leaves combat.
//
// Postcondition: Every learned spell is Ready.
func (b *Spellbook) ResetCooldowns() {
	for _, s := range b.known {
		s.cooldownRemaining = 0
	}
}
