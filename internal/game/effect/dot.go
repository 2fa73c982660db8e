package effect

import (
	"fmt"

	"github.com/ashfall-games/ashfall/internal/game/damage"
)

// Target is the slice of an entity a DoT needs to tick against.
type Target interface {
	// TakeDamage subtracts health and reports whether the hit killed the
	// target.
	TakeDamage(amount int) bool
}

// DoT is a damage-over-time effect: a fixed damage tick applied once per
// turn for a fixed number of turns.
type DoT struct {
	StatusEffect

	// DamagePerTick is applied to the target each turn.
	DamagePerTick damage.Damage

	// casterLevel is mutable: a DoT loaded from storage is reconstructed
	// without its caster and re-associated later via UpdateCasterLevel.
	casterLevel int
}

// NewDoT constructs a DoT dealing perTick damage each turn for duration
// turns, cast by a caster of the given level.
func NewDoT(name string, perTick damage.Damage, duration, casterLevel int) *DoT {
	return &DoT{
		StatusEffect:  StatusEffect{Name: name, Duration: duration},
		DamagePerTick: perTick,
		casterLevel:   casterLevel,
	}
}

// CasterLevel returns the level of the caster this DoT is attributed to.
func (d *DoT) CasterLevel() int { return d.casterLevel }

// UpdateCasterLevel reassigns the caster level. Equality and already
// scheduled damage are unaffected.
func (d *DoT) UpdateCasterLevel(level int) { d.casterLevel = level }

// Tick applies one damage tick to target and decrements the remaining
// duration.
//
// Postcondition: Returns (died, expired); expired is true when the DoT
// should be detached from its owner. Ticking an expired DoT is a no-op.
func (d *DoT) Tick(target Target) (died, expired bool) {
	if d.Expired() {
		return false, true
	}
	died = target.TakeDamage(d.DamagePerTick.Points())
	d.Duration--
	return died, d.Expired()
}

// Equal reports structural equality: name, per-tick damage, and duration
// must match. Caster level is excluded.
func (d *DoT) Equal(other *DoT) bool {
	if other == nil {
		return false
	}
	return d.Name == other.Name &&
		d.Duration == other.Duration &&
		d.DamagePerTick == other.DamagePerTick
}

// String describes the DoT, e.g.
// "Melting - Deals 3.00 damage every turn for 5 turns."
func (d *DoT) String() string {
	return fmt.Sprintf("%s - Deals %s every turn for %d turns.", d.Name, d.DamagePerTick, d.Duration)
}
