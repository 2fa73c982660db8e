// Package damage implements the auto-attack damage model: swing rolls,
// level-difference scaling, and armor mitigation.
package damage

import (
	"fmt"
	"math"

	"github.com/ashfall-games/ashfall/internal/game/dice"
)

// Damage is a signed physical-damage magnitude. Values are immutable after
// construction; armor mitigation produces a new Damage rather than mutating
// in place.
type Damage struct {
	Phys float64
}

// New returns a Damage with the given physical magnitude.
func New(phys float64) Damage {
	return Damage{Phys: phys}
}

// Points returns the integer health delta this damage applies, rounded to
// the nearest point.
func (d Damage) Points() int {
	return int(math.Round(d.Phys))
}

// String formats the damage for display, e.g. "12.60 damage".
func (d Damage) String() string {
	return fmt.Sprintf("%.2f damage", d.Phys)
}

// levelScale is the per-level damage adjustment: 10% more damage for every
// level the attacker has over the defender, 10% less for every level under.
const levelScale = 0.1

// AutoAttack computes one raw auto-attack swing.
//
// The swing is a uniform roll over the attacker's damage range (upper bound
// maxDmg+1, see dice.RollSwing), then scaled by 1 + 0.1*|levelDiff| when the
// attacker is higher level, or 1 - 0.1*|levelDiff| when lower. Equal levels
// are unscaled.
//
// Precondition: src must be non-nil; minDmg <= maxDmg.
// Postcondition: Returns the raw, unmitigated swing damage.
func AutoAttack(src dice.Source, attackerLevel, minDmg, maxDmg, defenderLevel int) Damage {
	roll := float64(dice.RollSwing(src, minDmg, maxDmg))

	levelDiff := attackerLevel - defenderLevel
	mod := levelScale * math.Abs(float64(levelDiff))
	switch {
	case levelDiff > 0:
		roll += roll * mod
	case levelDiff < 0:
		roll -= roll * mod
	}

	return New(roll)
}

// ApplyArmorMitigation reduces raw damage by the defender's armor:
//
//	reduction = armor / (armor + 400 + 85*attackerLevel)
//
// Armor and attacker level are always >= 0, so the reduction fraction is in
// [0, 1). Mitigation applies only to attacks against characters; monsters
// take raw damage.
//
// Precondition: defenderArmor >= 0 and attackerLevel >= 0.
// Postcondition: Returns a new Damage; raw is unchanged.
func ApplyArmorMitigation(raw Damage, defenderArmor, attackerLevel int) Damage {
	reduction := float64(defenderArmor) / float64(defenderArmor+400+85*attackerLevel)
	return New(raw.Phys - raw.Phys*reduction)
}

// MitigationFraction returns the armor reduction fraction for the given
// armor and attacker level, exposed for display.
//
// Postcondition: Returns a value in [0, 1).
func MitigationFraction(defenderArmor, attackerLevel int) float64 {
	return float64(defenderArmor) / float64(defenderArmor+400+85*attackerLevel)
}
