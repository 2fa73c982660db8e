package effect

import (
	"fmt"
	"strings"
)

// StatDelta is one (stat, signed amount) pair in a buff definition. Order is
// preserved for display.
type StatDelta struct {
	Stat   StatKey
	Amount int
}

// BeneficialBuff is a timed, reversible modifier to one or more character
// stats. Deltas are applied to the owning character on activation and must
// be reversed symmetrically on expiry or removal, never re-derived.
type BeneficialBuff struct {
	StatusEffect

	// amounts holds a delta for every valid stat key; unlisted stats are 0.
	amounts map[StatKey]int
	// order preserves the declaration order of non-zero deltas for display.
	order []StatKey
}

// NewBeneficialBuff constructs a buff from the given stat deltas.
//
// Every key is validated against the fixed stat set before any state is
// built; an unrecognized key fails with an InvalidStatError naming it, and
// the buff is never applied.
//
// Postcondition: On success, Amount(k) is defined (possibly 0) for all four
// stat keys.
func NewBeneficialBuff(name string, deltas []StatDelta, duration int) (*BeneficialBuff, error) {
	amounts := map[StatKey]int{
		StatHealth:   0,
		StatMana:     0,
		StatStrength: 0,
		StatArmor:    0,
	}
	order := make([]StatKey, 0, len(deltas))
	for _, d := range deltas {
		if !ValidStat(d.Stat) {
			return nil, InvalidStatError{Stat: d.Stat}
		}
		amounts[d.Stat] = d.Amount
		order = append(order, d.Stat)
	}
	return &BeneficialBuff{
		StatusEffect: StatusEffect{Name: name, Duration: duration},
		amounts:      amounts,
		order:        order,
	}, nil
}

// Amount returns the signed delta for the given stat, 0 when unbuffed.
func (b *BeneficialBuff) Amount(stat StatKey) int { return b.amounts[stat] }

// BuffedAttributes returns the subset of deltas with a non-zero magnitude.
func (b *BeneficialBuff) BuffedAttributes() map[StatKey]int {
	out := make(map[StatKey]int)
	for k, v := range b.amounts {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// Equal reports structural equality: name, duration, and all four stat
// deltas must match.
func (b *BeneficialBuff) Equal(other *BeneficialBuff) bool {
	if other == nil {
		return false
	}
	if b.Name != other.Name || b.Duration != other.Duration {
		return false
	}
	for k := range statKeys {
		if b.amounts[k] != other.amounts[k] {
			return false
		}
	}
	return true
}

// SetAmount overrides the delta for a stat.
//
// Precondition: stat must be a valid stat key.
func (b *BeneficialBuff) SetAmount(stat StatKey, amount int) error {
	if !ValidStat(stat) {
		return InvalidStatError{Stat: stat}
	}
	if b.amounts[stat] == 0 && amount != 0 {
		b.order = append(b.order, stat)
	}
	b.amounts[stat] = amount
	return nil
}

// String describes the buff in declaration order, e.g.
// "Increases armor by 15 and strength by 10 for 10 turns."
func (b *BeneficialBuff) String() string {
	parts := make([]string, 0, len(b.order))
	for _, k := range b.order {
		if b.amounts[k] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s by %d", k, b.amounts[k]))
	}
	var joined string
	switch len(parts) {
	case 0:
		joined = "nothing"
	case 1:
		joined = parts[0]
	default:
		joined = strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
	return fmt.Sprintf("Increases %s for %d turns.", joined, b.Duration)
}
