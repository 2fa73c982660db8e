// Package effect implements timed status effects: beneficial stat buffs and
// damage-over-time effects. Effects are advanced once per turn by their
// owning entity, independent of attack resolution.
package effect

import "fmt"

// StatKey identifies a character stat a buff can modify.
type StatKey string

// The fixed set of buffable stats. Any other key is rejected at buff
// construction with an InvalidStatError.
const (
	StatHealth   StatKey = "health"
	StatMana     StatKey = "mana"
	StatStrength StatKey = "strength"
	StatArmor    StatKey = "armor"
)

// statKeys is the closed set of valid stat keys.
var statKeys = map[StatKey]struct{}{
	StatHealth:   {},
	StatMana:     {},
	StatStrength: {},
	StatArmor:    {},
}

// ValidStat reports whether key is one of the four buffable stats.
func ValidStat(key StatKey) bool {
	_, ok := statKeys[key]
	return ok
}

// InvalidStatError is returned when a buff is constructed with a stat key
// outside the supported set. The message names the rejected key so content
// errors are traceable to the offending definition.
type InvalidStatError struct {
	Stat StatKey
}

func (e InvalidStatError) Error() string {
	return fmt.Sprintf("buff stat %q is not supported", string(e.Stat))
}

// StatusEffect is the common core of every timed effect: a display name and
// a remaining duration in turns.
type StatusEffect struct {
	Name     string
	Duration int
}

// Expired reports whether the effect's duration has run out.
func (s StatusEffect) Expired() bool { return s.Duration <= 0 }

// String returns the generic effect description. Concrete variants override
// this with their own formatting.
func (s StatusEffect) String() string { return "Default Status Effect" }
