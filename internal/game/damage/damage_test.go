package damage_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ashfall-games/ashfall/internal/game/damage"
	"github.com/ashfall-games/ashfall/internal/game/dice"
)

// fixedSwing returns a source whose next swing roll over [lo, hi+1] lands on
// exactly want.
func fixedSwing(lo, want int) dice.Source {
	return dice.NewSequence([]int{want - lo}, nil)
}

// TestAutoAttack_EqualLevels verifies no scaling when levels match.
func TestAutoAttack_EqualLevels(t *testing.T) {
	src := fixedSwing(2, 4)
	d := damage.AutoAttack(src, 3, 2, 4, 3)
	assert.Equal(t, 4.0, d.Phys)
}

// TestAutoAttack_AttackerHigher verifies +10% per level of advantage.
func TestAutoAttack_AttackerHigher(t *testing.T) {
	src := fixedSwing(10, 10)
	d := damage.AutoAttack(src, 5, 10, 20, 2) // diff = +3 → +30%
	assert.InDelta(t, 13.0, d.Phys, 1e-9)
}

// TestAutoAttack_AttackerLower verifies -10% per level of disadvantage.
func TestAutoAttack_AttackerLower(t *testing.T) {
	src := fixedSwing(10, 10)
	d := damage.AutoAttack(src, 2, 10, 20, 5) // diff = -3 → -30%
	assert.InDelta(t, 7.0, d.Phys, 1e-9)
}

// TestAutoAttack_ScalingProperty verifies the ±10%-per-level rule for
// arbitrary level differences.
func TestAutoAttack_ScalingProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		atkLevel := rapid.IntRange(1, 30).Draw(rt, "atkLevel")
		defLevel := rapid.IntRange(1, 30).Draw(rt, "defLevel")
		base := rapid.IntRange(1, 100).Draw(rt, "base")

		src := fixedSwing(base, base)
		d := damage.AutoAttack(src, atkLevel, base, base+10, defLevel)

		diff := atkLevel - defLevel
		expected := float64(base)
		switch {
		case diff > 0:
			expected += expected * 0.1 * float64(diff)
		case diff < 0:
			expected -= expected * 0.1 * math.Abs(float64(diff))
		}
		assert.InDelta(rt, expected, d.Phys, 1e-9)
	})
}

// TestAutoAttack_SwingBounds verifies the roll can land on max+1 but never
// outside [min, max+1].
func TestAutoAttack_SwingBounds(t *testing.T) {
	src := dice.NewSeeded(11)
	sawMaxPlusOne := false
	for i := 0; i < 5000; i++ {
		d := damage.AutoAttack(src, 1, 2, 4, 1)
		require.GreaterOrEqual(t, d.Phys, 2.0)
		require.LessOrEqual(t, d.Phys, 5.0)
		if d.Phys == 5.0 {
			sawMaxPlusOne = true
		}
	}
	assert.True(t, sawMaxPlusOne)
}

// TestApplyArmorMitigation_ZeroArmor verifies zero armor leaves damage
// untouched.
func TestApplyArmorMitigation_ZeroArmor(t *testing.T) {
	raw := damage.New(42.5)
	mitigated := damage.ApplyArmorMitigation(raw, 0, 10)
	assert.Equal(t, raw.Phys, mitigated.Phys)
}

// TestApplyArmorMitigation_Formula verifies the armor formula against a
// hand-computed case: armor=75, attacker level=1 → 75/(75+400+85) = 0.1339…
func TestApplyArmorMitigation_Formula(t *testing.T) {
	raw := damage.New(100)
	mitigated := damage.ApplyArmorMitigation(raw, 75, 1)
	expected := 100.0 - 100.0*(75.0/560.0)
	assert.InDelta(t, expected, mitigated.Phys, 1e-9)
	// The raw value is never mutated in place.
	assert.Equal(t, 100.0, raw.Phys)
}

// TestMitigationFraction_Monotonic verifies the fraction is strictly
// increasing in armor and strictly decreasing in attacker level.
func TestMitigationFraction_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		armor := rapid.IntRange(1, 5000).Draw(rt, "armor")
		level := rapid.IntRange(0, 60).Draw(rt, "level")

		f := damage.MitigationFraction(armor, level)
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)

		assert.Greater(t, damage.MitigationFraction(armor+1, level), f,
			"fraction must increase with armor")
		assert.Less(t, damage.MitigationFraction(armor, level+1), f,
			"fraction must decrease with attacker level")
	})
}

// TestDamage_PointsAndString covers the display helpers.
func TestDamage_PointsAndString(t *testing.T) {
	d := damage.New(12.6)
	assert.Equal(t, 13, d.Points())
	assert.Equal(t, "12.60 damage", d.String())
}
