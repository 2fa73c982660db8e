package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ashfall-games/ashfall/internal/game/dice"
)

// TestRollRange_Bounds verifies RollRange stays within [lo, hi] inclusive.
func TestRollRange_Bounds(t *testing.T) {
	src := dice.NewSeeded(42)
	for i := 0; i < 1000; i++ {
		v := dice.RollRange(src, 2, 5)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 5)
	}
}

// TestRollRange_Degenerate verifies a zero-width range always returns lo.
func TestRollRange_Degenerate(t *testing.T) {
	src := dice.NewSeeded(1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 7, dice.RollRange(src, 7, 7))
	}
}

// TestRollSwing_UpperBound verifies the swing roll can exceed the weapon
// maximum by exactly one and no more.
func TestRollSwing_UpperBound(t *testing.T) {
	src := dice.NewSeeded(7)
	sawOverMax := false
	for i := 0; i < 5000; i++ {
		v := dice.RollSwing(src, 2, 4)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 5)
		if v == 5 {
			sawOverMax = true
		}
	}
	assert.True(t, sawOverMax, "swing roll must be able to hit max+1")
}

// TestRollRange_Property verifies bounds for arbitrary ranges.
func TestRollRange_Property(t *testing.T) {
	src := dice.NewSeeded(99)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(0, 100).Draw(rt, "lo")
		width := rapid.IntRange(0, 100).Draw(rt, "width")
		hi := lo + width

		v := dice.RollRange(src, lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, hi)
	})
}

// TestNewSeeded_Deterministic verifies equal seeds produce equal sequences.
func TestNewSeeded_Deterministic(t *testing.T) {
	a := dice.NewSeeded(123)
	b := dice.NewSeeded(123)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

// TestCryptoSource_Float64Range verifies the production source stays in [0, 1).
func TestCryptoSource_Float64Range(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		f := src.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

// TestSequenceSource_Replay verifies the test source replays fixed values.
func TestSequenceSource_Replay(t *testing.T) {
	src := dice.NewSequence([]int{3, 1}, []float64{0.25, 0.99})
	assert.Equal(t, 3, src.Intn(10))
	assert.Equal(t, 1, src.Intn(10))
	assert.Equal(t, 3, src.Intn(10)) // cycles
	assert.Equal(t, 0.25, src.Float64())
	assert.Equal(t, 0.99, src.Float64())
}
