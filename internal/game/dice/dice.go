// Package dice provides the core randomness abstraction for the Ashfall
// combat engine. Every probabilistic branch in the engine — attack rolls,
// loot rolls, gold rewards — draws through a Source so tests can inject a
// deterministic generator.
package dice

// Source is the randomness provider for the engine.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int

	// Float64 returns a random float64 in [0.0, 1.0).
	Float64() float64
}

// RollRange returns a uniformly distributed integer in [lo, hi] inclusive.
//
// Precondition: src must be non-nil; lo <= hi.
// Postcondition: lo <= result <= hi.
func RollRange(src Source, lo, hi int) int {
	if lo > hi {
		panic("dice: RollRange called with lo > hi")
	}
	if lo == hi {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// RollSwing returns an attack swing roll for a weapon range.
// The upper bound is hi+1, matching the damage-range convention of the
// content tables: a 2-4 damage weapon can swing for 5.
//
// Precondition: src must be non-nil; lo <= hi.
// Postcondition: lo <= result <= hi+1.
func RollSwing(src Source, lo, hi int) int {
	return RollRange(src, lo, hi+1)
}
