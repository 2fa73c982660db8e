package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// float64Denominator is 2^53, the number of distinct mantissa values used to
// build a uniform float64 in [0, 1).
const float64Denominator = 1 << 53

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any
// n > 0, and in [0, 1) for Float64.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. This is the
// production source; it is safe for concurrent use.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a cryptographically secure random float64 in [0, 1).
func (c *cryptoSource) Float64() float64 {
	val, err := rand.Int(rand.Reader, big.NewInt(float64Denominator))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(val.Int64()) / float64Denominator
}

// seededSource implements Source using math/rand with a fixed seed.
// It is NOT safe for concurrent use; the single-threaded simulation turn
// loop is the only consumer.
type seededSource struct {
	rng *mrand.Rand
}

// NewSeeded returns a deterministic Source seeded with seed. Two sources
// created with the same seed produce identical roll sequences.
func NewSeeded(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.Intn(n)
}

func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}
