package dice

// SequenceSource replays fixed values, for deterministic tests.
// Intn returns the next int value modulo n; Float64 returns the next float
// value. Each stream cycles independently when exhausted.
type SequenceSource struct {
	Ints     []int
	Floats   []float64
	intIdx   int
	floatIdx int
}

// NewSequence returns a SequenceSource replaying ints for Intn and floats
// for Float64. Empty slices fall back to zero values.
func NewSequence(ints []int, floats []float64) *SequenceSource {
	return &SequenceSource{Ints: ints, Floats: floats}
}

func (s *SequenceSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.intIdx%len(s.Ints)]
	s.intIdx++
	return v % n
}

func (s *SequenceSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.floatIdx%len(s.Floats)]
	s.floatIdx++
	return v
}
