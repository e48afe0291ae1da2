package models

// Band is the complexity band a task falls into.
type Band string

const (
	// BandTrivial is a small, contained change with no review ceremony.
	BandTrivial Band = "TRIVIAL"
	// BandSimple is a straightforward change with a clear pattern.
	BandSimple Band = "SIMPLE"
	// BandMedium is typical feature or multi-file work.
	BandMedium Band = "MEDIUM"
	// BandComplex is cross-cutting or high-risk work.
	BandComplex Band = "COMPLEX"
)

// Valid returns true if the band is a known value.
func (b Band) Valid() bool {
	switch b {
	case BandTrivial, BandSimple, BandMedium, BandComplex:
		return true
	default:
		return false
	}
}

// rank orders bands from least to most complex.
func (b Band) rank() int {
	switch b {
	case BandTrivial:
		return 0
	case BandSimple:
		return 1
	case BandMedium:
		return 2
	case BandComplex:
		return 3
	default:
		return -1
	}
}

// Promote returns the band one step up, capped at COMPLEX.
func (b Band) Promote() Band {
	switch b {
	case BandTrivial:
		return BandSimple
	case BandSimple:
		return BandMedium
	case BandMedium, BandComplex:
		return BandComplex
	default:
		return b
	}
}

// AtLeast returns true if b is at or above other in complexity order.
func (b Band) AtLeast(other Band) bool {
	return b.rank() >= other.rank()
}

// ComplexityScore is the classifier's output for one TaskSignal.
// It is a pure derivation: the same signal always yields the same score.
type ComplexityScore struct {
	// Score is the weighted numeric combination of the count fields.
	Score int `json:"score"`
	// Band is the complexity band the task was placed in.
	Band Band `json:"band"`
}
