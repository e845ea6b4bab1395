package melody

import (
	"math"

	"github.com/Conceptual-Machines/melody-api/internal/rhythm"
	"github.com/Conceptual-Machines/melody-api/internal/rng"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
)

// epsilon absorbs float drift when summing beat durations.
const epsilon = 1e-9

// Motif pairs a rhythm with scale degrees of the same length. Operators never
// modify their input.
type Motif struct {
	Rhythm  []float64
	Degrees []int
}

// Len is the number of notes.
func (m Motif) Len() int {
	return len(m.Rhythm)
}

// Beats is the summed duration.
func (m Motif) Beats() float64 {
	total := 0.0
	for _, d := range m.Rhythm {
		total += d
	}
	return total
}

func (m Motif) clone() Motif {
	return Motif{
		Rhythm:  append([]float64(nil), m.Rhythm...),
		Degrees: append([]int(nil), m.Degrees...),
	}
}

// Operator names one motif transformation.
type Operator string

const (
	OpIdentity      Operator = "identity"
	OpTranspose     Operator = "transpose"
	OpRhythmSwap    Operator = "rhythm_swap"
	OpContourInvert Operator = "contour_invert"
	OpTimeScale     Operator = "time_scale"
)

// Operators lists every variation in draw order.
var Operators = []Operator{OpIdentity, OpTranspose, OpRhythmSwap, OpContourInvert, OpTimeScale}

var transposeSteps = []int{-2, -1, 1, 2}

// Apply returns a transformed copy of m. scaleLen bounds the degrees.
func (op Operator) Apply(m Motif, scaleLen int, r rng.Source) Motif {
	out := m.clone()
	switch op {
	case OpTranspose:
		step := transposeSteps[r.IntN(len(transposeSteps))]
		for i, d := range out.Degrees {
			out.Degrees[i] = theory.Mod(d+step, scaleLen)
		}
	case OpRhythmSwap:
		if len(out.Rhythm) >= 2 {
			i := r.IntN(len(out.Rhythm) - 1)
			out.Rhythm[i], out.Rhythm[i+1] = out.Rhythm[i+1], out.Rhythm[i]
		}
	case OpContourInvert:
		if len(out.Degrees) == 0 {
			break
		}
		lo, hi := out.Degrees[0], out.Degrees[0]
		for _, d := range out.Degrees {
			lo = min(lo, d)
			hi = max(hi, d)
		}
		mid := float64(lo+hi) / 2
		for i, d := range out.Degrees {
			out.Degrees[i] = theory.Mod(int(math.Floor(mid+(mid-float64(d)))), scaleLen)
		}
	case OpTimeScale:
		factor := 0.75
		for _, d := range out.Rhythm {
			if d < 0.25 {
				factor = 1.25
				break
			}
		}
		for i := range out.Rhythm {
			out.Rhythm[i] *= factor
		}
	}
	return out
}

// Vary applies one uniformly chosen operator to m.
func Vary(m Motif, scaleLen int, r rng.Source) (Motif, Operator) {
	op := Operators[r.IntN(len(Operators))]
	return op.Apply(m, scaleLen, r), op
}

// RandomMotif draws a rhythm from pool and uniform degrees in [0, scaleLen).
func RandomMotif(pool rhythm.Library, scaleLen int, r rng.Source) Motif {
	pattern := pool.Draw(r)
	degrees := make([]int, len(pattern.Durations))
	for i := range degrees {
		degrees[i] = r.IntN(scaleLen)
	}
	return Motif{Rhythm: pattern.Durations, Degrees: degrees}
}

// FitToBudget returns the longest prefix of m lasting at most remaining
// beats. ok is false when not even the first note fits.
func FitToBudget(m Motif, remaining float64) (fitted Motif, ok bool) {
	total := 0.0
	n := 0
	for _, d := range m.Rhythm {
		if total+d > remaining+epsilon {
			break
		}
		total += d
		n++
	}
	if n == 0 {
		return Motif{}, false
	}
	return Motif{
		Rhythm:  append([]float64(nil), m.Rhythm[:n]...),
		Degrees: append([]int(nil), m.Degrees[:n]...),
	}, true
}
