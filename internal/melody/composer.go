// Package melody composes note sequences from a motif, genre-driven
// variations of it and a scale-constrained pitch sequencer.
package melody

import (
	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/rhythm"
	"github.com/Conceptual-Machines/melody-api/internal/rng"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
)

// DefaultTempo is used when Params.Tempo is not positive.
const DefaultTempo = 120

// Params describes one melody request.
type Params struct {
	Key           string
	Mode          string
	Bars          int
	Coherence     float64
	Tempo         int
	TimeSignature string
	Genre         string
	Seed          uint64
}

// NoteEvent is one emitted note. Times are in quarter-note beats from the
// start of the piece.
type NoteEvent struct {
	Pitch    int
	Velocity int
	Start    float64
	End      float64
}

// Duration is End - Start.
func (e NoteEvent) Duration() float64 {
	return e.End - e.Start
}

// Phrase records where one motif landed and how it was obtained.
type Phrase struct {
	Start     float64
	Notes     int
	Fresh     bool
	Operator  Operator // empty for fresh motifs
	Truncated bool
}

// Melody is the result of Compose.
type Melody struct {
	Events             []NoteEvent
	Phrases            []Phrase
	Scale              theory.Scale
	Meter              Meter
	BeatsPerBar        float64
	KeySignatureFifths int
	Tempo              int
	Genre              string
	Coherence          float64 // caller coherence plus genre bias, clamped
}

// TotalBeats is the end of the last event.
func (m Melody) TotalBeats() float64 {
	if len(m.Events) == 0 {
		return 0
	}
	return m.Events[len(m.Events)-1].End
}

// Generate composes with a generator seeded from p.Seed.
func Generate(p Params, reg *genre.Registry) Melody {
	return Compose(p, reg, rng.New(p.Seed))
}

// Compose builds a melody of p.Bars bars. It never fails: unknown keys, modes
// and genres fall back to defaults and a malformed time signature means 4/4.
func Compose(p Params, reg *genre.Registry, r rng.Source) Melody {
	scale := theory.ResolveKey(p.Key, p.Mode)
	profile := reg.Lookup(p.Genre)
	meter, _ := ParseMeter(p.TimeSignature)

	out := Melody{
		Scale:              scale,
		Meter:              meter,
		BeatsPerBar:        meter.BeatsPerBar(),
		KeySignatureFifths: scale.KeySignatureFifths(),
		Tempo:              p.Tempo,
		Genre:              profile.Name,
		Coherence:          clamp01(clamp01(p.Coherence) + profile.CoherenceBias),
	}
	if out.Tempo <= 0 {
		out.Tempo = DefaultTempo
	}

	pool := profile.Rhythms
	if profile.CommonPatternMix > 0 && rng.Chance(r, profile.CommonPatternMix) {
		pool = pool.Merge(rhythm.Common)
	}

	bars := max(p.Bars, 1)
	budget := float64(bars) * out.BeatsPerBar
	seq := NewSequencer(scale, profile)
	n := scale.Len()

	var base Motif
	pos := 0.0
	for i := 0; pos < budget-epsilon; i++ {
		phrase := Phrase{Start: pos}
		var m Motif
		if r.Float64() < out.Coherence && i > 0 {
			m, phrase.Operator = Vary(base, n, r)
		} else {
			m = RandomMotif(pool, n, r)
			phrase.Fresh = true
			if i == 0 {
				base = m
			}
		}

		fitted, ok := FitToBudget(m, budget-pos)
		if !ok {
			fitted = Motif{Rhythm: []float64{budget - pos}, Degrees: []int{r.IntN(n)}}
		}
		phrase.Truncated = fitted.Len() < m.Len() || !ok

		for j, d := range fitted.Rhythm {
			end := pos + d
			if end > budget-epsilon && end < budget+epsilon {
				end = budget
			}
			out.Events = append(out.Events, NoteEvent{
				Pitch:    seq.Next(fitted.Degrees[j], r),
				Velocity: rng.Between(r, profile.Velocity.Min, profile.Velocity.Max),
				Start:    pos,
				End:      end,
			})
			pos = end
		}
		phrase.Notes = fitted.Len()
		out.Phrases = append(out.Phrases, phrase)
	}
	return out
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
