// Package rhythm holds the reusable duration-pattern templates melodies are
// built from.
package rhythm

import (
	"fmt"

	"github.com/Conceptual-Machines/melody-api/internal/rng"
)

// Pattern is an ordered sequence of note durations in quarter-note beats.
type Pattern struct {
	Name      string
	Durations []float64
}

// Beats is the total length of the pattern.
func (p Pattern) Beats() float64 {
	total := 0.0
	for _, d := range p.Durations {
		total += d
	}
	return total
}

// Validate checks that the pattern is non-empty and every duration positive.
func (p Pattern) Validate() error {
	if len(p.Durations) == 0 {
		return fmt.Errorf("rhythm pattern %q is empty", p.Name)
	}
	for i, d := range p.Durations {
		if d <= 0 {
			return fmt.Errorf("rhythm pattern %q: duration %d is %.3f, must be positive", p.Name, i, d)
		}
	}
	return nil
}

// Library is an ordered, read-only set of patterns. Order matters: draws are
// indexed, so the same seed always picks the same pattern.
type Library struct {
	patterns []Pattern
}

// NewLibrary copies patterns into a library.
func NewLibrary(patterns ...Pattern) Library {
	return Library{patterns: clonePatterns(patterns)}
}

// FromDurations builds an anonymous library from raw duration lists.
func FromDurations(name string, durations [][]float64) Library {
	patterns := make([]Pattern, len(durations))
	for i, d := range durations {
		patterns[i] = Pattern{Name: fmt.Sprintf("%s-%d", name, i+1), Durations: d}
	}
	return NewLibrary(patterns...)
}

// Len is the number of patterns.
func (l Library) Len() int {
	return len(l.patterns)
}

// Patterns returns a copy of the library contents.
func (l Library) Patterns() []Pattern {
	return clonePatterns(l.patterns)
}

// Get returns the pattern called name.
func (l Library) Get(name string) (Pattern, bool) {
	for _, p := range l.patterns {
		if p.Name == name {
			return clonePattern(p), true
		}
	}
	return Pattern{}, false
}

// Merge returns a library holding l's patterns followed by other's.
func (l Library) Merge(other Library) Library {
	return NewLibrary(append(l.Patterns(), other.patterns...)...)
}

// Draw picks a pattern uniformly. The returned durations are a fresh copy.
// Draw panics on an empty library.
func (l Library) Draw(r rng.Source) Pattern {
	return clonePattern(l.patterns[r.IntN(len(l.patterns))])
}

// Durations returns copies of the raw duration lists in library order.
func (l Library) Durations() [][]float64 {
	out := make([][]float64, len(l.patterns))
	for i, p := range l.patterns {
		out[i] = append([]float64(nil), p.Durations...)
	}
	return out
}

func clonePattern(p Pattern) Pattern {
	return Pattern{Name: p.Name, Durations: append([]float64(nil), p.Durations...)}
}

func clonePatterns(in []Pattern) []Pattern {
	out := make([]Pattern, len(in))
	for i, p := range in {
		out[i] = clonePattern(p)
	}
	return out
}

// Common is the genre-neutral pattern set.
var Common = NewLibrary(
	Pattern{Name: "eighths-quarters", Durations: []float64{0.25, 0.25, 0.5, 0.5, 0.5}},
	Pattern{Name: "quarter-eighths", Durations: []float64{0.5, 0.25, 0.25, 0.5, 0.5}},
	Pattern{Name: "dotted-quarter", Durations: []float64{0.75, 0.25, 0.5, 0.5}},
	Pattern{Name: "half-quarters", Durations: []float64{1.0, 0.5, 0.5}},
	Pattern{Name: "quarter-half-quarter", Durations: []float64{0.5, 1.0, 0.5}},
	Pattern{Name: "four-eighths", Durations: []float64{0.25, 0.25, 0.25, 0.25, 0.5, 0.5}},
	Pattern{Name: "quarters-half", Durations: []float64{0.5, 0.5, 1.0}},
	Pattern{Name: "syncopated", Durations: []float64{0.25, 0.75, 0.5, 0.5}},
)
