// Package progression generates roman-numeral chord progressions, either from
// a genre's curated templates or by walking its chord-movement table.
package progression

import (
	"fmt"
	"slices"

	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/rng"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
)

// Length limits. Requests outside are clamped.
const (
	MinChords     = 2
	MaxChords     = 8
	DefaultChords = 4

	templateLength = 4
)

// Params describes one progression request.
type Params struct {
	Key       string
	Mode      string
	NumChords int
	Genre     string
	Seed      uint64
}

// Source records how the numerals were chosen.
type Source string

const (
	SourceTemplate Source = "template"
	SourceFeatured Source = "featured"
	SourceMovement Source = "movement"
)

// Progression is the result of Generate.
type Progression struct {
	Numerals    []string
	Chords      []theory.ChordSymbol
	Description string
	Source      Source
	Scale       theory.Scale
	Genre       string
}

// ChordNames renders every chord symbol.
func (p Progression) ChordNames() []string {
	out := make([]string, len(p.Chords))
	for i, c := range p.Chords {
		out[i] = c.String()
	}
	return out
}

// Voicings returns the MIDI notes of every chord rooted in octave.
func (p Progression) Voicings(octave int) ([][]int, error) {
	out := make([][]int, len(p.Chords))
	for i, c := range p.Chords {
		notes, err := c.MIDINotes(octave)
		if err != nil {
			return nil, fmt.Errorf("chord %d: %w", i+1, err)
		}
		out[i] = notes
	}
	return out, nil
}

// Clamp limits n to [MinChords, MaxChords].
func Clamp(n int) int {
	return min(max(n, MinChords), MaxChords)
}

// Seeded runs Generate with a generator seeded from p.Seed.
func Seeded(p Params, reg *genre.Registry) Progression {
	return Generate(p, reg, rng.New(p.Seed))
}

// Generate builds a progression. It never fails: unknown keys, modes and
// genres fall back to defaults.
func Generate(p Params, reg *genre.Registry, r rng.Source) Progression {
	scale := theory.ResolveKey(p.Key, p.Mode)
	profile := reg.Lookup(p.Genre)
	n := Clamp(p.NumChords)

	out := Progression{Scale: scale, Genre: profile.Name}
	switch {
	case profile.HasTemplates() && n == templateLength:
		template := profile.Progressions[r.IntN(len(profile.Progressions))]
		out.Source = SourceTemplate
		if len(profile.FeaturedProgression) > 0 && profile.FeaturedProbability > 0 {
			if rng.Chance(r, profile.FeaturedProbability) {
				template = profile.FeaturedProgression
				out.Source = SourceFeatured
			}
		}
		out.Numerals = fitLength(template, n)
	default:
		out.Numerals = walk(profile, scale.Mode, n, r)
		out.Source = SourceMovement
	}

	out.Chords = make([]theory.ChordSymbol, len(out.Numerals))
	for i, numeral := range out.Numerals {
		chord := scale.Resolve(numeral)
		if profile.ExtensionFrequency > 0 && len(profile.Extensions) > 0 && rng.Chance(r, profile.ExtensionFrequency) {
			chord.Extension = profile.Extensions[r.IntN(len(profile.Extensions))]
		}
		out.Chords[i] = chord
	}
	out.Description = Describe(out.Numerals, profile.Description)
	return out
}

// fitLength repeats template until it holds n numerals, then truncates.
func fitLength(template []string, n int) []string {
	out := make([]string, 0, n)
	for len(out) < n {
		out = append(out, template[:min(len(template), n-len(out))]...)
	}
	return out
}

// walk draws a start numeral and then successive weighted moves.
func walk(profile genre.Profile, mode theory.Mode, n int, r rng.Source) []string {
	start := profile.Start[mode]
	if len(start) == 0 {
		start = uniform(theory.PrimaryNumerals(mode)[:1])
	}
	out := []string{pick(start, r)}
	for len(out) < n {
		next, ok := profile.Movement[mode][out[len(out)-1]]
		if !ok || len(next) == 0 {
			next = uniform(theory.PrimaryNumerals(mode))
		}
		out = append(out, pick(next, r))
	}
	return out
}

func uniform(numerals []string) []genre.WeightedNumeral {
	out := make([]genre.WeightedNumeral, len(numerals))
	for i, n := range numerals {
		out[i] = genre.WeightedNumeral{Numeral: n, Weight: 1}
	}
	return out
}

// pick draws one numeral proportionally to its weight. Non-positive total
// weight degrades to a uniform draw.
func pick(candidates []genre.WeightedNumeral, r rng.Source) string {
	total := 0.0
	for _, c := range candidates {
		total += max(c.Weight, 0)
	}
	if total <= 0 {
		return candidates[r.IntN(len(candidates))].Numeral
	}
	x := r.Float64() * total
	for _, c := range candidates {
		x -= max(c.Weight, 0)
		if x < 0 {
			return c.Numeral
		}
	}
	return candidates[len(candidates)-1].Numeral
}

var famous = []struct {
	numerals    []string
	description string
}{
	{[]string{"I", "V", "vi", "IV"}, "The 'Axis of Awesome' progression - used in countless pop hits!"},
	{[]string{"I", "IV", "V", "I"}, "The classic 'Doo-wop' progression - a timeless classic rock and roll sequence."},
	{[]string{"ii", "V", "I"}, "The quintessential jazz '2-5-1' progression - the backbone of jazz harmony."},
	{genre.TwelveBarBlues, "The 12-bar blues - the foundation of blues, jazz, and rock and roll."},
}

// Describe names well-known numeral sequences, matching the whole sequence,
// and otherwise returns fallback.
func Describe(numerals []string, fallback string) string {
	for _, f := range famous {
		if slices.Equal(numerals, f.numerals) {
			return f.description
		}
	}
	return fallback
}
