// Package genre maps genre names to the typed profiles that condition melody
// and progression generation.
package genre

import (
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/melody-api/internal/rhythm"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
)

// Tendency names the pitch bias a genre applies relative to recent pitches.
type Tendency string

const (
	TendencyStepwise   Tendency = "stepwise"
	TendencyIntervals  Tendency = "intervals"
	TendencyPentatonic Tendency = "pentatonic"
	TendencyBluesScale Tendency = "blues_scale"
	TendencyPower      Tendency = "power"
	TendencyLimited    Tendency = "limited"
	TendencyRandom     Tendency = "random"
)

var tendencyDefaults = map[Tendency]struct {
	probability float64
	intervals   []int
}{
	TendencyStepwise:   {0.7, []int{-2, -1, 1, 2}},
	TendencyIntervals:  {0.6, []int{-5, -3, -2, 2, 3, 5}},
	TendencyPentatonic: {0.7, []int{-7, -5, -4, 0, 2, 3, 5, 7}},
	TendencyBluesScale: {0.7, []int{-5, -3, 0, 3, 5, 6}},
	TendencyPower:      {0.7, []int{-12, -7, -5, 0, 5, 7, 12}},
	TendencyLimited:    {0.8, []int{-2, -1, 0, 1, 2}},
	TendencyRandom:     {0, nil},
}

// Valid reports whether t is one of the known tendency tags.
func (t Tendency) Valid() bool {
	_, ok := tendencyDefaults[t]
	return ok
}

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// WeightedNumeral is one candidate in a weighted roman-numeral draw.
type WeightedNumeral struct {
	Numeral string
	Weight  float64
}

// MovementTable maps a numeral to its weighted successors.
type MovementTable map[string][]WeightedNumeral

// Profile is the immutable configuration of one genre. Every field is
// populated; absent genres get the neutral default profile.
type Profile struct {
	Name string

	// Melody
	Rhythms             rhythm.Library
	CommonPatternMix    float64 // chance the common patterns join the genre's pool for a piece
	Velocity            Range
	Octaves             Range
	Tendency            Tendency
	TendencyProbability float64
	TendencyIntervals   []int
	CoherenceBias       float64

	// Harmony
	ExtensionFrequency  float64
	Extensions          []string
	Progressions        [][]string
	FeaturedProgression []string
	FeaturedProbability float64
	Movement            map[theory.Mode]MovementTable
	Start               map[theory.Mode][]WeightedNumeral
	Description         string
}

// Clone returns a deep copy so callers can never alias registry state.
func (p Profile) Clone() Profile {
	out := p
	out.Rhythms = rhythm.NewLibrary(p.Rhythms.Patterns()...)
	out.TendencyIntervals = append([]int(nil), p.TendencyIntervals...)
	out.Extensions = append([]string(nil), p.Extensions...)
	out.Progressions = cloneProgressions(p.Progressions)
	out.FeaturedProgression = append([]string(nil), p.FeaturedProgression...)
	out.Movement = make(map[theory.Mode]MovementTable, len(p.Movement))
	for mode, table := range p.Movement {
		t := make(MovementTable, len(table))
		for k, v := range table {
			t[k] = append([]WeightedNumeral(nil), v...)
		}
		out.Movement[mode] = t
	}
	out.Start = make(map[theory.Mode][]WeightedNumeral, len(p.Start))
	for mode, v := range p.Start {
		out.Start[mode] = append([]WeightedNumeral(nil), v...)
	}
	return out
}

// HasTemplates reports whether the genre carries curated progressions.
func (p Profile) HasTemplates() bool {
	return len(p.Progressions) > 0
}

// Validate checks the invariants documented on Profile.
func (p Profile) Validate() error {
	var errs []error
	if p.Rhythms.Len() == 0 {
		errs = append(errs, errors.New("no rhythm patterns"))
	}
	for _, pat := range p.Rhythms.Patterns() {
		if err := pat.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.Velocity.Min < 0 || p.Velocity.Max > 127 || p.Velocity.Min > p.Velocity.Max {
		errs = append(errs, fmt.Errorf("velocity range %d-%d outside 0-127 or inverted", p.Velocity.Min, p.Velocity.Max))
	}
	if p.Octaves.Min > p.Octaves.Max {
		errs = append(errs, fmt.Errorf("octave range %d..%d inverted", p.Octaves.Min, p.Octaves.Max))
	}
	if !p.Tendency.Valid() {
		errs = append(errs, fmt.Errorf("unknown pitch tendency %q", p.Tendency))
	} else if p.Tendency != TendencyRandom && len(p.TendencyIntervals) == 0 {
		errs = append(errs, fmt.Errorf("tendency %q has no intervals", p.Tendency))
	}
	for _, prob := range []struct {
		name  string
		value float64
	}{
		{"tendency probability", p.TendencyProbability},
		{"extension frequency", p.ExtensionFrequency},
		{"common pattern mix", p.CommonPatternMix},
		{"featured probability", p.FeaturedProbability},
	} {
		if prob.value < 0 || prob.value > 1 {
			errs = append(errs, fmt.Errorf("%s %.2f outside [0,1]", prob.name, prob.value))
		}
	}
	for _, ext := range p.Extensions {
		if !theory.KnownExtension(ext) {
			errs = append(errs, fmt.Errorf("unknown chord extension %q", ext))
		}
	}
	for i, prog := range p.Progressions {
		if len(prog) == 0 {
			errs = append(errs, fmt.Errorf("progression %d is empty", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("genre %q: %w", p.Name, err)
	}
	return nil
}

func cloneProgressions(in [][]string) [][]string {
	out := make([][]string, len(in))
	for i, p := range in {
		out[i] = append([]string(nil), p...)
	}
	return out
}
