package genre

import (
	"github.com/Conceptual-Machines/melody-api/internal/rhythm"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
)

// Names of the built-in genres, in display order.
const (
	None       = "none"
	Pop        = "pop"
	Rock       = "rock"
	Jazz       = "jazz"
	Classical  = "classical"
	Blues      = "blues"
	Folk       = "folk"
	Electronic = "electronic"
	Punk       = "punk"
	Metal      = "metal"
	HipHop     = "hiphop"
	Country    = "country"

	// DefaultName labels the neutral profile unknown genres resolve to.
	DefaultName = "default"
)

// Genres lists every recognised genre key.
var Genres = []string{None, Pop, Rock, Jazz, Classical, Blues, Folk, Electronic, Punk, Metal, HipHop, Country}

const (
	genrePatternMix   = 0.2
	twelveBarChance   = 0.3
	customDescription = "A custom chord progression."
)

// TwelveBarBlues is the featured blues template.
var TwelveBarBlues = []string{"I", "I", "I", "I", "IV", "IV", "I", "I", "V", "IV", "I", "V"}

func w(numerals ...string) []WeightedNumeral {
	out := make([]WeightedNumeral, len(numerals))
	for i, n := range numerals {
		out[i] = WeightedNumeral{Numeral: n, Weight: 1}
	}
	return out
}

func defaultMovement() map[theory.Mode]MovementTable {
	return map[theory.Mode]MovementTable{
		theory.Major: {
			"I":    w("IV", "V", "vi", "ii"),
			"ii":   w("V", "IV", "vii°"),
			"iii":  w("vi", "IV", "ii"),
			"IV":   w("I", "V", "ii", "vii°"),
			"V":    w("I", "vi", "IV"),
			"vi":   w("IV", "ii", "V"),
			"vii°": w("I", "iii"),
		},
		theory.Minor: {
			"i":   w("iv", "v", "VI", "VII"),
			"ii°": w("V", "i", "VII"),
			"III": w("VI", "iv", "ii°"),
			"iv":  w("i", "V", "ii°", "VII"),
			"v":   w("i", "VI", "iv"),
			"VI":  w("iv", "ii°", "III", "VII"),
			"VII": w("i", "VI", "III"),
		},
	}
}

func defaultStart() map[theory.Mode][]WeightedNumeral {
	return map[theory.Mode][]WeightedNumeral{
		theory.Major: w("I", "vi"),
		theory.Minor: w("i", "VI"),
	}
}

// neutral is the profile every built-in starts from: common rhythms, free
// pitch choice, no harmonic colour.
func neutral(name string) Profile {
	return Profile{
		Name:                name,
		Rhythms:             rhythm.Common,
		Velocity:            Range{70, 100},
		Octaves:             Range{-1, 1},
		Tendency:            TendencyRandom,
		TendencyProbability: tendencyDefaults[TendencyRandom].probability,
		Movement:            defaultMovement(),
		Start:               defaultStart(),
		Description:         customDescription,
	}
}

type melodySettings struct {
	patterns  [][]float64
	velocity  Range
	octaves   Range
	tendency  Tendency
	intervals []int // nil keeps the tendency's default set
	bias      float64
}

type harmonySettings struct {
	frequency    float64
	extensions   []string
	progressions [][]string
	description  string
}

var melodyTable = map[string]melodySettings{
	Classical: {
		patterns: [][]float64{
			{0.5, 0.5, 0.5, 0.5},
			{0.25, 0.25, 0.25, 0.25, 0.5, 0.5},
			{1.0, 0.5, 0.5},
			{0.75, 0.25, 1.0},
			{0.5, 0.25, 0.25, 1.0},
		},
		velocity: Range{65, 90}, octaves: Range{-1, 1}, tendency: TendencyStepwise, bias: 0.1,
	},
	Jazz: {
		patterns: [][]float64{
			{0.33, 0.33, 0.34, 0.5, 0.5},
			{0.75, 0.25, 0.5, 0.5},
			{0.66, 0.34, 0.5, 0.5},
			{0.5, 0.33, 0.33, 0.34, 0.5},
			{0.25, 0.25, 0.25, 0.25, 0.5, 0.25, 0.25},
		},
		velocity: Range{70, 95}, octaves: Range{-1, 1}, tendency: TendencyIntervals,
		intervals: []int{-4, -3, 3, 4, 7}, bias: -0.1,
	},
	Rock: {
		patterns: [][]float64{
			{0.25, 0.25, 0.25, 0.25, 0.5, 0.5},
			{0.5, 0.5, 0.5, 0.5},
			{0.25, 0.25, 0.5, 0.25, 0.25, 0.5},
			{0.75, 0.25, 0.5, 0.25, 0.25},
		},
		velocity: Range{75, 100}, octaves: Range{-1, 0}, tendency: TendencyPentatonic, bias: 0,
	},
	Pop: {
		patterns: [][]float64{
			{0.25, 0.25, 0.5, 0.25, 0.25, 0.5},
			{0.25, 0.25, 0.25, 0.25, 0.5, 0.5},
			{0.5, 0.25, 0.25, 0.25, 0.25, 0.5},
		},
		velocity: Range{70, 90}, octaves: Range{0, 1}, tendency: TendencyIntervals,
		intervals: []int{-5, -3, 2, 3, 5, 7}, bias: 0.2,
	},
	Folk: {
		patterns: [][]float64{
			{0.5, 0.5, 0.5, 0.5},
			{0.25, 0.25, 0.5, 0.25, 0.25, 0.5},
			{0.75, 0.25, 0.5, 0.5},
		},
		velocity: Range{60, 85}, octaves: Range{0, 0}, tendency: TendencyStepwise, bias: 0.1,
	},
	Blues: {
		patterns: [][]float64{
			{0.33, 0.33, 0.34, 0.5, 0.5},
			{0.75, 0.25, 0.5, 0.5},
			{0.5, 0.5, 0.75, 0.25},
		},
		velocity: Range{65, 90}, octaves: Range{-1, 0}, tendency: TendencyBluesScale, bias: -0.05,
	},
	Electronic: {
		patterns: [][]float64{
			{0.25, 0.25, 0.25, 0.25, 0.25, 0.25, 0.25, 0.25},
			{0.125, 0.125, 0.125, 0.125, 0.25, 0.25},
			{0.5, 0.25, 0.25, 0.5, 0.5},
		},
		velocity: Range{80, 100}, octaves: Range{0, 1}, tendency: TendencyIntervals, bias: 0.15,
	},
	Punk: {
		patterns: [][]float64{
			{0.25, 0.25, 0.25, 0.25, 0.25, 0.25, 0.25, 0.25},
			{0.125, 0.125, 0.125, 0.125, 0.25, 0.25},
			{0.25, 0.25, 0.5, 0.25, 0.25, 0.5},
		},
		velocity: Range{85, 100}, octaves: Range{0, 0}, tendency: TendencyLimited, bias: -0.2,
	},
	Metal: {
		patterns: [][]float64{
			{0.125, 0.125, 0.125, 0.125, 0.25, 0.25},
			{0.25, 0.125, 0.125, 0.25, 0.25},
			{0.125, 0.125, 0.25, 0.125, 0.125, 0.25},
		},
		velocity: Range{85, 100}, octaves: Range{-1, 0}, tendency: TendencyPower, bias: 0.05,
	},
	HipHop: {
		patterns: [][]float64{
			{0.25, 0.5, 0.25, 0.5, 0.5},
			{0.25, 0.25, 0.75, 0.75},
			{0.33, 0.33, 0.34, 0.5, 0.5},
		},
		velocity: Range{70, 90}, octaves: Range{-1, 0}, tendency: TendencyIntervals, bias: 0.1,
	},
	Country: {
		patterns: [][]float64{
			{0.5, 0.25, 0.25, 0.5, 0.5},
			{0.25, 0.25, 0.5, 0.5, 0.5},
			{0.5, 0.5, 0.25, 0.25, 0.5},
		},
		velocity: Range{65, 85}, octaves: Range{0, 0}, tendency: TendencyStepwise, bias: 0.05,
	},
}

var harmonyTable = map[string]harmonySettings{
	None: {
		frequency:  0.1,
		extensions: []string{"7", "maj7", "6", "9"},
		progressions: [][]string{
			{"I", "IV", "V", "I"},
			{"I", "vi", "IV", "V"},
			{"I", "V", "vi", "IV"},
			{"ii", "V", "I", "IV"},
			{"I", "IV", "I", "V"},
		},
		description: "A standard chord progression.",
	},
	Pop: {
		frequency:  0.2,
		extensions: []string{"7", "maj7", "add9", "sus4"},
		progressions: [][]string{
			{"I", "V", "vi", "IV"},
			{"I", "IV", "V", "IV"},
			{"vi", "IV", "I", "V"},
			{"I", "V", "IV", "I"},
			{"IV", "I", "V", "vi"},
		},
		description: "A catchy pop progression with good flow.",
	},
	Rock: {
		frequency:  0.3,
		extensions: []string{"7", "5", "sus4", "add9"},
		progressions: [][]string{
			{"I", "IV", "V", "I"},
			{"I", "V", "IV", "I"},
			{"ii", "IV", "V", "I"},
			{"I", "iii", "IV", "I"},
			{"I", "VII", "IV", "I"},
		},
		description: "A strong, energetic rock progression.",
	},
	Jazz: {
		frequency:  0.7,
		extensions: []string{"7", "9", "11", "13", "maj7", "maj9", "6/9", "7b9", "7#11", "7b13"},
		progressions: [][]string{
			{"ii", "V", "I", "vi"},
			{"I", "vi", "ii", "V"},
			{"I", "IV", "iii", "VI"},
			{"i", "IV", "VII", "III"},
			{"ii", "V", "I", "IV"},
		},
		description: "A sophisticated jazz progression with rich harmonies.",
	},
	Classical: {
		frequency:  0.1,
		extensions: []string{"7", "maj7", "sus4", "6"},
		progressions: [][]string{
			{"I", "IV", "V", "I"},
			{"I", "V", "vi", "iii"},
			{"ii", "V", "I", "IV"},
			{"I", "vi", "IV", "II"},
			{"I", "IV", "I", "V"},
		},
		description: "An elegant classical-style progression.",
	},
	Blues: {
		frequency:  0.5,
		extensions: []string{"7", "9", "13", "7#9"},
		progressions: [][]string{
			TwelveBarBlues,
			{"i", "iv", "i", "V"},
			{"i", "VI", "VII", "i"},
			{"i", "VI", "iv", "V"},
			{"i", "iv", "VII", "III"},
		},
		description: "A soulful blues progression with emotional depth.",
	},
	Folk: {
		frequency:  0.15,
		extensions: []string{"7", "sus2", "sus4", "add9"},
		progressions: [][]string{
			{"I", "V", "IV", "I"},
			{"I", "IV", "I", "V"},
			{"I", "vi", "IV", "V"},
			{"ii", "IV", "I", "V"},
			{"I", "iii", "IV", "V"},
		},
		description: "A simple, melodic folk progression.",
	},
	Electronic: {
		frequency:  0.3,
		extensions: []string{"sus4", "add9", "maj7", "6/9"},
		progressions: [][]string{
			{"I", "V", "vi", "IV"},
			{"vi", "V", "IV", "V"},
			{"I", "IV", "vi", "V"},
			{"ii", "V", "I", "vi"},
			{"vi", "IV", "I", "V"},
		},
		description: "A modern electronic progression with atmosphere.",
	},
}

// builtin assembles the profile for one genre from the melody and harmony
// tables.
func builtin(name string) Profile {
	p := neutral(name)
	if m, ok := melodyTable[name]; ok {
		p.Rhythms = rhythm.FromDurations(name, m.patterns)
		p.CommonPatternMix = genrePatternMix
		p.Velocity = m.velocity
		p.Octaves = m.octaves
		p.Tendency = m.tendency
		p.TendencyProbability = tendencyDefaults[m.tendency].probability
		p.TendencyIntervals = tendencyDefaults[m.tendency].intervals
		if m.intervals != nil {
			p.TendencyIntervals = m.intervals
		}
		p.CoherenceBias = m.bias
	}
	if h, ok := harmonyTable[name]; ok {
		p.ExtensionFrequency = h.frequency
		p.Extensions = h.extensions
		p.Progressions = h.progressions
		p.Description = h.description
	}
	if name == Blues {
		p.FeaturedProgression = TwelveBarBlues
		p.FeaturedProbability = twelveBarChance
	}
	return p.Clone()
}
