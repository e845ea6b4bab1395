package theory

import (
	"fmt"
	"strings"
)

// ChordSymbol is a resolved chord: root note name, triad quality, optional
// extension and optional slash bass.
type ChordSymbol struct {
	Root      string
	Quality   Quality
	Extension string
	Bass      string
}

// String renders the symbol, e.g. "Am7" or "Cmaj7/E".
func (c ChordSymbol) String() string {
	s := c.Root + c.Quality.Suffix() + c.Extension
	if c.Bass != "" {
		s += "/" + c.Bass
	}
	return s
}

// extensionIntervals lists the semitones an extension adds above the root.
var extensionIntervals = map[string][]int{
	"5":    nil,
	"6":    {9},
	"7":    {10},
	"maj7": {11},
	"9":    {10, 14},
	"maj9": {11, 14},
	"11":   {10, 14, 17},
	"13":   {10, 14, 21},
	"add9": {14},
	"6/9":  {9, 14},
	"7b9":  {10, 13},
	"7#9":  {10, 15},
	"7#11": {10, 18},
	"7b13": {10, 20},
	"sus2": nil,
	"sus4": nil,
}

// KnownExtension reports whether ext can be voiced.
func KnownExtension(ext string) bool {
	_, ok := extensionIntervals[ext]
	return ok
}

// Intervals returns the chord's semitones above the root, triad first.
func (c ChordSymbol) Intervals() []int {
	var intervals []int
	switch c.Quality {
	case QualityMinor:
		intervals = []int{0, 3, 7}
	case QualityDiminished:
		intervals = []int{0, 3, 6}
	default:
		intervals = []int{0, 4, 7}
	}

	switch c.Extension {
	case "5":
		return []int{0, 7}
	case "sus2":
		intervals[1] = 2
	case "sus4":
		intervals[1] = 5
	case "7":
		if c.Quality == QualityDiminished {
			// fully diminished seventh
			return append(intervals, 9)
		}
	}
	return append(intervals, extensionIntervals[c.Extension]...)
}

// MIDINotes voices the chord with its root in octave (C4 = 60). A slash bass
// is prepended one octave lower. Notes outside 0-127 are dropped.
func (c ChordSymbol) MIDINotes(octave int) ([]int, error) {
	rootPC, ok := keyOffsets[c.Root]
	if !ok {
		return nil, fmt.Errorf("invalid chord root: %q", c.Root)
	}
	rootMIDI := (octave+1)*12 + rootPC

	notes := make([]int, 0, 6)
	if c.Bass != "" {
		bassPC, ok := keyOffsets[c.Bass]
		if !ok {
			return nil, fmt.Errorf("invalid bass note: %q", c.Bass)
		}
		if bass := octave*12 + bassPC; bass >= 0 && bass <= 127 {
			notes = append(notes, bass)
		}
	}
	for _, interval := range c.Intervals() {
		if n := rootMIDI + interval; n >= 0 && n <= 127 {
			notes = append(notes, n)
		}
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no valid MIDI notes for chord %s", c)
	}
	return notes, nil
}

// ParseChord parses symbols such as "C", "Em", "Bdim", "Am7", "Cmaj7/E" or
// "F6/9". Roots may use sharps or flats.
func ParseChord(symbol string) (ChordSymbol, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ChordSymbol{}, fmt.Errorf("empty chord symbol")
	}

	var chord ChordSymbol
	rest := symbol
	if len(rest) > 1 && (rest[1] == '#' || rest[1] == 'b') {
		chord.Root, rest = rest[:2], rest[2:]
	} else {
		chord.Root, rest = rest[:1], rest[1:]
	}
	if _, ok := keyOffsets[chord.Root]; !ok {
		return ChordSymbol{}, fmt.Errorf("invalid chord root: %q", chord.Root)
	}

	// A trailing "/X" is a bass note only when X is a note name; "6/9" is not.
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		if _, ok := keyOffsets[rest[i+1:]]; ok {
			chord.Bass, rest = rest[i+1:], rest[:i]
		}
	}

	switch {
	case strings.HasPrefix(rest, "dim"):
		chord.Quality, rest = QualityDiminished, rest[3:]
	case strings.HasPrefix(rest, "min"):
		chord.Quality, rest = QualityMinor, rest[3:]
	case strings.HasPrefix(rest, "m") && !strings.HasPrefix(rest, "maj"):
		chord.Quality, rest = QualityMinor, rest[1:]
	default:
		chord.Quality = QualityMajor
	}

	if rest != "" && !KnownExtension(rest) {
		return ChordSymbol{}, fmt.Errorf("unsupported chord extension %q in %q", rest, symbol)
	}
	chord.Extension = rest
	return chord, nil
}
