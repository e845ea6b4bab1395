package theory

import "strings"

// Mode selects the diatonic scale and the roman numeral vocabulary.
type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

// MiddleC anchors scale degree 0 of every generated melody.
const MiddleC = 60

// NoteNames are the canonical pitch-class spellings, indexed by pitch class.
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var modeOffsets = map[Mode][]int{
	Major: {0, 2, 4, 5, 7, 9, 11},
	Minor: {0, 2, 3, 5, 7, 8, 10},
}

var keyOffsets = map[string]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3,
	"E": 4, "F": 5, "F#": 6, "Gb": 6, "G": 7, "G#": 8,
	"Ab": 8, "A": 9, "A#": 10, "Bb": 10, "B": 11,
}

// Conventional major key signatures by tonic pitch class.
// Enharmonic tonics use the spelling with fewer accidentals, except C# (7 sharps).
var majorFifths = [12]int{0, 7, 2, -3, 4, -1, 6, 1, -4, 3, -2, 5}

// Flat-side signatures for tonics spelled with a flat. Ab minor lands on Cb.
var flatFifths = map[int]int{1: -5, 3: -3, 6: -6, 8: -4, 10: -2, 11: -7}

// Scale is a resolved key: a root pitch class plus ordered semitone offsets.
// Offsets are strictly increasing and start at 0.
type Scale struct {
	Key     string
	Mode    Mode
	Root    int
	Offsets []int

	// Flat is set when the caller spelled the tonic with a flat (Db, Bb).
	Flat bool
}

// ParseMode maps a mode name to a Mode, falling back to Major.
func ParseMode(name string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case Minor:
		return Minor
	default:
		return Major
	}
}

// NormalizeKey returns the canonical sharp spelling of a key name and whether
// it was recognised. Unknown names resolve to C.
func NormalizeKey(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "C", false
	}
	name = strings.ToUpper(name[:1]) + name[1:]
	pc, ok := keyOffsets[name]
	if !ok {
		return "C", false
	}
	return NoteNames[pc], true
}

// ResolveKey builds the scale for key and mode. It never fails: unknown keys
// become C and unknown modes become major.
func ResolveKey(key, mode string) Scale {
	canonical, ok := NormalizeKey(key)
	m := ParseMode(mode)
	src := modeOffsets[m]
	offsets := make([]int, len(src))
	copy(offsets, src)
	return Scale{
		Key:     canonical,
		Mode:    m,
		Root:    keyOffsets[canonical],
		Offsets: offsets,
		Flat:    ok && isFlatSpelling(key),
	}
}

func isFlatSpelling(key string) bool {
	key = strings.TrimSpace(key)
	return len(key) == 2 && key[1] == 'b'
}

// Len is the number of scale degrees.
func (s Scale) Len() int {
	return len(s.Offsets)
}

// DegreePitch returns the pitch of degree (wrapped) in the octave above middle C.
func (s Scale) DegreePitch(degree int) int {
	return s.Offsets[Mod(degree, s.Len())] + s.Root + MiddleC
}

// DegreeName returns the note name of degree (wrapped).
func (s Scale) DegreeName(degree int) string {
	return NoteNames[(s.Root+s.Offsets[Mod(degree, s.Len())])%12]
}

// Contains reports whether pitch belongs to the scale in any octave.
func (s Scale) Contains(pitch int) bool {
	pc := Mod(pitch-s.Root-MiddleC, 12)
	for _, off := range s.Offsets {
		if off == pc {
			return true
		}
	}
	return false
}

// Snap raises pitch to the nearest scale member at or above it.
func (s Scale) Snap(pitch int) int {
	for !s.Contains(pitch) {
		pitch++
	}
	return pitch
}

// Clamp limits pitch to [lo, hi] while keeping it a scale member.
// pitch must already be a member when it lies inside the range.
func (s Scale) Clamp(pitch, lo, hi int) int {
	if pitch > hi {
		pitch = hi
		for pitch > lo && !s.Contains(pitch) {
			pitch--
		}
	}
	if pitch < lo {
		pitch = lo
		for pitch < hi && !s.Contains(pitch) {
			pitch++
		}
	}
	return pitch
}

// KeySignatureFifths returns the sharps (positive) or flats (negative) of the
// key signature. Minor keys share the signature of their relative major. A
// flat-spelled tonic keeps the flat side: Db major is -5, Bb minor is -5.
func (s Scale) KeySignatureFifths() int {
	tonic := s.Root
	if s.Mode == Minor {
		tonic = (s.Root + 3) % 12
	}
	if s.Flat {
		if fifths, ok := flatFifths[tonic]; ok {
			return fifths
		}
	}
	return majorFifths[tonic]
}

// Mod is the non-negative remainder of a / n.
func Mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
