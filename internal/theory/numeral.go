package theory

// Quality is the triad quality carried by a roman numeral.
type Quality string

const (
	QualityMajor      Quality = "major"
	QualityMinor      Quality = "minor"
	QualityDiminished Quality = "diminished"
)

// Suffix is the chord-symbol spelling of the quality.
func (q Quality) Suffix() string {
	switch q {
	case QualityMinor:
		return "m"
	case QualityDiminished:
		return "dim"
	default:
		return ""
	}
}

// Numeral is a scale-relative chord label.
type Numeral struct {
	Symbol  string
	Degree  int
	Quality Quality
}

var vocabulary = map[Mode][]Numeral{
	Major: {
		{"I", 0, QualityMajor},
		{"ii", 1, QualityMinor},
		{"iii", 2, QualityMinor},
		{"IV", 3, QualityMajor},
		{"V", 4, QualityMajor},
		{"vi", 5, QualityMinor},
		{"vii°", 6, QualityDiminished},
	},
	Minor: {
		{"i", 0, QualityMinor},
		{"ii°", 1, QualityDiminished},
		{"III", 2, QualityMajor},
		{"iv", 3, QualityMinor},
		{"v", 4, QualityMinor},
		{"VI", 5, QualityMajor},
		{"VII", 6, QualityMajor},
	},
}

// Borrowed numerals that appear in curated templates but in neither mode's
// diatonic vocabulary.
var extraNumerals = []Numeral{
	{"II", 1, QualityMajor},
}

// LookupNumeral resolves symbol in the context of mode. Symbols outside the
// mode's vocabulary are looked up in the parallel mode, then among the extra
// borrowed numerals. The boolean is false when nothing matched.
func LookupNumeral(symbol string, mode Mode) (Numeral, bool) {
	mode = ParseMode(string(mode))
	other := Minor
	if mode == Minor {
		other = Major
	}
	for _, set := range [][]Numeral{vocabulary[mode], vocabulary[other], extraNumerals} {
		for _, n := range set {
			if n.Symbol == symbol {
				return n, true
			}
		}
	}
	return Numeral{}, false
}

// PrimaryNumerals returns the tonic, subdominant and dominant of mode, used
// when a progression walks off its movement table.
func PrimaryNumerals(mode Mode) []string {
	if ParseMode(string(mode)) == Minor {
		return []string{"i", "iv", "v"}
	}
	return []string{"I", "IV", "V"}
}

// Resolve turns a numeral symbol into a chord symbol for scale. Unknown
// symbols resolve to the tonic chord.
func (s Scale) Resolve(symbol string) ChordSymbol {
	n, ok := LookupNumeral(symbol, s.Mode)
	if !ok {
		n = vocabulary[s.Mode][0]
	}
	return ChordSymbol{
		Root:    s.DegreeName(n.Degree),
		Quality: n.Quality,
	}
}
