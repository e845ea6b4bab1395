package models

// NoteEvent represents a single musical note with timing and pitch information
type NoteEvent struct {
	MidiNoteNumber int     `json:"midi_note_number" csv:"midi_note_number"`
	Velocity       int     `json:"velocity" csv:"velocity"`
	StartBeats     float64 `json:"start_beats" csv:"start_beats"`
	DurationBeats  float64 `json:"duration_beats" csv:"duration_beats"`
}

// ChordEvent represents a voiced chord with timing information
type ChordEvent struct {
	ChordSymbol   string  `json:"chord_symbol"`
	Numeral       string  `json:"numeral"`
	MidiNotes     []int   `json:"midi_notes"`
	StartBeats    float64 `json:"start_beats"`
	DurationBeats float64 `json:"duration_beats"`
}

// Phrase describes where one motif was placed and how it was derived
type Phrase struct {
	StartBeats float64 `json:"start_beats"`
	Notes      int     `json:"notes"`
	Fresh      bool    `json:"fresh"`
	Variation  string  `json:"variation,omitempty"`
	Truncated  bool    `json:"truncated,omitempty"`
}

// MelodyResponse is returned by the melody generation endpoint
type MelodyResponse struct {
	MIDIBase64         string      `json:"midi_base64"`
	DownloadURL        string      `json:"download_url"`
	Seed               uint64      `json:"seed"`
	Key                string      `json:"key"`
	Scale              string      `json:"scale"`
	Genre              string      `json:"genre"`
	Tempo              int         `json:"tempo"`
	TimeSignature      string      `json:"time_signature"`
	BeatsPerBar        float64     `json:"beats_per_bar"`
	KeySignatureFifths int         `json:"key_signature_fifths"`
	Coherence          float64     `json:"coherence"`
	Notes              []NoteEvent `json:"notes"`
	Phrases            []Phrase    `json:"phrases"`
}

// ProgressionResponse is returned by the progression generation endpoint
type ProgressionResponse struct {
	Chords      []string     `json:"chords"`
	Numerals    []string     `json:"numerals"`
	Description string       `json:"description"`
	Voicings    [][]int      `json:"voicings"`
	Events      []ChordEvent `json:"events"`
	Seed        uint64       `json:"seed"`
	Key         string       `json:"key"`
	Scale       string       `json:"scale"`
	Genre       string       `json:"genre"`
	Source      string       `json:"source"`
	DownloadURL string       `json:"download_url"`
}

// GenreSummary describes one registered genre
type GenreSummary struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Tendency       string      `json:"tendency"`
	CoherenceBias  float64     `json:"coherence_bias"`
	VelocityRange  [2]int      `json:"velocity_range"`
	OctaveRange    [2]int      `json:"octave_range"`
	RhythmPatterns int         `json:"rhythm_patterns"`
	Rhythms        [][]float64 `json:"rhythms"`
	Extensions     []string    `json:"extensions"`
	Progressions   [][]string  `json:"progressions"`
}
