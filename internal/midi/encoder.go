// Package midi writes generated melodies and progressions as Standard MIDI
// Files.
package midi

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/Conceptual-Machines/melody-api/internal/melody"
	"github.com/Conceptual-Machines/melody-api/internal/progression"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TicksPerQuarter is the file resolution.
const TicksPerQuarter = 480

const (
	channel      = 0
	pianoProgram = 0
)

// ProgressionOptions controls how a progression is voiced.
type ProgressionOptions struct {
	Tempo         int
	BeatsPerChord float64
	Octave        int
	Velocity      int
}

// DefaultProgressionOptions plays one 4/4 bar of block chords per numeral,
// rooted around middle C.
var DefaultProgressionOptions = ProgressionOptions{
	Tempo:         120,
	BeatsPerChord: 4,
	Octave:        4,
	Velocity:      80,
}

type event struct {
	tick uint32
	off  bool
	msg  []byte
}

// EncodeMelody writes m as a single-track file carrying its tempo, meter and
// key signature.
func EncodeMelody(w io.Writer, m melody.Melody) error {
	events := make([]event, 0, 2*len(m.Events))
	for _, n := range m.Events {
		events = append(events,
			event{tick: ticks(n.Start), msg: gomidi.NoteOn(channel, uint8(n.Pitch), uint8(n.Velocity))},
			event{tick: ticks(n.End), off: true, msg: gomidi.NoteOff(channel, uint8(n.Pitch))},
		)
	}

	header := []smf.Message{
		smf.MetaTrackSequenceName("Melody"),
		smf.MetaTempo(float64(m.Tempo)),
		smf.MetaMeter(uint8(m.Meter.Numerator), uint8(m.Meter.Denominator)),
		keySignature(m.Scale, m.KeySignatureFifths),
	}
	return write(w, header, events)
}

// EncodeProgression writes p as block chords, one chord per opts.BeatsPerChord.
func EncodeProgression(w io.Writer, p progression.Progression, opts ProgressionOptions) error {
	if opts.Tempo <= 0 {
		opts.Tempo = DefaultProgressionOptions.Tempo
	}
	if opts.BeatsPerChord <= 0 {
		opts.BeatsPerChord = DefaultProgressionOptions.BeatsPerChord
	}
	if opts.Velocity <= 0 || opts.Velocity > 127 {
		opts.Velocity = DefaultProgressionOptions.Velocity
	}

	voicings, err := p.Voicings(opts.Octave)
	if err != nil {
		return fmt.Errorf("failed to voice progression: %w", err)
	}

	var events []event
	for i, notes := range voicings {
		start := ticks(float64(i) * opts.BeatsPerChord)
		end := ticks(float64(i+1) * opts.BeatsPerChord)
		for _, n := range notes {
			events = append(events,
				event{tick: start, msg: gomidi.NoteOn(channel, uint8(n), uint8(opts.Velocity))},
				event{tick: end, off: true, msg: gomidi.NoteOff(channel, uint8(n))},
			)
		}
	}

	header := []smf.Message{
		smf.MetaTrackSequenceName("Chords"),
		smf.MetaTempo(float64(opts.Tempo)),
		smf.MetaMeter(4, 4),
		keySignature(p.Scale, p.Scale.KeySignatureFifths()),
	}
	return write(w, header, events)
}

// Bytes runs an encoder into memory.
func Bytes(encode func(io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func write(w io.Writer, header []smf.Message, events []event) error {
	// note-offs sort ahead of note-ons on the same tick so repeated pitches
	// retrigger cleanly
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var tr smf.Track
	for _, msg := range header {
		tr.Add(0, msg)
	}
	tr.Add(0, gomidi.ProgramChange(channel, pianoProgram))

	var last uint32
	for _, e := range events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write MIDI file: %w", err)
	}
	return nil
}

func keySignature(scale theory.Scale, fifths int) smf.Message {
	num := fifths
	if num < 0 {
		num = -num
	}
	return smf.MetaKey(uint8(scale.Root), scale.Mode == theory.Major, uint8(num), fifths < 0)
}

func ticks(beats float64) uint32 {
	return uint32(math.Round(beats * TicksPerQuarter))
}
