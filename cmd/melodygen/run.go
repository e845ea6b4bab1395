package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/melody"
	"github.com/Conceptual-Machines/melody-api/internal/midi"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/Conceptual-Machines/melody-api/internal/progression"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
	"github.com/gocarina/gocsv"
)

const (
	formatMIDI = "mid"
	formatCSV  = "csv"
	formatJSON = "json"

	maxDrawnSeed = 1 << 53
)

type melodyConfig struct {
	Key           string
	Scale         string
	Bars          int
	Coherence     float64
	Tempo         int
	TimeSignature string
	Genre         string
	Seed          int64
	Format        string
	Output        string
	GenresFile    string
}

type progressionConfig struct {
	Key        string
	Scale      string
	NumChords  int
	Genre      string
	Seed       int64
	Output     string
	GenresFile string
}

type melodyDocument struct {
	Seed          uint64             `json:"seed"`
	Key           string             `json:"key"`
	Scale         string             `json:"scale"`
	Genre         string             `json:"genre"`
	Tempo         int                `json:"tempo"`
	TimeSignature string             `json:"time_signature"`
	Coherence     float64            `json:"coherence"`
	Notes         []models.NoteEvent `json:"notes"`
	Phrases       []models.Phrase    `json:"phrases"`
}

func seedOrDraw(seed int64) uint64 {
	if seed < 0 {
		return rand.Uint64N(maxDrawnSeed)
	}
	return uint64(seed)
}

func noteEvents(m melody.Melody) []models.NoteEvent {
	notes := make([]models.NoteEvent, len(m.Events))
	for i, e := range m.Events {
		notes[i] = models.NoteEvent{
			MidiNoteNumber: e.Pitch,
			Velocity:       e.Velocity,
			StartBeats:     e.Start,
			DurationBeats:  e.Duration(),
		}
	}
	return notes
}

func runMelody(cfg *melodyConfig, stdout io.Writer) error {
	registry, err := genre.LoadRegistry(cfg.GenresFile)
	if err != nil {
		return err
	}
	if cfg.Bars < 1 {
		return fmt.Errorf("melodygen: length must be at least 1, got %d", cfg.Bars)
	}

	seed := seedOrDraw(cfg.Seed)
	m := melody.Generate(melody.Params{
		Key:           cfg.Key,
		Mode:          cfg.Scale,
		Bars:          cfg.Bars,
		Coherence:     cfg.Coherence,
		Tempo:         cfg.Tempo,
		TimeSignature: cfg.TimeSignature,
		Genre:         cfg.Genre,
		Seed:          seed,
	}, registry)

	switch cfg.Format {
	case formatMIDI:
		output := cfg.Output
		if output == "" {
			output = fmt.Sprintf("melody_%s_%s_%d.mid", m.Scale.Key, m.Scale.Mode, cfg.Bars)
		}
		if err := writeFile(output, func(w io.Writer) error { return midi.EncodeMelody(w, m) }); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s (%d notes, seed %d)\n", output, len(m.Events), seed)
		return nil
	case formatCSV:
		return writeOutput(cfg.Output, stdout, func(w io.Writer) error {
			return gocsv.Marshal(noteEvents(m), w)
		})
	case formatJSON:
		phrases := make([]models.Phrase, len(m.Phrases))
		for i, p := range m.Phrases {
			phrases[i] = models.Phrase{
				StartBeats: p.Start,
				Notes:      p.Notes,
				Fresh:      p.Fresh,
				Variation:  string(p.Operator),
				Truncated:  p.Truncated,
			}
		}
		doc := melodyDocument{
			Seed:          seed,
			Key:           m.Scale.Key,
			Scale:         string(m.Scale.Mode),
			Genre:         m.Genre,
			Tempo:         m.Tempo,
			TimeSignature: m.Meter.String(),
			Coherence:     m.Coherence,
			Notes:         noteEvents(m),
			Phrases:       phrases,
		}
		return writeOutput(cfg.Output, stdout, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		})
	default:
		return fmt.Errorf("melodygen: unknown format %q (want %s, %s or %s)", cfg.Format, formatMIDI, formatCSV, formatJSON)
	}
}

func runProgression(cfg *progressionConfig, stdout io.Writer) error {
	registry, err := genre.LoadRegistry(cfg.GenresFile)
	if err != nil {
		return err
	}

	seed := seedOrDraw(cfg.Seed)
	p := progression.Seeded(progression.Params{
		Key:       cfg.Key,
		Mode:      cfg.Scale,
		NumChords: progression.Clamp(cfg.NumChords),
		Genre:     cfg.Genre,
		Seed:      seed,
	}, registry)

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s %s\t%s\tseed %d\n", p.Scale.Key, p.Scale.Mode, p.Genre, seed)
	fmt.Fprintln(tw, strings.Join(p.Numerals, "\t")+"\t")
	fmt.Fprintln(tw, strings.Join(p.ChordNames(), "\t")+"\t")
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(stdout, p.Description)

	if cfg.Output == "" {
		return nil
	}
	if err := writeFile(cfg.Output, func(w io.Writer) error {
		return midi.EncodeProgression(w, p, midi.DefaultProgressionOptions)
	}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", cfg.Output)
	return nil
}

func runChords(symbols []string, octave int, stdout io.Writer) error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, symbol := range symbols {
		chord, err := theory.ParseChord(symbol)
		if err != nil {
			return err
		}
		notes, err := chord.MIDINotes(octave)
		if err != nil {
			return fmt.Errorf("melodygen: couldn't voice %s: %w", symbol, err)
		}
		fields := make([]string, len(notes))
		for i, n := range notes {
			fields[i] = fmt.Sprint(n)
		}
		fmt.Fprintf(tw, "%s\t%s\n", chord, strings.Join(fields, " "))
	}
	return tw.Flush()
}

func runGenres(registry *genre.Registry, stdout io.Writer) error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GENRE\tTENDENCY\tPATTERNS\tDESCRIPTION")
	for _, name := range registry.Names() {
		p := registry.Lookup(name)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.Name, p.Tendency, p.Rhythms.Len(), p.Description)
	}
	return tw.Flush()
}

func writeOutput(output string, stdout io.Writer, encode func(io.Writer) error) error {
	if output == "" {
		return encode(stdout)
	}
	return writeFile(output, encode)
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("melodygen: couldn't create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("melodygen: couldn't write %s: %w", path, err)
	}
	return f.Close()
}
