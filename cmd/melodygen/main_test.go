package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMelodyConfig() *melodyConfig {
	return &melodyConfig{
		Key:           "C",
		Scale:         "major",
		Bars:          4,
		Coherence:     0.7,
		Tempo:         120,
		TimeSignature: "4/4",
		Genre:         genre.None,
		Seed:          42,
		Format:        formatMIDI,
	}
}

func TestMelodyWritesMIDI(t *testing.T) {
	cfg := testMelodyConfig()
	cfg.Output = filepath.Join(t.TempDir(), "out.mid")

	var stdout bytes.Buffer
	require.NoError(t, runMelody(cfg, &stdout))

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, "MThd", string(data[:4]))
	assert.Contains(t, stdout.String(), "seed 42")
}

func TestMelodyCSV(t *testing.T) {
	cfg := testMelodyConfig()
	cfg.Format = formatCSV

	var stdout bytes.Buffer
	require.NoError(t, runMelody(cfg, &stdout))
	assert.True(t, strings.HasPrefix(stdout.String(), "midi_note_number,velocity,start_beats,duration_beats\n"))

	var notes []models.NoteEvent
	require.NoError(t, gocsv.UnmarshalBytes(stdout.Bytes(), &notes))
	require.NotEmpty(t, notes)
	last := notes[len(notes)-1]
	assert.InDelta(t, 16.0, last.StartBeats+last.DurationBeats, 1e-6)
}

func TestMelodyJSONIsDeterministic(t *testing.T) {
	cfg := testMelodyConfig()
	cfg.Format = formatJSON
	cfg.Genre = genre.Jazz

	var a, b bytes.Buffer
	require.NoError(t, runMelody(cfg, &a))
	require.NoError(t, runMelody(cfg, &b))
	assert.Equal(t, a.String(), b.String())

	var doc melodyDocument
	require.NoError(t, json.Unmarshal(a.Bytes(), &doc))
	assert.Equal(t, uint64(42), doc.Seed)
	assert.Equal(t, "jazz", doc.Genre)
	assert.NotEmpty(t, doc.Phrases)
}

func TestMelodyRejectsBadInput(t *testing.T) {
	cfg := testMelodyConfig()
	cfg.Format = "wav"
	assert.Error(t, runMelody(cfg, &bytes.Buffer{}))

	cfg = testMelodyConfig()
	cfg.Bars = 0
	assert.Error(t, runMelody(cfg, &bytes.Buffer{}))

	cfg = testMelodyConfig()
	cfg.GenresFile = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, runMelody(cfg, &bytes.Buffer{}))
}

func TestProgression(t *testing.T) {
	cfg := &progressionConfig{
		Key:       "G",
		Scale:     "major",
		NumChords: 12,
		Genre:     genre.Rock,
		Seed:      3,
		Output:    filepath.Join(t.TempDir(), "prog.mid"),
	}

	var stdout bytes.Buffer
	require.NoError(t, runProgression(cfg, &stdout))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "G major"))
	assert.Len(t, strings.Fields(lines[1]), 8)
	assert.Len(t, strings.Fields(lines[2]), 8)

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, "MThd", string(data[:4]))
}

func TestChords(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, runChords([]string{"C", "Am7", "Cmaj7/E"}, 4, &stdout))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"C", "60", "64", "67"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Am7", "69", "72", "76", "79"}, strings.Fields(lines[1]))
	assert.Equal(t, "52", strings.Fields(lines[2])[1])

	assert.Error(t, runChords([]string{"H7"}, 4, &bytes.Buffer{}))
}

func TestGenres(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, runGenres(genre.NewRegistry(), &stdout))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, len(genre.Genres)+1)
	assert.True(t, strings.HasPrefix(lines[1], genre.None))
}

func TestCommandParsesFlags(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cli.mid")
	cmd := newCommand()
	err := cmd.ParseAndRun(context.Background(), []string{"melody", "-length", "2", "-seed", "1", "-output", out})
	require.NoError(t, err)

	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestCommandReadsEnv(t *testing.T) {
	out := filepath.Join(t.TempDir(), "env.mid")
	t.Setenv("MELODYGEN_OUTPUT", out)
	t.Setenv("MELODYGEN_SEED", "9")

	cmd := newCommand()
	require.NoError(t, cmd.ParseAndRun(context.Background(), []string{"melody", "-length", "1"}))

	_, err := os.Stat(out)
	assert.NoError(t, err)
}
