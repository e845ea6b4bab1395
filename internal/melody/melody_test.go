package melody

import (
	"testing"

	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/rhythm"
	"github.com/Conceptual-Machines/melody-api/internal/rng"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeter(t *testing.T) {
	tests := []struct {
		in    string
		want  Meter
		ok    bool
		beats float64
	}{
		{"4/4", Meter{4, 4}, true, 4},
		{"3/4", Meter{3, 4}, true, 3},
		{"6/8", Meter{6, 8}, true, 3},
		{"7/8", Meter{7, 8}, true, 3.5},
		{"2/2", Meter{2, 2}, true, 4},
		{"3/16", Meter{3, 16}, true, 0.75},
		{" 5 / 4 ", Meter{5, 4}, true, 5},
		{"5", CommonTime, false, 4},
		{"", CommonTime, false, 4},
		{"a/4", CommonTime, false, 4},
		{"4/0", CommonTime, false, 4},
		{"-3/4", CommonTime, false, 4},
		{"4/4/4", CommonTime, false, 4},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMeter(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.InDelta(t, tt.beats, got.BeatsPerBar(), 1e-9)
		})
	}
}

func TestOperators(t *testing.T) {
	m := Motif{Rhythm: []float64{0.5, 0.25, 1.0}, Degrees: []int{0, 2, 4}}
	r := rng.New(7)

	assert.Equal(t, m, OpIdentity.Apply(m, 7, r))

	inv := OpContourInvert.Apply(m, 7, r)
	assert.Equal(t, []int{4, 2, 0}, inv.Degrees)
	assert.Equal(t, m.Rhythm, inv.Rhythm)

	scaled := OpTimeScale.Apply(m, 7, r)
	assert.Equal(t, []float64{0.375, 0.1875, 0.75}, scaled.Rhythm)

	short := Motif{Rhythm: []float64{0.125, 0.5}, Degrees: []int{1, 1}}
	assert.Equal(t, []float64{0.15625, 0.625}, OpTimeScale.Apply(short, 7, r).Rhythm)

	tr := OpTranspose.Apply(m, 7, r)
	step := theory.Mod(tr.Degrees[0]-m.Degrees[0], 7)
	assert.Contains(t, []int{1, 2, 5, 6}, step)
	for i := range m.Degrees {
		assert.Equal(t, theory.Mod(m.Degrees[i]+step, 7), tr.Degrees[i])
	}

	sw := OpRhythmSwap.Apply(m, 7, r)
	assert.ElementsMatch(t, m.Rhythm, sw.Rhythm)
	assert.NotEqual(t, m.Rhythm, sw.Rhythm)
	assert.Equal(t, m.Degrees, sw.Degrees)

	// inputs are never touched
	assert.Equal(t, []float64{0.5, 0.25, 1.0}, m.Rhythm)
	assert.Equal(t, []int{0, 2, 4}, m.Degrees)
}

func TestRhythmSwapSingleNote(t *testing.T) {
	m := Motif{Rhythm: []float64{1}, Degrees: []int{3}}
	assert.Equal(t, m, OpRhythmSwap.Apply(m, 7, rng.New(1)))
}

func TestContourInvertWrapsNegative(t *testing.T) {
	// mid = 3: 0 -> 6, 6 -> 0, 1 -> 5
	m := Motif{Rhythm: []float64{1, 1, 1}, Degrees: []int{0, 6, 1}}
	assert.Equal(t, []int{6, 0, 5}, OpContourInvert.Apply(m, 7, rng.New(1)).Degrees)

	odd := Motif{Rhythm: []float64{1, 1}, Degrees: []int{0, 1}}
	assert.Equal(t, []int{1, 0}, OpContourInvert.Apply(odd, 7, rng.New(1)).Degrees)
}

func TestFitToBudget(t *testing.T) {
	m := Motif{Rhythm: []float64{1, 0.5, 0.5, 2}, Degrees: []int{0, 1, 2, 3}}

	got, ok := FitToBudget(m, 2.1)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0.5, 0.5}, got.Rhythm)
	assert.Equal(t, []int{0, 1, 2}, got.Degrees)

	got, ok = FitToBudget(m, 10)
	require.True(t, ok)
	assert.Equal(t, m, got)

	_, ok = FitToBudget(m, 0.75)
	assert.False(t, ok)

	// float drift at the boundary still fits
	got, ok = FitToBudget(Motif{Rhythm: []float64{0.1, 0.2}, Degrees: []int{0, 0}}, 0.3)
	require.True(t, ok)
	assert.Equal(t, 2, got.Len())
}

func TestRandomMotif(t *testing.T) {
	r := rng.New(3)
	for range 50 {
		m := RandomMotif(rhythm.Common, 7, r)
		require.Equal(t, len(m.Rhythm), len(m.Degrees))
		for _, d := range m.Degrees {
			assert.GreaterOrEqual(t, d, 0)
			assert.Less(t, d, 7)
		}
	}
}

func TestSequencerHistoryWindow(t *testing.T) {
	reg := genre.NewRegistry()
	seq := NewSequencer(theory.ResolveKey("C", "major"), reg.Lookup(genre.Classical))
	r := rng.New(11)
	var played []int
	for i := range 8 {
		played = append(played, seq.Next(i, r))
	}
	assert.Equal(t, played[3:], seq.History())
}

func TestSequencerStaysInScaleAndRange(t *testing.T) {
	reg := genre.NewRegistry()
	for _, name := range genre.Genres {
		for _, key := range []string{"C", "F#", "Bb"} {
			for _, mode := range []string{"major", "minor"} {
				scale := theory.ResolveKey(key, mode)
				seq := NewSequencer(scale, reg.Lookup(name))
				r := rng.New(uint64(len(name)))
				for i := range 200 {
					p := seq.Next(i*3, r)
					require.True(t, scale.Contains(p), "%s %s %s: %d", name, key, mode, p)
					require.GreaterOrEqual(t, p, LowestPitch)
					require.LessOrEqual(t, p, HighestPitch)
				}
			}
		}
	}
}

func TestComposeEventInvariants(t *testing.T) {
	reg := genre.NewRegistry()
	for _, name := range append([]string{"unknown"}, genre.Genres...) {
		for seed := uint64(0); seed < 10; seed++ {
			p := Params{Key: "E", Mode: "minor", Bars: 4, Coherence: 0.6, TimeSignature: "7/8", Genre: name, Seed: seed}
			m := Generate(p, reg)
			profile := reg.Lookup(name)

			require.NotEmpty(t, m.Events)
			assert.Equal(t, 4*3.5, m.TotalBeats(), "%s seed %d", name, seed)
			prev, sum := 0.0, 0.0
			for _, e := range m.Events {
				sum += e.Duration()
				assert.GreaterOrEqual(t, e.Start, prev)
				assert.Greater(t, e.Duration(), 0.0)
				assert.GreaterOrEqual(t, e.Pitch, LowestPitch)
				assert.LessOrEqual(t, e.Pitch, HighestPitch)
				assert.GreaterOrEqual(t, e.Velocity, profile.Velocity.Min)
				assert.LessOrEqual(t, e.Velocity, profile.Velocity.Max)
				assert.True(t, m.Scale.Contains(e.Pitch))
				prev = e.Start
			}
			assert.InDelta(t, 4*3.5, sum, 1e-6, "%s seed %d", name, seed)
		}
	}
}

func TestComposeDurationsSumToBudget(t *testing.T) {
	reg := genre.NewRegistry()
	for _, ts := range []string{"4/4", "3/4", "7/8", "5/4", "6/8"} {
		for seed := uint64(0); seed < 20; seed++ {
			m := Generate(Params{Key: "A", Mode: "minor", Bars: 5, Coherence: 0.7, TimeSignature: ts, Genre: genre.Jazz, Seed: seed}, reg)
			want := 5 * m.BeatsPerBar

			sum, pos := 0.0, 0.0
			for _, e := range m.Events {
				assert.InDelta(t, pos, e.Start, 1e-9, "%s seed %d", ts, seed)
				sum += e.Duration()
				pos = e.End
			}
			assert.InDelta(t, want, sum, 1e-6, "%s seed %d", ts, seed)
		}
	}
}

func TestComposeCMajorEightBars(t *testing.T) {
	m := Generate(Params{Key: "C", Mode: "major", Bars: 8, Coherence: 1.0, TimeSignature: "4/4", Genre: "none", Seed: 42}, genre.NewRegistry())
	assert.Equal(t, 4.0, m.BeatsPerBar)
	assert.Equal(t, 32.0, m.TotalBeats())
	assert.Equal(t, 0, m.KeySignatureFifths)
	assert.Equal(t, DefaultTempo, m.Tempo)
}

func TestComposeMalformedTimeSignature(t *testing.T) {
	m := Generate(Params{Key: "C", Mode: "major", Bars: 2, TimeSignature: "5", Seed: 1}, genre.NewRegistry())
	assert.Equal(t, CommonTime, m.Meter)
	assert.Equal(t, 4.0, m.BeatsPerBar)
	assert.Equal(t, 8.0, m.TotalBeats())
}

func TestComposeDeterministic(t *testing.T) {
	reg := genre.NewRegistry()
	p := Params{Key: "G", Mode: "major", Bars: 16, Coherence: 0.5, Tempo: 90, TimeSignature: "3/4", Genre: genre.Jazz, Seed: 99}
	a := Generate(p, reg)
	b := Generate(p, reg)
	assert.Equal(t, a, b)

	p.Seed = 100
	assert.NotEqual(t, a.Events, Generate(p, reg).Events)
}

func TestCoherenceBoundaries(t *testing.T) {
	reg := genre.NewRegistry()
	for seed := uint64(0); seed < 20; seed++ {
		full := Generate(Params{Key: "D", Bars: 8, Coherence: 1.0, Genre: genre.None, Seed: seed}, reg)
		require.NotEmpty(t, full.Phrases)
		assert.True(t, full.Phrases[0].Fresh)
		for _, ph := range full.Phrases[1:] {
			assert.False(t, ph.Fresh)
			assert.Contains(t, Operators, ph.Operator)
		}

		none := Generate(Params{Key: "D", Bars: 8, Coherence: 0.0, Genre: genre.None, Seed: seed}, reg)
		for _, ph := range none.Phrases {
			assert.True(t, ph.Fresh)
			assert.Empty(t, ph.Operator)
		}
	}
}

func TestEffectiveCoherence(t *testing.T) {
	reg := genre.NewRegistry()
	assert.InDelta(t, 1.0, Generate(Params{Coherence: 0.9, Genre: genre.Pop, Bars: 1}, reg).Coherence, 1e-9)
	assert.InDelta(t, 0.0, Generate(Params{Coherence: 0.1, Genre: genre.Punk, Bars: 1}, reg).Coherence, 1e-9)
	assert.InDelta(t, 0.6, Generate(Params{Coherence: 0.7, Genre: genre.Jazz, Bars: 1}, reg).Coherence, 1e-9)
	assert.InDelta(t, 1.0, Generate(Params{Coherence: 3, Bars: 1}, reg).Coherence, 1e-9)
}

func TestComposeZeroBarsStillEmits(t *testing.T) {
	m := Generate(Params{Bars: 0, Seed: 5}, genre.NewRegistry())
	assert.Equal(t, 4.0, m.TotalBeats())
}
