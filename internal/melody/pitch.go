package melody

import (
	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/rng"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
)

// Pitch bounds for every emitted note (C2..C6).
const (
	LowestPitch  = 36
	HighestPitch = 84
)

const historySize = 5

// Sequencer turns scale degrees into absolute pitches, biased toward the
// genre's preferred intervals from recent notes.
type Sequencer struct {
	scale   theory.Scale
	profile genre.Profile
	history []int
}

// NewSequencer returns a sequencer with empty history.
func NewSequencer(scale theory.Scale, profile genre.Profile) *Sequencer {
	return &Sequencer{
		scale:   scale,
		profile: profile,
		history: make([]int, 0, historySize),
	}
}

// Next resolves degree to a pitch inside [LowestPitch, HighestPitch] that is
// a member of the scale, and records it.
func (s *Sequencer) Next(degree int, r rng.Source) int {
	pitch := s.scale.DegreePitch(degree)
	pitch += rng.Between(r, s.profile.Octaves.Min*12, s.profile.Octaves.Max*12)
	pitch = min(max(pitch, LowestPitch), HighestPitch)

	if s.profile.Tendency != genre.TendencyRandom && len(s.history) > 0 && len(s.profile.TendencyIntervals) > 0 {
		if rng.Chance(r, s.profile.TendencyProbability) {
			intervals := s.profile.TendencyIntervals
			pitch = s.history[len(s.history)-1] + intervals[r.IntN(len(intervals))]
		}
	}

	pitch = s.scale.Clamp(s.scale.Snap(pitch), LowestPitch, HighestPitch)
	s.remember(pitch)
	return pitch
}

// History returns the recent pitches, oldest first.
func (s *Sequencer) History() []int {
	return append([]int(nil), s.history...)
}

func (s *Sequencer) remember(pitch int) {
	if len(s.history) == historySize {
		copy(s.history, s.history[1:])
		s.history = s.history[:historySize-1]
	}
	s.history = append(s.history, pitch)
}
