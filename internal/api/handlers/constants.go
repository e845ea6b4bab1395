package handlers

const (
	// Melody request limits
	minMelodyBars = 1
	minTempo      = 40
	maxTempo      = 240

	// Server-drawn seeds stay below 2^53 so JSON clients read them back exactly
	maxDrawnSeed = 1 << 53

	// Progression voicing
	progressionOctave   = 4
	beatsPerChord       = 4.0
	progressionVelocity = 80

	midiContentType = "audio/midi"
)
