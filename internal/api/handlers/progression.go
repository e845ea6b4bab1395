package handlers

import (
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/logger"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/midi"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/Conceptual-Machines/melody-api/internal/progression"
	"github.com/gin-gonic/gin"
)

type ProgressionHandler struct {
	registry *genre.Registry
	recorder metrics.Recorder
}

func NewProgressionHandler(registry *genre.Registry, recorder metrics.Recorder) *ProgressionHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &ProgressionHandler{registry: registry, recorder: recorder}
}

// ProgressionRequest holds the query parameters of both progression endpoints.
// NumChords is clamped, never rejected.
type ProgressionRequest struct {
	Key       string  `form:"key,default=C"`
	Scale     string  `form:"scale,default=major"`
	NumChords int     `form:"num_chords,default=4"`
	Genre     string  `form:"genre,default=none"`
	Seed      *uint64 `form:"seed"`
}

func (r *ProgressionRequest) query() url.Values {
	return url.Values{
		"key":        {r.Key},
		"scale":      {r.Scale},
		"num_chords": {strconv.Itoa(r.NumChords)},
		"genre":      {r.Genre},
		"seed":       {strconv.FormatUint(*r.Seed, 10)},
	}
}

// Generate returns chord symbols, numerals, a description and voicings.
func (h *ProgressionHandler) Generate(c *gin.Context) {
	req, p, ok := h.generate(c)
	if !ok {
		return
	}

	voicings, err := p.Voicings(progressionOctave)
	if err != nil {
		h.fail(c, "Failed to voice progression", err)
		return
	}
	events := make([]models.ChordEvent, len(p.Chords))
	for i, chord := range p.Chords {
		events[i] = models.ChordEvent{
			ChordSymbol:   chord.String(),
			Numeral:       p.Numerals[i],
			MidiNotes:     voicings[i],
			StartBeats:    float64(i) * beatsPerChord,
			DurationBeats: beatsPerChord,
		}
	}

	c.JSON(http.StatusOK, models.ProgressionResponse{
		Chords:      p.ChordNames(),
		Numerals:    p.Numerals,
		Description: p.Description,
		Voicings:    voicings,
		Events:      events,
		Seed:        *req.Seed,
		Key:         p.Scale.Key,
		Scale:       string(p.Scale.Mode),
		Genre:       p.Genre,
		Source:      string(p.Source),
		DownloadURL: "/download-progression-midi/?" + req.query().Encode(),
	})
}

// Download returns the progression as block chords in a MIDI attachment.
func (h *ProgressionHandler) Download(c *gin.Context) {
	req, p, ok := h.generate(c)
	if !ok {
		return
	}
	opts := midi.ProgressionOptions{
		Tempo:         midi.DefaultProgressionOptions.Tempo,
		BeatsPerChord: beatsPerChord,
		Octave:        progressionOctave,
		Velocity:      progressionVelocity,
	}
	data, err := midi.Bytes(func(w io.Writer) error { return midi.EncodeProgression(w, p, opts) })
	if err != nil {
		h.fail(c, "Failed to encode progression", err)
		return
	}
	filename := fmt.Sprintf("progression_%s_%s_%d.mid", req.Key, req.Scale, len(p.Numerals))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, midiContentType, data)
}

func (h *ProgressionHandler) generate(c *gin.Context) (*ProgressionRequest, progression.Progression, bool) {
	var req ProgressionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, progression.Progression{}, false
	}
	req.NumChords = progression.Clamp(req.NumChords)
	if req.Seed == nil {
		seed := rand.Uint64N(maxDrawnSeed)
		req.Seed = &seed
	}

	logDefaulted(c, h.registry, req.Key, req.Scale, req.Genre)

	start := time.Now()
	p := progression.Seeded(progression.Params{
		Key:       req.Key,
		Mode:      req.Scale,
		NumChords: req.NumChords,
		Genre:     req.Genre,
		Seed:      *req.Seed,
	}, h.registry)
	duration := time.Since(start)

	fields := logger.WithContext(c)
	fields["genre"] = p.Genre
	fields["key"] = p.Scale.Key
	fields["chords"] = len(p.Chords)
	fields["source"] = string(p.Source)
	logger.LogGenerationRequest(c.Request.Context(), "progression", duration, fields)
	h.recorder.RecordGeneration(c.Request.Context(), "progression", p.Genre, len(p.Chords), duration)

	return &req, p, true
}

func (h *ProgressionHandler) fail(c *gin.Context, msg string, err error) {
	logger.Error(msg, err, logger.WithContext(c))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      msg,
		"request_id": c.GetString("request_id"),
	})
}
