package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/melody-api/internal/config"
	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/logger"
	"github.com/Conceptual-Machines/melody-api/internal/melody"
	"github.com/Conceptual-Machines/melody-api/internal/metrics"
	"github.com/Conceptual-Machines/melody-api/internal/midi"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/gin-gonic/gin"
)

type MelodyHandler struct {
	registry *genre.Registry
	recorder metrics.Recorder
	maxBars  int
}

func NewMelodyHandler(cfg *config.Config, registry *genre.Registry, recorder metrics.Recorder) *MelodyHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &MelodyHandler{
		registry: registry,
		recorder: recorder,
		maxBars:  cfg.MaxMelodyBars,
	}
}

// MelodyRequest holds the query parameters of both melody endpoints.
type MelodyRequest struct {
	Key           string  `form:"key,default=C"`
	Scale         string  `form:"scale,default=major"`
	Length        int     `form:"length,default=8"`
	Coherence     float64 `form:"coherence,default=0.7"`
	Tempo         int     `form:"tempo,default=120"`
	TimeSignature string  `form:"time_signature,default=4/4"`
	Genre         string  `form:"genre,default=none"`
	Seed          *uint64 `form:"seed"`
}

// normalize clamps length, tempo and coherence into range. Only a
// non-finite coherence is rejected.
func (r *MelodyRequest) normalize(maxBars int) error {
	if math.IsNaN(r.Coherence) || math.IsInf(r.Coherence, 0) {
		return fmt.Errorf("coherence must be a finite number")
	}
	r.Length = min(max(r.Length, minMelodyBars), maxBars)
	r.Tempo = min(max(r.Tempo, minTempo), maxTempo)
	r.Coherence = min(max(r.Coherence, 0), 1)
	return nil
}

func (r *MelodyRequest) params() melody.Params {
	return melody.Params{
		Key:           r.Key,
		Mode:          r.Scale,
		Bars:          r.Length,
		Coherence:     r.Coherence,
		Tempo:         r.Tempo,
		TimeSignature: r.TimeSignature,
		Genre:         r.Genre,
		Seed:          *r.Seed,
	}
}

func (r *MelodyRequest) query() url.Values {
	return url.Values{
		"key":            {r.Key},
		"scale":          {r.Scale},
		"length":         {strconv.Itoa(r.Length)},
		"coherence":      {strconv.FormatFloat(r.Coherence, 'f', -1, 64)},
		"tempo":          {strconv.Itoa(r.Tempo)},
		"time_signature": {r.TimeSignature},
		"genre":          {r.Genre},
		"seed":           {strconv.FormatUint(*r.Seed, 10)},
	}
}

// Generate composes a melody and returns it inline as base64 MIDI plus the
// decoded notes.
func (h *MelodyHandler) Generate(c *gin.Context) {
	req, m, data, ok := h.compose(c)
	if !ok {
		return
	}

	notes := make([]models.NoteEvent, len(m.Events))
	for i, e := range m.Events {
		notes[i] = models.NoteEvent{
			MidiNoteNumber: e.Pitch,
			Velocity:       e.Velocity,
			StartBeats:     e.Start,
			DurationBeats:  e.Duration(),
		}
	}
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

	c.JSON(http.StatusOK, models.MelodyResponse{
		MIDIBase64:         base64.StdEncoding.EncodeToString(data),
		DownloadURL:        "/download-midi/?" + req.query().Encode(),
		Seed:               *req.Seed,
		Key:                m.Scale.Key,
		Scale:              string(m.Scale.Mode),
		Genre:              m.Genre,
		Tempo:              m.Tempo,
		TimeSignature:      m.Meter.String(),
		BeatsPerBar:        m.BeatsPerBar,
		KeySignatureFifths: m.KeySignatureFifths,
		Coherence:          m.Coherence,
		Notes:              notes,
		Phrases:            phrases,
	})
}

// Download returns the melody as a MIDI attachment.
func (h *MelodyHandler) Download(c *gin.Context) {
	req, _, data, ok := h.compose(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("melody_%s_%s_%d.mid", req.Key, req.Scale, req.Length)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, midiContentType, data)
}

func (h *MelodyHandler) compose(c *gin.Context) (*MelodyRequest, melody.Melody, []byte, bool) {
	var req MelodyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, melody.Melody{}, nil, false
	}
	if err := req.normalize(h.maxBars); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, melody.Melody{}, nil, false
	}
	if req.Seed == nil {
		seed := rand.Uint64N(maxDrawnSeed)
		req.Seed = &seed
	}

	logDefaulted(c, h.registry, req.Key, req.Scale, req.Genre)
	if _, ok := melody.ParseMeter(req.TimeSignature); !ok {
		fields := logger.WithContext(c)
		fields["time_signature"] = req.TimeSignature
		logger.Debug("Malformed time signature, using 4/4", fields)
	}

	start := time.Now()
	m := melody.Generate(req.params(), h.registry)
	data, err := midi.Bytes(func(w io.Writer) error { return midi.EncodeMelody(w, m) })
	if err != nil {
		fields := logger.WithContext(c)
		fields["genre"] = m.Genre
		logger.Error("Failed to encode melody", err, fields)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to encode MIDI file",
			"request_id": c.GetString("request_id"),
		})
		return nil, melody.Melody{}, nil, false
	}
	duration := time.Since(start)

	fields := logger.WithContext(c)
	fields["genre"] = m.Genre
	fields["key"] = m.Scale.Key
	fields["bars"] = req.Length
	fields["notes"] = len(m.Events)
	fields["seed"] = strconv.FormatUint(*req.Seed, 10)
	logger.LogGenerationRequest(c.Request.Context(), "melody", duration, fields)
	h.recorder.RecordGeneration(c.Request.Context(), "melody", m.Genre, len(m.Events), duration)

	return &req, m, data, true
}
