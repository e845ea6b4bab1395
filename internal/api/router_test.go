package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Conceptual-Machines/melody-api/internal/config"
	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRecorder struct {
	mu          sync.Mutex
	requests    []string
	generations []string
}

func (r *recordingRecorder) RecordAPIRequest(_ context.Context, endpoint string, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, endpoint)
}

func (r *recordingRecorder) RecordGeneration(_ context.Context, kind, _ string, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations = append(r.generations, kind)
}

func setupTestRouter(t *testing.T) (*gin.Engine, *recordingRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Environment:        "test",
		MaxMelodyBars:      32,
		CORSAllowedOrigins: []string{"*"},
	}
	rec := &recordingRecorder{}
	return SetupRouter(cfg, genre.NewRegistry(), rec, "test"), rec
}

func do(t *testing.T, router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGenresList(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/genres")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Genres []models.GenreSummary `json:"genres"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	names := make([]string, len(body.Genres))
	for i, g := range body.Genres {
		names[i] = g.Name
	}
	assert.Equal(t, genre.NewRegistry().Names(), names)

	for _, g := range body.Genres {
		require.Len(t, g.Rhythms, g.RhythmPatterns, g.Name)
		for _, pattern := range g.Rhythms {
			assert.NotEmpty(t, pattern, g.Name)
		}
	}
}

func TestGenerateMelodyDefaults(t *testing.T) {
	router, rec := setupTestRouter(t)

	w := do(t, router, http.MethodPost, "/generate-melody/?seed=42")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.MelodyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "C", resp.Key)
	assert.Equal(t, "major", resp.Scale)
	assert.Equal(t, 120, resp.Tempo)
	assert.Equal(t, "4/4", resp.TimeSignature)
	assert.Equal(t, uint64(42), resp.Seed)
	require.NotEmpty(t, resp.Notes)

	last := resp.Notes[len(resp.Notes)-1]
	assert.InDelta(t, 32.0, last.StartBeats+last.DurationBeats, 1e-6)

	data, err := base64.StdEncoding.DecodeString(resp.MIDIBase64)
	require.NoError(t, err)
	assert.Equal(t, "MThd", string(data[:4]))

	assert.True(t, strings.HasPrefix(resp.DownloadURL, "/download-midi/?"))
	assert.Contains(t, resp.DownloadURL, "seed=42")

	assert.Equal(t, []string{"melody"}, rec.generations)
	assert.Equal(t, []string{"/generate-melody/"}, rec.requests)
}

func TestGenerateMelodyIsDeterministicForSeed(t *testing.T) {
	router, _ := setupTestRouter(t)
	target := "/generate-melody/?key=D&scale=minor&length=4&genre=jazz&seed=7"

	first := do(t, router, http.MethodPost, target)
	second := do(t, router, http.MethodPost, target)
	require.Equal(t, http.StatusOK, first.Code)

	var a, b models.MelodyResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.Notes, b.Notes)
	assert.Equal(t, a.MIDIBase64, b.MIDIBase64)
}

func TestGenerateMelodyDrawsSeed(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodPost, "/generate-melody/?length=2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.MelodyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Less(t, resp.Seed, uint64(1)<<53)
	assert.Contains(t, resp.DownloadURL, "seed=")
}

func TestGenerateMelodyClampsOutOfRange(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		query     string
		wantBeats float64
		wantTempo int
	}{
		{"length=0&tempo=300", 4, 240},
		{"length=40&tempo=20", 32 * 4, 40},
		{"length=-5&coherence=3", 4, 120},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/generate-melody/?seed=2&"+tt.query)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp models.MelodyResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantTempo, resp.Tempo)
			assert.LessOrEqual(t, resp.Coherence, 1.0)
			last := resp.Notes[len(resp.Notes)-1]
			assert.InDelta(t, tt.wantBeats, last.StartBeats+last.DurationBeats, 1e-6)
		})
	}
}

func TestDownloadUsesClampedLength(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/download-midi/?length=99&seed=3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="melody_C_major_32.mid"`, w.Header().Get("Content-Disposition"))
}

func TestGenerateMelodyRejectsMalformedInput(t *testing.T) {
	router, rec := setupTestRouter(t)

	for _, target := range []string{
		"/generate-melody/?length=abc",
		"/generate-melody/?tempo=fast",
		"/generate-melody/?coherence=NaN",
	} {
		t.Run(target, func(t *testing.T) {
			w := do(t, router, http.MethodPost, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
	assert.Empty(t, rec.generations)
}

func TestDownloadMelody(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/download-midi/?key=A&scale=minor&length=4&seed=3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/midi", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="melody_A_minor_4.mid"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "MThd", w.Body.String()[:4])
}

func TestDownloadMatchesInlineMIDI(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodPost, "/generate-melody/?seed=11&genre=blues")
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.MelodyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	dl := do(t, router, http.MethodGet, resp.DownloadURL)
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, resp.MIDIBase64, base64.StdEncoding.EncodeToString(dl.Body.Bytes()))
}

func TestGenerateProgression(t *testing.T) {
	router, rec := setupTestRouter(t)

	w := do(t, router, http.MethodPost, "/generate-progression/?genre=pop&seed=5")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ProgressionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Chords, 4)
	assert.Len(t, resp.Numerals, 4)
	assert.Len(t, resp.Voicings, 4)
	require.Len(t, resp.Events, 4)
	assert.Equal(t, 4.0, resp.Events[1].StartBeats)
	assert.NotEmpty(t, resp.Description)
	assert.Equal(t, "pop", resp.Genre)
	assert.Equal(t, []string{"progression"}, rec.generations)
}

func TestGenerateProgressionClampsNumChords(t *testing.T) {
	router, _ := setupTestRouter(t)

	cases := map[string]int{
		"/generate-progression/?num_chords=20&seed=1": 8,
		"/generate-progression/?num_chords=1&seed=1":  2,
		"/generate-progression/?num_chords=-3&seed=1": 2,
	}
	for target, want := range cases {
		w := do(t, router, http.MethodPost, target)
		require.Equal(t, http.StatusOK, w.Code)
		var resp models.ProgressionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Chords, want, target)
	}
}

func TestDownloadProgression(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/download-progression-midi/?key=G&num_chords=6&seed=9")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="progression_G_major_6.mid"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "MThd", w.Body.String()[:4])
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req, err := http.NewRequest(http.MethodOptions, "/generate-melody/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestHomePage(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Melody Generator")
	assert.Contains(t, w.Body.String(), "/generate-progression/")
	assert.Contains(t, w.Body.String(), "jazz")
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uptime")
}

func TestGenerateLogsDefaultedInputs(t *testing.T) {
	router, _ := setupTestRouter(t)
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	w := do(t, router, http.MethodPost, "/generate-melody/?key=H&scale=lydian&genre=polka&time_signature=5&seed=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.MelodyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "C", resp.Key)
	assert.Equal(t, "major", resp.Scale)
	assert.Equal(t, "4/4", resp.TimeSignature)

	out := buf.String()
	assert.Contains(t, out, "[WARN] Unknown key, using C")
	assert.Contains(t, out, "[WARN] Unknown genre, using default profile")
	assert.Contains(t, out, "[DEBUG] Unknown scale, using major")
	assert.Contains(t, out, "[DEBUG] Malformed time signature, using 4/4")

	buf.Reset()
	w = do(t, router, http.MethodPost, "/generate-melody/?key=G&genre=Jazz&seed=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, buf.String(), "[WARN]")
	assert.NotContains(t, buf.String(), "[DEBUG]")
}

func TestGenerateMelodyKeepsFlatKeySignature(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(t, router, http.MethodPost, "/generate-melody/?key=Db&length=1&seed=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.MelodyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, -5, resp.KeySignatureFifths)
}
