package handlers

import (
	"net/http"

	apihandlers "github.com/Conceptual-Machines/melody-api/internal/api/handlers"
	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/web/templates"
	"github.com/gin-gonic/gin"
)

// Endpoints lists the public API for the index page.
var Endpoints = []templates.Endpoint{
	{Method: "POST", Path: "/generate-melody/", Description: "Compose a melody, returned as base64 MIDI plus notes"},
	{Method: "GET", Path: "/download-midi/", Description: "Download a melody as a MIDI file"},
	{Method: "POST", Path: "/generate-progression/", Description: "Generate a chord progression"},
	{Method: "GET", Path: "/download-progression-midi/", Description: "Download a progression as block chords"},
	{Method: "GET", Path: "/genres", Description: "List genre profiles"},
	{Method: "GET", Path: "/health", Description: "Health check"},
}

type WebHandler struct {
	registry *genre.Registry
	version  string
}

func NewWebHandler(registry *genre.Registry, version string) *WebHandler {
	return &WebHandler{registry: registry, version: version}
}

// Home renders the landing page
func (h *WebHandler) Home(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	component := templates.Index(h.version, Endpoints, apihandlers.Summaries(h.registry))
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
	}
}
