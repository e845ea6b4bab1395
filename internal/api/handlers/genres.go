package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/gin-gonic/gin"
)

type GenresHandler struct {
	registry *genre.Registry
}

func NewGenresHandler(registry *genre.Registry) *GenresHandler {
	return &GenresHandler{registry: registry}
}

// Summaries describes every registered genre in display order.
func Summaries(registry *genre.Registry) []models.GenreSummary {
	names := registry.Names()
	out := make([]models.GenreSummary, len(names))
	for i, name := range names {
		p := registry.Lookup(name)
		out[i] = models.GenreSummary{
			Name:           p.Name,
			Description:    p.Description,
			Tendency:       string(p.Tendency),
			CoherenceBias:  p.CoherenceBias,
			VelocityRange:  [2]int{p.Velocity.Min, p.Velocity.Max},
			OctaveRange:    [2]int{p.Octaves.Min, p.Octaves.Max},
			RhythmPatterns: p.Rhythms.Len(),
			Rhythms:        p.Rhythms.Durations(),
			Extensions:     p.Extensions,
			Progressions:   p.Progressions,
		}
	}
	return out
}

// List returns the genre table.
func (h *GenresHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"genres": Summaries(h.registry)})
}
