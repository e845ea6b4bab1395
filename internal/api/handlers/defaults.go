package handlers

import (
	"strings"

	"github.com/Conceptual-Machines/melody-api/internal/genre"
	"github.com/Conceptual-Machines/melody-api/internal/logger"
	"github.com/Conceptual-Machines/melody-api/internal/theory"
	"github.com/gin-gonic/gin"
)

// logDefaulted records request values the generators will quietly replace
// with their defaults.
func logDefaulted(c *gin.Context, registry *genre.Registry, key, scale, genreName string) {
	if _, ok := theory.NormalizeKey(key); !ok {
		fields := logger.WithContext(c)
		fields["key"] = key
		logger.Warn("Unknown key, using C", fields)
	}
	if !registry.Known(genreName) {
		fields := logger.WithContext(c)
		fields["genre"] = genreName
		logger.Warn("Unknown genre, using default profile", fields)
	}
	if mode := theory.Mode(strings.ToLower(strings.TrimSpace(scale))); mode != theory.Major && mode != theory.Minor {
		fields := logger.WithContext(c)
		fields["scale"] = scale
		logger.Debug("Unknown scale, using major", fields)
	}
}
