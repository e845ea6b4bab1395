package metrics

import (
	"context"
	"time"
)

// Recorder receives request and generation measurements.
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordGeneration(ctx context.Context, kind, genre string, notes int, duration time.Duration)
}

// Fanout forwards every measurement to each recorder in order.
type Fanout []Recorder

func (f Fanout) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range f {
		r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
}

func (f Fanout) RecordGeneration(ctx context.Context, kind, genre string, notes int, duration time.Duration) {
	for _, r := range f {
		r.RecordGeneration(ctx, kind, genre, notes, duration)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordAPIRequest(context.Context, string, int, time.Duration)          {}
func (Nop) RecordGeneration(context.Context, string, string, int, time.Duration) {}
