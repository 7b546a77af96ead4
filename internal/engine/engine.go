package engine

import (
	"context"

	"github.com/pulpitworks/sermon-pipeline/internal/store"
)

// Engine exposes the recognition interface backed by the OpenAI audio API or
// a stub implementation.
type Engine interface {
	// TranscribeChunk recognizes one audio chunk, steered by prompt, and
	// returns the raw transcript with word timestamps relative to the chunk
	// start.
	TranscribeChunk(ctx context.Context, chunk store.AudioChunk, prompt string) (Result, error)
	// Close releases underlying resources.
	Close() error
}

// Result is the raw recognition output for a single chunk.
type Result struct {
	Text  string
	Words []store.WordTimestamp
}
