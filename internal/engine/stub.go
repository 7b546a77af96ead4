package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pulpitworks/sermon-pipeline/internal/store"
)

// StubEngine produces deterministic transcripts without calling a recognition
// service.
type StubEngine struct {
	log          *slog.Logger
	modelVariant string
	totalChunks  int
}

// NewStubEngine returns an Engine that generates placeholder transcripts.
func NewStubEngine(logger *slog.Logger, modelVariant string) *StubEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubEngine{
		log: logger.With(
			"component", "engine.stub",
			"model_variant", modelVariant,
		),
		modelVariant: modelVariant,
	}
}

// TranscribeChunk implements the Engine interface.
func (e *StubEngine) TranscribeChunk(ctx context.Context, chunk store.AudioChunk, prompt string) (Result, error) {
	e.totalChunks++
	text := fmt.Sprintf("stub transcript for chunk %d of sermon %s", chunk.ChunkIndex, chunk.SermonID)
	e.log.Debug("stub transcript",
		"chunk_index", chunk.ChunkIndex,
		"prompt_chars", len(prompt),
		"total_chunks", e.totalChunks,
	)
	return Result{
		Text:  text,
		Words: SpreadWords(text, chunk.DurationSeconds),
	}, nil
}

// Close implements the Engine interface.
func (e *StubEngine) Close() error {
	return nil
}
