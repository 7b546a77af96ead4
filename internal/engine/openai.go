package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/pulpitworks/sermon-pipeline/internal/store"
)

// OpenAIEngine recognizes chunk audio through the OpenAI audio transcription
// API.
type OpenAIEngine struct {
	client openai.Client
	log    *slog.Logger
	model  string
}

// NewOpenAIEngine returns an Engine backed by the OpenAI API.
func NewOpenAIEngine(apiKey, modelVariant string, logger *slog.Logger) (*OpenAIEngine, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("engine: OpenAI API key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIEngine{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		log: logger.With(
			"component", "engine.openai",
			"model_variant", modelVariant,
		),
		model: modelVariant,
	}, nil
}

// TranscribeChunk implements the Engine interface. The chunk's local audio
// file is uploaded with the supplied prompt; word timestamps are synthesized
// by spreading the returned words across the chunk duration, since the json
// response format carries no word timings.
func (e *OpenAIEngine) TranscribeChunk(ctx context.Context, chunk store.AudioChunk, prompt string) (Result, error) {
	if chunk.LocalPath == "" {
		return Result{}, fmt.Errorf("engine: chunk %d of sermon %s has no local audio", chunk.ChunkIndex, chunk.SermonID)
	}

	file, err := os.Open(chunk.LocalPath)
	if err != nil {
		return Result{}, fmt.Errorf("engine: open chunk audio: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:           file,
		Model:          openai.AudioModel(e.model),
		ResponseFormat: openai.AudioResponseFormatJSON,
	}
	if prompt != "" {
		params.Prompt = param.NewOpt(prompt)
	}

	response, err := e.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("engine: transcription request: %w", err)
	}
	if response == nil {
		return Result{}, errors.New("engine: transcription API returned nil response")
	}

	text := strings.TrimSpace(response.Text)
	e.log.Debug("chunk transcribed",
		"chunk_index", chunk.ChunkIndex,
		"chars", len(text),
	)
	return Result{
		Text:  text,
		Words: SpreadWords(text, chunk.DurationSeconds),
	}, nil
}

// Close implements the Engine interface.
func (e *OpenAIEngine) Close() error {
	return nil
}
