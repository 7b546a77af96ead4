// Package pipeline orchestrates sermon processing: it drives recognition
// chunk by chunk, corrects biblical vocabulary in the raw output, persists
// the assembled transcript, and broadcasts progress along the way.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pulpitworks/sermon-pipeline/internal/bible"
	"github.com/pulpitworks/sermon-pipeline/internal/config"
	"github.com/pulpitworks/sermon-pipeline/internal/correct"
	"github.com/pulpitworks/sermon-pipeline/internal/engine"
	"github.com/pulpitworks/sermon-pipeline/internal/moduleinfo"
	"github.com/pulpitworks/sermon-pipeline/internal/progress"
	"github.com/pulpitworks/sermon-pipeline/internal/prompt"
	"github.com/pulpitworks/sermon-pipeline/internal/store"
	"github.com/pulpitworks/sermon-pipeline/internal/telemetry"
)

// Runner processes sermons end to end.
type Runner struct {
	cfg       config.Config
	store     *store.Store
	engine    engine.Engine
	publisher *progress.Publisher
	provider  *bible.Provider
	metrics   *telemetry.Recorder
	log       *slog.Logger
}

// NewRunner wires a Runner from its collaborators.
func NewRunner(cfg config.Config, st *store.Store, eng engine.Engine, pub *progress.Publisher, provider *bible.Provider, metrics *telemetry.Recorder, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if provider == nil {
		provider = bible.NewProvider()
	}
	if metrics == nil {
		metrics = telemetry.NewRecorder(logger)
	}
	return &Runner{
		cfg:       cfg,
		store:     st,
		engine:    eng,
		publisher: pub,
		provider:  provider,
		metrics:   metrics,
		log:       logger.With("component", "pipeline.Runner"),
	}
}

// ProcessSermon transcribes every chunk of the sermon, corrects biblical
// vocabulary in the output, saves the transcript, and publishes progress to
// subscribers. On failure the job reaches the failed terminal state, a final
// error update goes out, and the error is returned; nothing more is
// published for the job afterwards either way.
func (r *Runner) ProcessSermon(ctx context.Context, sermonID string) (store.Transcript, error) {
	sermon, err := r.store.FetchSermon(ctx, sermonID)
	if err != nil {
		return store.Transcript{}, err
	}
	chunks, err := r.store.FetchChunks(ctx, sermonID)
	if err != nil {
		return store.Transcript{}, err
	}

	job := progress.NewJob(sermonID, len(chunks))
	metrics := r.metrics.StartJob(sermonID)

	if len(chunks) == 0 {
		err := fmt.Errorf("pipeline: sermon %s has no audio chunks", sermonID)
		job.TranscriptionStatus = progress.StatusFailed
		r.publisher.CompleteWithError(sermonID, job)
		metrics.Finish(err)
		return store.Transcript{}, err
	}

	job.TranscriptionStatus = progress.StatusRunning
	r.publisher.Publish(sermonID, job, 0.0)

	glossary := r.provider.GlossaryPromptForTitle(sermon.Title, r.cfg.GlossaryBudget)
	builder := prompt.NewBuilder(glossary, r.cfg.MaxPromptChars, r.cfg.GlossaryBudget)

	var (
		content string
		words   []store.WordTimestamp
	)
	for i, chunk := range chunks {
		job.ChunkStatuses[i] = progress.StatusRunning

		result, err := r.engine.TranscribeChunk(ctx, chunk, builder.Build(content))
		if err != nil {
			job.ChunkStatuses[i] = progress.StatusFailed
			return store.Transcript{}, r.fail(sermonID, job, metrics, fmt.Errorf("pipeline: transcribe chunk %d: %w", chunk.ChunkIndex, err))
		}

		corrections := correct.FindCorrections(result.Text, result.Words, true)
		chunkText := correct.ApplyCorrections(result.Words, corrections)
		if chunkText == "" {
			chunkText = result.Text
		}
		chunkText = correct.NormalizeForParsing(chunkText)
		metrics.RecordCorrections(len(corrections))

		if content != "" && chunkText != "" {
			content += " "
		}
		content += chunkText
		for _, w := range result.Words {
			words = append(words, store.WordTimestamp{
				Word:  w.Word,
				Start: w.Start + chunk.StartOffsetSeconds,
				End:   w.End + chunk.StartOffsetSeconds,
			})
		}

		job.ChunkStatuses[i] = progress.StatusCompleted
		metrics.RecordChunk(chunk.ChunkIndex, chunk.DurationSeconds)
		r.publisher.Publish(sermonID, job, float64(i+1)/float64(len(chunks)))
	}

	transcript, err := r.store.SaveTranscript(ctx, store.Transcript{
		SermonID: sermonID,
		Content:  content,
		Words:    words,
	})
	if err != nil {
		return store.Transcript{}, r.fail(sermonID, job, metrics, fmt.Errorf("pipeline: save transcript: %w", err))
	}
	metrics.RecordTranscript()

	job.TranscriptionStatus = progress.StatusCompleted
	r.publisher.Publish(sermonID, job, 1.0)
	r.publisher.Complete(sermonID)
	metrics.Finish(nil)

	r.log.Info("sermon processed",
		"sermon_id", sermonID,
		"chunks", len(chunks),
		"transcript_chars", len(content),
		"metadata", moduleinfo.TranscriptMetadata(r.cfg.ModelVariant, r.cfg.Language),
	)
	return transcript, nil
}

func (r *Runner) fail(sermonID string, job progress.Job, metrics *telemetry.JobMetrics, err error) error {
	job.TranscriptionStatus = progress.StatusFailed
	r.publisher.CompleteWithError(sermonID, job)
	metrics.Finish(err)
	r.log.Error("sermon processing failed", "sermon_id", sermonID, "error", err)
	return err
}
