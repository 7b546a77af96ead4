package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pulpitworks/sermon-pipeline/internal/bible"
	"github.com/pulpitworks/sermon-pipeline/internal/config"
	"github.com/pulpitworks/sermon-pipeline/internal/engine"
	"github.com/pulpitworks/sermon-pipeline/internal/moduleinfo"
	"github.com/pulpitworks/sermon-pipeline/internal/pipeline"
	"github.com/pulpitworks/sermon-pipeline/internal/progress"
	"github.com/pulpitworks/sermon-pipeline/internal/store"
	"github.com/pulpitworks/sermon-pipeline/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Loader{}.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting "+moduleinfo.Info.BinaryName,
		"database_path", cfg.DatabasePath,
		"model_variant", cfg.ModelVariant,
		"language", cfg.Language,
		"stub_engine", cfg.UseStubEngine,
	)

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	eng := engine.New(cfg, logger)
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn("failed to close engine", "error", err)
		}
	}()

	recorder := telemetry.NewRecorder(logger)
	publisher := progress.NewPublisher(logger)
	runner := pipeline.NewRunner(cfg, st, eng, publisher, bible.NewProvider(), recorder, logger)

	sermons, err := st.FetchSermonsNeedingSync(ctx)
	if err != nil {
		logger.Error("failed to list sermons needing processing", "error", err)
		os.Exit(1)
	}
	if len(sermons) == 0 {
		logger.Info("no sermons waiting for processing")
		return
	}

	for _, sermon := range sermons {
		if ctx.Err() != nil {
			logger.Info("shutdown requested, stopping")
			break
		}
		if sermon.DeletedAt != nil {
			continue
		}
		if _, err := runner.ProcessSermon(ctx, sermon.ID); err != nil {
			logger.Error("sermon processing failed", "sermon_id", sermon.ID, "error", err)
			continue
		}
		if err := st.MarkSermonSynced(ctx, sermon.ID); err != nil {
			logger.Warn("failed to mark sermon synced", "sermon_id", sermon.ID, "error", err)
		}
	}

	if snapshot := recorder.Snapshot(); snapshot.TotalJobs > 0 {
		logger.Info("telemetry totals",
			"total_jobs", snapshot.TotalJobs,
			"failed_jobs", snapshot.FailedJobs,
			"total_chunks", snapshot.TotalChunks,
			"total_transcripts", snapshot.TotalTranscripts,
			"total_corrections", snapshot.TotalCorrections,
		)
	}

	logger.Info("pipeline stopped")
}

func newLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
