package engine

import (
	"log/slog"
	"strings"

	"github.com/pulpitworks/sermon-pipeline/internal/config"
)

// New returns the Engine selected by configuration. Missing credentials fall
// back to the stub engine so the pipeline stays runnable in development.
func New(cfg config.Config, logger *slog.Logger) Engine {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.UseStubEngine {
		logger.Warn("stub engine forced by configuration")
		return NewStubEngine(logger, cfg.ModelVariant)
	}

	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		logger.Warn("no OpenAI API key configured; using stub engine")
		return NewStubEngine(logger, cfg.ModelVariant)
	}

	eng, err := NewOpenAIEngine(cfg.OpenAIAPIKey, cfg.ModelVariant, logger)
	if err != nil {
		logger.Warn("OpenAI engine initialisation failed; using stub engine", "error", err)
		return NewStubEngine(logger, cfg.ModelVariant)
	}
	logger.Info("OpenAI engine ready", "model_variant", cfg.ModelVariant)
	return eng
}
