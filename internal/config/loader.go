package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Loader loads configuration from environment variables. Tests can override
// Lookup to inject deterministic maps.
type Loader struct {
	Lookup func(string) (string, bool)
}

// Load retrieves the pipeline configuration from environment variables and
// validates it.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	var cfg Config

	if raw, ok := l.Lookup("SERMON_PIPELINE_CONFIG"); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(l.Lookup, "SERMON_DATABASE_PATH", &cfg.DatabasePath)
	overrideString(l.Lookup, "SERMON_DATA_DIR", &cfg.DataDir)
	overrideString(l.Lookup, "SERMON_MODEL_VARIANT", &cfg.ModelVariant)
	overrideString(l.Lookup, "SERMON_LANGUAGE_HINT", &cfg.Language)
	overrideString(l.Lookup, "SERMON_LOG_LEVEL", &cfg.LogLevel)
	overrideString(l.Lookup, "OPENAI_API_KEY", &cfg.OpenAIAPIKey)
	overrideBool(l.Lookup, "SERMON_USE_STUB_ENGINE", &cfg.UseStubEngine)
	overrideInt(l.Lookup, "SERMON_MAX_PROMPT_CHARS", &cfg.MaxPromptChars)
	overrideInt(l.Lookup, "SERMON_GLOSSARY_BUDGET", &cfg.GlossaryBudget)
	overrideInt(l.Lookup, "SERMON_PAGE_LIMIT", &cfg.PageLimit)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyJSON(raw string, cfg *Config) error {
	type jsonConfig struct {
		DatabasePath   string `json:"database_path"`
		DataDir        string `json:"data_dir"`
		ModelVariant   string `json:"model_variant"`
		Language       string `json:"language"`
		LogLevel       string `json:"log_level"`
		OpenAIAPIKey   string `json:"openai_api_key"`
		UseStubEngine  *bool  `json:"use_stub_engine"`
		MaxPromptChars int    `json:"max_prompt_chars"`
		GlossaryBudget int    `json:"glossary_budget"`
		PageLimit      int    `json:"page_limit"`
	}
	var payload jsonConfig
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("config: decode SERMON_PIPELINE_CONFIG: %w", err)
	}
	if payload.DatabasePath != "" {
		cfg.DatabasePath = payload.DatabasePath
	}
	if payload.DataDir != "" {
		cfg.DataDir = payload.DataDir
	}
	if payload.ModelVariant != "" {
		cfg.ModelVariant = payload.ModelVariant
	}
	if payload.Language != "" {
		cfg.Language = payload.Language
	}
	if payload.LogLevel != "" {
		cfg.LogLevel = payload.LogLevel
	}
	if payload.OpenAIAPIKey != "" {
		cfg.OpenAIAPIKey = payload.OpenAIAPIKey
	}
	if payload.UseStubEngine != nil {
		cfg.UseStubEngine = *payload.UseStubEngine
	}
	if payload.MaxPromptChars > 0 {
		cfg.MaxPromptChars = payload.MaxPromptChars
	}
	if payload.GlossaryBudget > 0 {
		cfg.GlossaryBudget = payload.GlossaryBudget
	}
	if payload.PageLimit > 0 {
		cfg.PageLimit = payload.PageLimit
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && parsed > 0 {
			*target = parsed
		}
	}
}
