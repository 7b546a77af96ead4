package config

import "fmt"

const (
	DefaultDatabasePath = "data/sermons.sqlite"
	DefaultDataDir      = "data"
	DefaultModel        = "whisper-1"
	DefaultLanguage     = "en"
	DefaultLogLevel     = "info"

	// DefaultMaxPromptChars tracks the Whisper prompt window (224 tokens,
	// roughly four characters per token).
	DefaultMaxPromptChars = 896
	DefaultGlossaryBudget = 320
	DefaultPageLimit      = 20
	MaxPageLimit          = 100
)

// Config captures bootstrap configuration extracted from environment variables
// or the injected JSON payload (`SERMON_PIPELINE_CONFIG`).
type Config struct {
	DatabasePath   string
	DataDir        string
	ModelVariant   string
	Language       string
	LogLevel       string
	OpenAIAPIKey   string
	UseStubEngine  bool
	MaxPromptChars int
	GlossaryBudget int
	PageLimit      int
}

// ContextBudget returns the character budget left for recent-transcript
// context after the glossary and the single separator character.
func (c Config) ContextBudget() int {
	return c.MaxPromptChars - c.GlossaryBudget - 1
}

// Validate applies defaults, checks required fields, and rejects out-of-range
// values.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.ModelVariant == "" {
		c.ModelVariant = DefaultModel
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.MaxPromptChars == 0 {
		c.MaxPromptChars = DefaultMaxPromptChars
	}
	if c.GlossaryBudget == 0 {
		c.GlossaryBudget = DefaultGlossaryBudget
	}
	if c.PageLimit == 0 {
		c.PageLimit = DefaultPageLimit
	}
	if c.GlossaryBudget >= c.MaxPromptChars {
		return fmt.Errorf("config: glossary budget %d must leave room for context within %d prompt chars", c.GlossaryBudget, c.MaxPromptChars)
	}
	if c.PageLimit < 1 || c.PageLimit > MaxPageLimit {
		return fmt.Errorf("config: page limit must be in [1, %d], got %d", MaxPageLimit, c.PageLimit)
	}
	return nil
}
