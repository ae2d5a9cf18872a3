// Package config defines core configuration types for prhdesc.
// These types are pure data structures; loading and merging live in internal/configloader.
package config

import "time"

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
)

// DefaultEngineCommand is the external lint engine invoked when none is configured.
const DefaultEngineCommand = "textlint"

// DefaultEngineTimeout bounds a single engine invocation.
const DefaultEngineTimeout = 60 * time.Second

// EngineConfig controls how the external lint engine is invoked.
type EngineConfig struct {
	// Command is the engine executable, resolved through PATH.
	Command string `yaml:"command" env:"COMMAND" validate:"required"`

	// Args are extra arguments placed before the generated ones.
	Args []string `yaml:"args,omitempty" env:"ARGS" envSeparator:","`

	// Timeout bounds one invocation. Zero disables the bound.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"gte=0"`
}

// Config is the root configuration structure for prhdesc.
type Config struct {
	// RulesFolder is an optional custom rule folder. A leading "~" is expanded.
	RulesFolder string `yaml:"rules_folder,omitempty" env:"RULES_FOLDER"`

	// BundledDir replaces the embedded default rules with a folder on disk.
	BundledDir string `yaml:"bundled_dir,omitempty" env:"BUNDLED_DIR"`

	// DisableBundled drops the bundled default source entirely.
	DisableBundled bool `yaml:"disable_bundled,omitempty" env:"DISABLE_BUNDLED"`

	// EnabledFileTypes toggles checking per language id ("plaintext", "markdown", ...).
	// Languages absent from the map are enabled.
	EnabledFileTypes map[string]bool `yaml:"enabled_file_types,omitempty" env:"ENABLED_FILE_TYPES" envKeyValSeparator:":"`

	// CheckOnSave gates automatic checks in watch mode. Manual checks ignore it.
	CheckOnSave bool `yaml:"check_on_save" env:"CHECK_ON_SAVE"`

	// Ignore contains glob patterns for documents to skip.
	Ignore []string `yaml:"ignore,omitempty" env:"IGNORE" envSeparator:","`

	// Engine configures the external lint engine.
	Engine EngineConfig `yaml:"engine" envPrefix:"ENGINE_"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" env:"FORMAT" validate:"omitempty,oneof=text json table"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" validate:"gte=0"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		EnabledFileTypes: make(map[string]bool),
		Engine: EngineConfig{
			Command: DefaultEngineCommand,
			Timeout: DefaultEngineTimeout,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}

// IsFileTypeEnabled reports whether documents of languageID should be checked.
func (c *Config) IsFileTypeEnabled(languageID string) bool {
	if c == nil {
		return true
	}
	enabled, ok := c.EnabledFileTypes[languageID]
	if !ok {
		return true
	}
	return enabled
}
