package configloader

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/yaklabco/prhdesc/pkg/config"
)

// EnvPrefix is the prefix for all prhdesc environment variables.
const EnvPrefix = "PRHDESC_"

// LoadFromEnv applies environment variable overrides to the configuration.
// Variables are named after the env struct tags of config.Config with the
// PRHDESC_ prefix (e.g., PRHDESC_RULES_FOLDER, PRHDESC_ENGINE_COMMAND).
// Unset variables leave the field unchanged.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse %s variables: %w", EnvPrefix, err)
	}
	return nil
}

// ListEnvVars returns the supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		EnvPrefix + "RULES_FOLDER":       "Custom rule folder",
		EnvPrefix + "BUNDLED_DIR":        "Folder replacing the bundled default rules",
		EnvPrefix + "DISABLE_BUNDLED":    "Drop the bundled default rules: true or false",
		EnvPrefix + "ENABLED_FILE_TYPES": "Language toggles, e.g. plaintext:true,markdown:false",
		EnvPrefix + "CHECK_ON_SAVE":      "Check documents when written in watch mode: true or false",
		EnvPrefix + "IGNORE":             "Comma-separated list of ignore patterns",
		EnvPrefix + "ENGINE_COMMAND":     "Lint engine executable",
		EnvPrefix + "ENGINE_ARGS":        "Comma-separated extra engine arguments",
		EnvPrefix + "ENGINE_TIMEOUT":     "Engine timeout, e.g. 30s",
		EnvPrefix + "FORMAT":             "Output format: text, json, or table",
	}
}
