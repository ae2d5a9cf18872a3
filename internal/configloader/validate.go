package configloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"

	"github.com/yaklabco/prhdesc/pkg/config"
	"github.com/yaklabco/prhdesc/pkg/langdetect"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "engine.command").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown language ids).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// fieldNames maps struct namespaces reported by the validator to config keys.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fieldNames = map[string]string{
	"Config.Engine.Command": "engine.command",
	"Config.Engine.Timeout": "engine.timeout",
	"Config.Format":         "format",
	"Config.Jobs":           "jobs",
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			result.Errors = append(result.Errors, ValidationError{Message: err.Error()})
			return result
		}
		for _, fe := range verrs {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fieldName(fe),
				Value:   fe.Value(),
				Message: tagMessage(fe),
			})
		}
	}

	validateIgnorePatterns(cfg, result)
	validateFileTypes(cfg, result)

	return result
}

func fieldName(fe validator.FieldError) string {
	if name, ok := fieldNames[fe.Namespace()]; ok {
		return name
	}
	return strings.ToLower(fe.Field())
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return fmt.Sprintf("invalid value %q; must be one of: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return "must be >= " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// validateFileTypes warns about language ids that detection never produces.
func validateFileTypes(cfg *config.Config, result *ValidationResult) {
	for id := range cfg.EnabledFileTypes {
		if !langdetect.Known(id) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "enabled_file_types." + id,
				Value:   id,
				Message: fmt.Sprintf("unknown language id %q; it will never match", id),
			})
		}
	}
}
