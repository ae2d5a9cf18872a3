package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string

	// RulesFolder pre-fills the custom rule folder when non-empty.
	RulesFolder string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml":
		return generateYAMLTemplate(opts), nil
	case "json":
		return generateJSONTemplate(opts)
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}
}

func generateYAMLTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(`# prhdesc configuration
# See: https://github.com/yaklabco/prhdesc

# Custom rule folder, scanned after the bundled and user-level defaults.
# A leading "~" is expanded to the home directory.
`)
	if opts.RulesFolder != "" {
		fmt.Fprintf(&buf, "rules_folder: %q\n", opts.RulesFolder)
	} else {
		buf.WriteString("# rules_folder: ~/prh-rules\n")
	}

	buf.WriteString(`
# Check documents automatically when they are written (watch mode only).
check_on_save: false

# Per-language toggles. Languages not listed are checked.
# enabled_file_types:
#   plaintext: true
#   markdown: false

# Documents to skip (glob patterns).
# ignore:
#   - "node_modules/**"

# External lint engine.
engine:
  command: textlint
  # args: []
  timeout: 1m0s
`)

	return buf.Bytes()
}

func generateJSONTemplate(opts TemplateOptions) ([]byte, error) {
	cfg := NewConfig()
	cfg.RulesFolder = opts.RulesFolder

	doc := map[string]any{
		"rules_folder":       cfg.RulesFolder,
		"check_on_save":      cfg.CheckOnSave,
		"enabled_file_types": cfg.EnabledFileTypes,
		"engine": map[string]any{
			"command": cfg.Engine.Command,
			"timeout": cfg.Engine.Timeout.String(),
		},
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal template: %w", err)
	}
	return append(out, '\n'), nil
}
