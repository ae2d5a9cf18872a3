package config

import "fmt"

// ParseOutputFormat parses a format string, returning an error for unknown formats.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q; valid formats: text, json, table", s)
	}
}

// IsValid returns true if the format is a known valid format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatTable:
		return true
	default:
		return false
	}
}
