package reporter

import "github.com/yaklabco/prhdesc/pkg/config"

// Format selects how results are rendered. It takes the same values as the
// config file's format setting.
type Format = config.OutputFormat

// Output formats supported by the reporter.
const (
	FormatText  = config.FormatText
	FormatTable = config.FormatTable
	FormatJSON  = config.FormatJSON
)

// ParseFormat parses a --format flag value.
func ParseFormat(s string) (Format, error) {
	return config.ParseOutputFormat(s)
}

// Streaming maps f to the format used when results arrive one document at a
// time. A table needs every row up front, so it degrades to text.
func Streaming(f Format) Format {
	if f == FormatTable {
		return FormatText
	}
	return f
}
