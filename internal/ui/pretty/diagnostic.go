package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/prhdesc/pkg/check"
	"github.com/yaklabco/prhdesc/pkg/enrich"
)

// FormatDiagnostic formats one diagnostic for terminal output. When
// sourceLine is non-empty it is printed underneath with the span underlined.
func (s *Styles) FormatDiagnostic(path string, diag check.Diagnostic, sourceLine string) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), diag.Line, diag.Column)

	line := fmt.Sprintf("  %s  %s  %s", location, s.FormatSeverity(diag.Severity), s.Message.Render(diag.Message))
	if diag.RuleID != "" {
		line += "  " + s.RuleID.Render("("+diag.RuleID+")")
	}
	builder.WriteString(line + "\n")

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.Column, diag.Length))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev enrich.Severity) string {
	switch sev {
	case enrich.SeverityInfo, "":
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext prints line with carets under length characters
// starting at column. Widths account for East Asian wide characters.
func (s *Styles) FormatSourceContext(line string, column, length int) string {
	const indent = "        "

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column < 1 {
		return builder.String()
	}
	if length < 1 {
		length = 1
	}

	runes := []rune(line)
	start := min(column-1, len(runes))
	end := min(start+length, len(runes))

	pad := lipgloss.Width(string(runes[:start]))
	width := max(lipgloss.Width(string(runes[start:end])), 1)

	builder.WriteString(indent + strings.Repeat(" ", pad) + s.Caret.Render(strings.Repeat("^", width)) + "\n")
	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		word := "issues"
		if issueCount == 1 {
			word = "issue"
		}
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, word))
	}
	return header
}

// FormatSourceLabel renders a provenance label in brackets.
func (s *Styles) FormatSourceLabel(label string) string {
	return s.Source.Render("[" + label + "]")
}
