package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/prhdesc/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "4 issues in 2 files, 1 skipped".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No problems found")+
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesChecked, plural(stats.FilesChecked, wordFile, wordFiles))))
	} else {
		parts = append(parts, fmt.Sprintf("%s in %d %s",
			s.Info.Render(fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))),
			stats.FilesWithIssues,
			plural(stats.FilesWithIssues, wordFile, wordFiles),
		))
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if failed := stats.FilesFailed + stats.FilesErrored; failed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", failed)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	row("Files discovered", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesChecked)))
	if stats.FilesWithIssues > 0 {
		row("Files with issues", s.Info.Render(strconv.Itoa(stats.FilesWithIssues)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Dim.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if failed := stats.FilesFailed + stats.FilesErrored; failed > 0 {
		row("Files failed", s.Failure.Render(strconv.Itoa(failed)))
	}
	row("Total issues", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))

	builder.WriteString("\n")
	switch {
	case stats.FilesFailed+stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Some documents could not be checked"))
	case stats.DiagnosticsTotal > 0:
		builder.WriteString(s.Info.Render("Check completed with suggestions"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
