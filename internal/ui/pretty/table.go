package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	tablePadding     = 2
	minColumnWidth   = 4
	heavySeparator   = "="
	defaultTermWidth = 100
	ellipsis         = "..."
)

// Table is a header row plus data rows of equal length.
type Table struct {
	Headers []string
	Rows    [][]string
}

// TableFormatter renders tables that fit the terminal width. Widths are
// measured in terminal cells so wide characters line up.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a table formatter. A non-positive termWidth uses
// a default of 100 columns.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// Format renders t. The last column is truncated when the table would not
// fit the terminal width.
func (f *TableFormatter) Format(t Table) string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := f.columnWidths(t)

	var builder strings.Builder
	builder.WriteString(f.styles.TableHeader.Render(f.formatRow(t.Headers, widths)))
	builder.WriteString("\n")
	builder.WriteString(f.separator(widths))
	builder.WriteString("\n")

	for _, row := range t.Rows {
		builder.WriteString(f.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(f.separator(widths))
	builder.WriteString("\n")
	return builder.String()
}

func (f *TableFormatter) columnWidths(t Table) []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = max(lipgloss.Width(h), minColumnWidth)
	}
	for _, row := range t.Rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	total := tablePadding * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	if excess := total - f.termWidth; excess > 0 {
		last := len(widths) - 1
		widths[last] = max(minColumnWidth, widths[last]-excess)
	}
	return widths
}

func (f *TableFormatter) formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = truncate(cells[i], w)
		}
		if i < len(widths)-1 {
			cell += strings.Repeat(" ", w-lipgloss.Width(cell))
		}
		parts[i] = cell
	}
	return strings.TrimRight(strings.Join(parts, strings.Repeat(" ", tablePadding)), " ")
}

func (f *TableFormatter) separator(widths []int) string {
	total := tablePadding * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	return f.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total))
}

// truncate shortens s to at most width cells, ending with "..." when cut.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	limit := width - len(ellipsis)
	if limit <= 0 {
		limit = width
	}

	var builder strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > limit {
			break
		}
		builder.WriteRune(r)
		used += w
	}
	if limit < width {
		builder.WriteString(ellipsis)
	}
	return builder.String()
}
