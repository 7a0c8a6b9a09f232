package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Column describes one table column. A positive MaxWidth truncates longer cells with an
// ellipsis.
type Column struct {
	Header     string
	RightAlign bool
	MaxWidth   int
}

// FormatTable renders a header line followed by one line per row, padding cells by
// display width so wide runes line up.
func FormatTable(cols []Column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	cells := make([][]string, 0, len(rows)+1)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Header
	}
	cells = append(cells, header)
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, col := range cols {
			if i >= len(row) {
				break
			}
			line[i] = row[i]
			if col.MaxWidth > 0 && runewidth.StringWidth(line[i]) > col.MaxWidth {
				line[i] = runewidth.Truncate(line[i], col.MaxWidth, "…")
			}
		}
		cells = append(cells, line)
	}

	widths := make([]int, len(cols))
	for _, line := range cells {
		for i, cell := range line {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	out := make([]string, 0, len(cells))
	for _, line := range cells {
		parts := make([]string, len(cols))
		for i, cell := range line {
			parts[i] = pad(cell, widths[i], cols[i].RightAlign)
		}
		out = append(out, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
	return out
}

func pad(value string, width int, right bool) string {
	gap := width - runewidth.StringWidth(value)
	if gap <= 0 {
		return value
	}
	if right {
		return strings.Repeat(" ", gap) + value
	}
	return value + strings.Repeat(" ", gap)
}
