// Package tui provides the Bubble Tea reading test interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/recite/internal/model"
)

type styledSpan struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledWords renders one span per word so combining marks stay attached to their
// base rune. cursor marks the word the reader is expected to say next, -1 for none.
func buildStyledWords(words []model.EvaluatedWord, cursor int) []styledSpan {
	out := make([]styledSpan, 0, len(words)*2)
	for i, w := range words {
		if i > 0 {
			out = append(out, styledSpan{s: " ", width: 1, isSpace: true})
		}
		style := pendingStyle
		switch w.Status {
		case model.StatusCorrect:
			style = correctStyle
		case model.StatusIncorrect:
			style = incorrectStyle
		case model.StatusSkipped:
			style = skippedStyle
		default:
			if i == cursor {
				style = cursorStyle
			}
		}
		out = append(out, styledSpan{
			s:     style.Render(w.Word),
			width: runewidth.StringWidth(w.Word),
		})
	}
	return out
}

// nextWordIndex returns the first pending word, -1 when every word was reached.
func nextWordIndex(words []model.EvaluatedWord) int {
	last := -1
	for i, w := range words {
		if w.Status != model.StatusPending {
			last = i
		}
	}
	if last+1 >= len(words) {
		return -1
	}
	return last + 1
}

func renderSpans(spans []styledSpan) string {
	var b strings.Builder
	for _, item := range spans {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapSpans(spans []styledSpan, width int) string {
	if width <= 0 {
		return renderSpans(spans)
	}
	var out strings.Builder
	line := make([]styledSpan, 0, len(spans))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(spans); {
		item := spans[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderSpans(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledSpan{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderSpans(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderSpans(line))
	return out.String()
}

func lineWidthOf(line []styledSpan) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledSpan) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
