package report

import (
	"strings"
	"unicode/utf8"
)

// Wrap greedily wraps text to at most width runes per line, breaking on
// spaces. Text that already fits is returned verbatim, preserving its
// internal spacing; reflowed lines rejoin words with single spaces. Words
// longer than width get a line of their own.
func Wrap(text string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(text) <= width {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineLen := 0

	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		if lineLen > 0 && lineLen+1+wl > width {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		line.WriteString(w)
		lineLen += wl
	}
	if lineLen > 0 {
		lines = append(lines, line.String())
	}

	return lines
}
