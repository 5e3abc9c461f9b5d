package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"icsreport/internal/model"
)

const (
	// DefaultWidth is the total report width, including the label column.
	DefaultWidth = 78

	// labelWidth fits the widest date header ("22nd Aug (Sat)") plus a
	// two-space gutter.
	labelWidth = 16
)

// Formatter renders grouped occurrences as the final text digest.
type Formatter struct {
	width int
}

// NewFormatter creates a Formatter with the given total width. Widths too
// narrow to hold the label column and any body fall back to DefaultWidth.
func NewFormatter(width int) *Formatter {
	if width < labelWidth+16 {
		width = DefaultWidth
	}
	return &Formatter{width: width}
}

// Render writes the report. Each occurrence becomes one wrapped block:
// the date label on the first entry of a day, the body column indented
// under itself on continuation lines.
func (f *Formatter) Render(w io.Writer, groups []DayGroup) error {
	for _, g := range groups {
		for _, e := range g.Entries {
			label := ""
			if e.FirstOfDay {
				label = DayHeader(g.Day)
			}
			body := f.describe(e.Occurrence)
			for i, line := range Wrap(body, f.width-labelWidth) {
				if i > 0 {
					label = ""
				}
				if _, err := fmt.Fprintf(w, "%-*s%s\n", labelWidth, label, line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// describe builds one occurrence's body text. All presentation values are
// computed fresh here; the shared Event is never written to, so sibling
// occurrences of the same event cannot interfere with each other.
func (f *Formatter) describe(o model.Occurrence) string {
	summary := o.Event.Summary
	if !o.Event.AllDay {
		summary = fmt.Sprintf("%s - %s, %s",
			o.Start.Format("15:04"), o.End.Format("15:04"), summary)
	}

	desc := o.Event.Description
	if desc != "" {
		// Later days of a multi-day event point back at the first day's
		// entry instead of repeating a long description.
		if first := o.FirstDay(); o.Day().After(first) {
			desc = fmt.Sprintf("See %d%s %s entry for details.",
				first.Day(), ordinalSuffix(first.Day()), first.Format("Jan"))
		}
	}

	out := Punctuate(summary)
	if d := Punctuate(desc); d != "" {
		out += "  " + d
	}
	return out
}

// DayHeader renders a date as e.g. "2nd Mar (Tue)".
func DayHeader(day time.Time) string {
	return fmt.Sprintf("%d%s %s (%s)",
		day.Day(), ordinalSuffix(day.Day()), day.Format("Jan"), day.Format("Mon"))
}

// Punctuate trims trailing whitespace and terminates the text with a full
// stop unless it already ends in '.', '?' or '!'. Empty input stays empty.
func Punctuate(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	if s == "" {
		return ""
	}
	switch s[len(s)-1] {
	case '.', '?', '!':
		return s
	}
	return s + "."
}

// ordinalSuffix returns the English ordinal suffix for a day of month.
func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
