package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icsreport/internal/model"
)

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestPunctuate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello.", "Hello."},
		{"Hello", "Hello."},
		{"Hello   ", "Hello."},
		{"Hello!", "Hello!"},
		{"Really?", "Really?"},
		{"Trailing? ", "Trailing?"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Punctuate(tc.in), "Punctuate(%q)", tc.in)
	}
}

func TestOrdinalSuffix(t *testing.T) {
	tests := map[int]string{
		1: "st", 2: "nd", 3: "rd", 4: "th",
		11: "th", 12: "th", 13: "th",
		20: "th", 21: "st", 22: "nd", 23: "rd", 24: "th", 31: "st",
	}
	for n, want := range tests {
		assert.Equal(t, want, ordinalSuffix(n), "ordinalSuffix(%d)", n)
	}
}

func TestDayHeader(t *testing.T) {
	assert.Equal(t, "2nd Mar (Mon)", DayHeader(utc(2026, time.March, 2, 0, 0)))
	assert.Equal(t, "1st Jun (Mon)", DayHeader(utc(2026, time.June, 1, 0, 0)))
	assert.Equal(t, "22nd Aug (Sat)", DayHeader(utc(2026, time.August, 22, 0, 0)))
}

func TestWrap(t *testing.T) {
	lines := Wrap("aaa bbb ccc ddd", 7)
	assert.Equal(t, []string{"aaa bbb", "ccc ddd"}, lines)

	// Text that fits is returned verbatim, spacing intact.
	lines = Wrap("one  two", 20)
	assert.Equal(t, []string{"one  two"}, lines)

	// Oversized words get their own line rather than being dropped.
	lines = Wrap("tiny enormousword x", 6)
	assert.Equal(t, []string{"tiny", "enormousword", "x"}, lines)

	assert.Equal(t, []string{""}, Wrap("", 10))
}

func timedOccurrence(summary string, start, end time.Time) model.Occurrence {
	return model.Occurrence{
		Event: model.Event{Summary: summary, Start: start, End: end},
		Start: start,
		End:   end,
	}
}

func TestGroupOrdersAllDayBeforeTimed(t *testing.T) {
	day := utc(2026, time.June, 1, 0, 0)

	timed := timedOccurrence("Aaa", utc(2026, time.June, 1, 9, 0), utc(2026, time.June, 1, 10, 0))
	allDay := model.Occurrence{
		Event: model.Event{Summary: "Zzz", AllDay: true, Start: day, End: day},
		Start: day,
		End:   day,
	}

	groups := Group([]model.Occurrence{timed, allDay})
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Entries, 2)

	// All-day sorts first despite "Aaa" < "Zzz".
	assert.Equal(t, "Zzz", groups[0].Entries[0].Occurrence.Event.Summary)
	assert.Equal(t, "Aaa", groups[0].Entries[1].Occurrence.Event.Summary)
	assert.True(t, groups[0].Entries[0].FirstOfDay)
	assert.False(t, groups[0].Entries[1].FirstOfDay)
}

func TestGroupSortsDaysAscending(t *testing.T) {
	later := timedOccurrence("Later", utc(2026, time.June, 5, 9, 0), utc(2026, time.June, 5, 10, 0))
	earlier := timedOccurrence("Earlier", utc(2026, time.June, 2, 9, 0), utc(2026, time.June, 2, 10, 0))

	groups := Group([]model.Occurrence{later, earlier})
	require.Len(t, groups, 2)
	assert.Equal(t, "Earlier", groups[0].Entries[0].Occurrence.Event.Summary)
	assert.Equal(t, "Later", groups[1].Entries[0].Occurrence.Event.Summary)
}

func TestRenderHeaderSuppression(t *testing.T) {
	a := timedOccurrence("First", utc(2026, time.June, 1, 9, 0), utc(2026, time.June, 1, 10, 0))
	b := timedOccurrence("Second", utc(2026, time.June, 1, 11, 0), utc(2026, time.June, 1, 12, 0))

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(DefaultWidth).Render(&buf, Group([]model.Occurrence{a, b})))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1st Jun (Mon)   09:00 - 10:00, First.", lines[0])
	// Second entry on the same day: blank label column.
	assert.Equal(t, strings.Repeat(" ", 16)+"11:00 - 12:00, Second.", lines[1])
}

func TestRenderCrossReferencesLaterDays(t *testing.T) {
	ev := model.Event{
		Summary:     "Conference",
		Description: "Annual meeting",
		Start:       utc(2026, time.June, 1, 10, 0),
		End:         utc(2026, time.June, 3, 15, 0),
	}
	siblings := []time.Time{
		utc(2026, time.June, 1, 10, 0),
		utc(2026, time.June, 2, 0, 0),
		utc(2026, time.June, 3, 0, 0),
	}
	occs := make([]model.Occurrence, len(siblings))
	for i, dt := range siblings {
		occs[i] = model.Occurrence{Event: ev, Start: dt, End: ev.End, Siblings: siblings}
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(DefaultWidth).Render(&buf, Group(occs)))
	out := buf.String()

	// Day one carries the real description; later days point back at it.
	assert.Contains(t, out, "10:00 - 15:00, Conference.  Annual meeting.")
	assert.Contains(t, out, "2nd Jun (Tue)")
	assert.Contains(t, out, "3rd Jun (Wed)")
	assert.Equal(t, 2, strings.Count(out, "See 1st Jun entry for details."))
	assert.Equal(t, 1, strings.Count(out, "Annual meeting."))
}

func TestRenderAllDayOmitsTimeRange(t *testing.T) {
	day := utc(2026, time.June, 2, 0, 0)
	occ := model.Occurrence{
		Event: model.Event{Summary: "Bank holiday", AllDay: true, Start: day, End: day},
		Start: day,
		End:   day,
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(DefaultWidth).Render(&buf, Group([]model.Occurrence{occ})))

	assert.Equal(t, "2nd Jun (Tue)   Bank holiday.\n", buf.String())
}

func TestRenderWrapsWithIndentedContinuation(t *testing.T) {
	day := utc(2026, time.June, 2, 0, 0)
	occ := model.Occurrence{
		Event: model.Event{
			Summary: "Planning",
			AllDay:  true,
			Start:   day,
			End:     day,
			Description: "A very long description that certainly will not fit on a " +
				"single line of the report and therefore has to wrap onto more lines",
		},
		Start: day,
		End:   day,
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(40).Render(&buf, Group([]model.Occurrence{occ})))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "2nd Jun (Tue)"))
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, strings.Repeat(" ", 16)), "continuation not indented: %q", line)
		assert.LessOrEqual(t, len(line), 40)
	}
}
