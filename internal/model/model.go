package model

import "time"

// Span is a closed time interval [Start, End].
type Span struct {
	Start time.Time
	End   time.Time
}

// NewSpan builds a Span, normalizing inverted bounds.
func NewSpan(start, end time.Time) Span {
	if end.Before(start) {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Contains reports whether t lies inside the span (bounds inclusive).
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

// Overlaps reports whether the two spans share at least one instant.
func (s Span) Overlaps(o Span) bool {
	return !s.End.Before(o.Start) && !o.End.Before(s.Start)
}

// Intersect returns the overlapping portion of two spans, if any.
func (s Span) Intersect(o Span) (Span, bool) {
	if !s.Overlaps(o) {
		return Span{}, false
	}
	out := s
	if o.Start.After(out.Start) {
		out.Start = o.Start
	}
	if o.End.Before(out.End) {
		out.End = o.End
	}
	return out, true
}

// Event is the canonical representation of one calendar entry, immutable
// after normalization. One Event may yield many Occurrences.
type Event struct {
	SourceID string // calendar source ID (config ID or CLI position)
	UID      string // iCalendar UID, may be empty for malformed feeds

	Summary     string
	Description string

	AllDay bool

	// Start / End in the event's own timezone. End >= Start. For all-day
	// events End has already been pulled back from the exclusive DTEND
	// convention, so a one-day event has End == Start.
	Start time.Time
	End   time.Time

	// RRule is the raw RRULE text, empty for non-recurring events.
	RRule string
}

// Duration returns the event's original duration.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Occurrence is a single concrete appearance of an Event inside the report
// window, in the display timezone. Presentation never writes back to the
// shared Event; formatting works on copies.
type Occurrence struct {
	Event Event

	// Start / End bound this specific occurrence.
	Start time.Time
	End   time.Time

	// Siblings is the window-clipped list of all instants at which the
	// owning event occurs, ascending, in the display timezone. Shared and
	// read-only across the event's occurrences.
	Siblings []time.Time
}

// Day returns midnight of the occurrence's calendar day.
func (o Occurrence) Day() time.Time {
	return Midnight(o.Start)
}

// FirstDay returns the earliest calendar day at which the owning event
// appears inside the window. Used for cross-referencing later days of a
// multi-day event back to the first entry.
func (o Occurrence) FirstDay() time.Time {
	if len(o.Siblings) == 0 {
		return o.Day()
	}
	return Midnight(o.Siblings[0])
}

// Midnight truncates t to the start of its calendar day, keeping location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
