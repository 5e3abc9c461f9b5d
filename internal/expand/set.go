package expand

import (
	"time"

	"github.com/teambition/rrule-go"

	"icsreport/internal/ics"
	"icsreport/internal/model"
)

// OccurrenceSet is the set of instants at which an event occurs. Sets
// built from an RRULE may be unbounded; Between evaluates incrementally
// and never materializes instants outside the requested span.
type OccurrenceSet interface {
	// Between returns the instants of the set inside the closed span,
	// ascending.
	Between(span model.Span) []time.Time
}

// BuildSet derives an event's occurrence set. Pure function of the event:
//
//   - an RRULE yields a rule-driven set anchored at the event start; the
//     rule takes precedence, so no day-splitting is layered on top;
//   - a non-recurring event whose span crosses a midnight boundary yields
//     one instant per calendar day it touches (start plus each midnight
//     strictly inside the span);
//   - anything else is the singleton {start}.
func BuildSet(ev model.Event) (OccurrenceSet, error) {
	if ev.RRule != "" {
		r, err := rrule.StrToRRule(ev.RRule)
		if err != nil {
			return nil, &ics.FieldError{UID: ev.UID, Field: "RRULE", Value: ev.RRule, Err: err}
		}
		r.DTStart(ev.Start)

		var set rrule.Set
		set.RRule(r)
		return &ruleSet{set: &set, loc: ev.Start.Location()}, nil
	}

	if firstMidnightAfter(ev.Start).Before(ev.End) {
		return daySplitSet{start: ev.Start, end: ev.End}, nil
	}

	return singletonSet{at: ev.Start}, nil
}

// singletonSet is the occurrence set of a single-day, non-recurring event.
type singletonSet struct {
	at time.Time
}

func (s singletonSet) Between(span model.Span) []time.Time {
	if !span.Contains(s.at) {
		return nil
	}
	return []time.Time{s.at}
}

// daySplitSet synthesizes one instant per calendar day of a multi-day,
// non-recurring event: the start itself, then every midnight strictly
// inside (start, end).
type daySplitSet struct {
	start time.Time
	end   time.Time
}

func (s daySplitSet) Between(span model.Span) []time.Time {
	var out []time.Time
	if span.Contains(s.start) {
		out = append(out, s.start)
	}
	for m := firstMidnightAfter(s.start); m.Before(s.end); m = m.AddDate(0, 0, 1) {
		if m.After(span.End) {
			break
		}
		if span.Contains(m) {
			out = append(out, m)
		}
	}
	return out
}

// ruleSet wraps an RRULE-driven generator. rrule iterates lazily, so an
// unbounded rule (no COUNT/UNTIL) is only ever evaluated up to the span
// end.
type ruleSet struct {
	set *rrule.Set
	loc *time.Location
}

func (s *ruleSet) Between(span model.Span) []time.Time {
	// Evaluate in the event's own location so BYDAY and friends resolve
	// against the anchor timezone.
	return s.set.Between(span.Start.In(s.loc), span.End.In(s.loc), true)
}

// firstMidnightAfter returns the first midnight strictly after t.
func firstMidnightAfter(t time.Time) time.Time {
	return model.Midnight(t).AddDate(0, 0, 1)
}
