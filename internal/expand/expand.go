package expand

import (
	"errors"
	"time"

	appLog "icsreport/internal/log"
	"icsreport/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// Config controls window intersection.
type Config struct {
	// Window is the inclusive report window.
	Window model.Span

	// DisplayLocation is the timezone into which all occurrences are
	// converted. If nil, time.Local is used.
	DisplayLocation *time.Location

	// MaxOccurrencesPerEvent is a safety cap against runaway rules. If
	// zero, defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int
}

// Result wraps the window-clipped occurrences plus diagnostics.
type Result struct {
	Occurrences []model.Occurrence

	// Truncated records UIDs that hit the MaxOccurrencesPerEvent cap.
	Truncated []string

	// BadRules collects RRULE parse failures (one *ics.FieldError each).
	// The affected events produce no occurrences; the caller decides
	// whether that aborts the run.
	BadRules []error
}

// Expand intersects each event's occurrence set with the window and emits
// the surviving instants as Occurrences in the display timezone. Events
// with no instant inside the window are dropped entirely. Each Occurrence
// carries the full clipped instant list of its owning event so that the
// formatter can find the earliest day the event appears.
func Expand(events []model.Event, cfg Config) (Result, error) {
	var result Result

	if cfg.Window.End.Before(cfg.Window.Start) {
		return result, errors.New("expand: window end is before window start")
	}
	loc := cfg.DisplayLocation
	if loc == nil {
		loc = time.Local
	}
	maxPer := cfg.MaxOccurrencesPerEvent
	if maxPer <= 0 {
		maxPer = defaultMaxOccurrencesPerEvent
	}

	for _, ev := range events {
		set, err := BuildSet(ev)
		if err != nil {
			appLog.Error("expand: failed to build occurrence set", err, "uid", ev.UID, "summary", ev.Summary)
			result.BadRules = append(result.BadRules, err)
			continue
		}

		instants := set.Between(cfg.Window)
		if len(instants) == 0 {
			continue
		}
		if len(instants) > maxPer {
			instants = instants[:maxPer]
			result.Truncated = append(result.Truncated, ev.UID)
			appLog.Warn("expand: truncated occurrences due to cap", "uid", ev.UID, "cap", maxPer)
		}

		siblings := make([]time.Time, len(instants))
		for i, t := range instants {
			siblings[i] = t.In(loc)
		}

		dur := ev.Duration()
		for _, dt := range siblings {
			result.Occurrences = append(result.Occurrences, makeOccurrence(ev, dt, dur, siblings, loc))
		}
	}

	return result, nil
}

// makeOccurrence computes one occurrence's own span. A rule-driven
// occurrence preserves the original duration from its instant; a
// non-recurring occurrence (including later days of a day-split event)
// ends at the event's real end.
func makeOccurrence(ev model.Event, dt time.Time, dur time.Duration, siblings []time.Time, loc *time.Location) model.Occurrence {
	occ := model.Occurrence{
		Event:    ev,
		Start:    dt,
		Siblings: siblings,
	}
	if ev.RRule != "" {
		occ.End = dt.Add(dur)
	} else {
		end := ev.End.In(loc)
		if end.Before(dt) {
			end = dt
		}
		occ.End = end
	}
	return occ
}
