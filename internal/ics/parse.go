package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "icsreport/internal/log"
	"icsreport/internal/model"
)

// defaultDuration is applied when a VEVENT has neither DTEND nor DURATION.
const defaultDuration = time.Second

// Parse parses a single ICS payload into canonical events.
//
//   - It relies on the underlying library's VTIMEZONE/TZID handling to
//     construct proper time.Time values (with Location set).
//   - It detects all-day events by inspecting the DTSTART value format.
//   - It records RRULE text but does not expand recurrences; expansion is
//     done in internal/expand.
//
// Events without a SUMMARY are skipped silently. Events with malformed
// date/duration values are returned in fieldErrs (one *FieldError each);
// the caller chooses whether to skip them or abort. err is non-nil only
// when the document as a whole cannot be parsed.
func Parse(src Source, body []byte) (events []model.Event, fieldErrs []error, err error) {
	if len(body) == 0 {
		return nil, nil, errors.New("empty calendar body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "location", src.Redacted())
		return nil, nil, err
	}

	for _, comp := range cal.Events() {
		ev, perr := normalizeVEvent(src, comp)
		if perr != nil {
			if errors.Is(perr, ErrNoSummary) {
				appLog.Debug("skipping event without summary", "id", src.ID)
				continue
			}
			appLog.Error("ics vevent normalize failed", perr, "id", src.ID, "location", src.Redacted())
			fieldErrs = append(fieldErrs, perr)
			continue
		}
		events = append(events, ev)
	}

	appLog.Info("ics parse completed", "id", src.ID, "location", src.Redacted(), "event_count", len(events))
	return events, fieldErrs, nil
}

// normalizeVEvent derives the canonical Event from one VEVENT component.
func normalizeVEvent(src Source, ve *ical.VEvent) (model.Event, error) {
	var out model.Event
	out.SourceID = src.ID

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}

	// No SUMMARY means the entry is not reportable.
	sumProp := ve.GetProperty(ical.ComponentPropertySummary)
	if sumProp == nil {
		return out, ErrNoSummary
	}
	out.Summary = unescapeText(sumProp.Value)

	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = unescapeText(p.Value)
	}

	// DTSTART. The library's helpers handle timezone logic; the all-day
	// variant covers VALUE=DATE values.
	dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStartProp == nil {
		return out, &FieldError{UID: out.UID, Field: "DTSTART", Err: errors.New("missing")}
	}
	start, err := ve.GetStartAt()
	if err != nil {
		if start, err = ve.GetAllDayStartAt(); err != nil {
			return out, &FieldError{UID: out.UID, Field: "DTSTART", Value: dtStartProp.Value, Err: err}
		}
	}
	out.Start = start

	// All-day detection looks at DTSTART only: VALUE=DATE or a value
	// without a time part. Deliberately not cross-checked against
	// DTEND/DURATION.
	out.AllDay = isDateOnly(dtStartProp)

	end, err := eventEnd(ve, out.UID, start)
	if err != nil {
		return out, err
	}

	// Calendar convention: an all-day DTEND is exclusive of the final day,
	// so pull a one-day span back onto its start date.
	if out.AllDay && end.Equal(start.AddDate(0, 0, 1)) {
		end = end.AddDate(0, 0, -1)
	}
	if end.Before(start) {
		end = start
	}
	out.End = end

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RRule = p.Value
	}

	return out, nil
}

// eventEnd computes the event end: DTEND if present, else DTSTART plus
// DURATION, else DTSTART plus one second.
func eventEnd(ve *ical.VEvent, uid string, start time.Time) (time.Time, error) {
	if dtEndProp := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEndProp != nil {
		end, err := ve.GetEndAt()
		if err != nil {
			if end, err = ve.GetAllDayEndAt(); err != nil {
				return time.Time{}, &FieldError{UID: uid, Field: "DTEND", Value: dtEndProp.Value, Err: err}
			}
		}
		return end, nil
	}

	// Use the raw property name to avoid depending on constant variants.
	if durProp := ve.GetProperty("DURATION"); durProp != nil {
		d, err := parseICSDuration(durProp.Value)
		if err != nil {
			return time.Time{}, &FieldError{UID: uid, Field: "DURATION", Value: durProp.Value, Err: err}
		}
		return start.Add(d), nil
	}

	return start.Add(defaultDuration), nil
}

// isDateOnly reports whether a DTSTART property carries a date-only value,
// either via VALUE=DATE or a value without a 'T' separator.
func isDateOnly(p *ical.IANAProperty) bool {
	if p == nil {
		return false
	}
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

// unescapeText resolves iCalendar backslash escapes: every `\X` becomes
// `X`. A trailing lone backslash is kept as-is.
func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	esc := false
	for _, r := range s {
		if esc {
			b.WriteRune(r)
			esc = false
			continue
		}
		if r == '\\' {
			esc = true
			continue
		}
		b.WriteRune(r)
	}
	if esc {
		b.WriteByte('\\')
	}
	return b.String()
}
