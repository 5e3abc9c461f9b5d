package ics

import (
	"errors"
	"fmt"
)

// ErrNoSummary marks a VEVENT with no SUMMARY property. Such entries are
// not reportable and are skipped silently rather than treated as failures.
var ErrNoSummary = errors.New("event has no summary")

// FieldError reports a malformed value in a single named field of one
// event (DTSTART, DTEND, DURATION, RRULE). The caller decides whether to
// skip the event or abort the run.
type FieldError struct {
	UID   string
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: bad value %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
