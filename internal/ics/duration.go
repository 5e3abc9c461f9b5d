package ics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// parseICSDuration parses an RFC 5545 DURATION value such as "PT1S",
// "P1DT2H30M" or "-P2W" into a time.Duration.
//
// The underlying ICS library does not expose its duration handling as a
// standalone parser, so this mirrors the grammar directly: an optional
// sign, "P", date components (weeks/days), then "T" and time components.
func parseICSDuration(v string) (time.Duration, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, errors.New("empty duration value")
	}

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	if len(s) == 0 || s[0] != 'P' {
		return 0, fmt.Errorf("duration %q: missing P designator", v)
	}
	s = s[1:]

	var total time.Duration
	components := 0
	inTime := false
	num := -1

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			if num < 0 {
				num = 0
			}
			num = num*10 + int(c-'0')

		case c == 'T':
			if inTime || num >= 0 {
				return 0, fmt.Errorf("duration %q: misplaced T designator", v)
			}
			inTime = true

		default:
			if num < 0 {
				return 0, fmt.Errorf("duration %q: designator %q without a value", v, string(c))
			}
			var unit time.Duration
			switch {
			case c == 'W' && !inTime:
				unit = 7 * 24 * time.Hour
			case c == 'D' && !inTime:
				unit = 24 * time.Hour
			case c == 'H' && inTime:
				unit = time.Hour
			case c == 'M' && inTime:
				unit = time.Minute
			case c == 'S' && inTime:
				unit = time.Second
			default:
				return 0, fmt.Errorf("duration %q: unexpected designator %q", v, string(c))
			}
			total += time.Duration(num) * unit
			num = -1
			components++
		}
	}

	if num >= 0 {
		return 0, fmt.Errorf("duration %q: trailing number without designator", v)
	}
	if components == 0 {
		return 0, fmt.Errorf("duration %q: no components", v)
	}

	if neg {
		total = -total
	}
	return total, nil
}
