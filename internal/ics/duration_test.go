package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseICSDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT1S", time.Second},
		{"PT15M", 15 * time.Minute},
		{"PT1H30M", 90 * time.Minute},
		{"P1D", 24 * time.Hour},
		{"P1DT2H30M", 26*time.Hour + 30*time.Minute},
		{"P2W", 14 * 24 * time.Hour},
		{"-PT30M", -30 * time.Minute},
		{"+PT5S", 5 * time.Second},
		{" PT1S ", time.Second},
	}
	for _, tc := range tests {
		got, err := parseICSDuration(tc.in)
		require.NoError(t, err, "parseICSDuration(%q)", tc.in)
		assert.Equal(t, tc.want, got, "parseICSDuration(%q)", tc.in)
	}
}

func TestParseICSDurationRejectsMalformedValues(t *testing.T) {
	for _, in := range []string{
		"",
		"1H",      // missing P
		"P",       // no components
		"PT",      // no components
		"PTS",     // designator without value
		"P1D2H",   // time designator outside T section
		"PT1H5",   // trailing number
		"P1DT1W",  // week inside T section
		"PT1H T5", // garbage
	} {
		_, err := parseICSDuration(in)
		assert.Error(t, err, "parseICSDuration(%q)", in)
	}
}
