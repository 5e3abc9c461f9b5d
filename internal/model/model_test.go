package model

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, v string) time.Time {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, v)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", v, err)
	}
	return tm
}

func TestNewSpanNormalizesInvertedBounds(t *testing.T) {
	a := mustTime(t, "2026-06-01T10:00:00Z")
	b := mustTime(t, "2026-06-03T15:00:00Z")

	s := NewSpan(b, a)
	if !s.Start.Equal(a) || !s.End.Equal(b) {
		t.Fatalf("expected normalized span [%v, %v], got [%v, %v]", a, b, s.Start, s.End)
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{
		Start: mustTime(t, "2026-06-01T00:00:00Z"),
		End:   mustTime(t, "2026-06-02T00:00:00Z"),
	}

	for _, tc := range []struct {
		at   string
		want bool
	}{
		{"2026-06-01T00:00:00Z", true},  // start inclusive
		{"2026-06-01T12:00:00Z", true},  // interior
		{"2026-06-02T00:00:00Z", true},  // end inclusive
		{"2026-05-31T23:59:59Z", false}, // before
		{"2026-06-02T00:00:01Z", false}, // after
	} {
		if got := s.Contains(mustTime(t, tc.at)); got != tc.want {
			t.Errorf("Contains(%s) = %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestSpanIntersect(t *testing.T) {
	a := Span{Start: mustTime(t, "2026-06-01T00:00:00Z"), End: mustTime(t, "2026-06-10T00:00:00Z")}
	b := Span{Start: mustTime(t, "2026-06-05T00:00:00Z"), End: mustTime(t, "2026-06-20T00:00:00Z")}

	got, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if !got.Start.Equal(b.Start) || !got.End.Equal(a.End) {
		t.Fatalf("unexpected intersection [%v, %v]", got.Start, got.End)
	}

	c := Span{Start: mustTime(t, "2026-07-01T00:00:00Z"), End: mustTime(t, "2026-07-02T00:00:00Z")}
	if _, ok := a.Intersect(c); ok {
		t.Fatal("expected no overlap with disjoint span")
	}
}

func TestOccurrenceFirstDay(t *testing.T) {
	d1 := mustTime(t, "2026-06-01T10:00:00Z")
	d2 := mustTime(t, "2026-06-02T00:00:00Z")
	d3 := mustTime(t, "2026-06-03T00:00:00Z")

	occ := Occurrence{
		Start:    d3,
		Siblings: []time.Time{d1, d2, d3},
	}
	if got := occ.FirstDay(); !got.Equal(Midnight(d1)) {
		t.Fatalf("FirstDay = %v, want %v", got, Midnight(d1))
	}

	// Without siblings the occurrence's own day is the first day.
	occ.Siblings = nil
	if got := occ.FirstDay(); !got.Equal(Midnight(d3)) {
		t.Fatalf("FirstDay without siblings = %v, want %v", got, Midnight(d3))
	}
}

func TestMidnight(t *testing.T) {
	at := mustTime(t, "2026-06-01T17:45:12Z")
	m := Midnight(at)
	if m.Hour() != 0 || m.Minute() != 0 || m.Second() != 0 {
		t.Fatalf("Midnight(%v) = %v", at, m)
	}
	if m.Day() != 1 || m.Month() != time.June {
		t.Fatalf("Midnight changed the date: %v", m)
	}
}
