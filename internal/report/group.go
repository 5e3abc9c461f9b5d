package report

import (
	"sort"
	"time"

	"icsreport/internal/model"
)

// Entry is one occurrence slotted into the report, with its header flag.
type Entry struct {
	Occurrence model.Occurrence

	// FirstOfDay is true for the first entry shown on a calendar day; it
	// controls whether the date header is printed.
	FirstOfDay bool
}

// DayGroup holds the ordered entries of one calendar day.
type DayGroup struct {
	Day     time.Time
	Entries []Entry
}

// Group buckets occurrences by calendar day (independent of source
// document), orders days ascending and orders entries within a day:
// all-day events first (by summary), then timed events by start. The
// first entry of each day is flagged.
func Group(occs []model.Occurrence) []DayGroup {
	byDay := make(map[time.Time][]model.Occurrence)
	for _, o := range occs {
		d := o.Day()
		byDay[d] = append(byDay[d], o)
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	groups := make([]DayGroup, 0, len(days))
	for _, d := range days {
		list := byDay[d]
		sort.SliceStable(list, func(i, j int) bool { return occurrenceLess(list[i], list[j]) })

		entries := make([]Entry, len(list))
		for i, o := range list {
			entries[i] = Entry{Occurrence: o, FirstOfDay: i == 0}
		}
		groups = append(groups, DayGroup{Day: d, Entries: entries})
	}

	return groups
}

// occurrenceLess is the within-day display order: all-day before timed;
// all-day by summary; timed by start, summary breaking ties.
func occurrenceLess(a, b model.Occurrence) bool {
	if a.Event.AllDay != b.Event.AllDay {
		return a.Event.AllDay
	}
	if a.Event.AllDay {
		return a.Event.Summary < b.Event.Summary
	}
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	return a.Event.Summary < b.Event.Summary
}
