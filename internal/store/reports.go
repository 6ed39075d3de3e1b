package store

import (
	"sort"
	"time"
)

// Summarize is the pure aggregation over an entry collection: the sum of
// all duration fields plus a per-category breakdown. Entries with an
// empty category fall under the Uncategorized label. Durations are taken
// as given; adding the live portion of a running entry is the caller's
// job at query time.
func Summarize(entries []TimeEntry) Summary {
	sum := Summary{
		ByCategory: make(map[string]int64),
		Entries:    entries,
	}
	for _, e := range entries {
		cat := e.Category
		if cat == "" {
			cat = Uncategorized
		}
		sum.TotalSeconds += e.Duration
		sum.ByCategory[cat] += e.Duration
	}
	return sum
}

// ReadMonth returns one month's entries re-parsed from its file. When
// the running entry starts inside the requested month it is transparently
// included, so "current month" reads see the live timer.
func (s *Store) ReadMonth(year int, month time.Month) []TimeEntry {
	entries := s.months.ReadMonth(year, month)
	if e := s.running.Read(); e != nil {
		start := e.Start()
		if start.Year() == year && start.Month() == month {
			entries = append(entries, *e)
		}
	}
	return entries
}

// ReadRange returns the entries of every month overlapping the inclusive
// [from, to] range whose start time falls inside it, sorted ascending.
// A running entry that started inside the range is included.
func (s *Store) ReadRange(from, to time.Time) []TimeEntry {
	entries := s.months.ReadRange(from, to)
	if e := s.running.Read(); e != nil {
		start := e.Start()
		if !start.Before(from) && !start.After(to) {
			entries = append(entries, *e)
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].StartTime < entries[j].StartTime
			})
		}
	}
	return entries
}

// DailyReport aggregates the entries of one calendar day as of now: a
// running entry in scope contributes its live elapsed time.
func (s *Store) DailyReport(day time.Time) Report {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	next := day.AddDate(0, 0, 1)

	var scoped []TimeEntry
	for _, e := range s.ReadMonth(day.Year(), day.Month()) {
		start := e.Start()
		if !start.Before(day) && start.Before(next) {
			scoped = append(scoped, e)
		}
	}
	return Report{
		Label:   day.Format(dateLayout),
		Summary: Summarize(withLive(scoped, time.Now())),
	}
}

// MonthlyReport aggregates one calendar month as of now.
func (s *Store) MonthlyReport(year int, month time.Month) Report {
	entries := s.ReadMonth(year, month)
	return Report{
		Label:   time.Date(year, month, 1, 0, 0, 0, 0, time.Local).Format("2006-01"),
		Summary: Summarize(withLive(entries, time.Now())),
	}
}

// RangeReport aggregates an arbitrary inclusive date range spanning any
// number of monthly files; the weekly view is built on this.
func (s *Store) RangeReport(from, to time.Time) Report {
	return Report{
		Label:   from.Format("Jan 02") + " – " + to.Format("Jan 02, 2006"),
		Summary: Summarize(withLive(s.ReadRange(from, to), time.Now())),
	}
}

// withLive replaces each running entry's persisted duration with its
// live "as of now" value. Input entries are copied, not mutated.
func withLive(entries []TimeEntry, now time.Time) []TimeEntry {
	out := make([]TimeEntry, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].Running {
			out[i].Duration = LiveDuration(out[i].StartTime, out[i].Duration, now)
		}
	}
	return out
}
