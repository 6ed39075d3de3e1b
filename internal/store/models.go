package store

import (
	"strconv"
	"time"
)

// TimeEntry is one tracked interval, running or finalized.
//
// The ID is not stored in the monthly logs; it is re-derived from the
// date and start-time fields on every load (see codec.go), so it is
// always the decimal epoch-millisecond form of StartTime. Encoded rows
// carry only second precision, which is why start times are held at
// whole seconds everywhere: a sub-second start would re-derive to a
// different id on reload.
type TimeEntry struct {
	ID        string `json:"id"`
	StartTime int64  `json:"startTime"` // epoch milliseconds
	EndTime   *int64 `json:"endTime,omitempty"`
	Duration  int64  `json:"duration"` // seconds
	Category  string `json:"category"`
	Memo      string `json:"memo"`
	Running   bool   `json:"isRunning"`
}

// Start returns the entry's start time in the local timezone.
func (e *TimeEntry) Start() time.Time {
	return time.UnixMilli(e.StartTime)
}

// EntryID derives the canonical id for an entry starting at t. The
// sub-second part is dropped first so that an id derived before encoding
// equals the one re-derived from the second-precision row after decoding.
func EntryID(t time.Time) string {
	return strconv.FormatInt(truncateToSecond(t.UnixMilli()), 10)
}

// truncateToSecond drops the sub-second part of an epoch-millisecond
// timestamp.
func truncateToSecond(millis int64) int64 {
	return millis - millis%1000
}

// LiveDuration computes an "as of now" duration in whole seconds for a
// running entry: the persisted duration plus the wall-clock elapsed time.
func LiveDuration(startMillis, storedSeconds int64, now time.Time) int64 {
	return storedSeconds + (now.UnixMilli()-startMillis)/1000
}

// EntryUpdate carries a partial edit; nil fields are left untouched.
type EntryUpdate struct {
	StartTime *int64
	EndTime   *int64
	Duration  *int64
	Category  *string
	Memo      *string
}

// CategoryConfig is the persisted category list with its default and colors.
// Invariant: every listed category has a color.
type CategoryConfig struct {
	Categories      []string          `json:"categories"`
	DefaultCategory string            `json:"defaultCategory"`
	CategoryColors  map[string]string `json:"categoryColors"`
}

// defaultPalette is the fixed color cycle for categories without an
// explicit color. Assignment is by index, never random, so repeated
// loads of the same category list are stable.
var defaultPalette = []string{
	"#6C63FF",
	"#2EC4B6",
	"#FF6B6B",
	"#F39C12",
	"#2ECC71",
	"#7AA2F7",
	"#E74C3C",
	"#9B59B6",
}

// Palette returns a copy of the fixed color cycle, in assignment order.
func Palette() []string {
	out := make([]string, len(defaultPalette))
	copy(out, defaultPalette)
	return out
}

// FallbackColor is used for categories missing from the color map,
// including unknown categories referenced by historical entries.
const FallbackColor = "#666666"

// Uncategorized is the category label range reports substitute for
// entries whose category field is empty.
const Uncategorized = "Uncategorized"

// Summary is the aggregate over an entry collection: total duration and
// the per-category breakdown, both in seconds. Derived on every request,
// never persisted.
type Summary struct {
	TotalSeconds int64
	ByCategory   map[string]int64
	Entries      []TimeEntry
}

// Report is a Summary labeled with the period it covers.
type Report struct {
	Label string
	Summary
}
