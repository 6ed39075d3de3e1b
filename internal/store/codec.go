package store

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"
)

// The monthly logs are deliberately human-editable, so the codec is strict
// on output and tolerant on input: one row per finalized entry, category and
// memo always quoted with internal quotes doubled, and a decoder that skips
// any row it cannot make sense of instead of failing the file.

const logHeader = "Date,Start Time,End Time,Duration(seconds),Duration(minutes),Duration(hours),Category,Memo"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Field counts per layout. Rows with at least currentFieldCount fields use
// the current 8-field layout; anything from legacyFieldCount up uses the
// historical 6-field layout (no minutes/hours columns).
const (
	currentFieldCount = 8
	legacyFieldCount  = 5
)

// EncodeRow renders a finalized entry as one log row. Running entries are
// never encoded; a nil EndTime produces an empty end-time field.
func EncodeRow(e *TimeEntry) string {
	start := time.UnixMilli(e.StartTime)
	end := ""
	if e.EndTime != nil {
		end = time.UnixMilli(*e.EndTime).Format(timeLayout)
	}
	mins := strconv.FormatFloat(float64(e.Duration)/60, 'f', 2, 64)
	hours := strconv.FormatFloat(float64(e.Duration)/3600, 'f', 2, 64)

	fields := []string{
		start.Format(dateLayout),
		start.Format(timeLayout),
		end,
		strconv.FormatInt(e.Duration, 10),
		mins,
		hours,
		quoteField(e.Category),
		quoteField(e.Memo),
	}
	return strings.Join(fields, ",")
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// DecodeRow parses one log row. The second return value is false when the
// row is the header, blank, or malformed; such rows are skipped, never
// fatal to the surrounding file read.
func DecodeRow(line string) (TimeEntry, bool) {
	line = strings.TrimRight(line, "\r")
	if line == "" || strings.HasPrefix(line, "Date,") {
		return TimeEntry{}, false
	}
	fields, err := splitRow(line)
	if err != nil {
		return TimeEntry{}, false
	}
	return decodeFields(fields)
}

// splitRow splits a comma-delimited row honoring quoted fields: a comma
// inside quotes does not terminate the field and a doubled quote is one
// literal quote character.
func splitRow(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r.Read()
}

func decodeFields(fields []string) (TimeEntry, bool) {
	if len(fields) < legacyFieldCount {
		return TimeEntry{}, false
	}

	start, err := time.ParseInLocation(dateLayout+" "+timeLayout, fields[0]+" "+fields[1], time.Local)
	if err != nil {
		return TimeEntry{}, false
	}
	duration, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return TimeEntry{}, false
	}

	// Layout detection by field count: >=8 is the current layout, anything
	// shorter falls back to the legacy 6-field layout.
	category, memo := fields[4], ""
	if len(fields) >= currentFieldCount {
		category, memo = fields[6], fields[7]
	} else if len(fields) > legacyFieldCount {
		memo = fields[5]
	}

	e := TimeEntry{
		ID:        EntryID(start),
		StartTime: start.UnixMilli(),
		Duration:  duration,
		Category:  category,
		Memo:      memo,
	}

	if end := strings.TrimSpace(fields[2]); end != "" {
		if t, err := time.ParseInLocation(timeLayout, end, time.Local); err == nil {
			endAt := time.Date(start.Year(), start.Month(), start.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.Local)
			// An end clock-time earlier than the start means the entry
			// crossed midnight.
			if endAt.Before(start) {
				endAt = endAt.AddDate(0, 0, 1)
			}
			millis := endAt.UnixMilli()
			e.EndTime = &millis
		}
	}
	return e, true
}
