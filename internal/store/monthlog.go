package store

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/tempo/internal/storage"
)

// monthLog maps a (year, month) key to the YYYY-MM.csv file holding that
// month's finalized entries. All operations re-derive row ids from row
// content (see codec.go); no id is ever stored in the file.
type monthLog struct {
	files storage.Adapter
	log   *slog.Logger
}

func monthFileName(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d.csv", year, int(month))
}

func fileForEntry(e *TimeEntry) string {
	t := e.Start()
	return monthFileName(t.Year(), t.Month())
}

// parseEntryID recovers the start time an id encodes. Ids are decimal
// epoch-millisecond strings, so this is the inverse of EntryID.
func parseEntryID(id string) (time.Time, bool) {
	millis, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// Upsert writes the entry into the monthly file implied by its start
// time, creating the file with a header when absent. When an existing
// row derives to the same id, that row is overwritten in place rather
// than duplicated.
func (m *monthLog) Upsert(e *TimeEntry) error {
	name := fileForEntry(e)
	exists, err := m.files.Exists(name)
	if err != nil {
		return fmt.Errorf("check %s: %w", name, err)
	}
	if !exists {
		content := logHeader + "\n" + EncodeRow(e) + "\n"
		if err := m.files.Write(name, content); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		return nil
	}

	content, err := m.files.Read(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	replaced := false
	for i, line := range lines {
		row, ok := DecodeRow(line)
		if !ok {
			continue
		}
		if row.ID == e.ID {
			lines[i] = EncodeRow(e)
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, EncodeRow(e))
	}

	if err := m.files.Write(name, strings.Join(lines, "\n")+"\n"); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Delete removes the row matching id from the monthly file the id's
// embedded timestamp points at. A missing file or row is a silent no-op.
func (m *monthLog) Delete(id string) error {
	start, ok := parseEntryID(id)
	if !ok {
		return nil
	}
	name := monthFileName(start.Year(), start.Month())

	exists, err := m.files.Exists(name)
	if err != nil {
		return fmt.Errorf("check %s: %w", name, err)
	}
	if !exists {
		return nil
	}

	content, err := m.files.Read(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	var kept []string
	removed := false
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if row, ok := DecodeRow(line); ok && row.ID == id {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return nil
	}

	if err := m.files.Write(name, strings.Join(kept, "\n")+"\n"); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ReadMonth returns the decoded entries of one monthly file. A missing
// or unreadable file yields an empty result.
func (m *monthLog) ReadMonth(year int, month time.Month) []TimeEntry {
	return m.readFile(monthFileName(year, month))
}

func (m *monthLog) readFile(name string) []TimeEntry {
	exists, err := m.files.Exists(name)
	if err != nil {
		m.log.Error("checking monthly log", "file", name, "err", err)
		return nil
	}
	if !exists {
		return nil
	}

	content, err := m.files.Read(name)
	if err != nil {
		m.log.Error("reading monthly log", "file", name, "err", err)
		return nil
	}

	var entries []TimeEntry
	skipped := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "Date,") {
			continue
		}
		e, ok := DecodeRow(line)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	if skipped > 0 {
		m.log.Warn("skipped malformed rows", "file", name, "rows", skipped)
	}
	return entries
}

// ReadRange reads every monthly file overlapping the inclusive
// [from, to] range and returns the entries whose start time falls inside
// it, sorted ascending. A corrupt month contributes nothing and never
// aborts the query.
func (m *monthLog) ReadRange(from, to time.Time) []TimeEntry {
	var entries []TimeEntry
	for cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.Local); !cursor.After(to); cursor = cursor.AddDate(0, 1, 0) {
		for _, e := range m.ReadMonth(cursor.Year(), cursor.Month()) {
			start := e.Start()
			if start.Before(from) || start.After(to) {
				continue
			}
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries
}
