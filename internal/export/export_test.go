package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/tempo/internal/store"
)

func sampleData() []store.TimeEntry {
	now := time.Now()
	end := now.UnixMilli()

	return []store.TimeEntry{
		{
			ID:        store.EntryID(now.Add(-1 * time.Hour)),
			StartTime: now.Add(-1 * time.Hour).UnixMilli(),
			EndTime:   &end,
			Duration:  3600,
			Category:  "Work",
			Memo:      "worked on feature",
		},
		{
			ID:        store.EntryID(now.Add(-30 * time.Minute)),
			StartTime: now.Add(-30 * time.Minute).UnixMilli(),
			EndTime:   &end,
			Duration:  1800,
			Category:  "Personal",
		},
		{
			ID:        store.EntryID(now.Add(-10 * time.Minute)),
			StartTime: now.Add(-10 * time.Minute).UnixMilli(),
			EndTime:   nil, // still running
			Duration:  0,
			Running:   true,
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	entries := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	err := ToCSV(entries, path)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"ID", "Category", "Start", "End", "Duration (s)", "Duration", "Memo"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[1] != "Work" {
		t.Fatalf("Category = %q, want Work", row[1])
	}
	if row[4] != "3600" {
		t.Fatalf("Duration (s) = %q, want 3600", row[4])
	}
	if row[5] != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", row[5])
	}
	if row[6] != "worked on feature" {
		t.Fatalf("Memo = %q, want 'worked on feature'", row[6])
	}

	// Running entry has empty end time and the uncategorized fallback
	runningRow := records[3]
	if runningRow[3] != "" {
		t.Fatalf("running entry should have empty end time, got %q", runningRow[3])
	}
	if runningRow[1] != store.Uncategorized {
		t.Fatalf("empty category should export as %q, got %q", store.Uncategorized, runningRow[1])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	err := ToCSV(nil, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	now := time.Now()
	end := now.UnixMilli()
	entries := []store.TimeEntry{
		{
			ID:        store.EntryID(now),
			StartTime: now.UnixMilli(),
			EndTime:   &end,
			Duration:  60,
			Category:  `Deep "Focus"`,
			Memo:      `memo with "quotes" and, commas`,
		},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	err := ToCSV(entries, path)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Deep "Focus"` {
		t.Fatalf("category mangled: %q", records[1][1])
	}
	if records[1][6] != `memo with "quotes" and, commas` {
		t.Fatalf("memo mangled: %q", records[1][6])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	entries := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	err := ToJSON(entries, path)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(result.Entries))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	e := result.Entries[0]
	if e.Category != "Work" {
		t.Fatalf("Category = %q, want Work", e.Category)
	}
	if e.DurationSec != 3600 {
		t.Fatalf("DurationSec = %d, want 3600", e.DurationSec)
	}
	if e.Duration != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", e.Duration)
	}
	if e.Memo != "worked on feature" {
		t.Fatalf("Memo = %q", e.Memo)
	}

	running := result.Entries[2]
	if running.EndTime != "" {
		t.Fatalf("running entry end_time should be empty, got %q", running.EndTime)
	}
	if !running.Running {
		t.Fatal("running entry should be flagged")
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	err := ToJSON(nil, path)
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Entries != nil {
		t.Fatal("entries should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	// Pretty-printed JSON should contain newlines and indentation
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamps(t *testing.T) {
	entries := sampleData()
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON(entries, path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	for _, e := range result.Entries {
		if _, err := time.Parse(time.RFC3339, e.StartTime); err != nil {
			t.Fatalf("start_time is not valid RFC3339: %q", e.StartTime)
		}
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{86400, "24:00:00"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.secs)
		if got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
