package store

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func entryAt(t *testing.T, start string, durationSecs int64, category, memo string) TimeEntry {
	t.Helper()
	st, err := time.ParseInLocation("2006-01-02 15:04:05", start, time.Local)
	if err != nil {
		t.Fatalf("parse start %q: %v", start, err)
	}
	end := st.Add(time.Duration(durationSecs) * time.Second).UnixMilli()
	return TimeEntry{
		ID:        EntryID(st),
		StartTime: st.UnixMilli(),
		EndTime:   &end,
		Duration:  durationSecs,
		Category:  category,
		Memo:      memo,
	}
}

// ============================================================
// Encoding
// ============================================================

func TestEncodeRowLayout(t *testing.T) {
	e := entryAt(t, "2025-01-15 09:00:00", 5400, "Work", "Standup")
	row := EncodeRow(&e)

	fields, err := splitRow(row)
	if err != nil {
		t.Fatalf("encoded row should parse: %v", err)
	}
	if len(fields) != 8 {
		t.Fatalf("expected 8 fields, got %d: %q", len(fields), row)
	}
	want := []string{"2025-01-15", "09:00:00", "10:30:00", "5400", "90.00", "1.50", "Work", "Standup"}
	for i, w := range want {
		if fields[i] != w {
			t.Fatalf("field[%d] = %q, want %q", i, fields[i], w)
		}
	}
}

func TestEncodeRowQuotesCategoryAndMemo(t *testing.T) {
	e := entryAt(t, "2025-01-15 09:00:00", 60, "Work", "notes")
	row := EncodeRow(&e)
	if !strings.HasSuffix(row, `,"Work","notes"`) {
		t.Fatalf("category and memo should always be quoted: %q", row)
	}
}

func TestEncodeRowDoublesInternalQuotes(t *testing.T) {
	e := entryAt(t, "2025-01-15 09:00:00", 60, `Deep "Focus"`, "")
	row := EncodeRow(&e)
	if !strings.Contains(row, `"Deep ""Focus"""`) {
		t.Fatalf("internal quotes should be doubled: %q", row)
	}
}

// ============================================================
// Decoding
// ============================================================

func TestDecodeRowCurrentLayout(t *testing.T) {
	e, ok := DecodeRow(`2025-01-15,09:00:00,10:30:00,5400,90.00,1.50,"Work","Standup"`)
	if !ok {
		t.Fatal("row should decode")
	}
	if e.Duration != 5400 || e.Category != "Work" || e.Memo != "Standup" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.EndTime == nil {
		t.Fatal("end time should be set")
	}
}

func TestDecodeRowLegacyLayout(t *testing.T) {
	e, ok := DecodeRow(`2025-01-15,09:00:00,10:30:00,5400,Work,Standup`)
	if !ok {
		t.Fatal("legacy row should decode")
	}
	if e.Duration != 5400 {
		t.Fatalf("duration = %d, want 5400", e.Duration)
	}
	if e.Category != "Work" {
		t.Fatalf("category = %q, want Work", e.Category)
	}
	if e.Memo != "Standup" {
		t.Fatalf("memo = %q, want Standup", e.Memo)
	}
}

func TestDecodeRowTooFewFields(t *testing.T) {
	if _, ok := DecodeRow("2025-01-15,09:00:00,10:30:00,5400"); ok {
		t.Fatal("rows with fewer than 5 fields should be skipped")
	}
}

func TestDecodeRowHeaderSkipped(t *testing.T) {
	if _, ok := DecodeRow(logHeader); ok {
		t.Fatal("header row should be skipped")
	}
}

func TestDecodeRowBlankSkipped(t *testing.T) {
	if _, ok := DecodeRow(""); ok {
		t.Fatal("blank line should be skipped")
	}
}

func TestDecodeRowBadDateSkipped(t *testing.T) {
	if _, ok := DecodeRow(`not-a-date,09:00:00,10:30:00,5400,Work,x`); ok {
		t.Fatal("unparseable date should skip the row")
	}
}

func TestDecodeRowBadDurationSkipped(t *testing.T) {
	if _, ok := DecodeRow(`2025-01-15,09:00:00,10:30:00,abc,Work,x`); ok {
		t.Fatal("unparseable duration should skip the row")
	}
}

func TestDecodeRowIDDerivedFromContent(t *testing.T) {
	e, ok := DecodeRow(`2025-01-15,09:00:00,10:30:00,5400,Work,Standup`)
	if !ok {
		t.Fatal("row should decode")
	}
	start, _ := time.ParseInLocation("2006-01-02 15:04:05", "2025-01-15 09:00:00", time.Local)
	if e.ID != strconv.FormatInt(start.UnixMilli(), 10) {
		t.Fatalf("id = %q, want epoch millis of start time", e.ID)
	}
	if e.StartTime != start.UnixMilli() {
		t.Fatalf("startTime = %d, want %d", e.StartTime, start.UnixMilli())
	}
}

func TestDecodeRowQuotedCommaAndQuote(t *testing.T) {
	e, ok := DecodeRow(`2025-01-15,09:00:00,10:30:00,5400,90.00,1.50,"Work, deep","said ""hi"" today"`)
	if !ok {
		t.Fatal("row should decode")
	}
	if e.Category != "Work, deep" {
		t.Fatalf("category = %q", e.Category)
	}
	if e.Memo != `said "hi" today` {
		t.Fatalf("memo = %q", e.Memo)
	}
}

func TestDecodeRowCrossesMidnight(t *testing.T) {
	e, ok := DecodeRow(`2025-01-15,23:30:00,00:15:00,2700,Work,late`)
	if !ok {
		t.Fatal("row should decode")
	}
	end := time.UnixMilli(*e.EndTime)
	if !end.After(e.Start()) {
		t.Fatalf("end %v should be after start %v", end, e.Start())
	}
	if end.Day() == e.Start().Day() {
		t.Fatal("end should roll over to the next day")
	}
}

// ============================================================
// Round trip
// ============================================================

func TestRoundTrip(t *testing.T) {
	cases := []TimeEntry{
		entryAt(t, "2025-01-15 09:00:00", 5400, "Work", "Standup"),
		entryAt(t, "2025-03-01 23:59:59", 1, "Personal", ""),
		entryAt(t, "2025-06-10 12:00:00", 60, "a,b", `q"uote`),
		entryAt(t, "2025-06-10 13:00:00", 3600, "", "memo, with, commas"),
	}

	for _, in := range cases {
		out, ok := DecodeRow(EncodeRow(&in))
		if !ok {
			t.Fatalf("round trip failed to decode %+v", in)
		}
		if out.StartTime != in.StartTime {
			t.Fatalf("startTime %d != %d", out.StartTime, in.StartTime)
		}
		if out.EndTime == nil || *out.EndTime != *in.EndTime {
			t.Fatalf("endTime mismatch for %+v", in)
		}
		if out.Duration != in.Duration {
			t.Fatalf("duration %d != %d", out.Duration, in.Duration)
		}
		if out.Category != in.Category || out.Memo != in.Memo {
			t.Fatalf("category/memo mismatch: got %q/%q want %q/%q",
				out.Category, out.Memo, in.Category, in.Memo)
		}
		if out.ID != in.ID {
			t.Fatalf("id %q != %q", out.ID, in.ID)
		}
	}
}
