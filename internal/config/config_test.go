package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	d := Default()
	if c.WeekStart != d.WeekStart || c.DailyGoalHours != d.DailyGoalHours {
		t.Fatalf("expected defaults, got %+v", c)
	}
	if len(c.Categories) == 0 || c.DefaultCategory == "" {
		t.Fatal("defaults should seed categories")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	c := Default()
	c.DataDir = "/tmp/tempo-data"
	c.WeekStart = "sunday"
	c.DailyGoalHours = 6.5
	c.Categories = []string{"Work", "Reading"}
	c.DefaultCategory = "Reading"

	if err := Save(path, c); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.DataDir != c.DataDir || got.WeekStart != "sunday" || got.DailyGoalHours != 6.5 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Categories) != 2 || got.DefaultCategory != "Reading" {
		t.Fatalf("categories mismatch: %+v", got)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("daily_goal_hours = 4.0\n"), 0o644)

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.DailyGoalHours != 4.0 {
		t.Fatalf("daily_goal_hours = %v, want 4", c.DailyGoalHours)
	}
	if c.WeekStart != "monday" {
		t.Fatalf("unset fields should keep defaults, got %q", c.WeekStart)
	}
}

func TestLoadInvalidWeekStartNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("week_start = \"friday\"\n"), 0o644)

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.WeekStart != "monday" {
		t.Fatalf("invalid week_start should normalize to monday, got %q", c.WeekStart)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("week_start = [broken"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDefaultPaths(t *testing.T) {
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p == "" {
		t.Fatal("empty config path")
	}
	d, err := DefaultDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if d == "" {
		t.Fatal("empty data dir")
	}
}
