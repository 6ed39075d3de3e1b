package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/tempo/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Memo        string `json:"memo,omitempty"`
	Running     bool   `json:"running,omitempty"`
}

func ToJSON(entries []store.TimeEntry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		category := e.Category
		if category == "" {
			category = store.Uncategorized
		}
		endStr := ""
		if e.EndTime != nil {
			endStr = time.UnixMilli(*e.EndTime).Local().Format(time.RFC3339)
		}

		export.Entries = append(export.Entries, jsonEntry{
			ID:          e.ID,
			Category:    category,
			StartTime:   e.Start().Local().Format(time.RFC3339),
			EndTime:     endStr,
			DurationSec: e.Duration,
			Duration:    formatDuration(e.Duration),
			Memo:        e.Memo,
			Running:     e.Running,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
