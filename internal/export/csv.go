// Package export writes the loaded entry collection to standalone CSV or
// JSON files, independent of the monthly log layout the store maintains.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/tempo/internal/store"
)

func ToCSV(entries []store.TimeEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Category", "Start", "End", "Duration (s)", "Duration", "Memo"}); err != nil {
		return err
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
		dur := formatDuration(e.Duration)

		row := []string{
			e.ID,
			category,
			e.Start().Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", e.Duration),
			dur,
			e.Memo,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
