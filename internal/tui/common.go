package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/tempo/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewEntries
	viewReports
	viewCategories
	viewSettings
)

var viewNames = []string{"Dashboard", "Entries", "Reports", "Categories", "Settings"}

// --- Messages ---

type timerStartedMsg struct {
	entry store.TimeEntry
}

type timerStoppedMsg struct {
	entry *store.TimeEntry
}

type timerDiscardedMsg struct{}

type entryDeletedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}
