package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tempo/internal/config"
	"github.com/sadopc/tempo/internal/store"
)

const recentLimit = 5

type dashboardModel struct {
	store  *store.Store
	cfg    *config.Config
	width  int
	height int

	today  store.Report
	recent []store.TimeEntry
	cats   store.CategoryConfig

	// Category picker state
	picking      bool
	pickerCursor int
}

func newDashboardModel(s *store.Store, cfg *config.Config) dashboardModel {
	return dashboardModel{store: s, cfg: cfg}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.store.Running() != nil }

func (d dashboardModel) elapsed() time.Duration {
	e := d.store.Running()
	if e == nil {
		return 0
	}
	secs := store.LiveDuration(e.StartTime, e.Duration, time.Now())
	return time.Duration(secs) * time.Second
}

type dashboardDataMsg struct {
	today  store.Report
	recent []store.TimeEntry
	cats   store.CategoryConfig
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		all := d.store.All()
		n := min(recentLimit, len(all))
		recent := make([]store.TimeEntry, 0, n)
		for i := len(all) - 1; i >= len(all)-n; i-- {
			recent = append(recent, all[i])
		}

		return dashboardDataMsg{
			today:  d.store.DailyReport(time.Now()),
			recent: recent,
			cats:   d.store.Categories(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.today = msg.today
		d.recent = msg.recent
		d.cats = msg.cats
		return d, nil

	case tickMsg:
		// Elapsed time is derived from the running entry at render time.
		// While a timer runs, today's totals keep counting too.
		if d.isRunning() {
			d.today = d.store.DailyReport(time.Now())
		}
		return d, nil

	case tea.KeyMsg:
		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if d.isRunning() {
				return d, nil
			}
			if len(d.cats.Categories) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No categories yet. Press 4 to create one.", isError: true}
				}
			}
			if len(d.cats.Categories) == 1 {
				return d.startTimer(d.cats.Categories[0])
			}
			d.picking = true
			d.pickerCursor = d.defaultCategoryIndex()
			return d, nil

		case key.Matches(msg, keys.Stop):
			return d.stopTimer()

		case key.Matches(msg, keys.Discard):
			if !d.isRunning() {
				return d, nil
			}
			if err := d.store.CancelTimer(); err != nil {
				return d, errStatus("Discard error", err)
			}
			return d, tea.Batch(
				d.loadData(),
				func() tea.Msg { return timerDiscardedMsg{} },
			)
		}
	}
	return d, nil
}

func (d dashboardModel) defaultCategoryIndex() int {
	for i, c := range d.cats.Categories {
		if c == d.cats.DefaultCategory {
			return i
		}
	}
	return 0
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(d.cats.Categories)-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		cat := d.cats.Categories[d.pickerCursor]
		d.picking = false
		return d.startTimer(cat)
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

func (d dashboardModel) startTimer(category string) (dashboardModel, tea.Cmd) {
	entry, err := d.store.StartTimer(category, "")
	if err != nil {
		return d, errStatus("Start error", err)
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return timerStartedMsg{entry: entry} },
	)
}

func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	entry, err := d.store.StopTimer()
	if err != nil {
		return d, errStatus("Stop error", err)
	}
	if entry == nil {
		return d, func() tea.Msg {
			return statusMsg{text: "No timer running"}
		}
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return timerStoppedMsg{entry: entry} },
	)
}

func errStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	summaryPanel := d.renderSummaryPanel(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderCategoryPicker(contentWidth)
	} else {
		bottomPanel = d.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, summaryPanel, bottomPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if e := d.store.Running(); e != nil {
		timeStr := formatDuration(d.elapsed())
		timeDisplay := timerRunningStyle.Width(w - 6).Render(timeStr)
		indicator := successStyle.Render("●  RUNNING")

		catLine := highlightStyle.Render(e.Category)
		if e.Memo != "" {
			catLine += mutedStyle.Render(" — " + e.Memo)
		}

		content := lipgloss.JoinVertical(lipgloss.Center,
			timeDisplay,
			indicator,
			catLine,
		)
		return activePanelStyle.Width(w).Render(content)
	}

	timeDisplay := timerStyle.Width(w - 6).Render("00:00:00")
	indicator := mutedStyle.Render("■  STOPPED")
	hint := mutedStyle.Render("Press s to start tracking")

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		hint,
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	title := titleStyle.Render("Today")
	header := fmt.Sprintf("%s  %s%s", title,
		highlightStyle.Render(formatSeconds(d.today.TotalSeconds)),
		d.renderGoal())

	if len(d.today.ByCategory) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No entries today"),
		)
		return panelStyle.Width(w).Render(content)
	}

	names := make([]string, 0, len(d.today.ByCategory))
	for name := range d.today.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows []string
	rows = append(rows, header)
	for _, name := range names {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(d.store.CategoryColor(name))).Render("●")
		row := fmt.Sprintf("  %s %-20s %s",
			colorDot,
			name,
			formatSeconds(d.today.ByCategory[name]),
		)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderGoal shows progress against the configured daily goal.
func (d dashboardModel) renderGoal() string {
	if d.cfg == nil || d.cfg.DailyGoalHours <= 0 {
		return ""
	}
	goalSecs := int64(d.cfg.DailyGoalHours * 3600)
	pct := 100 * float64(d.today.TotalSeconds) / float64(goalSecs)
	text := fmt.Sprintf("  %.0f%% of %.1fh goal", pct, d.cfg.DailyGoalHours)
	if d.today.TotalSeconds >= goalSecs {
		return successStyle.Render(text)
	}
	return mutedStyle.Render(text)
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Entries")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No entries yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, e := range d.recent {
		cat := e.Category
		if cat == "" {
			cat = store.Uncategorized
		}
		dur := formatSeconds(e.Duration)
		startStr := e.Start().Format("Jan 02 15:04")
		status := "✓"
		if e.Running {
			status = "●"
			dur = "running"
		}
		row := fmt.Sprintf("  %s %s  %-16s %s", status, startStr, cat, dur)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderCategoryPicker(w int) string {
	title := titleStyle.Render("Select Category")

	var rows []string
	rows = append(rows, title)
	for i, name := range d.cats.Categories {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(d.store.CategoryColor(name))).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %s", cursor, colorDot, name))
		if name == d.cats.DefaultCategory {
			row += mutedStyle.Render(" (default)")
		}
		rows = append(rows, row)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
