package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tempo/internal/store"
)

const editTimeLayout = "2006-01-02 15:04:05"

type entriesModel struct {
	store  *store.Store
	width  int
	height int

	entries []store.TimeEntry // newest first
	cursor  int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formCategory *string
	formMemo     *string
	formStart    *string
	formMinutes  *string

	editingID      string
	editingRunning bool
}

func newEntriesModel(s *store.Store) entriesModel {
	cat, memo, start, mins := "", "", "", ""
	return entriesModel{
		store:        s,
		formCategory: &cat,
		formMemo:     &memo,
		formStart:    &start,
		formMinutes:  &mins,
	}
}

func (m *entriesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type entriesDataMsg struct {
	entries []store.TimeEntry
}

func (m entriesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		all := m.store.All()
		// Newest first for browsing.
		entries := make([]store.TimeEntry, 0, len(all))
		for i := len(all) - 1; i >= 0; i-- {
			entries = append(entries, all[i])
		}
		return entriesDataMsg{entries: entries}
	}
}

func (m entriesModel) update(msg tea.Msg) (entriesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case entriesDataMsg:
		m.entries = msg.entries
		if m.cursor >= len(m.entries) {
			m.cursor = max(0, len(m.entries)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if len(m.entries) > 0 {
				return m.showEditForm(m.entries[m.cursor])
			}
		case key.Matches(msg, keys.Delete):
			if len(m.entries) > 0 {
				e := m.entries[m.cursor]
				if err := m.store.Remove(e.ID); err != nil {
					return m, errStatus("Delete error", err)
				}
				return m, tea.Batch(
					m.refresh(),
					func() tea.Msg { return entryDeletedMsg{} },
				)
			}
		}
	}
	return m, nil
}

func (m entriesModel) showEditForm(e store.TimeEntry) (entriesModel, tea.Cmd) {
	*m.formCategory = e.Category
	*m.formMemo = e.Memo
	*m.formStart = e.Start().Format(editTimeLayout)
	*m.formMinutes = strconv.FormatInt(e.Duration/60, 10)
	m.editingID = e.ID
	m.editingRunning = e.Running

	cats := m.store.Categories()
	catOptions := make([]huh.Option[string], 0, len(cats.Categories)+1)
	seen := false
	for _, c := range cats.Categories {
		if c == e.Category {
			seen = true
		}
		catOptions = append(catOptions, huh.NewOption(c, c))
	}
	if !seen && e.Category != "" {
		catOptions = append(catOptions, huh.NewOption(e.Category, e.Category))
	}

	fields := []huh.Field{
		huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
		huh.NewInput().Title("Memo").Value(m.formMemo),
	}
	if !m.editingRunning {
		// Start and duration only make sense for finalized entries; a
		// running timer keeps counting from its original start.
		fields = append(fields,
			huh.NewInput().Title("Start (YYYY-MM-DD HH:MM:SS)").Value(m.formStart),
			huh.NewInput().Title("Duration (minutes)").Value(m.formMinutes),
		)
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).
		WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m entriesModel) updateForm(msg tea.Msg) (entriesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if err := m.applyEdit(); err != nil {
			return m, tea.Batch(m.refresh(), errStatus("Edit error", err))
		}
		return m, tea.Batch(
			m.refresh(),
			func() tea.Msg { return statusMsg{text: "Entry updated"} },
		)
	}

	return m, cmd
}

func (m entriesModel) applyEdit() error {
	upd := store.EntryUpdate{
		Category: m.formCategory,
		Memo:     m.formMemo,
	}

	if !m.editingRunning {
		start, err := time.ParseInLocation(editTimeLayout, strings.TrimSpace(*m.formStart), time.Local)
		if err != nil {
			return fmt.Errorf("bad start time %q", *m.formStart)
		}
		mins, err := strconv.ParseInt(strings.TrimSpace(*m.formMinutes), 10, 64)
		if err != nil || mins < 0 {
			return fmt.Errorf("bad duration %q", *m.formMinutes)
		}
		startMillis := start.UnixMilli()
		duration := mins * 60
		end := startMillis + duration*1000
		upd.StartTime = &startMillis
		upd.Duration = &duration
		upd.EndTime = &end
	}

	_, err := m.store.Update(m.editingID, upd)
	return err
}

func (m entriesModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Edit Entry")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Entries")

	if len(m.entries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No entries yet. Start a timer on the dashboard."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-17s %-16s %10s  %s", "", "Start", "Category", "Duration", "Memo"))
	rows = append(rows, header)

	first, last := m.window()
	for i := first; i < last; i++ {
		e := m.entries[i]
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		cat := e.Category
		if cat == "" {
			cat = store.Uncategorized
		}
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.store.CategoryColor(cat))).Render("●")
		dur := formatSeconds(e.Duration)
		if e.Running {
			dur = "running"
		}
		memo := e.Memo
		if len(memo) > 24 {
			memo = memo[:21] + "..."
		}
		row := style.Render(fmt.Sprintf("%s%s %-17s %-16s %10s  %s",
			cursor, colorDot, e.Start().Format("Jan 02 15:04:05"), cat, dur, memo))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  e: edit  d: delete  ↑/↓: move"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// window returns the visible slice bounds, keeping the cursor in view.
func (m entriesModel) window() (int, int) {
	visible := m.height - 10
	if visible < 5 {
		visible = 5
	}
	if len(m.entries) <= visible {
		return 0, len(m.entries)
	}
	first := m.cursor - visible/2
	if first < 0 {
		first = 0
	}
	last := first + visible
	if last > len(m.entries) {
		last = len(m.entries)
		first = last - visible
	}
	return first, last
}
