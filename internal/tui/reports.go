package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tempo/internal/config"
	"github.com/sadopc/tempo/internal/store"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
	reportMonthly
)

type reportsModel struct {
	store  *store.Store
	cfg    *config.Config
	width  int
	height int

	mode    reportMode
	entries []store.TimeEntry
	offset  int // periods back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(s *store.Store, cfg *config.Config) reportsModel {
	return reportsModel{
		store: s,
		cfg:   cfg,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	entries []store.TimeEntry
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		entries := r.store.ReadRange(from, to.Add(-time.Millisecond))
		return reportsDataMsg{entries: entries}
	}
}

// dateRange returns the current period as [from, to) in local time.
func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	switch r.mode {
	case reportWeekly:
		startDay := time.Monday
		if r.cfg.WeekStart == "sunday" {
			startDay = time.Sunday
		}
		diff := int(today.Weekday() - startDay)
		if diff < 0 {
			diff += 7
		}
		startOfWeek := today.AddDate(0, 0, -diff-7*r.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	case reportMonthly:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		first = first.AddDate(0, -r.offset, 0)
		return first, first.AddDate(0, 1, 0)
	default:
		// Daily: trailing 7 days
		end := today.AddDate(0, 0, 1-7*r.offset)
		return end.AddDate(0, 0, -7), end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.entries = msg.entries
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Tab):
			r.mode = (r.mode + 1) % 3
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

// live returns the period's entries with running durations as of now.
func (r reportsModel) live() []store.TimeEntry {
	now := time.Now()
	out := make([]store.TimeEntry, len(r.entries))
	copy(out, r.entries)
	for i := range out {
		if out[i].Running {
			out[i].Duration = store.LiveDuration(out[i].StartTime, out[i].Duration, now)
		}
	}
	return out
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	if r.mode == reportMonthly {
		r.buildCategoryChart()
	} else {
		r.buildDayChart()
	}
	r.chart.Draw()
}

// buildDayChart stacks per-category hours into one bar per day.
func (r *reportsModel) buildDayChart() {
	from, to := r.dateRange()
	byDay := make(map[string]map[string]int64)
	for _, e := range r.live() {
		day := e.Start().Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = make(map[string]int64)
		}
		cat := e.Category
		if cat == "" {
			cat = store.Uncategorized
		}
		byDay[day][cat] += e.Duration
	}

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		totals := byDay[d.Format("2006-01-02")]

		cats := make([]string, 0, len(totals))
		for c := range totals {
			cats = append(cats, c)
		}
		sort.Strings(cats)

		var values []barchart.BarValue
		for _, c := range cats {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(r.store.CategoryColor(c)))
			values = append(values, barchart.BarValue{
				Name:  c,
				Value: float64(totals[c]) / 3600.0,
				Style: style,
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
}

// buildCategoryChart draws one bar per category for the whole period.
func (r *reportsModel) buildCategoryChart() {
	sum := store.Summarize(r.live())

	cats := make([]string, 0, len(sum.ByCategory))
	for c := range sum.ByCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var bars []barchart.BarData
	for _, c := range cats {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(r.store.CategoryColor(c)))
		label := c
		if len(label) > 8 {
			label = label[:8]
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  c,
				Value: float64(sum.ByCategory[c]) / 3600.0,
				Style: style,
			}},
		})
	}

	r.chart.PushAll(bars)
}

func (r reportsModel) view() string {
	w := r.width - 4

	var modeTabs []string
	for i, name := range []string{"Daily", "Weekly", "Monthly"} {
		if reportMode(i) == r.mode {
			modeTabs = append(modeTabs, activeTabStyle.Render(name))
		} else {
			modeTabs = append(modeTabs, inactiveTabStyle.Render(name))
		}
	}

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Bottom, modeTabs...), "  ", dateLabel,
	)

	chartView := r.chart.View()
	tableView := r.renderSummaryTable()
	nav := mutedStyle.Render("  ←/→: navigate  tab: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable() string {
	sum := store.Summarize(r.live())
	if sum.TotalSeconds == 0 && len(sum.Entries) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	type catTotal struct {
		name string
		secs int64
	}
	totals := make([]catTotal, 0, len(sum.ByCategory))
	for name, secs := range sum.ByCategory {
		totals = append(totals, catTotal{name, secs})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].secs != totals[j].secs {
			return totals[i].secs > totals[j].secs
		}
		return totals[i].name < totals[j].name
	})

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-20s %10s %8s", "Category", "Duration", "Share")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", 40)))

	for _, t := range totals {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(r.store.CategoryColor(t.name))).Render("●")
		share := 0.0
		if sum.TotalSeconds > 0 {
			share = 100 * float64(t.secs) / float64(sum.TotalSeconds)
		}
		rows = append(rows, fmt.Sprintf("  %s %-18s %10s %7.1f%%",
			colorDot, t.name, formatSeconds(t.secs), share))
	}

	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", 40)))
	rows = append(rows, fmt.Sprintf("  %-20s %10s", "Total", highlightStyle.Render(formatHours(sum.TotalSeconds))))

	return strings.Join(rows, "\n")
}
