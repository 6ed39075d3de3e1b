package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tempo/internal/store"
)

// categoryColors is the store's palette: picking from it keeps
// TUI-assigned colors inside the same stable cycle normalize uses.
var categoryColors = store.Palette()

type categoriesModel struct {
	store  *store.Store
	width  int
	height int

	cats   store.CategoryConfig
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit"

	// Form field pointers (survive value copies)
	formName  *string
	formColor *string

	editing string // category being edited
}

func newCategoriesModel(s *store.Store) categoriesModel {
	name, color := "", categoryColors[0]
	return categoriesModel{
		store:     s,
		formName:  &name,
		formColor: &color,
	}
}

func (c *categoriesModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type categoriesDataMsg struct {
	cats store.CategoryConfig
}

func (c categoriesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return categoriesDataMsg{cats: c.store.Categories()}
	}
}

func (c categoriesModel) update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case categoriesDataMsg:
		c.cats = msg.cats
		if c.cursor >= len(c.cats.Categories) {
			c.cursor = max(0, len(c.cats.Categories)-1)
		}
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.cats.Categories)-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.New):
			return c.showForm("new")
		case key.Matches(msg, keys.Edit):
			if len(c.cats.Categories) > 0 {
				return c.showForm("edit")
			}
		case key.Matches(msg, keys.Enter):
			if len(c.cats.Categories) > 0 {
				cfg := c.cats
				cfg.DefaultCategory = cfg.Categories[c.cursor]
				c.store.SaveCategories(cfg)
				return c, c.refresh()
			}
		case key.Matches(msg, keys.Delete):
			if len(c.cats.Categories) > 0 {
				return c, c.deleteSelected()
			}
		}
	}
	return c, nil
}

func (c categoriesModel) deleteSelected() tea.Cmd {
	name := c.cats.Categories[c.cursor]
	cfg := c.cats
	kept := make([]string, 0, len(cfg.Categories)-1)
	for _, existing := range cfg.Categories {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	cfg.Categories = kept
	delete(cfg.CategoryColors, name)
	c.store.SaveCategories(cfg)

	return tea.Batch(
		c.refresh(),
		func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Category %q removed; old entries keep the label", name)}
		},
	)
}

func (c categoriesModel) showForm(formType string) (categoriesModel, tea.Cmd) {
	c.formType = formType
	if formType == "edit" {
		name := c.cats.Categories[c.cursor]
		c.editing = name
		*c.formName = name
		*c.formColor = c.store.CategoryColor(name)
	} else {
		*c.formName = ""
		*c.formColor = categoryColors[len(c.cats.Categories)%len(categoryColors)]
	}

	colorOptions := make([]huh.Option[string], len(categoryColors))
	for i, col := range categoryColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", col), col)
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Category Name").Value(c.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(c.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c categoriesModel) updateForm(msg tea.Msg) (categoriesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		name := strings.TrimSpace(*c.formName)
		if name != "" {
			switch c.formType {
			case "new":
				c.addCategory(name, *c.formColor)
			case "edit":
				c.renameCategory(c.editing, name, *c.formColor)
			}
		}
		return c, c.refresh()
	}

	return c, cmd
}

func (c categoriesModel) addCategory(name, color string) {
	cfg := c.cats
	for _, existing := range cfg.Categories {
		if existing == name {
			return
		}
	}
	cfg.Categories = append(cfg.Categories, name)
	if cfg.CategoryColors == nil {
		cfg.CategoryColors = make(map[string]string)
	}
	cfg.CategoryColors[name] = color
	c.store.SaveCategories(cfg)
}

func (c categoriesModel) renameCategory(old, name, color string) {
	cfg := c.cats
	for i, existing := range cfg.Categories {
		if existing == old {
			cfg.Categories[i] = name
		}
	}
	if cfg.DefaultCategory == old {
		cfg.DefaultCategory = name
	}
	if cfg.CategoryColors == nil {
		cfg.CategoryColors = make(map[string]string)
	}
	if name != old {
		delete(cfg.CategoryColors, old)
	}
	cfg.CategoryColors[name] = color
	c.store.SaveCategories(cfg)
}

func (c categoriesModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Category")
		if c.formType == "edit" {
			title = titleStyle.Render("Edit Category")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Categories")

	if len(c.cats.Categories) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No categories yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, name := range c.cats.Categories {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.store.CategoryColor(name))).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-20s", cursor, colorDot, name))
		if name == c.cats.DefaultCategory {
			row += mutedStyle.Render(" default")
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  enter: set default"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
