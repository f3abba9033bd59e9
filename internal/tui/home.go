package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zlemon/internal/menu"
)

// menuLoadedMsg carries the result of a menu fetch.
type menuLoadedMsg struct {
	items []menu.Item
	err   error
}

// homeModel lists the menu.
type homeModel struct {
	items     []menu.Item
	initials  string
	imageBase string
	loading   bool
	cursor    int
}

func newHomeModel(initials, imageBase string) homeModel {
	return homeModel{
		initials:  initials,
		imageBase: imageBase,
		loading:   true,
	}
}

// fetchMenuCmd performs the single menu request. Failures are logged and
// reported as an empty list.
func fetchMenuCmd(ctx context.Context, c *menu.Client, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		items, err := c.Fetch(ctx)
		if err != nil {
			log.Error("fetch menu", "err", err)
			return menuLoadedMsg{err: err}
		}
		log.Debug("fetch menu", "items", len(items))
		return menuLoadedMsg{items: items}
	}
}

func (m homeModel) Init() tea.Cmd {
	return nil
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case menuLoadedMsg:
		m.loading = false
		m.items = msg.items
		m.cursor = 0
		return m, nil
	}

	return m, nil
}

func (m homeModel) handleKey(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if msg.String() == "p" {
		return m, func() tea.Msg { return navigateMsg{view: viewProfile} }
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil
	}

	return m, nil
}

func (m homeModel) View() string {
	accent := lipgloss.NewStyle().Foreground(lemonAccent).Bold(true)
	s := "\n  " + accent.Render("Little Lemon") + "  " + zstyle.MutedText.Render("Chicago")
	// the badge appears once the profile has been read
	if m.initials != "" {
		s += "   " + lipgloss.NewStyle().Foreground(lemonAccent).Render("("+m.initials+")")
	}
	s += "\n\n"

	if m.loading {
		s += "  " + zstyle.MutedText.Render("loading menu...") + "\n\n"
		return s
	}

	if len(m.items) == 0 {
		s += "  " + zstyle.MutedText.Render("no dishes to show") + "\n\n"
		return s
	}

	for i, it := range m.items {
		line := fmt.Sprintf("%-24s %8s", truncate(it.Name, 24), it.DisplayPrice())
		if i == m.cursor {
			s += "  " + accent.Render("▸") + " " + line + "\n"
			if it.Description != "" {
				s += "      " + zstyle.MutedText.Render(truncate(it.Description, 60)) + "\n"
			}
			if u := it.ImageURL(m.imageBase); u != "" {
				s += "      " + zstyle.MutedText.Render(u) + "\n"
			}
		} else {
			s += "    " + line + "\n"
		}
	}

	s += "\n"
	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
