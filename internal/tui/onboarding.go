package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zlemon/internal/profile"
)

type obField int

const (
	obFirstName obField = iota
	obEmail
	obFieldCount
)

var obLabels = [obFieldCount]string{
	"first name",
	"email",
}

// onboardSubmitMsg asks the root to persist onboarding.
type onboardSubmitMsg struct {
	firstName string
	email     string
}

// onboardFailedMsg raises the blocking alert.
type onboardFailedMsg struct {
	err error
}

// onboardingModel collects first name and email.
type onboardingModel struct {
	inputs []textinput.Model
	focus  int
	alert  string
}

func newOnboardingModel() onboardingModel {
	inputs := make([]textinput.Model, obFieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[obFirstName].Placeholder = "Tilly"
	inputs[obEmail].Placeholder = "tilly@littlelemon.com"
	inputs[obFirstName].Focus()

	return onboardingModel{inputs: inputs}
}

func (m onboardingModel) Init() tea.Cmd {
	return textinput.Blink
}

// canSubmit reports whether both fields validate. The email is checked as
// typed, so surrounding spaces keep the button disabled.
func (m onboardingModel) canSubmit() bool {
	return profile.ValidName(m.inputs[obFirstName].Value()) &&
		profile.ValidEmail(m.inputs[obEmail].Value())
}

func (m onboardingModel) Update(msg tea.Msg) (onboardingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		// the alert swallows input until dismissed
		if m.alert != "" {
			if key.Matches(msg, zstyle.KeyEnter) || msg.Type == tea.KeyEsc {
				m.alert = ""
			}
			return m, nil
		}

		if key.Matches(msg, zstyle.KeyTab) || msg.Type == tea.KeyDown || msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
			return m.toggleFocus(), nil
		}

		if key.Matches(msg, zstyle.KeyEnter) {
			if m.focus == int(obFirstName) {
				return m.toggleFocus(), nil
			}
			return m, m.submit()
		}

	case onboardFailedMsg:
		m.alert = "could not save onboarding state"
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m onboardingModel) submit() tea.Cmd {
	if !m.canSubmit() {
		return nil
	}
	first := strings.TrimSpace(m.inputs[obFirstName].Value())
	email := strings.TrimSpace(m.inputs[obEmail].Value())
	return func() tea.Msg {
		return onboardSubmitMsg{firstName: first, email: email}
	}
}

func (m onboardingModel) toggleFocus() onboardingModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % int(obFieldCount)
	m.inputs[m.focus].Focus()
	return m
}

func (m onboardingModel) View() string {
	hero := lipgloss.NewStyle().Foreground(lemonAccent).Bold(true)
	s := "\n  " + hero.Render("Let us get to know you") + "\n\n"

	for i, input := range m.inputs {
		label := zstyle.MutedText.Render(fmt.Sprintf("%-12s", obLabels[i]))
		if i == m.focus {
			s += zstyle.Highlight.Render("> ") + label + input.View() + "\n"
		} else {
			s += "  " + label + input.View() + "\n"
		}
	}

	s += "\n"
	if m.canSubmit() {
		s += "  " + zstyle.Highlight.Render("[ next ]") + "\n"
	} else {
		s += "  " + zstyle.MutedText.Render("[ next ]") + "\n"
	}

	s += "\n"
	if m.alert != "" {
		s += "  " + zstyle.StatusErr.Render(m.alert) + "  " + zstyle.MutedText.Render("(enter to dismiss)") + "\n"
	} else {
		s += "\n"
	}

	return s
}
