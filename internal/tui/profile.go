package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zlemon/internal/avatar"
	"github.com/zarlcorp/zlemon/internal/profile"
)

type pfField int

const (
	pfFirstName pfField = iota
	pfLastName
	pfEmail
	pfPhone
	pfAvatar
	pfFieldCount
)

var pfLabels = [pfFieldCount]string{
	"first name",
	"last name",
	"email",
	"phone",
	"avatar",
}

var toggleLabels = []string{
	"newsletter",
	"promotional emails",
}

const (
	toggleNewsletter = iota
	togglePromotions
)

// saveProfileMsg asks the root to persist the edited profile.
type saveProfileMsg struct {
	profile profile.Profile
}

// profileSavedMsg reports the save outcome.
type profileSavedMsg struct {
	err error
}

// logoutMsg asks the root to clear the store and restart onboarding.
type logoutMsg struct{}

// logoutFailedMsg reports a failed logout.
type logoutFailedMsg struct {
	err error
}

// discardProfileMsg asks the root to reload the stored profile.
type discardProfileMsg struct{}

// pickAvatarMsg asks the root to resolve an avatar path.
type pickAvatarMsg struct {
	input string
}

// avatarPickedMsg carries the picker result.
type avatarPickedMsg struct {
	ref string
	err error
}

// profileModel edits the stored profile in memory until saved.
type profileModel struct {
	inputs    []textinput.Model
	toggles   []bool
	avatarRef string
	focus     int
	flash     string
	flashErr  bool

	// loading holds keys until the stored profile arrives; busy holds
	// them while a save, discard or logout is in flight.
	loading bool
	busy    bool
}

func newProfileModel(p profile.Profile) profileModel {
	inputs := make([]textinput.Model, pfFieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 40
		inputs[i] = ti
	}

	inputs[pfFirstName].SetValue(p.FirstName)
	inputs[pfLastName].SetValue(p.LastName)
	inputs[pfEmail].SetValue(p.Email)
	inputs[pfPhone].SetValue(profile.FormatPhone(p.Phone))
	inputs[pfPhone].Placeholder = "(555) 123-4567"
	inputs[pfPhone].CharLimit = 20
	inputs[pfAvatar].Placeholder = "path to an image, enter to choose"
	inputs[pfAvatar].CharLimit = 1024
	inputs[pfAvatar].SetValue(p.AvatarRef)
	inputs[pfFirstName].Focus()

	return profileModel{
		inputs:    inputs,
		toggles:   []bool{p.Newsletter, p.Promotions},
		avatarRef: p.AvatarRef,
	}
}

func (m profileModel) Init() tea.Cmd {
	return textinput.Blink
}

// current builds the profile from the edited state.
func (m profileModel) current() profile.Profile {
	return profile.Profile{
		FirstName:  strings.TrimSpace(m.inputs[pfFirstName].Value()),
		LastName:   strings.TrimSpace(m.inputs[pfLastName].Value()),
		Email:      strings.TrimSpace(m.inputs[pfEmail].Value()),
		Phone:      profile.PhoneDigits(m.inputs[pfPhone].Value()),
		AvatarRef:  m.avatarRef,
		Newsletter: m.toggles[toggleNewsletter],
		Promotions: m.toggles[togglePromotions],
	}
}

// phoneInvalid is true only for a non-empty phone that fails validation.
func (m profileModel) phoneInvalid() bool {
	v := strings.TrimSpace(m.inputs[pfPhone].Value())
	return v != "" && !profile.ValidPhone(v)
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case profileSavedMsg:
		m.busy = false
		if msg.err != nil {
			return m.setFlash("could not save changes", true), clearFlashAfter()
		}
		return m.setFlash("changes saved", false), clearFlashAfter()

	case logoutFailedMsg:
		m.busy = false
		return m.setFlash("could not log out", true), clearFlashAfter()

	case avatarPickedMsg:
		if errors.Is(msg.err, avatar.ErrCanceled) {
			m.inputs[pfAvatar].SetValue(m.avatarRef)
			return m, nil
		}
		if msg.err != nil {
			return m.setFlash("could not use image", true), clearFlashAfter()
		}
		m.avatarRef = msg.ref
		m.inputs[pfAvatar].SetValue(msg.ref)
		return m, nil

	case flashMsg:
		m.flash = ""
		m.flashErr = false
		return m, nil
	}

	if m.focus < int(pfFieldCount) && !m.loading {
		return m.updateInput(msg)
	}
	return m, nil
}

func (m profileModel) handleKey(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if msg.Type == tea.KeyEsc {
		return m, func() tea.Msg { return backMsg{} }
	}

	if m.loading {
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyTab) || msg.Type == tea.KeyDown {
		return m.nextField(), nil
	}

	if msg.Type == tea.KeyUp || msg.Type == tea.KeyShiftTab {
		return m.prevField(), nil
	}

	switch msg.String() {
	case "ctrl+s", "ctrl+l", "ctrl+d":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.storeAction(msg.String())
	case "ctrl+r":
		m.avatarRef = ""
		m.inputs[pfAvatar].SetValue("")
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		if m.focus >= int(pfFieldCount) {
			idx := m.focus - int(pfFieldCount)
			m.toggles[idx] = !m.toggles[idx]
			return m, nil
		}
		if m.focus == int(pfAvatar) {
			input := m.inputs[pfAvatar].Value()
			return m, func() tea.Msg { return pickAvatarMsg{input: input} }
		}
		return m.nextField(), nil
	}

	if m.focus < int(pfFieldCount) {
		return m.updateInput(msg)
	}
	return m, nil
}

func (m profileModel) storeAction(k string) tea.Cmd {
	switch k {
	case "ctrl+s":
		p := m.current()
		return func() tea.Msg { return saveProfileMsg{profile: p} }
	case "ctrl+l":
		return func() tea.Msg { return logoutMsg{} }
	default:
		return func() tea.Msg { return discardProfileMsg{} }
	}
}

func (m profileModel) updateInput(msg tea.Msg) (profileModel, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m profileModel) totalFields() int {
	return int(pfFieldCount) + len(toggleLabels)
}

func (m profileModel) nextField() profileModel {
	return m.moveFocus(1)
}

func (m profileModel) prevField() profileModel {
	return m.moveFocus(-1)
}

func (m profileModel) moveFocus(delta int) profileModel {
	if m.focus < int(pfFieldCount) {
		m.inputs[m.focus].Blur()
	}
	n := m.totalFields()
	m.focus = (m.focus + delta + n) % n
	if m.focus < int(pfFieldCount) {
		m.inputs[m.focus].Focus()
	}
	return m
}

func (m profileModel) setFlash(s string, isErr bool) profileModel {
	m.flash = s
	m.flashErr = isErr
	return m
}

func (m profileModel) View() string {
	s := "\n  " + zstyle.Subtitle.Render("personal information") + "\n\n"

	if m.loading {
		return s + "  " + zstyle.MutedText.Render("loading profile...") + "\n\n"
	}

	avatarLine := "(" + profile.Initials(m.current()) + ")"
	if m.avatarRef != "" {
		avatarLine = m.avatarRef
	}
	s += "  " + zstyle.MutedText.Render(fmt.Sprintf("%-20s", "picture")) + avatarLine + "\n\n"

	for i, input := range m.inputs {
		label := zstyle.MutedText.Render(fmt.Sprintf("%-18s", pfLabels[i]))
		if i == m.focus {
			s += zstyle.Highlight.Render("> ") + label + input.View() + "\n"
		} else {
			s += "  " + label + input.View() + "\n"
		}
		if pfField(i) == pfPhone && m.phoneInvalid() {
			s += "  " + fmt.Sprintf("%-18s", "") + zstyle.StatusErr.Render("invalid phone number") + "\n"
		}
	}

	s += "\n"
	s += "  " + zstyle.Subtitle.Render("email notifications") + "\n"

	for i, label := range toggleLabels {
		idx := int(pfFieldCount) + i
		check := "[ ]"
		if m.toggles[i] {
			check = "[x]"
		}

		if idx == m.focus {
			s += zstyle.Highlight.Render(fmt.Sprintf("  > %s %s", check, label)) + "\n"
		} else {
			s += fmt.Sprintf("    %s %s\n", check, label)
		}
	}

	s += "\n"

	// always reserve a line for flash to prevent layout shift
	switch {
	case m.flash == "":
		s += "\n"
	case m.flashErr:
		s += "  " + zstyle.StatusErr.Render(m.flash) + "\n"
	default:
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	}

	return s
}
