// Package tui implements the root Bubble Tea model for zlemon.
package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zlemon/internal/avatar"
	"github.com/zarlcorp/zlemon/internal/gate"
	"github.com/zarlcorp/zlemon/internal/menu"
	"github.com/zarlcorp/zlemon/internal/profile"
	"github.com/zarlcorp/zlemon/internal/securestore"
)

// lemonAccent is the Little Lemon yellow.
var lemonAccent = lipgloss.Color("#F4CE14")

type viewID int

const (
	viewPassword viewID = iota
	viewLoading
	viewOnboarding
	viewHome
	viewProfile
)

// Opener opens the secure store with the master password.
type Opener func(ctx context.Context, password string) (securestore.Store, error)

// Options configures the root model.
type Options struct {
	Version      string
	FirstRun     bool
	Open         Opener
	Menu         *menu.Client
	ImageBaseURL string
	Picker       avatar.Picker
	Logger       *slog.Logger
}

// navigateMsg pushes a view onto the history.
type navigateMsg struct {
	view viewID
}

// backMsg pops the history.
type backMsg struct{}

// gateResolvedMsg carries the launch routing decision.
type gateResolvedMsg struct {
	route gate.Route
	err   error
}

// storeOpenedMsg carries the result of unlocking the store.
type storeOpenedMsg struct {
	store securestore.Store
	err   error
}

// profileLoadedMsg carries the stored profile read for view.
type profileLoadedMsg struct {
	view    viewID
	profile profile.Profile
}

// onboardedMsg reports the onboarding write.
type onboardedMsg struct {
	err error
}

// loggedOutMsg reports the logout wipe.
type loggedOutMsg struct {
	err error
}

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

// Model is the root TUI model.
type Model struct {
	ctx       context.Context
	open      Opener
	menu      *menu.Client
	imageBase string
	picker    avatar.Picker
	log       *slog.Logger

	store securestore.Store
	gate  *gate.Gate

	active  viewID
	history []viewID

	password   passwordModel
	onboarding onboardingModel
	home       homeModel
	profile    profileModel

	// terminal dimensions
	width  int
	height int
}

// New creates the root TUI model. ctx bounds store and network work.
func New(ctx context.Context, opts Options) Model {
	if opts.Menu == nil {
		opts.Menu = menu.NewClient("")
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = menu.DefaultImageBaseURL
	}
	if opts.Picker == nil {
		opts.Picker = avatar.FilePicker{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return Model{
		ctx:       ctx,
		open:      opts.Open,
		menu:      opts.Menu,
		imageBase: opts.ImageBaseURL,
		picker:    opts.Picker,
		log:       opts.Logger,
		active:    viewPassword,
		password:  newPasswordModel(opts.FirstRun, opts.Version),
	}
}

func (m Model) Init() tea.Cmd {
	return m.password.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case passwordSubmitMsg:
		m.password.unlocking = true
		return m, openStoreCmd(m.ctx, m.open, msg.password)

	case storeOpenedMsg:
		return m.handleStoreOpened(msg)

	case gateResolvedMsg:
		return m.handleGate(msg)

	case navigateMsg:
		return m.push(msg.view)

	case backMsg:
		return m.back()

	case onboardSubmitMsg:
		return m, onboardCmd(m.ctx, m.store, m.log, msg)

	case onboardedMsg:
		return m.handleOnboarded(msg)

	case profileLoadedMsg:
		return m.handleProfileLoaded(msg)

	case saveProfileMsg:
		return m, saveProfileCmd(m.ctx, m.store, m.log, msg.profile)

	case discardProfileMsg:
		return m.show(viewProfile)

	case logoutMsg:
		return m, logoutCmd(m.ctx, m.store, m.log)

	case loggedOutMsg:
		return m.handleLoggedOut(msg)

	case pickAvatarMsg:
		return m, pickAvatarCmd(m.ctx, m.picker, msg.input)

	case menuLoadedMsg:
		m.home, _ = m.home.Update(msg)
		return m, nil
	}

	return m.updateActive(msg)
}

func (m Model) View() string {
	if m.active == viewPassword {
		return m.password.View()
	}

	var content string
	switch m.active {
	case viewLoading:
		content = "\n  " + zstyle.MutedText.Render("loading...") + "\n\n"
	case viewOnboarding:
		content = m.onboarding.View()
	case viewHome:
		content = m.home.View()
	case viewProfile:
		content = m.profile.View()
	}

	header := zstyle.RenderHeader("zlemon", viewTitle(m.active), lemonAccent)
	sep := zstyle.RenderSeparator(m.width)
	footer := zstyle.RenderFooter(helpFor(m.active))

	return "\n" + header + "\n" + sep + "\n" + content + "\n" + footer + "\n"
}

// viewTitle returns the display title for each view.
func viewTitle(id viewID) string {
	switch id {
	case viewOnboarding:
		return "Welcome"
	case viewHome:
		return "Menu"
	case viewProfile:
		return "Profile"
	}
	return ""
}

// helpFor returns keybinding pairs for each view's footer.
func helpFor(id viewID) []zstyle.HelpPair {
	switch id {
	case viewOnboarding:
		return []zstyle.HelpPair{
			{Key: "tab", Desc: "next"},
			{Key: "enter", Desc: "submit"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	case viewHome:
		return []zstyle.HelpPair{
			{Key: "j/k", Desc: "navigate"},
			{Key: "p", Desc: "profile"},
			{Key: "q", Desc: "quit"},
		}
	case viewProfile:
		return []zstyle.HelpPair{
			{Key: "tab", Desc: "next"},
			{Key: "enter", Desc: "toggle/choose"},
			{Key: "ctrl+s", Desc: "save"},
			{Key: "ctrl+d", Desc: "discard"},
			{Key: "ctrl+r", Desc: "remove picture"},
			{Key: "ctrl+l", Desc: "log out"},
			{Key: "esc", Desc: "back"},
		}
	}
	return nil
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.active {
	case viewPassword:
		m.password, cmd = m.password.Update(msg)
	case viewLoading:
		if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyCtrlC {
			cmd = tea.Quit
		}
	case viewOnboarding:
		m.onboarding, cmd = m.onboarding.Update(msg)
	case viewHome:
		m.home, cmd = m.home.Update(msg)
	case viewProfile:
		m.profile, cmd = m.profile.Update(msg)
	}

	return m, cmd
}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

func openStoreCmd(ctx context.Context, open Opener, password string) tea.Cmd {
	return func() tea.Msg {
		s, err := open(ctx, password)
		return storeOpenedMsg{store: s, err: err}
	}
}

func (m Model) handleStoreOpened(msg storeOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("open store", "err", msg.err)
		m.password, _ = m.password.Update(passwordErrMsg{err: msg.err})
		return m, nil
	}
	return m.unlocked(msg.store)
}

// unlocked installs the open store and starts the launch decision.
func (m Model) unlocked(s securestore.Store) (Model, tea.Cmd) {
	m.store = s
	m.gate = gate.New(s)
	m.active = viewLoading
	return m, resolveGateCmd(m.ctx, m.gate)
}

func resolveGateCmd(ctx context.Context, g *gate.Gate) tea.Cmd {
	return func() tea.Msg {
		route, err := g.Resolve(ctx)
		return gateResolvedMsg{route: route, err: err}
	}
}

func (m Model) handleGate(msg gateResolvedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error("read onboarding flag", "err", msg.err)
	}
	m.log.Info("launch route", "route", msg.route.String())

	if msg.route == gate.RouteHome {
		return m.resetTo(viewHome)
	}
	return m.resetTo(viewOnboarding)
}

// show activates view, rebuilding its state. Home and Profile start
// empty and fill in when the stored profile arrives.
func (m Model) show(view viewID) (Model, tea.Cmd) {
	switch view {
	case viewOnboarding:
		m.onboarding = newOnboardingModel()
		m.active = viewOnboarding
		return m, tea.Batch(tea.ClearScreen, m.onboarding.Init())

	case viewHome:
		m.home = newHomeModel("", m.imageBase)
		m.active = viewHome
		return m, tea.Batch(
			tea.ClearScreen,
			loadProfileCmd(m.ctx, m.store, m.log, viewHome),
			fetchMenuCmd(m.ctx, m.menu, m.log),
		)

	case viewProfile:
		m.profile = newProfileModel(profile.Profile{})
		m.profile.loading = true
		m.active = viewProfile
		return m, tea.Batch(tea.ClearScreen, loadProfileCmd(m.ctx, m.store, m.log, viewProfile))
	}

	return m, nil
}

// push records the current view and shows view.
func (m Model) push(view viewID) (tea.Model, tea.Cmd) {
	if view == m.active {
		return m, nil
	}
	m.history = append(m.history, m.active)
	return m.show(view)
}

func (m Model) back() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, nil
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.show(prev)
}

// resetTo discards the history and shows view as the only screen.
func (m Model) resetTo(view viewID) (tea.Model, tea.Cmd) {
	m.history = nil
	return m.show(view)
}

// loadProfileCmd reads the profile for view; failures are logged and
// defaults used.
func loadProfileCmd(ctx context.Context, s securestore.Store, log *slog.Logger, view viewID) tea.Cmd {
	return func() tea.Msg {
		p, err := profile.Load(ctx, s)
		if err != nil {
			log.Error("load profile", "err", err)
			p = profile.Profile{}
		}
		return profileLoadedMsg{view: view, profile: p}
	}
}

func (m Model) handleProfileLoaded(msg profileLoadedMsg) (tea.Model, tea.Cmd) {
	// the user may have moved on before the read finished
	if msg.view != m.active {
		return m, nil
	}

	switch msg.view {
	case viewHome:
		m.home.initials = profile.Initials(msg.profile)
		return m, nil
	case viewProfile:
		m.profile = newProfileModel(msg.profile)
		return m, m.profile.Init()
	}
	return m, nil
}

func onboardCmd(ctx context.Context, s securestore.Store, log *slog.Logger, msg onboardSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		err := profile.Onboard(ctx, s, msg.firstName, msg.email)
		if err != nil {
			log.Error("save onboarding", "err", err)
		}
		return onboardedMsg{err: err}
	}
}

func (m Model) handleOnboarded(msg onboardedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.onboarding, _ = m.onboarding.Update(onboardFailedMsg{err: msg.err})
		return m, nil
	}

	m.gate.MarkCompleted()

	// Home sits under Profile so esc lands on the menu, never onboarding.
	m.history = []viewID{viewHome}
	return m.show(viewProfile)
}

func saveProfileCmd(ctx context.Context, s securestore.Store, log *slog.Logger, p profile.Profile) tea.Cmd {
	return func() tea.Msg {
		err := profile.Save(ctx, s, p)
		if err != nil {
			log.Error("save profile", "err", err)
		}
		return profileSavedMsg{err: err}
	}
}

func logoutCmd(ctx context.Context, s securestore.Store, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		err := profile.Clear(ctx, s)
		if err != nil {
			log.Error("logout", "err", err)
		}
		return loggedOutMsg{err: err}
	}
}

func (m Model) handleLoggedOut(msg loggedOutMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		var cmd tea.Cmd
		m.profile, cmd = m.profile.Update(logoutFailedMsg{err: msg.err})
		return m, cmd
	}

	m.gate.Reset()
	m.log.Info("logged out")
	return m.resetTo(viewOnboarding)
}

func pickAvatarCmd(ctx context.Context, p avatar.Picker, input string) tea.Cmd {
	return func() tea.Msg {
		ref, err := p.Pick(ctx, input)
		return avatarPickedMsg{ref: ref, err: err}
	}
}

// Close releases the store. Call after the program exits.
func (m Model) Close() {
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.log.Warn("close store", "err", err)
		}
	}
}
