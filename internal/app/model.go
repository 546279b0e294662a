// Package app hosts a payment sheet inside a Bubble Tea program. It turns
// terminal input into controller calls and runs deferred group loads as
// commands.
package app

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/paysheet/internal/config"
	"github.com/wilbur182/paysheet/internal/event"
	"github.com/wilbur182/paysheet/internal/keymap"
	"github.com/wilbur182/paysheet/internal/markdown"
	"github.com/wilbur182/paysheet/internal/modal"
	"github.com/wilbur182/paysheet/internal/mouse"
	"github.com/wilbur182/paysheet/internal/session"
	"github.com/wilbur182/paysheet/internal/styles"
)

// cellPixels is how many drag units one terminal row counts for. Dismiss
// thresholds are expressed in pixels, so rows are scaled before they reach
// the gesture recognizer.
const cellPixels = 16

// settleDelay is how long the opening transition lasts.
const settleDelay = 150 * time.Millisecond

// Outcome is what the sheet ended with. It is shared between model copies.
type Outcome struct {
	Result    *session.Result
	Confirmed bool
	Closed    bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger passed to the controller and renderer.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithKeymap replaces the default key registry.
func WithKeymap(km *keymap.Registry) Option {
	return func(m *Model) {
		if km != nil {
			m.keymap = km
		}
	}
}

// WithConfigUpdates applies every patch received on ch as a bulk config
// write.
func WithConfigUpdates(ch <-chan config.Patch) Option {
	return func(m *Model) { m.patches = ch }
}

// WithControllerOptions passes options through to the session controller.
func WithControllerOptions(opts ...session.Option) Option {
	return func(m *Model) { m.ctrlOpts = append(m.ctrlOpts, opts...) }
}

// WithTransitions makes Open pass through an opening phase before the sheet
// becomes interactive.
func WithTransitions() Option {
	return func(m *Model) { m.ctrlOpts = append(m.ctrlOpts, session.WithTransitions()) }
}

// QuitOnClose ends the program once the sheet has closed.
func QuitOnClose() Option {
	return func(m *Model) { m.quitOnClose = true }
}

// CloseOnConfirm closes the sheet after a confirmation.
func CloseOnConfirm() Option {
	return func(m *Model) { m.closeOnConfirm = true }
}

// Model is the root Bubble Tea model.
type Model struct {
	logger   *slog.Logger
	ctrlOpts []session.Option

	ctrl    *session.Controller
	sheet   *modal.Sheet
	mouse   *mouse.Handler
	keymap  *keymap.Registry
	effects *Effects
	patches <-chan config.Patch
	out     *Outcome

	quitOnClose    bool
	closeOnConfirm bool

	width, height int
	spinning      bool
	theme         string
	title         string
}

// New creates the host model with a closed controller.
func New(opts ...Option) Model {
	m := Model{
		logger:  slog.Default(),
		mouse:   mouse.NewHandler(),
		effects: &Effects{},
		out:     &Outcome{},
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.keymap == nil {
		m.keymap = keymap.NewRegistry()
		keymap.RegisterDefaults(m.keymap)
	}

	m.ctrl = session.New(append([]session.Option{
		session.WithLogger(m.logger),
		session.WithHostEffects(m.effects),
	}, m.ctrlOpts...)...)
	m.sheet = modal.New(m.ctrl, markdown.NewRenderer(styles.GetMarkdownTheme, m.logger))

	out := m.out
	m.ctrl.On(event.Confirm, event.NewListener(func(payload any) {
		if res, ok := payload.(session.Result); ok {
			out.Result = &res
			out.Confirmed = true
		}
	}))
	m.ctrl.On(event.Close, event.NewListener(func(any) {
		out.Closed = true
	}))
	return m
}

// Controller returns the session controller the model drives.
func (m Model) Controller() *session.Controller { return m.ctrl }

// Outcome returns the confirm/close record.
func (m Model) Outcome() Outcome { return *m.out }

// Open opens the sheet for amount and resets view state.
func (m *Model) Open(amount any) (tea.Cmd, error) {
	if err := m.ctrl.Open(amount); err != nil {
		return nil, err
	}
	m.out.Closed = false
	m.out.Confirmed = false
	m.sheet.Reset()
	if m.ctrl.Phase() == session.PhaseOpening {
		return settle(), nil
	}
	return nil, nil
}

// Init applies the initial theme and starts background listeners.
func (m Model) Init() tea.Cmd {
	cmds := m.sync()
	if m.ctrl.Phase() == session.PhaseOpening {
		cmds = append(cmds, settle())
	}
	if m.patches != nil {
		cmds = append(cmds, waitForPatch(m.patches))
	}
	return tea.Batch(cmds...)
}

// sync brings terminal-side state in line with the controller after an
// update: pending host effects, theme, window title and quitting.
func (m *Model) sync() []tea.Cmd {
	cmds := m.effects.drain()
	cfg := m.ctrl.Config()

	if cfg.UI.Theme != m.theme {
		styles.ApplyTheme(cfg.UI.Theme)
		m.theme = cfg.UI.Theme
	}
	title := cfg.UI.AriaLabel
	if title == "" {
		title = m.ctrl.Text().Title
	}
	if title != m.title {
		m.title = title
		cmds = append(cmds, tea.SetWindowTitle(title))
	}

	if m.out.Confirmed && m.closeOnConfirm && m.ctrl.Phase() != session.PhaseClosed {
		m.ctrl.Close()
		cmds = append(cmds, m.effects.drain()...)
	}
	if m.out.Closed && m.quitOnClose {
		cmds = append(cmds, tea.Quit)
	}
	return cmds
}
