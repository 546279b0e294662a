// Package session is the sheet's interaction controller. It owns the panel
// lifecycle, routes pointer drags through the gesture recognizer, keeps the
// password buffer and decides when a confirmation may be produced.
//
// A Controller is not safe for concurrent use. The TUI drives it from the
// bubbletea update loop; pkg/paysheet wraps it in a mutex.
package session

import (
	"log/slog"
	"strings"

	"github.com/wilbur182/paysheet/internal/amount"
	"github.com/wilbur182/paysheet/internal/config"
	"github.com/wilbur182/paysheet/internal/event"
	"github.com/wilbur182/paysheet/internal/gesture"
	"github.com/wilbur182/paysheet/internal/i18n"
	"github.com/wilbur182/paysheet/internal/keymap"
	"github.com/wilbur182/paysheet/internal/mouse"
	"github.com/wilbur182/paysheet/internal/selection"
)

// Phase is the panel lifecycle.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpening
	PhaseOpen
	PhaseClosing
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseOpening:
		return "opening"
	case PhaseOpen:
		return "open"
	case PhaseClosing:
		return "closing"
	}
	return "unknown"
}

// HostEffects are side effects the host applies while the sheet is shown,
// such as locking the background from scrolling. Restore runs on every
// close path.
type HostEffects interface {
	Engage()
	Restore()
}

type noEffects struct{}

func (noEffects) Engage()  {}
func (noEffects) Restore() {}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHostEffects installs host side effects.
func WithHostEffects(e HostEffects) Option {
	return func(c *Controller) {
		if e != nil {
			c.effects = e
		}
	}
}

// WithTransitions makes Open stop in PhaseOpening until Settle is called,
// so the host can animate the panel in.
func WithTransitions() Option {
	return func(c *Controller) { c.transitions = true }
}

// WithStoreOptions passes options through to the selection store.
func WithStoreOptions(opts ...selection.Option) Option {
	return func(c *Controller) { c.storeOpts = append(c.storeOpts, opts...) }
}

// Controller is the sheet session.
type Controller struct {
	logger      *slog.Logger
	effects     HostEffects
	transitions bool
	storeOpts   []selection.Option

	settings *config.Engine
	cfg      *config.Config
	store    *selection.Store
	events   *event.Registry
	digits   *keymap.DigitMap
	gesture  *gesture.Recognizer

	phase      Phase
	amount     amount.Amount
	customData bool
	password   []string

	panelHeight float64
	dragOffset  float64
	dragOpacity float64
}

// New creates a closed controller with default configuration and an empty
// selection store.
func New(opts ...Option) *Controller {
	c := &Controller{
		logger:      slog.Default(),
		effects:     noEffects{},
		settings:    config.NewEngine(),
		digits:      keymap.NewDigitMap(),
		dragOpacity: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg = c.settings.Config()
	c.store = selection.NewStore(append([]selection.Option{
		selection.WithLogger(c.logger),
		selection.WithRetryPolicy(selection.RetryPolicy{Cooldown: c.cfg.Loading.RetryCooldown}),
	}, c.storeOpts...)...)
	c.events = event.NewRegistry(c.logger)
	c.gesture = gesture.New(c, c.logger)
	c.settings.OnChange(c.applyConfig)
	return c
}

func (c *Controller) applyConfig(cfg *config.Config) {
	c.cfg = cfg
	c.store.SetRetryPolicy(selection.RetryPolicy{Cooldown: cfg.Loading.RetryCooldown})
	if !cfg.Password.Enabled || len(c.password) >= cfg.Password.Length {
		c.password = nil
	}
}

// Settings returns the configuration engine. Writes through it take effect
// immediately.
func (c *Controller) Settings() *config.Engine { return c.settings }

// Config returns the resolved configuration. Callers must not mutate it.
func (c *Controller) Config() *config.Config { return c.cfg }

// Store returns the selection store for rendering. Mutations should go
// through the controller so the password buffer stays consistent.
func (c *Controller) Store() *selection.Store { return c.store }

// Phase returns the lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// IsOpen reports whether the panel is fully open.
func (c *Controller) IsOpen() bool { return c.phase == PhaseOpen }

// Amount returns the current amount.
func (c *Controller) Amount() amount.Amount { return c.amount }

// Text returns the text bundle for the configured language and overrides.
// A configured title replaces the bundle title.
func (c *Controller) Text() i18n.Text {
	t := i18n.Lookup(c.cfg.UI.Language, c.cfg.UI.I18n)
	if c.cfg.UI.Title != "" {
		t.Title = c.cfg.UI.Title
	}
	return t
}

// Open shows the panel. It is a no-op unless the panel is closed. A nil
// amount keeps the current one; an invalid amount fails with
// amount.ErrInvalidAmount and leaves the panel closed. Selection data not
// supplied since the previous close is reset.
func (c *Controller) Open(v any) error {
	if c.phase != PhaseClosed {
		return nil
	}
	if v != nil {
		a, err := amount.Parse(v)
		if err != nil {
			return err
		}
		c.amount = a
	}
	if !c.customData {
		c.store.Reset()
	}
	c.customData = false
	c.password = nil
	c.dragOffset, c.dragOpacity = 0, 1
	c.effects.Engage()

	c.phase = PhaseOpening
	if !c.transitions {
		c.phase = PhaseOpen
	}
	c.logger.Debug("sheet opened", "amount", c.amount.String(), "phase", c.phase.String())
	return nil
}

// Settle finishes an opening transition.
func (c *Controller) Settle() {
	if c.phase == PhaseOpening {
		c.phase = PhaseOpen
	}
}

// Close hides the panel and emits close. It is a no-op when already closed.
func (c *Controller) Close() {
	if c.phase == PhaseClosed || c.phase == PhaseClosing {
		return
	}
	c.phase = PhaseClosing
	c.gesture.Cancel()
	c.password = nil
	c.dragOffset, c.dragOpacity = 0, 1
	c.effects.Restore()
	c.phase = PhaseClosed
	c.logger.Debug("sheet closed")
	c.events.Emit(event.Close, nil)
}

// Cancel closes the panel from the cancel action.
func (c *Controller) Cancel() { c.Close() }

// OverlayClick closes the panel if overlay clicks are configured to.
func (c *Controller) OverlayClick() bool {
	if c.phase != PhaseOpen || !c.cfg.Dismiss.CloseOnOverlayClick {
		return false
	}
	c.Close()
	return true
}

// SetAmount replaces the amount. Invalid input leaves it unchanged.
func (c *Controller) SetAmount(v any) error {
	a, err := amount.Parse(v)
	if err != nil {
		return err
	}
	c.amount = a
	return nil
}

// SetSections replaces the selection model with sections. The data is kept
// across the next Open.
func (c *Controller) SetSections(sections []selection.Section, mapping *selection.FieldMapping) {
	c.store.SetSections(sections, mapping)
	c.customData = true
	c.password = nil
}

// SetMethods replaces the selection model with a legacy tree. The data is
// kept across the next Open.
func (c *Controller) SetMethods(methods []selection.Method, mapping *selection.FieldMapping) {
	c.store.SetMethods(methods, mapping)
	c.customData = true
	c.password = nil
}

// Toggle flips an item by index. A change discards a partial password.
func (c *Controller) Toggle(sectionIndex, itemIndex int) bool {
	if !c.store.Toggle(sectionIndex, itemIndex) {
		return false
	}
	c.password = nil
	return true
}

// ToggleItem flips an item by value. A change discards a partial password.
func (c *Controller) ToggleItem(sectionIndex int, item selection.Record) bool {
	if !c.store.ToggleItem(sectionIndex, item) {
		return false
	}
	c.password = nil
	return true
}

// SelectMethod selects a tree leaf. A change discards a partial password.
func (c *Controller) SelectMethod(path selection.TreePath) bool {
	if !c.store.SelectMethod(path) {
		return false
	}
	c.password = nil
	return true
}

// ExpandGroup expands a tree group. A non-nil Load must be run by the
// caller and its result passed to CompleteLoad.
func (c *Controller) ExpandGroup(i int) *selection.Load { return c.store.ExpandGroup(i) }

// CollapseGroup collapses a tree group.
func (c *Controller) CollapseGroup(i int) { c.store.CollapseGroup(i) }

// ToggleGroup expands or collapses a tree group.
func (c *Controller) ToggleGroup(i int) *selection.Load { return c.store.ToggleGroup(i) }

// CompleteLoad applies a finished group load.
func (c *Controller) CompleteLoad(res selection.LoadResult) bool { return c.store.CompleteLoad(res) }

// SelectedMethod returns the first selected record.
func (c *Controller) SelectedMethod() (selection.Record, bool) { return c.store.SelectedMethod() }

// SetKeyboardMapping replaces the digit remap table.
func (c *Controller) SetKeyboardMapping(mapping []string) error {
	if err := c.digits.SetMapping(mapping); err != nil {
		return err
	}
	c.password = nil
	return nil
}

// KeyboardMapping returns the digit remap table.
func (c *Controller) KeyboardMapping() []string { return c.digits.Mapping() }

// On subscribes l to name. Subscribing the same listener twice is a no-op.
func (c *Controller) On(name event.Name, l *event.Listener) bool { return c.events.On(name, l) }

// Off unsubscribes l from name.
func (c *Controller) Off(name event.Name, l *event.Listener) bool { return c.events.Off(name, l) }

// Interactive reports whether the password UI or the actions may be shown
// at all: something is selectable or confirming without a selection is
// allowed.
func (c *Controller) Interactive() bool {
	return c.store.HasSelectable() || c.cfg.Display.AllowConfirmWithoutSelection
}

// ShowPassword reports whether the password input replaces the actions.
func (c *Controller) ShowPassword() bool {
	return c.Interactive() && c.cfg.Password.Enabled
}

// ShowActions reports whether the confirm and cancel actions are shown.
func (c *Controller) ShowActions() bool {
	return c.Interactive() && !c.cfg.Password.Enabled
}

// CanConfirm reports whether a confirmation may be produced now.
func (c *Controller) CanConfirm() bool {
	return c.phase == PhaseOpen && c.Interactive() && len(c.store.MissingRequired()) == 0
}

// Confirm emits confirm with the current result. It is refused while the
// password input is shown or when CanConfirm is false.
func (c *Controller) Confirm() (Result, bool) {
	if !c.ShowActions() || !c.CanConfirm() {
		return Result{}, false
	}
	return c.emitConfirm("", false), true
}

func (c *Controller) emitConfirm(password string, hasPassword bool) Result {
	res := c.buildResult(password, hasPassword)
	c.logger.Info("payment confirmed", "amount", res.Amount.String(), "sections", len(res.Selections))
	c.events.Emit(event.Confirm, res)
	return res
}

// PasswordFilled returns how many password digits are buffered.
func (c *Controller) PasswordFilled() int { return len(c.password) }

// PressKey appends the digit for key to the password buffer. Reaching the
// configured length confirms with the completed password and clears the
// buffer. It reports whether the key was accepted.
func (c *Controller) PressKey(key string) bool {
	if !c.ShowPassword() || !c.CanConfirm() {
		return false
	}
	ch, ok := c.digits.Lookup(key)
	if !ok {
		return false
	}
	c.password = append(c.password, ch)
	if len(c.password) < c.cfg.Password.Length {
		return true
	}
	pw := strings.Join(c.password, "")
	c.password = nil
	c.emitConfirm(pw, true)
	return true
}

// Backspace removes the last buffered digit.
func (c *Controller) Backspace() bool {
	if len(c.password) == 0 {
		return false
	}
	c.password = c.password[:len(c.password)-1]
	return true
}

// SetPanelHeight records the rendered panel height used by drag thresholds.
func (c *Controller) SetPanelHeight(h float64) { c.panelHeight = h }

// PointerDown starts a drag on a draggable surface. It reports whether the
// event was consumed.
func (c *Controller) PointerDown(surface mouse.Surface, s gesture.Sample) bool {
	return c.gesture.Begin(surface, s)
}

// PointerMove feeds a drag sample.
func (c *Controller) PointerMove(s gesture.Sample) { c.gesture.Move(s) }

// PointerUp ends a drag.
func (c *Controller) PointerUp(s gesture.Sample) gesture.Outcome { return c.gesture.Release(s) }

// CancelDrag aborts an active drag as a bounce.
func (c *Controller) CancelDrag() { c.gesture.Cancel() }

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.gesture.State() == gesture.StateDragging }

// DragView returns the live panel offset and overlay opacity.
func (c *Controller) DragView() (offset, opacity float64) { return c.dragOffset, c.dragOpacity }

// DragAllowed implements gesture.Host.
func (c *Controller) DragAllowed() bool {
	return c.phase == PhaseOpen && c.cfg.Dismiss.SwipeToDismiss
}

// PanelHeight implements gesture.Host.
func (c *Controller) PanelHeight() float64 { return c.panelHeight }

// Thresholds implements gesture.Host.
func (c *Controller) Thresholds() gesture.Thresholds {
	return gesture.Thresholds{
		DistancePx:      c.cfg.Dismiss.Threshold,
		DistancePercent: c.cfg.Dismiss.ThresholdPercent,
		Velocity:        c.cfg.Dismiss.VelocityThreshold,
	}
}

// DragUpdate implements gesture.Host.
func (c *Controller) DragUpdate(offset, opacity float64) {
	c.dragOffset, c.dragOpacity = offset, opacity
}
