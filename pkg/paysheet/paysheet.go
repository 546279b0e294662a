// Package paysheet is a goroutine-safe payment sheet: an amount, a set of
// selectable payment options, an optional numeric password and drag to
// dismiss. Rendering is left to the host; cmd/paysheet shows a terminal
// host built on the same controller.
package paysheet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wilbur182/paysheet/internal/amount"
	"github.com/wilbur182/paysheet/internal/config"
	"github.com/wilbur182/paysheet/internal/event"
	"github.com/wilbur182/paysheet/internal/gesture"
	"github.com/wilbur182/paysheet/internal/i18n"
	"github.com/wilbur182/paysheet/internal/keymap"
	"github.com/wilbur182/paysheet/internal/mouse"
	"github.com/wilbur182/paysheet/internal/selection"
	"github.com/wilbur182/paysheet/internal/session"
)

// Re-exported types so hosts need only this package.
type (
	Record       = selection.Record
	Section      = selection.Section
	Method       = selection.Method
	Ready        = selection.Ready
	Deferred     = selection.Deferred
	Provider     = selection.Provider
	FieldMapping = selection.FieldMapping
	TreePath     = selection.TreePath
	Patch        = config.Patch
	Config       = config.Config
	IconDisplay  = config.IconDisplay
	Align        = config.Align
	Result       = session.Result
	Phase        = session.Phase
	HostEffects  = session.HostEffects
	Text         = i18n.Text
	Amount       = amount.Amount
	EventName    = event.Name
	Listener     = event.Listener
	Surface      = mouse.Surface
	Sample       = gesture.Sample
	Outcome      = gesture.Outcome
)

// Event names.
const (
	EventConfirm = event.Confirm
	EventClose   = event.Close
)

// Pointer surfaces a host reports to PointerDown.
const (
	SurfaceOverlay = mouse.SurfaceOverlay
	SurfaceHandle  = mouse.SurfaceHandle
	SurfaceHeader  = mouse.SurfaceHeader
	SurfaceBody    = mouse.SurfaceBody
	SurfaceContent = mouse.SurfaceContent
	SurfaceAction  = mouse.SurfaceAction
	SurfaceClose   = mouse.SurfaceClose
)

// Drag outcomes returned by PointerUp.
const (
	OutcomeNone   = gesture.OutcomeNone
	OutcomeClose  = gesture.OutcomeClose
	OutcomeBounce = gesture.OutcomeBounce
)

// Lifecycle phases.
const (
	PhaseClosed  = session.PhaseClosed
	PhaseOpening = session.PhaseOpening
	PhaseOpen    = session.PhaseOpen
	PhaseClosing = session.PhaseClosing
)

// Sentinel errors.
var (
	ErrInvalidAmount          = amount.ErrInvalidAmount
	ErrInvalidKeyboardMapping = keymap.ErrInvalidKeyboardMapping
)

// NewListener wraps fn so it can be passed to On and later to Off.
func NewListener(fn func(payload any)) *Listener { return event.NewListener(fn) }

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T { return &v }

// NormalizeChildren converts loosely typed children (records, a provider
// function or a result channel) into a child source.
func NormalizeChildren(v any) (selection.ChildSource, bool) { return selection.NormalizeChildren(v) }

// ParseMethods builds a method tree from records carrying a "children"
// field.
func ParseMethods(recs []Record) []Method { return selection.ParseMethods(recs) }

// Option configures a Sheet.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	effects   HostEffects
	trans     bool
	now       func() time.Time
	loadLimit int
}

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHostEffects installs the hooks run when the sheet opens and closes.
func WithHostEffects(e HostEffects) Option {
	return func(o *options) { o.effects = e }
}

// WithTransitions makes Open stop in the opening phase until Settle.
func WithTransitions() Option {
	return func(o *options) { o.trans = true }
}

// WithClock replaces the time source used for load retry cooldowns.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithPreloadLimit caps how many providers PreloadGroups runs at once.
func WithPreloadLimit(n int) Option {
	return func(o *options) { o.loadLimit = n }
}

// Sheet is a payment sheet instance. All methods are safe for concurrent
// use. Listeners run after the call that triggered them has released the
// sheet, so they may call back into it.
type Sheet struct {
	mu        sync.Mutex
	ctrl      *session.Controller
	listeners *event.Registry
	logger    *slog.Logger
	loadLimit int

	queue []queued
}

type queued struct {
	name    EventName
	payload any
}

// New creates a closed sheet with default configuration.
func New(opts ...Option) *Sheet {
	o := options{logger: slog.Default(), loadLimit: 4}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	ctrlOpts := []session.Option{session.WithLogger(o.logger)}
	if o.effects != nil {
		ctrlOpts = append(ctrlOpts, session.WithHostEffects(o.effects))
	}
	if o.trans {
		ctrlOpts = append(ctrlOpts, session.WithTransitions())
	}
	if o.now != nil {
		ctrlOpts = append(ctrlOpts, session.WithStoreOptions(selection.WithClock(o.now)))
	}

	s := &Sheet{
		ctrl:      session.New(ctrlOpts...),
		listeners: event.NewRegistry(o.logger),
		logger:    o.logger,
		loadLimit: max(1, o.loadLimit),
	}
	// Controller events are queued while the lock is held and delivered by
	// do once it is released.
	for _, name := range []EventName{EventConfirm, EventClose} {
		s.ctrl.On(name, event.NewListener(func(payload any) {
			s.queue = append(s.queue, queued{name: name, payload: payload})
		}))
	}
	return s
}

var (
	defaultOnce  sync.Once
	defaultSheet *Sheet
)

// Default returns a lazily created package-level sheet.
func Default() *Sheet {
	defaultOnce.Do(func() { defaultSheet = New() })
	return defaultSheet
}

// do runs fn under the lock, then delivers the events fn produced.
func (s *Sheet) do(fn func(c *session.Controller)) {
	for _, q := range s.locked(fn) {
		s.listeners.Emit(q.name, q.payload)
	}
}

// locked calls fn with the lock held and returns the events it queued. A
// panic in fn still releases the lock and drops its events.
func (s *Sheet) locked(fn func(c *session.Controller)) []queued {
	s.mu.Lock()
	defer func() {
		s.queue = nil
		s.mu.Unlock()
	}()
	fn(s.ctrl)
	return s.queue
}

// --- Lifecycle ---

// Open shows the sheet for amount. Invalid amounts return an error wrapping
// ErrInvalidAmount and leave the sheet unchanged.
func (s *Sheet) Open(amount any) error {
	var err error
	s.do(func(c *session.Controller) { err = c.Open(amount) })
	return err
}

// Settle finishes the opening transition.
func (s *Sheet) Settle() { s.do(func(c *session.Controller) { c.Settle() }) }

// Close hides the sheet and emits close. Closing a closed sheet does
// nothing.
func (s *Sheet) Close() { s.do(func(c *session.Controller) { c.Close() }) }

// Cancel closes the sheet from the cancel action.
func (s *Sheet) Cancel() { s.do(func(c *session.Controller) { c.Cancel() }) }

// OverlayClick closes the sheet when overlay clicks are configured to. It
// reports whether the sheet closed.
func (s *Sheet) OverlayClick() bool {
	var closed bool
	s.do(func(c *session.Controller) { closed = c.OverlayClick() })
	return closed
}

// Phase returns the lifecycle phase.
func (s *Sheet) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Phase()
}

// IsOpen reports whether the sheet is open and settled.
func (s *Sheet) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.IsOpen()
}

// SetAmount replaces the displayed amount.
func (s *Sheet) SetAmount(amount any) error {
	var err error
	s.do(func(c *session.Controller) { err = c.SetAmount(amount) })
	return err
}

// Amount returns the current amount.
func (s *Sheet) Amount() Amount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Amount()
}

// --- Data ---

// SetSections replaces the options with sections. mapping may be nil.
func (s *Sheet) SetSections(sections []Section, mapping *FieldMapping) {
	s.do(func(c *session.Controller) { c.SetSections(sections, mapping) })
}

// SetMethods replaces the options with a method tree. mapping may be nil.
func (s *Sheet) SetMethods(methods []Method, mapping *FieldMapping) {
	s.do(func(c *session.Controller) { c.SetMethods(methods, mapping) })
}

// Toggle selects or deselects an item. Bad indices are ignored.
func (s *Sheet) Toggle(sectionIndex, itemIndex int) bool {
	var changed bool
	s.do(func(c *session.Controller) { changed = c.Toggle(sectionIndex, itemIndex) })
	return changed
}

// ToggleItem is Toggle addressed by record identity.
func (s *Sheet) ToggleItem(sectionIndex int, item Record) bool {
	var changed bool
	s.do(func(c *session.Controller) { changed = c.ToggleItem(sectionIndex, item) })
	return changed
}

// SelectMethod selects a leaf in the method tree.
func (s *Sheet) SelectMethod(path TreePath) bool {
	var changed bool
	s.do(func(c *session.Controller) { changed = c.SelectMethod(path) })
	return changed
}

// GetSelectedMethod returns the first selected record.
func (s *Sheet) GetSelectedMethod() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.SelectedMethod()
}

// IsSelected reports whether an item is selected.
func (s *Sheet) IsSelected(sectionIndex, itemIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Store().IsSelected(sectionIndex, itemIndex)
}

// --- Groups ---

// ExpandGroup expands group i. Deferred children are fetched on a new
// goroutine without holding the sheet; the returned channel closes once the
// group has settled. Groups that need no fetch return a closed channel.
func (s *Sheet) ExpandGroup(i int) <-chan struct{} {
	var load *selection.Load
	s.do(func(c *session.Controller) { load = c.ExpandGroup(i) })

	done := make(chan struct{})
	if load == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		s.complete(load.Run(context.Background()))
	}()
	return done
}

// CollapseGroup collapses group i. An in-flight fetch is not cancelled.
func (s *Sheet) CollapseGroup(i int) {
	s.do(func(c *session.Controller) { c.CollapseGroup(i) })
}

// IsExpanded reports whether group i shows its children.
func (s *Sheet) IsExpanded(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Store().IsExpanded(i)
}

// IsLoading reports whether group i is fetching.
func (s *Sheet) IsLoading(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Store().IsLoading(i)
}

func (s *Sheet) complete(res selection.LoadResult) bool {
	var ok bool
	s.do(func(c *session.Controller) { ok = c.CompleteLoad(res) })
	return ok
}

// PreloadGroups fetches the deferred children of groups concurrently and
// leaves them expanded. Provider failures are absorbed by the sheet as on a
// normal expansion; the first one is also returned.
func (s *Sheet) PreloadGroups(ctx context.Context, groups ...int) error {
	var loads []*selection.Load
	s.do(func(c *session.Controller) {
		for _, i := range groups {
			if load := c.ExpandGroup(i); load != nil {
				loads = append(loads, load)
			}
		}
	})

	var g errgroup.Group
	g.SetLimit(s.loadLimit)
	for _, load := range loads {
		g.Go(func() error {
			res := load.Run(ctx)
			s.complete(res)
			return res.Err
		})
	}
	return g.Wait()
}

// --- Configuration ---

// Config returns a copy of the resolved configuration.
func (s *Sheet) Config() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Settings().Config()
}

// SetConfig is the bulk write. Options in p take its values. Options missing
// from p reset to their defaults unless a point setter last wrote them.
func (s *Sheet) SetConfig(p Patch) {
	s.do(func(c *session.Controller) { c.Settings().SetConfig(p) })
}

func (s *Sheet) set(fn func(e *config.Engine)) {
	s.do(func(c *session.Controller) { fn(c.Settings()) })
}

func (s *Sheet) SetSwipeToDismiss(v bool) {
	s.set(func(e *config.Engine) { e.SetSwipeToDismiss(v) })
}

func (s *Sheet) SetDismissThreshold(v float64) {
	s.set(func(e *config.Engine) { e.SetDismissThreshold(v) })
}

func (s *Sheet) SetDismissThresholdPercent(v float64) {
	s.set(func(e *config.Engine) { e.SetDismissThresholdPercent(v) })
}

func (s *Sheet) SetVelocityThreshold(v float64) {
	s.set(func(e *config.Engine) { e.SetVelocityThreshold(v) })
}

func (s *Sheet) SetCloseOnOverlayClick(v bool) {
	s.set(func(e *config.Engine) { e.SetCloseOnOverlayClick(v) })
}

func (s *Sheet) SetPasswordEnabled(v bool) {
	s.set(func(e *config.Engine) { e.SetPasswordEnabled(v) })
}

// SetPasswordLength sets the password length, clamped to 4–12.
func (s *Sheet) SetPasswordLength(n int) {
	s.set(func(e *config.Engine) { e.SetPasswordLength(n) })
}

func (s *Sheet) SetIconDisplay(v IconDisplay) {
	s.set(func(e *config.Engine) { e.SetIconDisplay(v) })
}

func (s *Sheet) SetAllowConfirmWithoutSelection(v bool) {
	s.set(func(e *config.Engine) { e.SetAllowConfirmWithoutSelection(v) })
}

func (s *Sheet) SetHideSelection(v bool) {
	s.set(func(e *config.Engine) { e.SetHideSelection(v) })
}

func (s *Sheet) SetAmountAlign(v Align) {
	s.set(func(e *config.Engine) { e.SetAmountAlign(v) })
}

func (s *Sheet) SetAmountFont(size, weight int) {
	s.set(func(e *config.Engine) { e.SetAmountFont(size, weight) })
}

func (s *Sheet) SetLanguage(v string) {
	s.set(func(e *config.Engine) { e.SetLanguage(v) })
}

func (s *Sheet) SetTheme(v string) {
	s.set(func(e *config.Engine) { e.SetTheme(v) })
}

func (s *Sheet) SetTitle(v string) {
	s.set(func(e *config.Engine) { e.SetTitle(v) })
}

func (s *Sheet) SetAriaLabel(v string) {
	s.set(func(e *config.Engine) { e.SetAriaLabel(v) })
}

func (s *Sheet) SetDescription(v string) {
	s.set(func(e *config.Engine) { e.SetDescription(v) })
}

// SetI18nOverrides replaces the per-key text overrides.
func (s *Sheet) SetI18nOverrides(m map[string]string) {
	s.set(func(e *config.Engine) { e.SetI18nOverrides(m) })
}

// SetLoadRetryCooldown sets how long a failed group refuses to reload.
func (s *Sheet) SetLoadRetryCooldown(d time.Duration) {
	s.set(func(e *config.Engine) { e.SetLoadRetryCooldown(d) })
}

// GetTheme returns the active theme name.
func (s *Sheet) GetTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Config().UI.Theme
}

// Text returns the display strings for the current language and overrides.
func (s *Sheet) Text() Text {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Text()
}

// --- Keyboard & password ---

// SetKeyboardMapping sets the character produced by each digit key; entry i
// belongs to key i. Nil restores the identity mapping.
func (s *Sheet) SetKeyboardMapping(mapping []string) error {
	var err error
	s.do(func(c *session.Controller) { err = c.SetKeyboardMapping(mapping) })
	return err
}

// KeyboardMapping returns the digit mapping in use.
func (s *Sheet) KeyboardMapping() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.KeyboardMapping()
}

// PressKey enters a password digit. Completing the password confirms.
func (s *Sheet) PressKey(key string) bool {
	var ok bool
	s.do(func(c *session.Controller) { ok = c.PressKey(key) })
	return ok
}

// Backspace removes the last password digit.
func (s *Sheet) Backspace() bool {
	var ok bool
	s.do(func(c *session.Controller) { ok = c.Backspace() })
	return ok
}

// PasswordFilled returns how many digits have been entered.
func (s *Sheet) PasswordFilled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.PasswordFilled()
}

// Confirm emits confirm when the actions are shown and the selection is
// complete.
func (s *Sheet) Confirm() (Result, bool) {
	var (
		res Result
		ok  bool
	)
	s.do(func(c *session.Controller) { res, ok = c.Confirm() })
	return res, ok
}

// CanConfirm reports whether Confirm would succeed.
func (s *Sheet) CanConfirm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.ShowActions() && s.ctrl.CanConfirm()
}

// ShowPassword reports whether the password input is shown.
func (s *Sheet) ShowPassword() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.ShowPassword()
}

// ShowActions reports whether confirm and cancel are shown.
func (s *Sheet) ShowActions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.ShowActions()
}

// --- Drag ---

// SetPanelHeight records the rendered panel height in pixels.
func (s *Sheet) SetPanelHeight(h float64) {
	s.do(func(c *session.Controller) { c.SetPanelHeight(h) })
}

// PointerDown starts a drag when surface is draggable and the sheet allows
// it. A false return means the event was not consumed.
func (s *Sheet) PointerDown(surface Surface, sample Sample) bool {
	var ok bool
	s.do(func(c *session.Controller) { ok = c.PointerDown(surface, sample) })
	return ok
}

// PointerMove feeds a drag sample.
func (s *Sheet) PointerMove(sample Sample) {
	s.do(func(c *session.Controller) { c.PointerMove(sample) })
}

// PointerUp ends a drag and reports whether it closed or bounced.
func (s *Sheet) PointerUp(sample Sample) Outcome {
	var out Outcome
	s.do(func(c *session.Controller) { out = c.PointerUp(sample) })
	return out
}

// DragView returns the live panel offset and overlay opacity.
func (s *Sheet) DragView() (offset, opacity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.DragView()
}

// --- Events ---

// On adds l for name. Adding the same listener twice is rejected.
func (s *Sheet) On(name EventName, l *Listener) bool { return s.listeners.On(name, l) }

// Off removes l from name.
func (s *Sheet) Off(name EventName, l *Listener) bool { return s.listeners.Off(name, l) }
