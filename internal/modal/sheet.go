// Package modal renders the payment sheet as a bottom-anchored panel over a
// dimmed overlay and registers the hit regions the gesture recognizer and
// click handling read surfaces from.
package modal

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/wilbur182/paysheet/internal/i18n"
	"github.com/wilbur182/paysheet/internal/markdown"
	"github.com/wilbur182/paysheet/internal/selection"
	"github.com/wilbur182/paysheet/internal/session"
	"github.com/wilbur182/paysheet/internal/styles"
	"github.com/wilbur182/paysheet/internal/ui"
)

// ViewState is the host-side geometry of one frame.
type ViewState struct {
	Width, Height  int
	OffsetRows     int     // live drag offset in rows
	OverlayOpacity float64 // 0..1, from the drag
}

// Sheet is the view over a session controller. It owns only presentation
// state: keyboard focus, hover and content scroll.
type Sheet struct {
	ctrl     *session.Controller
	md       *markdown.Renderer
	spinner  ui.BrailleSpinner
	viewport viewport.Model

	focusIDs  []string
	focusRows map[string]int
	targets   map[string]Target
	focusIdx  int
	hoverID   string
	scroll    int
	help      []key.Binding

	panelRows int
	viewportH int
}

// New creates a sheet view for ctrl. md renders the description.
func New(ctrl *session.Controller, md *markdown.Renderer) *Sheet {
	return &Sheet{
		ctrl:      ctrl,
		md:        md,
		spinner:   ui.NewBrailleSpinner(),
		viewport:  viewport.New(0, 0),
		focusRows: make(map[string]int),
		targets:   make(map[string]Target),
	}
}

// Reset clears focus, hover and scroll; called when the sheet opens.
func (s *Sheet) Reset() {
	s.focusIdx = 0
	s.hoverID = ""
	s.scroll = 0
}

// SetHelp sets the key hints drawn at the bottom of the panel. Nil hides
// the hint line.
func (s *Sheet) SetHelp(bindings []key.Binding) { s.help = bindings }

// SetHover records the region under the pointer.
func (s *Sheet) SetHover(id string) { s.hoverID = id }

// FocusID returns the focused element, or "".
func (s *Sheet) FocusID() string {
	if s.focusIdx < 0 || s.focusIdx >= len(s.focusIDs) {
		return ""
	}
	return s.focusIDs[s.focusIdx]
}

// Focused returns the target of the focused element.
func (s *Sheet) Focused() (Target, bool) {
	t, ok := s.targets[s.FocusID()]
	return t, ok
}

// MoveFocus moves keyboard focus by delta, wrapping, and scrolls the
// focused row into view. Focus positions come from the last render.
func (s *Sheet) MoveFocus(delta int) {
	n := len(s.focusIDs)
	if n == 0 {
		return
	}
	s.focusIdx = ((s.focusIdx+delta)%n + n) % n
	row := s.focusRows[s.FocusID()]
	switch {
	case row < s.scroll:
		s.scroll = row
	case s.viewportH > 0 && row >= s.scroll+s.viewportH:
		s.scroll = row - s.viewportH + 1
	}
}

// ScrollBy scrolls the content by n lines. The offset is clamped on the
// next render.
func (s *Sheet) ScrollBy(n int) { s.scroll = max(0, s.scroll+n) }

// ScrollOffset returns the content scroll offset.
func (s *Sheet) ScrollOffset() int { return s.scroll }

// PanelRows returns the panel height of the last render.
func (s *Sheet) PanelRows() int { return s.panelRows }

// SpinnerActive reports whether a group is loading.
func (s *Sheet) SpinnerActive() bool { return s.spinner.IsActive() }

// TickSpinner advances the loading indicator.
func (s *Sheet) TickSpinner() { s.spinner.Tick() }

func (s *Sheet) anyLoading() bool {
	store := s.ctrl.Store()
	for i := range store.Methods() {
		if store.IsLoading(i) {
			return true
		}
	}
	return false
}

// buildSections returns the scrolling content and the fixed footer.
func (s *Sheet) buildSections(width int) (content, footer []Section) {
	cfg := s.ctrl.Config()
	text := s.ctrl.Text()
	store := s.ctrl.Store()

	if cfg.UI.Description != "" && s.md != nil {
		content = append(content, Lines(s.md.Render(cfg.UI.Description, width)), Spacer())
	}
	content = append(content, &amountSection{
		label: text.AmountLabel,
		value: s.ctrl.Amount().Format(i18n.Match(cfg.UI.Language)),
		align: cfg.Amount.Align,
		bold:  cfg.Amount.FontWeight >= 600,
		large: cfg.Amount.FontSize >= 32,
	})

	switch store.Model().(type) {
	case selection.Sections:
		for i, sec := range store.Sections() {
			content = append(content, Spacer(), &optionSection{
				index:         i,
				sec:           sec,
				mapping:       store.Mapping(),
				selected:      store.IsSelected,
				iconMode:      cfg.Display.IconDisplay,
				hideSelection: cfg.Display.HideSelection,
			})
		}
	case selection.Tree:
		content = append(content, Spacer(), &treeSection{
			store:         store,
			spinner:       s.spinner,
			iconMode:      cfg.Display.IconDisplay,
			hideSelection: cfg.Display.HideSelection,
		})
	}
	if !store.HasSelectable() {
		content = append(content, Spacer(), Text(text.Empty, styles.Muted))
	}

	if s.ctrl.Interactive() && len(store.MissingRequired()) > 0 {
		footer = append(footer, Text(text.Required, styles.ErrorMsg))
	}
	switch {
	case s.ctrl.ShowPassword():
		footer = append(footer, &passwordSection{
			prompt: text.PasswordPrompt,
			filled: s.ctrl.PasswordFilled(),
			length: cfg.Password.Length,
		})
	case s.ctrl.ShowActions():
		footer = append(footer, &actionsSection{
			confirm: text.Confirm,
			cancel:  text.Cancel,
			enabled: s.ctrl.CanConfirm(),
		})
	}
	if len(s.help) > 0 {
		footer = append(footer, &helpSection{bindings: s.help})
	}
	return content, footer
}
