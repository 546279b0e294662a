package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/paysheet/internal/config"
	"github.com/wilbur182/paysheet/internal/gesture"
	"github.com/wilbur182/paysheet/internal/keymap"
	"github.com/wilbur182/paysheet/internal/modal"
	"github.com/wilbur182/paysheet/internal/mouse"
	"github.com/wilbur182/paysheet/internal/selection"
	"github.com/wilbur182/paysheet/internal/ui"
)

// LoadResultMsg carries a finished deferred group load.
type LoadResultMsg struct {
	Result selection.LoadResult
}

// ConfigPatchMsg carries a reloaded config file.
type ConfigPatchMsg struct {
	Patch config.Patch
}

type settleMsg struct{}

func settle() tea.Cmd {
	return tea.Tick(settleDelay, func(time.Time) tea.Msg { return settleMsg{} })
}

func runLoad(load *selection.Load) tea.Cmd {
	return func() tea.Msg {
		return LoadResultMsg{Result: load.Run(context.Background())}
	}
}

func waitForPatch(ch <-chan config.Patch) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigPatchMsg{Patch: p}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case LoadResultMsg:
		m.ctrl.CompleteLoad(msg.Result)

	case ui.SpinnerTickMsg:
		m.spinning = false
		if m.loading() {
			m.sheet.TickSpinner()
			m.spinning = true
			cmds = append(cmds, ui.SpinnerTick())
		}

	case settleMsg:
		m.ctrl.Settle()

	case ConfigPatchMsg:
		m.ctrl.Settings().SetConfig(msg.Patch)
		m.logger.Info("config reloaded")
		cmds = append(cmds, waitForPatch(m.patches))
	}

	cmds = append(cmds, m.sync()...)
	return m, tea.Batch(cmds...)
}

func (m *Model) loading() bool {
	store := m.ctrl.Store()
	for i := range store.Methods() {
		if store.IsLoading(i) {
			return true
		}
	}
	return false
}

// keyContext picks the binding set for the current footer.
func (m *Model) keyContext() string {
	if m.ctrl.ShowPassword() {
		return keymap.ContextPassword
	}
	return keymap.ContextSheet
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.ctrl.Dragging() {
		if msg.Type == tea.KeyEsc {
			m.ctrl.CancelDrag()
		}
		return nil
	}

	ctx := m.keyContext()
	if ctx == keymap.ContextPassword && m.ctrl.PressKey(keymap.KeyString(msg)) {
		return nil
	}

	id, ok := m.keymap.Resolve(msg, ctx)
	if !ok {
		return nil
	}
	switch id {
	case keymap.CmdQuit:
		return tea.Quit
	case keymap.CmdNext:
		m.sheet.MoveFocus(1)
	case keymap.CmdPrev:
		m.sheet.MoveFocus(-1)
	case keymap.CmdToggle:
		if t, ok := m.sheet.Focused(); ok {
			return m.activate(t)
		}
	case keymap.CmdConfirm:
		m.ctrl.Confirm()
	case keymap.CmdBackspace:
		m.ctrl.Backspace()
	case keymap.CmdCancel:
		m.ctrl.Cancel()
	case keymap.CmdClose:
		m.ctrl.Close()
	default:
		if cmd, ok := m.keymap.GetCommand(id); ok && cmd.Handler != nil {
			return cmd.Handler()
		}
	}
	return nil
}

func (m *Model) sample(a mouse.MouseAction) gesture.Sample {
	return gesture.Sample{Y: float64(a.Y * cellPixels), At: a.At}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	a := m.mouse.HandleMouse(msg)

	switch a.Type {
	case mouse.ActionPress, mouse.ActionDoubleClick:
		if a.Surface().Draggable() {
			m.ctrl.SetPanelHeight(float64(m.sheet.PanelRows() * cellPixels))
			m.ctrl.PointerDown(a.Surface(), m.sample(a))
			return nil
		}
		if a.Region == nil {
			return nil
		}
		if t, ok := a.Region.Data.(modal.Target); ok {
			return m.activate(t)
		}

	case mouse.ActionMotion:
		m.ctrl.PointerMove(m.sample(a))

	case mouse.ActionRelease:
		m.ctrl.PointerUp(m.sample(a))

	case mouse.ActionHover:
		id := ""
		if a.Region != nil {
			id = a.Region.ID
		}
		m.sheet.SetHover(id)

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		m.sheet.ScrollBy(a.Delta)
	}
	return nil
}

// activate performs the click or select action for a target.
func (m *Model) activate(t modal.Target) tea.Cmd {
	switch t.Kind {
	case modal.TargetOverlay:
		m.ctrl.OverlayClick()
	case modal.TargetClose:
		m.ctrl.Close()
	case modal.TargetItem:
		m.ctrl.Toggle(t.Section, t.Item)
	case modal.TargetGroup:
		if load := m.ctrl.ToggleGroup(t.Section); load != nil {
			return m.startLoad(load)
		}
	case modal.TargetLeaf:
		m.ctrl.SelectMethod(t.Path)
	case modal.TargetDigit:
		m.ctrl.PressKey(t.Digit)
	case modal.TargetBackspace:
		m.ctrl.Backspace()
	case modal.TargetConfirm:
		m.ctrl.Confirm()
	case modal.TargetCancel:
		m.ctrl.Cancel()
	}
	return nil
}

func (m *Model) startLoad(load *selection.Load) tea.Cmd {
	cmds := []tea.Cmd{runLoad(load)}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, ui.SpinnerTick())
	}
	return tea.Batch(cmds...)
}
