package app

import (
	"github.com/wilbur182/paysheet/internal/modal"
	"github.com/wilbur182/paysheet/internal/session"
	"github.com/wilbur182/paysheet/internal/styles"
)

// View renders the sheet, or nothing once it has closed.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.ctrl.Phase() == session.PhaseClosed {
		m.mouse.Clear()
		return styles.Muted.Render(m.closedLine())
	}
	m.sheet.SetHelp(m.keymap.Help(m.keyContext()))
	offset, opacity := m.ctrl.DragView()
	return m.sheet.View(modal.ViewState{
		Width:          m.width,
		Height:         m.height,
		OffsetRows:     int(offset) / cellPixels,
		OverlayOpacity: opacity,
	}, m.mouse)
}

func (m Model) closedLine() string {
	if m.out.Confirmed {
		return m.ctrl.Text().Confirm + " ✓"
	}
	return m.ctrl.Text().Close
}
