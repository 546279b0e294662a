package app

import tea "github.com/charmbracelet/bubbletea"

// Effects captures the mouse while the sheet is open so wheel events scroll
// the sheet rather than the terminal, and releases it on close. The
// controller calls it synchronously; the resulting commands are returned
// from the next update.
type Effects struct {
	pending []tea.Cmd
	engaged bool
}

// Engage implements session.HostEffects.
func (e *Effects) Engage() {
	if e.engaged {
		return
	}
	e.engaged = true
	e.pending = append(e.pending, tea.EnableMouseAllMotion)
}

// Restore implements session.HostEffects.
func (e *Effects) Restore() {
	if !e.engaged {
		return
	}
	e.engaged = false
	e.pending = append(e.pending, tea.DisableMouse)
}

// Engaged reports whether the mouse is captured.
func (e *Effects) Engaged() bool { return e.engaged }

func (e *Effects) drain() []tea.Cmd {
	out := e.pending
	e.pending = nil
	return out
}
