package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/paysheet/internal/styles"
)

// Button indices for focus and hover.
const (
	ButtonNone = iota
	ButtonConfirm
	ButtonCancel
)

// ButtonGap is the number of cells between the two buttons.
const ButtonGap = 2

// ResolveButtonStyle returns the style for button btnIdx given the focused
// and hovered buttons. Focus wins over hover; an idle confirm button uses
// the primary style.
func ResolveButtonStyle(focusIdx, hoverIdx, btnIdx int) lipgloss.Style {
	switch {
	case focusIdx == btnIdx:
		return styles.ButtonFocused
	case hoverIdx == btnIdx:
		return styles.ButtonHover
	case btnIdx == ButtonConfirm:
		return styles.ButtonPrimary
	}
	return styles.Button
}

// ButtonPair is a rendered confirm/cancel pair with the cell widths needed
// to register hit regions.
type ButtonPair struct {
	View          string
	ConfirmWidth  int
	CancelOffsetX int
	CancelWidth   int
	Height        int
}

// RenderButtonPair renders the confirm and cancel buttons side by side.
// A disabled confirm button is drawn muted.
func RenderButtonPair(confirmLabel, cancelLabel string, focusIdx, hoverIdx int, confirmEnabled bool) ButtonPair {
	confirmStyle := ResolveButtonStyle(focusIdx, hoverIdx, ButtonConfirm)
	if !confirmEnabled {
		confirmStyle = styles.Button.Foreground(styles.TextMuted)
	}
	cancelStyle := ResolveButtonStyle(focusIdx, hoverIdx, ButtonCancel)

	confirm := confirmStyle.Render(confirmLabel)
	cancel := cancelStyle.Render(cancelLabel)
	gap := lipgloss.NewStyle().Width(ButtonGap).Render("")

	cw := lipgloss.Width(confirm)
	return ButtonPair{
		View:          lipgloss.JoinHorizontal(lipgloss.Top, confirm, gap, cancel),
		ConfirmWidth:  cw,
		CancelOffsetX: cw + ButtonGap,
		CancelWidth:   lipgloss.Width(cancel),
		Height:        max(lipgloss.Height(confirm), lipgloss.Height(cancel)),
	}
}
