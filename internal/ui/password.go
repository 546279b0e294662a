package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/paysheet/internal/styles"
)

// RenderPasswordCells renders length cells, the first filled of them shown
// as dots. Digits are never echoed.
func RenderPasswordCells(filled, length int) string {
	cells := make([]string, 0, length)
	for i := range length {
		if i < filled {
			cells = append(cells, styles.PasswordCellFilled.Render("●"))
		} else {
			cells = append(cells, styles.PasswordCell.Render("○"))
		}
	}
	return strings.Join(cells, " ")
}

// KeypadKeyWidth is the cell width of one keypad key, including its gap.
const KeypadKeyWidth = 4

// KeypadLabels is the on-screen key order: digits then backspace.
var KeypadLabels = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "⌫"}

// RenderKeypad renders the digit keys on one row. hover is the label under
// the pointer, or "".
func RenderKeypad(hover string) string {
	hoverStyle := lipgloss.NewStyle().
		Foreground(styles.TextInverse).
		Background(styles.ButtonHoverColor)

	var sb strings.Builder
	for _, label := range KeypadLabels {
		key := "[" + label + "]"
		if label == hover {
			sb.WriteString(hoverStyle.Render(key))
		} else {
			sb.WriteString(styles.Muted.Render(key))
		}
		sb.WriteString(strings.Repeat(" ", KeypadKeyWidth-3))
	}
	return strings.TrimRight(sb.String(), " ")
}
