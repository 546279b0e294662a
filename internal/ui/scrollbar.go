package ui

import (
	"strings"

	"github.com/wilbur182/paysheet/internal/styles"
)

// ScrollbarParams configures a vertical scrollbar for the sheet content.
type ScrollbarParams struct {
	TotalLines   int // content height
	ScrollOffset int // first visible line
	VisibleLines int // viewport height
}

// thumbSpan returns the thumb position and size on a track of
// VisibleLines rows.
func thumbSpan(p ScrollbarParams) (pos, size int) {
	track := p.VisibleLines
	size = max(1, min(track, p.VisibleLines*track/p.TotalLines))
	maxOffset := max(1, p.TotalLines-p.VisibleLines)
	pos = p.ScrollOffset * (track - size) / maxOffset
	return min(max(0, pos), track-size), size
}

// RenderScrollbar returns a one-column track with VisibleLines rows. When
// everything fits it is a blank column so the layout does not shift.
func RenderScrollbar(p ScrollbarParams) string {
	if p.VisibleLines < 1 {
		return ""
	}
	lines := make([]string, p.VisibleLines)
	if p.TotalLines <= p.VisibleLines {
		for i := range lines {
			lines[i] = " "
		}
		return strings.Join(lines, "\n")
	}

	pos, size := thumbSpan(p)
	track := styles.Handle.Render("│")
	thumb := styles.Check.Render("┃")
	for i := range lines {
		if i >= pos && i < pos+size {
			lines[i] = thumb
		} else {
			lines[i] = track
		}
	}
	return strings.Join(lines, "\n")
}
