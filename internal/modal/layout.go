package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/paysheet/internal/mouse"
	"github.com/wilbur182/paysheet/internal/styles"
	"github.com/wilbur182/paysheet/internal/ui"
)

const (
	// MaxSheetWidth caps the panel width on wide terminals.
	MaxSheetWidth = 72
	// PanelChrome is the horizontal space taken by border and padding.
	PanelChrome = 4
	// HeaderRows is the handle row plus the title row.
	HeaderRows = 2
	// MaxPanelPercent is the share of the screen the panel may cover.
	MaxPanelPercent = 85
	// MinPanelRows is the smallest panel height budget.
	MinPanelRows = 8
)

// stack is a vertical run of rendered sections.
type stack struct {
	content    string
	height     int
	focusables []FocusableInfo
}

// renderStack renders sections top to bottom, shifting each section's
// focusables to stack coordinates.
func renderStack(sections []Section, width int, focusID, hoverID string) stack {
	var parts []string
	var out stack
	y := 0
	for _, sec := range sections {
		res := sec.Render(width, focusID, hoverID)
		h := measureHeight(res.Content)
		if h == 0 {
			continue
		}
		for _, f := range res.Focusables {
			f.OffsetY += y
			out.focusables = append(out.focusables, f)
		}
		parts = append(parts, strings.TrimRight(res.Content, "\n"))
		y += h
	}
	out.content = strings.Join(parts, "\n")
	out.height = y
	return out
}

// View renders the whole screen: overlay rows above a bottom-anchored panel.
// When handler is non-nil its hit map is rebuilt for this frame.
func (s *Sheet) View(vs ViewState, handler *mouse.Handler) string {
	if vs.Width <= 0 || vs.Height <= 0 {
		return ""
	}
	s.spinner.SetActive(s.anyLoading())

	panelW := min(vs.Width, MaxSheetWidth)
	contentW := max(1, panelW-PanelChrome)
	focusID := s.FocusID()

	contentSecs, footerSecs := s.buildSections(contentW)
	footer := renderStack(footerSecs, contentW, focusID, s.hoverID)

	budget := max(MinPanelRows, vs.Height*MaxPanelPercent/100) - 1 - HeaderRows
	avail := max(1, budget-footer.height)

	body := renderStack(contentSecs, contentW, focusID, s.hoverID)
	bodyW := contentW
	scrollbar := false
	if body.height > avail && contentW > 2 {
		bodyW = contentW - 2
		contentSecs, _ = s.buildSections(bodyW)
		body = renderStack(contentSecs, bodyW, focusID, s.hoverID)
		scrollbar = true
	}
	s.viewportH = min(max(1, body.height), avail)

	s.viewport.Width = bodyW
	s.viewport.Height = s.viewportH
	s.viewport.SetContent(body.content)
	s.viewport.SetYOffset(s.scroll)
	s.scroll = s.viewport.YOffset

	s.recordFocus(body.focusables)

	vpView := s.viewport.View()
	if scrollbar {
		vpView = lipgloss.JoinHorizontal(lipgloss.Top, vpView, " ", ui.RenderScrollbar(ui.ScrollbarParams{
			TotalLines:   body.height,
			ScrollOffset: s.scroll,
			VisibleLines: s.viewportH,
		}))
	}

	inner := []string{
		lipgloss.PlaceHorizontal(contentW, lipgloss.Center, styles.Handle.Render("━━━━━━")),
		s.headerLine(contentW),
		vpView,
	}
	if footer.height > 0 {
		inner = append(inner, footer.content)
	}
	panel := styles.Panel.Width(panelW - 2).Render(strings.Join(inner, "\n"))
	s.panelRows = lipgloss.Height(panel)

	panelX := (vs.Width - panelW) / 2
	panelY := vs.Height - s.panelRows + vs.OffsetRows

	if handler != nil {
		s.registerRegions(handler, vs, panelX, panelY, panelW, contentW, body, footer)
	}
	return s.compose(vs, panel, panelX, panelY, panelW)
}

func (s *Sheet) headerLine(width int) string {
	title := ansi.Truncate(styles.Title.Render(s.ctrl.Text().Title), max(0, width-2), "…")
	gap := max(1, width-ansi.StringWidth(title)-1)
	return title + strings.Repeat(" ", gap) + styles.CloseButton.Render("✕")
}

func (s *Sheet) recordFocus(fs []FocusableInfo) {
	prev := s.FocusID()
	s.focusIDs = s.focusIDs[:0]
	clear(s.focusRows)
	clear(s.targets)
	for _, f := range fs {
		s.focusIDs = append(s.focusIDs, f.ID)
		s.focusRows[f.ID] = f.OffsetY
		s.targets[f.ID] = f.Target
	}
	// Keep focus on the same element when rows are inserted above it.
	for i, id := range s.focusIDs {
		if id == prev {
			s.focusIdx = i
			return
		}
	}
	if s.focusIdx >= len(s.focusIDs) {
		s.focusIdx = 0
	}
}

// registerRegions rebuilds the hit map. Later regions sit on top.
func (s *Sheet) registerRegions(h *mouse.Handler, vs ViewState, panelX, panelY, panelW, contentW int, body, footer stack) {
	hm := h.HitMap
	hm.Clear()

	hm.AddRect(IDOverlay, mouse.SurfaceOverlay, 0, 0, vs.Width, vs.Height, Target{Kind: TargetOverlay})
	hm.AddRect(IDBody, mouse.SurfaceBody, panelX, panelY, panelW, s.panelRows, nil)
	hm.AddRect(IDHandle, mouse.SurfaceHandle, panelX, panelY, panelW, 2, nil)
	hm.AddRect(IDHeader, mouse.SurfaceHeader, panelX, panelY+2, panelW, 1, nil)

	contentX := panelX + PanelChrome/2
	hm.AddRect(IDClose, mouse.SurfaceClose, contentX+contentW-2, panelY+2, 3, 1, Target{Kind: TargetClose})

	vpY := panelY + 1 + HeaderRows
	hm.AddRect(IDContent, mouse.SurfaceContent, contentX, vpY, contentW, s.viewportH, nil)
	for _, f := range body.focusables {
		y := vpY + f.OffsetY - s.scroll
		if !intersectsViewport(y, f.Height, vpY, s.viewportH) {
			continue
		}
		hm.AddRect(f.ID, mouse.SurfaceContent, contentX+f.OffsetX, y, f.Width, f.Height, f.Target)
	}

	footerY := vpY + s.viewportH
	for _, f := range footer.focusables {
		hm.AddRect(f.ID, mouse.SurfaceAction, contentX+f.OffsetX, footerY+f.OffsetY, f.Width, f.Height, f.Target)
	}
}

// compose lays the panel over overlay rows, clipping to the screen.
func (s *Sheet) compose(vs ViewState, panel string, panelX, panelY, panelW int) string {
	overlay := lipgloss.NewStyle()
	if vs.OverlayOpacity >= 0.5 {
		overlay = styles.Overlay
	}
	blank := func(n int) string {
		if n <= 0 {
			return ""
		}
		return overlay.Render(strings.Repeat(" ", n))
	}

	rows := make([]string, 0, vs.Height)
	for y := 0; y < min(panelY, vs.Height); y++ {
		rows = append(rows, blank(vs.Width))
	}
	right := vs.Width - panelX - panelW
	for i, line := range strings.Split(panel, "\n") {
		y := panelY + i
		if y < 0 {
			continue
		}
		if y >= vs.Height {
			break
		}
		rows = append(rows, blank(panelX)+line+blank(right))
	}
	for len(rows) < vs.Height {
		rows = append(rows, blank(vs.Width))
	}
	return strings.Join(rows, "\n")
}

// intersectsViewport checks if an element at y with height h intersects the viewport.
func intersectsViewport(y, h, viewportY, viewportH int) bool {
	return y < viewportY+viewportH && y+h > viewportY
}
