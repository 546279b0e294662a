package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/paysheet/internal/config"
	"github.com/wilbur182/paysheet/internal/selection"
	"github.com/wilbur182/paysheet/internal/styles"
	"github.com/wilbur182/paysheet/internal/ui"
)

func alignPos(a config.Align) lipgloss.Position {
	switch a {
	case config.AlignLeft:
		return lipgloss.Left
	case config.AlignRight:
		return lipgloss.Right
	}
	return lipgloss.Center
}

// --- Amount Section ---

type amountSection struct {
	label string
	value string
	align config.Align
	bold  bool
	large bool
}

func (a *amountSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	pos := alignPos(a.align)
	st := styles.Amount.Bold(a.bold)

	lines := []string{
		lipgloss.PlaceHorizontal(contentWidth, pos, styles.AmountLabel.Render(a.label)),
	}
	if a.large {
		lines = append(lines, "")
	}
	lines = append(lines, lipgloss.PlaceHorizontal(contentWidth, pos, st.Render(a.value)))
	if a.large {
		lines = append(lines, "")
	}
	return RenderedSection{Content: strings.Join(lines, "\n")}
}

// --- Option rows ---

func selectionMark(multiple, selected bool) string {
	switch {
	case multiple && selected:
		return styles.Check.Render("☑")
	case multiple:
		return styles.Muted.Render("☐")
	case selected:
		return styles.Check.Render("◉")
	}
	return styles.Muted.Render("○")
}

func iconCell(icon selection.Icon) string {
	switch icon.Kind {
	case selection.IconText:
		pad := max(0, 2-ansi.StringWidth(icon.Value))
		return styles.Icon.Render(icon.Value) + strings.Repeat(" ", pad)
	case selection.IconURL:
		return styles.Icon.Render("◈") + " "
	}
	return "  "
}

type rowSpec struct {
	indent   int
	mark     string // rendered selection mark, "" when hidden
	icon     string // rendered icon cell, "" when the column is off
	title    string
	subtitle string
	suffix   string
}

func renderRow(r rowSpec, width int, focused, hovered bool) string {
	var b strings.Builder
	if focused {
		b.WriteString(styles.Check.Render("›"))
	} else {
		b.WriteString(" ")
	}
	b.WriteString(strings.Repeat(" ", r.indent+1))
	if r.mark != "" {
		b.WriteString(r.mark)
		b.WriteString(" ")
	}
	if r.icon != "" {
		b.WriteString(r.icon)
		b.WriteString(" ")
	}
	title := styles.Item.Render(r.title)
	if hovered || focused {
		title = styles.ItemCursor.Render(r.title)
	}
	b.WriteString(title)
	if r.subtitle != "" {
		b.WriteString("  ")
		b.WriteString(styles.ItemSubtitle.Render(r.subtitle))
	}
	if r.suffix != "" {
		b.WriteString(" ")
		b.WriteString(r.suffix)
	}
	return ansi.Truncate(b.String(), width, "…")
}

func showIconColumn(mode config.IconDisplay, m selection.FieldMapping, items []selection.Record) bool {
	switch mode {
	case config.IconShow:
		return true
	case config.IconHide:
		return false
	}
	for _, it := range items {
		if m.IconOf(it).Kind != selection.IconNone {
			return true
		}
	}
	return false
}

// --- Option Section ---

type optionSection struct {
	index         int
	sec           selection.Section
	mapping       selection.FieldMapping
	selected      func(section, item int) bool
	iconMode      config.IconDisplay
	hideSelection bool
}

func (o *optionSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	var lines []string
	if o.sec.Title != "" {
		header := styles.SectionHeader.Render(o.sec.Title)
		if o.sec.Required {
			header += styles.Required.Render(" *")
		}
		lines = append(lines, ansi.Truncate(header, contentWidth, "…"))
	}

	icons := showIconColumn(o.iconMode, o.mapping, o.sec.Items)
	focusables := make([]FocusableInfo, 0, len(o.sec.Items))
	for j, item := range o.sec.Items {
		id := itemID(o.index, j)
		spec := rowSpec{
			title:    o.mapping.TitleOf(item),
			subtitle: o.mapping.SubtitleOf(item),
		}
		if !o.hideSelection {
			spec.mark = selectionMark(o.sec.Multiple, o.selected(o.index, j))
		}
		if icons {
			spec.icon = iconCell(o.mapping.IconOf(item))
		}
		focusables = append(focusables, FocusableInfo{
			ID:      id,
			Target:  Target{Kind: TargetItem, Section: o.index, Item: j},
			OffsetY: len(lines),
			Width:   contentWidth,
			Height:  1,
		})
		lines = append(lines, renderRow(spec, contentWidth, id == focusID, id == hoverID))
	}
	return RenderedSection{Content: strings.Join(lines, "\n"), Focusables: focusables}
}

// --- Tree Section ---

type treeSection struct {
	store         *selection.Store
	spinner       ui.BrailleSpinner
	iconMode      config.IconDisplay
	hideSelection bool
}

func (t *treeSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	m := t.store.Mapping()
	methods := t.store.Methods()
	sel, hasSel := t.store.SelectedPath()

	records := make([]selection.Record, 0, len(methods))
	for _, n := range methods {
		records = append(records, n.Record)
	}
	icons := showIconColumn(t.iconMode, m, records)

	var lines []string
	var focusables []FocusableInfo

	leaf := func(p selection.TreePath, r selection.Record, indent int) {
		id := leafID(p)
		spec := rowSpec{indent: indent, title: m.TitleOf(r), subtitle: m.SubtitleOf(r)}
		if !t.hideSelection {
			spec.mark = selectionMark(false, hasSel && sel == p)
		}
		if icons {
			spec.icon = iconCell(m.IconOf(r))
		}
		focusables = append(focusables, FocusableInfo{
			ID: id, Target: Target{Kind: TargetLeaf, Path: p},
			OffsetY: len(lines), Width: contentWidth, Height: 1,
		})
		lines = append(lines, renderRow(spec, contentWidth, id == focusID, id == hoverID))
	}

	for gi, node := range methods {
		if node.IsLeaf() {
			leaf(selection.TreePath{Group: gi, Child: -1}, node.Record, 0)
			continue
		}

		state := t.store.GroupState(gi)
		arrow := "▸"
		if state == selection.GroupExpanded {
			arrow = "▾"
		}
		spec := rowSpec{mark: styles.GroupHeader.Render(arrow), title: m.TitleOf(node.Record)}
		if icons {
			spec.icon = iconCell(m.IconOf(node.Record))
		}
		if state == selection.GroupLoading {
			spec.suffix = t.spinner.View()
		}
		id := groupID(gi)
		focusables = append(focusables, FocusableInfo{
			ID: id, Target: Target{Kind: TargetGroup, Section: gi},
			OffsetY: len(lines), Width: contentWidth, Height: 1,
		})
		lines = append(lines, renderRow(spec, contentWidth, id == focusID, id == hoverID))

		if state != selection.GroupExpanded {
			continue
		}
		for ci, child := range t.store.Children(gi) {
			if child.IsLeaf() {
				leaf(selection.TreePath{Group: gi, Child: ci}, child.Record, 2)
				continue
			}
			lines = append(lines, renderRow(rowSpec{indent: 2, title: m.TitleOf(child.Record)}, contentWidth, false, false))
		}
	}
	return RenderedSection{Content: strings.Join(lines, "\n"), Focusables: focusables}
}

// --- Password Section ---

type passwordSection struct {
	prompt string
	filled int
	length int
}

func (p *passwordSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	hover := ""
	for _, label := range ui.KeypadLabels {
		if digitID(label) == hoverID {
			hover = label
		}
	}
	keypad := ui.RenderKeypad(hover)
	keypadW := ansi.StringWidth(keypad)
	x0 := max(0, (contentWidth-keypadW)/2)

	lines := []string{
		lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, styles.Muted.Render(p.prompt)),
		lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, ui.RenderPasswordCells(p.filled, p.length)),
		lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, keypad),
	}

	focusables := make([]FocusableInfo, 0, len(ui.KeypadLabels))
	for k, label := range ui.KeypadLabels {
		target := Target{Kind: TargetDigit, Digit: label}
		if label == "⌫" {
			target = Target{Kind: TargetBackspace}
		}
		focusables = append(focusables, FocusableInfo{
			ID:      digitID(label),
			Target:  target,
			OffsetX: x0 + k*ui.KeypadKeyWidth,
			OffsetY: 2,
			Width:   3,
			Height:  1,
		})
	}
	return RenderedSection{Content: strings.Join(lines, "\n"), Focusables: focusables}
}

// --- Actions Section ---

type actionsSection struct {
	confirm string
	cancel  string
	enabled bool
}

func (a *actionsSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	hover := ui.ButtonNone
	switch hoverID {
	case IDConfirm:
		hover = ui.ButtonConfirm
	case IDCancel:
		hover = ui.ButtonCancel
	}
	pair := ui.RenderButtonPair(a.confirm, a.cancel, ui.ButtonNone, hover, a.enabled)
	x0 := max(0, (contentWidth-lipgloss.Width(pair.View))/2)

	return RenderedSection{
		Content: lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, pair.View),
		Focusables: []FocusableInfo{
			{ID: IDConfirm, Target: Target{Kind: TargetConfirm}, OffsetX: x0, Width: pair.ConfirmWidth, Height: pair.Height},
			{ID: IDCancel, Target: Target{Kind: TargetCancel}, OffsetX: x0 + pair.CancelOffsetX, Width: pair.CancelWidth, Height: pair.Height},
		},
	}
}

// --- Help Section ---

// helpSection lists key hints, wrapping between hints.
type helpSection struct {
	bindings []key.Binding
}

func (h *helpSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	var lines []string
	var line strings.Builder
	w := 0
	for _, b := range h.bindings {
		if !b.Enabled() {
			continue
		}
		hint := styles.KeyHint.Render(b.Help().Key) + styles.Muted.Render(" "+b.Help().Desc)
		hw := ansi.StringWidth(hint)
		if w > 0 && w+2+hw > contentWidth {
			lines = append(lines, line.String())
			line.Reset()
			w = 0
		}
		if w > 0 {
			line.WriteString(styles.Muted.Render("  "))
			w += 2
		}
		line.WriteString(hint)
		w += hw
	}
	if w > 0 {
		lines = append(lines, line.String())
	}
	return RenderedSection{Content: strings.Join(lines, "\n")}
}
