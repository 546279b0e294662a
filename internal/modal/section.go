package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Section is one block of sheet content.
type Section interface {
	// Render returns the rendered section content and its focusable
	// elements. contentWidth is the available width inside the panel.
	// focusID and hoverID name the focused and hovered elements.
	Render(contentWidth int, focusID, hoverID string) RenderedSection
}

// RenderedSection is the result of rendering a section.
type RenderedSection struct {
	Content    string          // Rendered string content
	Focusables []FocusableInfo // Focusable elements with hit region info
}

// FocusableInfo describes a clickable element within a section.
type FocusableInfo struct {
	ID      string // Unique identifier for this element
	Target  Target // What activating the element does
	OffsetX int    // X offset relative to section top-left (within content area)
	OffsetY int    // Y offset relative to section top-left (within content area)
	Width   int    // Width in cells
	Height  int    // Height in lines
}

// --- Text Section ---

type textSection struct {
	text  string
	style lipgloss.Style
}

// Text creates a static, wrapped text section.
func Text(s string, style lipgloss.Style) Section {
	return &textSection{text: s, style: style}
}

func (t *textSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return RenderedSection{Content: t.style.Render(wrapText(t.text, contentWidth))}
}

// --- Lines Section ---

type linesSection struct {
	lines []string
}

// Lines creates a section from pre-rendered lines.
func Lines(lines []string) Section {
	return &linesSection{lines: lines}
}

func (l *linesSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return RenderedSection{Content: strings.Join(l.lines, "\n")}
}

// --- Spacer Section ---

type spacerSection struct{}

// Spacer creates a blank line section.
func Spacer() Section {
	return &spacerSection{}
}

func (s *spacerSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	// A single space so measureHeight reports one line.
	return RenderedSection{Content: " "}
}

// --- When Section ---

type whenSection struct {
	condition bool
	inner     Section
}

// When renders section only if condition holds.
func When(condition bool, section Section) Section {
	return &whenSection{condition: condition, inner: section}
}

func (w *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !w.condition {
		return RenderedSection{}
	}
	return w.inner.Render(contentWidth, focusID, hoverID)
}

// --- Helper functions ---

// wrapText wraps text to fit within the given width.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result []string
	for _, line := range strings.Split(text, "\n") {
		if ansi.StringWidth(line) <= width {
			result = append(result, line)
			continue
		}

		var current string
		for _, word := range strings.Fields(line) {
			switch {
			case current == "":
				current = word
			case ansi.StringWidth(current+" "+word) <= width:
				current += " " + word
			default:
				result = append(result, current)
				current = word
			}
		}
		if current != "" {
			result = append(result, current)
		}
	}
	return strings.Join(result, "\n")
}

// measureHeight returns the number of lines in rendered content.
// Trims trailing newlines and returns 0 for empty content.
func measureHeight(content string) int {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return 0
	}
	return lipgloss.Height(trimmed)
}
