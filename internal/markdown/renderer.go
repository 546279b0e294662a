// Package markdown renders the sheet description with glamour.
package markdown

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

const (
	// MinWidthForMarkdown is the narrowest width rendered with glamour.
	// Below it the description is plain wrapped text.
	MinWidthForMarkdown = 24

	// MaxCacheEntries is the maximum number of cached renders before eviction.
	MaxCacheEntries = 64
)

// Renderer wraps glamour with a render cache keyed by content, width and
// style.
type Renderer struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	style     func() string
	renderer  *glamour.TermRenderer
	lastWidth int
	lastStyle string
	cache     map[uint64][]string
}

// NewRenderer creates a renderer. style returns the glamour style name to
// use ("light", "dark", ...); it is consulted on every render so theme
// switches take effect.
func NewRenderer(style func() string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if style == nil {
		style = func() string { return "light" }
	}
	return &Renderer{
		logger: logger,
		style:  style,
		cache:  make(map[uint64][]string),
	}
}

// Render renders markdown content to styled lines no wider than width.
func (r *Renderer) Render(content string, width int) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	if width < MinWidthForMarkdown {
		return WrapText(content, width)
	}

	style := r.style()
	key := cacheKey(content, width, style)

	r.mu.RLock()
	if cached, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return cached
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[key]; ok {
		return cached
	}

	renderer, err := r.getOrCreateRenderer(width, style)
	if err != nil {
		r.logger.Warn("glamour renderer", "err", err)
		return WrapText(content, width)
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		r.logger.Warn("glamour render", "err", err)
		return WrapText(content, width)
	}

	rendered = strings.Trim(rendered, "\n\r")
	lines := strings.Split(rendered, "\n")

	if len(r.cache) >= MaxCacheEntries {
		r.cache = make(map[uint64][]string)
	}
	r.cache[key] = lines
	return lines
}

// cacheKey hashes content, width and style with xxhash.
func cacheKey(content string, width int, style string) uint64 {
	h := xxhash.New()
	h.WriteString(content)
	h.Write([]byte{0, byte(width >> 8), byte(width), 0})
	h.WriteString(style)
	return h.Sum64()
}

// getOrCreateRenderer returns a renderer for width and style, recreating it
// when either changed. Must be called with the write lock held.
func (r *Renderer) getOrCreateRenderer(width int, style string) (*glamour.TermRenderer, error) {
	if r.renderer != nil && r.lastWidth == width && r.lastStyle == style {
		return r.renderer, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	r.renderer = renderer
	r.lastWidth = width
	r.lastStyle = style
	r.cache = make(map[uint64][]string)
	return renderer, nil
}

// WrapText wraps text on word boundaries to fit within maxWidth cells.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= maxWidth {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
