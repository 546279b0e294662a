package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Surface classifies what part of the sheet a region belongs to. The gesture
// recognizer only starts drags from draggable surfaces; everything else
// receives pointer events untouched.
type Surface int

const (
	SurfaceNone Surface = iota
	SurfaceOverlay
	SurfaceHandle
	SurfaceHeader
	SurfaceBody
	SurfaceContent
	SurfaceAction
	SurfaceClose
)

// Draggable reports whether a drag may start on this surface.
func (s Surface) Draggable() bool {
	switch s {
	case SurfaceHandle, SurfaceHeader, SurfaceBody:
		return true
	}
	return false
}

func (s Surface) String() string {
	switch s {
	case SurfaceOverlay:
		return "overlay"
	case SurfaceHandle:
		return "handle"
	case SurfaceHeader:
		return "header"
	case SurfaceBody:
		return "body"
	case SurfaceContent:
		return "content"
	case SurfaceAction:
		return "action"
	case SurfaceClose:
		return "close"
	}
	return "none"
}

// Rect represents a rectangular region.
type Rect struct {
	X, Y, W, H int
}

// Contains returns true if the point (x, y) is within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit region on a surface with associated data.
type Region struct {
	ID      string
	Surface Surface
	Rect    Rect
	Data    any
}

// HitMap tracks hit regions for pointer hit testing.
type HitMap struct {
	regions []Region
}

// NewHitMap creates a new empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{
		regions: make([]Region, 0, 32),
	}
}

// Clear removes all regions from the hit map.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Add registers a region. Later regions sit on top of earlier ones.
func (h *HitMap) Add(id string, surface Surface, rect Rect, data any) {
	h.regions = append(h.regions, Region{
		ID:      id,
		Surface: surface,
		Rect:    rect,
		Data:    data,
	})
}

// AddRect adds a region using individual coordinates.
func (h *HitMap) AddRect(id string, surface Surface, x, y, w, height int, data any) {
	h.Add(id, surface, Rect{X: x, Y: y, W: w, H: height}, data)
}

// Test returns the topmost region containing the point, or nil if none.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// SurfaceAt returns the surface under the point.
func (h *HitMap) SurfaceAt(x, y int) Surface {
	if r := h.Test(x, y); r != nil {
		return r.Surface
	}
	return SurfaceNone
}

// Regions returns a copy of all registered regions (for testing).
func (h *HitMap) Regions() []Region {
	return append([]Region(nil), h.regions...)
}

// ActionType is the kind of pointer action decoded from a tea.MouseMsg.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionPress
	ActionDoubleClick
	ActionMotion
	ActionRelease
	ActionScrollUp
	ActionScrollDown
	ActionHover
)

// MouseAction is a decoded pointer event stamped with the time it was seen.
type MouseAction struct {
	Type   ActionType
	Region *Region
	X, Y   int
	Delta  int // scroll delta
	At     time.Time
}

// Surface returns the surface the action landed on.
func (a MouseAction) Surface() Surface {
	if a.Region == nil {
		return SurfaceNone
	}
	return a.Region.Surface
}

const doubleClickWindow = 400 * time.Millisecond

// Handler combines a HitMap with press/double-click tracking.
type Handler struct {
	HitMap *HitMap

	now func() time.Time

	pressed         bool
	lastClickTime   time.Time
	lastClickRegion string
}

// NewHandler creates a new mouse handler.
func NewHandler() *Handler {
	return &Handler{
		HitMap: NewHitMap(),
		now:    time.Now,
	}
}

// SetClock replaces the time source; used by tests to drive velocity.
func (h *Handler) SetClock(now func() time.Time) {
	if now != nil {
		h.now = now
	}
}

// Pressed reports whether the left button is held.
func (h *Handler) Pressed() bool { return h.pressed }

// Clear resets the hit map.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleMouse decodes a tea.MouseMsg into a MouseAction.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	now := h.now()
	region := h.HitMap.Test(msg.X, msg.Y)
	base := MouseAction{Region: region, X: msg.X, Y: msg.Y, At: now}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			h.pressed = true
			base.Type = ActionPress
			if region != nil {
				if region.ID == h.lastClickRegion && now.Sub(h.lastClickTime) < doubleClickWindow {
					base.Type = ActionDoubleClick
					h.lastClickRegion = ""
					h.lastClickTime = time.Time{}
				} else {
					h.lastClickRegion = region.ID
					h.lastClickTime = now
				}
			}
			return base
		case tea.MouseButtonWheelUp:
			base.Type = ActionScrollUp
			base.Delta = -1
			return base
		case tea.MouseButtonWheelDown:
			base.Type = ActionScrollDown
			base.Delta = 1
			return base
		}

	case tea.MouseActionRelease:
		h.pressed = false
		base.Type = ActionRelease
		return base

	case tea.MouseActionMotion:
		if h.pressed {
			base.Type = ActionMotion
			return base
		}
		base.Type = ActionHover
		return base
	}

	return MouseAction{Type: ActionNone, At: now}
}
