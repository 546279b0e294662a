// Package gesture implements the swipe-to-dismiss recognizer for the sheet.
//
// The recognizer consumes raw pointer samples, reports live offset and
// overlay opacity while dragging, and asks ShouldClose for a verdict on
// release. It never decides panel disposition beyond that verdict; closing
// is delegated to the Host.
package gesture

import (
	"log/slog"
	"time"

	"github.com/wilbur182/paysheet/internal/mouse"
)

// State is the recognizer lifecycle.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateClosing
	StateBouncing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateClosing:
		return "closing"
	case StateBouncing:
		return "bouncing"
	}
	return "unknown"
}

// Sample is one pointer observation. Y grows downward.
type Sample struct {
	Y  float64
	At time.Time
}

// Host is the side of the controller the recognizer talks to.
type Host interface {
	// DragAllowed reports whether the panel is open and swipe dismissal is on.
	DragAllowed() bool
	PanelHeight() float64
	Thresholds() Thresholds
	// DragUpdate reports the live visual offset and overlay opacity.
	DragUpdate(offset, overlayOpacity float64)
	// Close dismisses the panel.
	Close()
}

// Outcome is what a release resolved to.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeClose
	OutcomeBounce
)

// Recognizer tracks at most one drag session.
type Recognizer struct {
	host   Host
	logger *slog.Logger

	state        State
	start        Sample
	last         Sample
	displacement float64
	peak         float64
	velocity     float64
}

// New creates an idle recognizer bound to host.
func New(host Host, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{host: host, logger: logger}
}

// State returns the current lifecycle state.
func (r *Recognizer) State() State { return r.state }

// Displacement returns the live displacement of the current drag.
func (r *Recognizer) Displacement() float64 { return r.displacement }

// Begin starts a drag from surface. It returns false when the pointer event
// must pass through untouched: non-draggable surface, panel not open, swipe
// disabled, or a drag already in progress.
func (r *Recognizer) Begin(surface mouse.Surface, s Sample) bool {
	if r.state == StateDragging {
		return false
	}
	if !surface.Draggable() || !r.host.DragAllowed() {
		return false
	}
	r.state = StateDragging
	r.start = s
	r.last = s
	r.displacement = 0
	r.peak = 0
	r.velocity = 0
	return true
}

// Move feeds a pointer sample into the active drag. It is ignored unless
// dragging.
func (r *Recognizer) Move(s Sample) {
	if r.state != StateDragging {
		return
	}
	r.velocity = instantVelocity(r.last, s)
	r.last = s

	d := s.Y - r.start.Y
	if d < 0 {
		// Upward travel past the start point is frozen at the rest position.
		if r.displacement != 0 {
			r.displacement = 0
			r.host.DragUpdate(0, 1)
		}
		return
	}
	if r.velocity > r.peak {
		r.peak = r.velocity
	}
	r.displacement = d
	r.host.DragUpdate(d, overlayOpacity(d, r.host.PanelHeight()))
}

// Release ends the drag, applies the verdict and returns to idle. A release
// at the last reported position keeps the velocity of the final move.
func (r *Recognizer) Release(s Sample) Outcome {
	if r.state != StateDragging {
		return OutcomeNone
	}
	if s.Y != r.last.Y {
		r.Move(s)
	}

	m := r.Metrics()
	if ShouldClose(m, r.host.Thresholds()) {
		r.state = StateClosing
		r.logger.Debug("drag dismissed sheet", "displacement", m.Displacement, "peak", m.PeakVelocity)
		r.host.Close()
		r.reset()
		return OutcomeClose
	}

	r.state = StateBouncing
	r.host.DragUpdate(0, 1)
	r.reset()
	return OutcomeBounce
}

// Cancel aborts an active drag as a bounce.
func (r *Recognizer) Cancel() {
	if r.state != StateDragging {
		return
	}
	r.state = StateBouncing
	r.host.DragUpdate(0, 1)
	r.reset()
}

// Metrics returns the figures ShouldClose would see right now.
func (r *Recognizer) Metrics() Metrics {
	return Metrics{
		Displacement:  r.displacement,
		PeakVelocity:  r.peak,
		FinalVelocity: r.velocity,
		PanelHeight:   r.host.PanelHeight(),
	}
}

func (r *Recognizer) reset() {
	r.state = StateIdle
	r.start = Sample{}
	r.last = Sample{}
	r.displacement = 0
	r.peak = 0
	r.velocity = 0
}

// instantVelocity is distance over time between consecutive samples, in
// units per millisecond. Samples with no elapsed time count as one
// millisecond apart so a burst of events still registers movement.
func instantVelocity(prev, cur Sample) float64 {
	dt := float64(cur.At.Sub(prev.At)) / float64(time.Millisecond)
	if dt <= 0 {
		dt = 1
	}
	return (cur.Y - prev.Y) / dt
}

func overlayOpacity(displacement, panelHeight float64) float64 {
	if panelHeight <= 0 {
		return 0
	}
	return min(1, max(0, 1-displacement/panelHeight))
}
