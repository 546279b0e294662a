package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/paysheet/internal/styles"
)

// SpinnerTickMsg advances every active spinner by one frame.
type SpinnerTickMsg time.Time

// SpinnerTickInterval is the animation frame rate.
const SpinnerTickInterval = 80 * time.Millisecond

// SpinnerTick schedules the next SpinnerTickMsg.
func SpinnerTick() tea.Cmd {
	return tea.Tick(SpinnerTickInterval, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// BrailleSpinner renders a single-cell braille busy indicator for loading
// groups. It does not generate its own ticks; call Tick from the
// SpinnerTickMsg handler.
type BrailleSpinner struct {
	frame  int
	active bool
}

var brailleFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewBrailleSpinner creates a new braille spinner (inactive by default).
func NewBrailleSpinner() BrailleSpinner {
	return BrailleSpinner{}
}

// SetActive starts or stops the animation. Starting an inactive spinner
// rewinds it to the first frame.
func (b *BrailleSpinner) SetActive(active bool) {
	if active && !b.active {
		b.frame = 0
	}
	b.active = active
}

// IsActive returns whether the spinner is running.
func (b BrailleSpinner) IsActive() bool {
	return b.active
}

// Tick advances the animation frame.
func (b *BrailleSpinner) Tick() {
	if b.active {
		b.frame++
	}
}

// Frame returns the unstyled current frame.
func (b BrailleSpinner) Frame() string {
	return brailleFrames[b.frame%len(brailleFrames)]
}

// View renders the current frame, or a blank cell when inactive.
func (b BrailleSpinner) View() string {
	if !b.active {
		return " "
	}
	return styles.Icon.Render(b.Frame())
}
