package gesture

// Thresholds are the dismissal limits resolved from configuration.
type Thresholds struct {
	DistancePx      float64 // absolute displacement limit
	DistancePercent float64 // fraction of panel height
	Velocity        float64 // units per millisecond
}

// Metrics summarise a completed drag.
type Metrics struct {
	Displacement  float64 // start to release, clamped at zero
	PeakVelocity  float64 // fastest downward instantaneous velocity seen
	FinalVelocity float64 // instantaneous velocity of the last move, signed
	PanelHeight   float64
}

// EffectiveDistance is the displacement a slow drag must exceed to close.
func (t Thresholds) EffectiveDistance(panelHeight float64) float64 {
	return max(t.DistancePx, panelHeight*t.DistancePercent)
}

// ShouldClose decides whether a released drag dismisses the panel.
// A fast flick only counts while the release is still heading down.
func ShouldClose(m Metrics, t Thresholds) bool {
	if m.Displacement > t.EffectiveDistance(m.PanelHeight) {
		return true
	}
	return m.PeakVelocity > t.Velocity && m.FinalVelocity > 0 && m.Displacement > 0
}
