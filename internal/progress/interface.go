// Package progress reports transfer progress to the terminal (progress bars),
// to the event bus (terminal UI) or nowhere.
package progress

// Indicator displays the percentage of an in-flight upload.
type Indicator interface {
	// SetPercent sets the displayed value; callers pass 0..100.
	SetPercent(percent float64)
}

// NoOp is an Indicator that discards updates.
type NoOp struct{}

// SetPercent does nothing.
func (NoOp) SetPercent(float64) {}

// Percent converts loaded/total into a percentage in [0, 100].
// ok is false when total is unknown.
func Percent(loaded, total int64) (pct float64, ok bool) {
	if total <= 0 {
		return 0, false
	}
	return Clamp(float64(loaded) / float64(total) * 100), true
}

// Clamp limits p to [0, 100].
func Clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
