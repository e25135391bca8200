package filter

import (
	"github.com/ayusman/airforge/internal/detector"
)

// DefaultMaxSpeed is the maximum plausible wrist speed in normalized screen
// units per second. Faster apparent motion is a tracking glitch, not a hand.
const DefaultMaxSpeed = 5.0

// SanityFilter rejects frames whose wrist moved implausibly fast since the
// last accepted frame. A rejected frame means "no usable hand data this tick",
// not "hand lost": the filter keeps its reference state so a single mis-track
// cannot poison the baseline.
type SanityFilter struct {
	maxSpeed float64
	last     *detector.HandLandmarks
	lastMs   int64
}

// NewSanityFilter creates a filter with the given speed limit.
func NewSanityFilter(maxSpeed float64) *SanityFilter {
	return &SanityFilter{maxSpeed: maxSpeed}
}

// DefaultSanityFilter returns a filter with the default speed limit.
func DefaultSanityFilter() *SanityFilter {
	return NewSanityFilter(DefaultMaxSpeed)
}

// Accept reports whether the frame is plausible given the last accepted frame.
// The first call always accepts and seeds state. Zero or negative elapsed time
// is accepted, guarding against timestamp glitches. On rejection the stored
// reference is left untouched.
func (f *SanityFilter) Accept(frame *detector.HandLandmarks, timestampMs int64) bool {
	if frame == nil {
		return false
	}
	if f.last == nil {
		f.last = frame
		f.lastMs = timestampMs
		return true
	}

	dt := float64(timestampMs-f.lastMs) / 1000.0
	if dt > 0 {
		dist := frame.Points[detector.Wrist].Dist(f.last.Points[detector.Wrist])
		if dist/dt > f.maxSpeed {
			return false
		}
	}

	f.last = frame
	f.lastMs = timestampMs
	return true
}

// Reset clears the reference frame so the next Accept seeds fresh state.
func (f *SanityFilter) Reset() {
	f.last = nil
	f.lastMs = 0
}
