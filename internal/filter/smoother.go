// Package filter conditions raw hand-landmark frames before gesture
// classification: exponential smoothing with glitch recovery, and a sanity
// check that drops physically implausible motion.
package filter

import (
	"github.com/ayusman/airforge/internal/detector"
)

// Smoothing defaults, tuned against 30 FPS hand tracking.
const (
	// DefaultAlpha is the EMA blend weight given to the raw sample.
	DefaultAlpha = 0.6
	// DefaultJumpThreshold is the per-point displacement (normalized units)
	// beyond which smoothing is bypassed. Large jumps are either tracking
	// glitches or genuine fast motion; in both cases lagging behind is worse
	// than passing the raw point through.
	DefaultJumpThreshold = 0.1
)

// LandmarkSmoother applies per-point exponential smoothing across frames.
// It holds the previous smoothed frame as history; Reset clears it.
type LandmarkSmoother struct {
	alpha         float64
	jumpThreshold float64
	prev          *detector.HandLandmarks
}

// NewLandmarkSmoother creates a smoother with the given EMA weight and jump
// threshold.
func NewLandmarkSmoother(alpha, jumpThreshold float64) *LandmarkSmoother {
	return &LandmarkSmoother{
		alpha:         alpha,
		jumpThreshold: jumpThreshold,
	}
}

// DefaultSmoother returns a smoother with the default tuning.
func DefaultSmoother() *LandmarkSmoother {
	return NewLandmarkSmoother(DefaultAlpha, DefaultJumpThreshold)
}

// Update smooths one frame against the stored history and returns the result.
// The first call after a reset returns the raw frame unchanged. Each of the 21
// points is blended independently; a point that moved farther than the jump
// threshold since the previous smoothed frame is copied raw instead.
// The returned frame becomes the new history.
func (s *LandmarkSmoother) Update(raw *detector.HandLandmarks) *detector.HandLandmarks {
	if raw == nil {
		return nil
	}
	if s.prev == nil {
		frame := *raw
		s.prev = &frame
		return &frame
	}

	out := detector.HandLandmarks{
		Handedness: raw.Handedness,
		Score:      raw.Score,
	}
	for i := 0; i < detector.NumLandmarks; i++ {
		cur := raw.Points[i]
		prev := s.prev.Points[i]

		if cur.Dist(prev) > s.jumpThreshold {
			out.Points[i] = cur
			continue
		}

		out.Points[i] = detector.Point3D{
			X: s.alpha*cur.X + (1-s.alpha)*prev.X,
			Y: s.alpha*cur.Y + (1-s.alpha)*prev.Y,
			Z: s.alpha*cur.Z + (1-s.alpha)*prev.Z,
		}
	}

	s.prev = &out
	return &out
}

// Reset clears the smoothing history. Call when hand tracking is lost so the
// next detection seeds fresh state instead of blending against a stale hand.
func (s *LandmarkSmoother) Reset() {
	s.prev = nil
}
