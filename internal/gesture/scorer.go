// Package gesture converts conditioned hand-landmark frames into a stable,
// debounced gesture label and time-locked editing actions.
package gesture

import (
	"math"

	"github.com/ayusman/airforge/internal/detector"
)

// Label identifies a recognized hand gesture.
type Label int

const (
	None  Label = iota
	Point       // index raised: move the cursor
	Pinch       // thumb + index tips together: place a voxel
	Grab        // fist: orbit the camera
	Palm        // open hand: delete a voxel
	Peace       // index + middle raised: cycle the color
)

var labelNames = map[Label]string{
	None:  "none",
	Point: "point",
	Pinch: "pinch",
	Grab:  "grab",
	Palm:  "palm",
	Peace: "peace",
}

func (l Label) String() string {
	if s, ok := labelNames[l]; ok {
		return s
	}
	return "unknown"
}

// Scoring constants.
const (
	// pinchSpan maps normalized thumb-index distance to a score: a distance
	// of half the hand scale scores zero, touching tips score one.
	pinchSpan = 0.5
	// curlThreshold is how far (image y) a fingertip must clear its PIP joint
	// to count as extended.
	curlThreshold = 0.03
	// thumbSpread is how much farther (image x) the thumb tip must sit from
	// the index base than the thumb MCP does, to count as extended.
	thumbSpread = 0.05
	// minScale floors the normalization scale to avoid division blow-ups on
	// tiny hands.
	minScale = 0.01
)

// ScoreSet holds per-gesture confidences in [0,1], recomputed fresh each
// frame and never persisted.
type ScoreSet struct {
	Pinch float64 `json:"pinch"`
	Palm  float64 `json:"palm"`
	Grab  float64 `json:"grab"`
	Peace float64 `json:"peace"`
}

// Score computes gesture confidences for one frame. The second return value
// is false when the hand geometry is degenerate (no usable scale), in which
// case the ScoreSet is all zeros and the frame carries no gesture.
func Score(h *detector.HandLandmarks) (ScoreSet, bool) {
	var s ScoreSet
	if h == nil {
		return s, false
	}

	scale := handScale(h)
	if scale <= 0 {
		return s, false
	}

	// Pinch: normalized inverse thumb-index tip distance.
	pinchDist := h.Points[detector.ThumbTip].Dist(h.Points[detector.IndexTip])
	s.Pinch = clamp01(1 - (pinchDist/scale)/pinchSpan)

	index := fingerExtended(h, detector.IndexMCP, detector.IndexPIP, detector.IndexTip)
	middle := fingerExtended(h, detector.MiddleMCP, detector.MiddlePIP, detector.MiddleTip)
	ring := fingerExtended(h, detector.RingMCP, detector.RingPIP, detector.RingTip)
	pinky := fingerExtended(h, detector.PinkyMCP, detector.PinkyPIP, detector.PinkyTip)
	thumb := thumbExtended(h)

	extCount := 0
	for _, ext := range [...]bool{index, middle, ring, pinky} {
		if ext {
			extCount++
		}
	}

	if extCount == 4 && thumb {
		s.Palm = 1
	}
	if extCount == 0 && !thumb {
		s.Grab = 1
	}
	if index && middle && !ring && !pinky {
		s.Peace = 1
	}

	return s, true
}

// handScale returns the normalization scale: the larger of the wrist-to-index
// and wrist-to-middle knuckle distances, floored to minScale. Returns 0 only
// when the geometry is fully degenerate.
func handScale(h *detector.HandLandmarks) float64 {
	wrist := h.Points[detector.Wrist]
	d1 := wrist.Dist(h.Points[detector.IndexMCP])
	d2 := wrist.Dist(h.Points[detector.MiddleMCP])

	scale := math.Max(d1, d2)
	if scale < 1e-9 {
		return 0
	}
	return math.Max(scale, minScale)
}

// fingerExtended reports whether a non-thumb finger is straight and raised:
// the tip sits meaningfully above the PIP joint and above the MCP joint in
// image space (smaller y is higher).
func fingerExtended(h *detector.HandLandmarks, mcp, pip, tip int) bool {
	tipY := h.Points[tip].Y
	return tipY < h.Points[pip].Y-curlThreshold && tipY < h.Points[mcp].Y
}

// thumbExtended reports whether the thumb has swung outward from the palm:
// the tip is horizontally farther from the index base than the thumb MCP is.
func thumbExtended(h *detector.HandLandmarks) bool {
	indexBaseX := h.Points[detector.IndexMCP].X
	tipDist := math.Abs(h.Points[detector.ThumbTip].X - indexBaseX)
	mcpDist := math.Abs(h.Points[detector.ThumbMCP].X - indexBaseX)
	return tipDist > mcpDist+thumbSpread
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
