// Package detector provides hand landmark detection for the AirForge voxel editor.
package detector

import "math"

// Hand landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a single tracked landmark. X and Y are normalized image
// coordinates in [0,1] (Y grows downward); Z is depth relative to the wrist,
// negative when the point is closer to the camera.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dist returns the Euclidean distance to another point.
func (p Point3D) Dist(q Point3D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// HandLandmarks is one frame of the 21 tracked hand points, produced once per
// tracking tick and treated as immutable by consumers.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// IndexTipPos returns the index fingertip, the point the editor uses as the
// 3D cursor anchor.
func (h *HandLandmarks) IndexTipPos() Point3D {
	return h.Points[IndexTip]
}

// PalmCenter returns the approximate palm center: the mean of the wrist and
// the four finger base joints.
func (h *HandLandmarks) PalmCenter() Point3D {
	idx := [...]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	var c Point3D
	for _, i := range idx {
		c.X += h.Points[i].X
		c.Y += h.Points[i].Y
		c.Z += h.Points[i].Z
	}
	n := float64(len(idx))
	return Point3D{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
}
