package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// The preset poses below share the same wrist and knuckle anchors so that the
// hand scale is identical across gestures; only the fingers change.

func baseHand() HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}
	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.60, Z: 0.0}
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.60, Z: 0.0}
	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.61, Z: 0.0}
	h.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.63, Z: 0.0}
	return h
}

func setExtendedIndex(h *HandLandmarks) {
	h.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.48, Z: 0.0}
	h.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.40, Z: 0.0}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.33, Z: 0.0}
}

func setCurledIndex(h *HandLandmarks) {
	h.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.57, Z: -0.02}
	h.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.64, Z: -0.04}
	h.Points[IndexTip] = Point3D{X: 0.53, Y: 0.70, Z: -0.02}
}

func setExtendedMiddle(h *HandLandmarks) {
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.46, Z: 0.0}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.37, Z: 0.0}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.30, Z: 0.0}
}

func setCurledMiddle(h *HandLandmarks) {
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.54, Z: -0.02}
	h.Points[MiddleDIP] = Point3D{X: 0.48, Y: 0.62, Z: -0.04}
	h.Points[MiddleTip] = Point3D{X: 0.47, Y: 0.68, Z: -0.02}
}

func setExtendedRing(h *HandLandmarks) {
	h.Points[RingPIP] = Point3D{X: 0.44, Y: 0.48, Z: 0.0}
	h.Points[RingDIP] = Point3D{X: 0.43, Y: 0.40, Z: 0.0}
	h.Points[RingTip] = Point3D{X: 0.43, Y: 0.33, Z: 0.0}
}

func setCurledRing(h *HandLandmarks) {
	h.Points[RingPIP] = Point3D{X: 0.45, Y: 0.56, Z: -0.02}
	h.Points[RingDIP] = Point3D{X: 0.43, Y: 0.63, Z: -0.04}
	h.Points[RingTip] = Point3D{X: 0.42, Y: 0.68, Z: -0.02}
}

func setExtendedPinky(h *HandLandmarks) {
	h.Points[PinkyPIP] = Point3D{X: 0.39, Y: 0.52, Z: 0.0}
	h.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.46, Z: 0.0}
	h.Points[PinkyTip] = Point3D{X: 0.37, Y: 0.40, Z: 0.0}
}

func setCurledPinky(h *HandLandmarks) {
	h.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.58, Z: -0.02}
	h.Points[PinkyDIP] = Point3D{X: 0.39, Y: 0.64, Z: -0.04}
	h.Points[PinkyTip] = Point3D{X: 0.38, Y: 0.68, Z: -0.02}
}

func setExtendedThumb(h *HandLandmarks) {
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.74, Z: 0.0}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.69, Z: 0.0}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.64, Z: 0.0}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.0}
}

func setCurledThumb(h *HandLandmarks) {
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.74, Z: 0.0}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.68, Z: 0.0}
	h.Points[ThumbIP] = Point3D{X: 0.53, Y: 0.64, Z: -0.02}
	h.Points[ThumbTip] = Point3D{X: 0.48, Y: 0.62, Z: -0.02}
}

// OpenPalmLandmarks returns a preset hand with all four fingers and the thumb
// extended.
func OpenPalmLandmarks() HandLandmarks {
	h := baseHand()
	setExtendedThumb(&h)
	setExtendedIndex(&h)
	setExtendedMiddle(&h)
	setExtendedRing(&h)
	setExtendedPinky(&h)
	return h
}

// FistLandmarks returns a preset hand with every finger and the thumb curled
// into the palm.
func FistLandmarks() HandLandmarks {
	h := baseHand()
	setCurledThumb(&h)
	setCurledIndex(&h)
	setCurledMiddle(&h)
	setCurledRing(&h)
	setCurledPinky(&h)
	return h
}

// PointLandmarks returns a preset hand with only the index finger extended.
func PointLandmarks() HandLandmarks {
	h := baseHand()
	setCurledThumb(&h)
	setExtendedIndex(&h)
	setCurledMiddle(&h)
	setCurledRing(&h)
	setCurledPinky(&h)
	return h
}

// PeaceLandmarks returns a preset hand with index and middle fingers extended
// and the rest curled.
func PeaceLandmarks() HandLandmarks {
	h := baseHand()
	setCurledThumb(&h)
	setExtendedIndex(&h)
	setExtendedMiddle(&h)
	setCurledRing(&h)
	setCurledPinky(&h)
	return h
}

// PinchLandmarks returns a preset hand with the thumb tip touching the index
// fingertip.
func PinchLandmarks() HandLandmarks {
	h := baseHand()
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.72, Z: 0.0}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.62, Z: 0.0}
	h.Points[ThumbIP] = Point3D{X: 0.59, Y: 0.50, Z: 0.0}
	h.Points[ThumbTip] = Point3D{X: 0.585, Y: 0.41, Z: 0.0}
	h.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.48, Z: 0.0}
	h.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.44, Z: 0.0}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.40, Z: 0.0}
	setCurledMiddle(&h)
	setCurledRing(&h)
	setCurledPinky(&h)
	return h
}
