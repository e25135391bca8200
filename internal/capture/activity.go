package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// ActivityGate decides whether a frame is worth sending to the hand
// landmark detector. Frames that barely differ from the previous one
// skip detection entirely, which keeps CPU use low while the scene
// sits still.
type ActivityGate struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
	// DefaultActivityThreshold is the percentage of changed pixels
	// below which a frame counts as idle.
	DefaultActivityThreshold = 0.5
)

// NewActivityGate creates a gate with the given threshold. The
// threshold is the percentage of pixels that must change for a frame
// to count as active.
func NewActivityGate(threshold float64) *ActivityGate {
	return &ActivityGate{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Active reports whether the frame differs enough from the previous
// one to be worth detecting, along with the percentage of pixels that
// changed. The first frame always counts as active so a hand already
// in view is picked up immediately.
func (a *ActivityGate) Active(frame *gocv.Mat) (bool, float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !a.initialized {
		blurred.CopyTo(&a.prevGray)
		a.initialized = true
		return true, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, a.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()

	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&a.prevGray)

	return changePercent > a.threshold, changePercent
}

// Reset clears the gate so the next frame is treated as the first.
func (a *ActivityGate) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.prevGray.Empty() {
		a.prevGray.Close()
		a.prevGray = gocv.NewMat()
	}
	a.initialized = false
}

// Close releases resources held by the gate.
func (a *ActivityGate) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.prevGray.Empty() {
		a.prevGray.Close()
		a.prevGray = gocv.NewMat()
	}
	a.initialized = false
}

// SetThreshold sets the activity threshold.
// Values less than or equal to 0 are ignored.
func (a *ActivityGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.threshold = threshold
}
