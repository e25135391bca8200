// Package track runs the per-tick hand tracking pipeline: read a
// camera frame, gate on frame activity, detect landmarks, smooth
// them, and sanity-check the result before it reaches the gesture
// layer.
package track

import (
	"image"
	"sync"

	"github.com/ayusman/airforge/internal/capture"
	"github.com/ayusman/airforge/internal/detector"
	"github.com/ayusman/airforge/internal/filter"
)

// idleGraceMs is how long the scene may sit motionless before idle
// frames stop being sent to the detector. Within the window detection
// still runs every frame so a hand entering a still scene is not
// missed.
const idleGraceMs = 2000

// Tracker composes the capture and filtering stages into a single
// pollable source of hand landmark frames.
type Tracker struct {
	camera   capture.Camera
	gate     *capture.ActivityGate
	detector detector.Detector
	smoother *filter.LandmarkSmoother
	sanity   *filter.SanityFilter

	mu           sync.Mutex
	enabled      bool
	handVisible  bool
	lastActiveMs int64
	lastFrame    image.Image
}

// NewTracker wires a camera and detector to the default activity
// gate, smoother and sanity filter. Tracking starts enabled.
func NewTracker(cam capture.Camera, det detector.Detector) *Tracker {
	return &Tracker{
		camera:   cam,
		gate:     capture.NewActivityGate(capture.DefaultActivityThreshold),
		detector: det,
		smoother: filter.NewLandmarkSmoother(filter.DefaultAlpha, filter.DefaultJumpThreshold),
		sanity:   filter.NewSanityFilter(filter.DefaultMaxSpeed),
		enabled:  true,
	}
}

// SetEnabled turns the pipeline on or off. While disabled, Poll
// returns no samples and filter state is cleared so tracking restarts
// fresh.
func (t *Tracker) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.enabled && !enabled {
		t.smoother.Reset()
		t.sanity.Reset()
		t.gate.Reset()
		t.handVisible = false
	}
	t.enabled = enabled
}

// IsEnabled reports whether the pipeline is running.
func (t *Tracker) IsEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Poll captures and processes one frame. It returns the filtered hand
// and ok=true when a definitive sample was produced; hand is nil when
// no usable hand exists this tick, either because the hand is absent
// or because the sanity filter rejected the frame. ok=false means the
// tick produced no sample at all (pipeline disabled or an idle frame
// skipped) and callers should keep their prior state.
func (t *Tracker) Poll(nowMs int64) (*detector.HandLandmarks, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return nil, false, nil
	}

	frame, err := t.camera.ReadFrame()
	if err != nil {
		return nil, false, err
	}
	defer frame.Close()

	if img, convErr := frame.ToImage(); convErr == nil {
		t.lastFrame = img
	}

	// While no hand is in view, idle frames past the grace window skip
	// detection entirely. Once a hand is visible we detect every
	// frame, since a steady pinch produces almost no pixel change.
	active, _ := t.gate.Active(frame)
	if active {
		t.lastActiveMs = nowMs
	}
	if !active && !t.handVisible && nowMs-t.lastActiveMs > idleGraceMs {
		return nil, false, nil
	}

	hands, err := t.detector.Detect(frame)
	if err != nil {
		return nil, false, err
	}

	if len(hands) == 0 {
		if t.handVisible {
			t.handVisible = false
			t.smoother.Reset()
			t.sanity.Reset()
		}
		return nil, true, nil
	}

	t.handVisible = true
	smoothed := t.smoother.Update(&hands[0])

	// A rejected frame is a definitive no-hand for this tick: the
	// gesture layer must not hold a pinch across it. Smoother and
	// sanity history stay intact so the next plausible frame recovers.
	if !t.sanity.Accept(smoothed, nowMs) {
		return nil, true, nil
	}
	return smoothed, true, nil
}

// Frame returns the most recently captured camera frame, already
// mirrored, for use as the viewport background. Nil until the first
// successful read.
func (t *Tracker) Frame() image.Image {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastFrame
}

// Close shuts down the pipeline and releases camera and detector
// resources.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gate.Close()

	var first error
	if t.detector != nil {
		if err := t.detector.Close(); err != nil {
			first = err
		}
	}
	if t.camera != nil {
		if err := t.camera.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
