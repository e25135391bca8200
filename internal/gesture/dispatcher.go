package gesture

import (
	"time"

	"github.com/ayusman/airforge/internal/detector"
)

// Time locks between actions. A successful action holds the lock for its
// duration; no other action fires while locked. Delete relocks for less than
// place so held-palm deletion repeats faster than a pinch could double-fire.
const (
	PlaceLock  = 200 * time.Millisecond
	DeleteLock = 150 * time.Millisecond
	ColorLock  = 300 * time.Millisecond

	// OrbitSensitivity converts a full-screen hand sweep into degrees of
	// camera rotation while grabbing.
	OrbitSensitivity = 200.0
)

// Dispatcher turns effective gesture labels into editor actions. Place,
// delete and color-cycle are edge-triggered behind time locks; grab drives
// continuous orbit deltas from frame-to-frame hand movement.
//
// The action callbacks are invoked synchronously from Dispatch; OnPlace and
// OnRemove report whether the edit succeeded, and only a successful edit
// arms the time lock.
type Dispatcher struct {
	OnPlace      func() bool
	OnRemove     func() bool
	OnCycleColor func()
	OnOrbit      func(deltaYaw, deltaPitch float64)

	now         func() time.Time
	lockedUntil time.Time
	placeFired  bool
	deleteFired bool
	peaceActive bool
	grabRef     *detector.Point3D
}

// NewDispatcher creates a dispatcher. The clock defaults to time.Now; tests
// inject their own.
func NewDispatcher(clock func() time.Time) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{
		now:         clock,
		lockedUntil: time.Time{}, // unlocked
	}
}

// Dispatch processes one tick's effective gesture. The hand frame supplies
// the reference point for grab-orbit deltas; a nil frame clears continuity
// state so a re-acquired hand does not inherit a stale orbit reference.
func (d *Dispatcher) Dispatch(label Label, hand *detector.HandLandmarks) {
	// Edge-trigger flags rearm as soon as the gesture leaves its label.
	if label != Pinch {
		d.placeFired = false
	}
	if label != Palm {
		d.deleteFired = false
	}
	if label != Peace {
		d.peaceActive = false
	}
	if label != Grab {
		d.grabRef = nil
	}

	if hand == nil {
		return
	}

	now := d.now()
	if now.Before(d.lockedUntil) {
		return
	}

	switch label {
	case Pinch:
		// One placement per pinch: the flag stays set until the pinch ends.
		if !d.placeFired && d.OnPlace != nil && d.OnPlace() {
			d.placeFired = true
			d.lockedUntil = now.Add(PlaceLock)
		}

	case Palm:
		// Deletion repeats while the palm holds, throttled by the lock.
		if d.OnRemove != nil && d.OnRemove() {
			d.deleteFired = true
			d.lockedUntil = now.Add(DeleteLock)
		}

	case Peace:
		if !d.peaceActive && d.OnCycleColor != nil {
			d.OnCycleColor()
			d.peaceActive = true
			d.lockedUntil = now.Add(ColorLock)
		}

	case Grab:
		pos := hand.IndexTipPos()
		if d.grabRef != nil && d.OnOrbit != nil {
			dx := (pos.X - d.grabRef.X) * OrbitSensitivity
			dy := (pos.Y - d.grabRef.Y) * OrbitSensitivity
			// Horizontal sweep is mirrored so the scene follows the hand.
			d.OnOrbit(-dx, dy)
		}
		d.grabRef = &pos
	}
}
