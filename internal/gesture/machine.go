package gesture

import (
	"github.com/ayusman/airforge/internal/detector"
)

// State is the gesture state machine's finite-state value.
type State int

const (
	StateIdle State = iota
	StateHandPresent
	StatePrePinch
	StatePinched
	StateRelease
)

var stateNames = map[State]string{
	StateIdle:        "idle",
	StateHandPresent: "hand_present",
	StatePrePinch:    "pre_pinch",
	StatePinched:     "pinched",
	StateRelease:     "release",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// MinHoldTicks is how many consecutive ticks a raw label must hold before it
// surfaces as the effective gesture. Pinch is exempt so placement stays
// responsive: a missed delete is cheap, a laggy place feels broken.
const MinHoldTicks = 3

// Hysteresis thresholds for the pinch states. Entry, confirmation, release
// and full-open levels differ deliberately so a noisy score cannot flicker
// the machine between states.
const (
	prePinchEnter = 0.4
	pinchConfirm  = 0.7
	pinchAbort    = 0.3
	pinchRelease  = 0.5
	fullOpen      = 0.3
)

// transition is the pure state-transition function: given the current state
// and this frame's scores it yields the next state and the raw label emitted
// this tick. All mutable counters live in Machine, never here.
func transition(s State, sc ScoreSet) (State, Label) {
	switch s {
	case StateIdle:
		// A hand just appeared; classify starting next tick.
		return StateHandPresent, None

	case StateHandPresent:
		switch {
		case sc.Pinch > prePinchEnter:
			return StatePrePinch, Point
		case sc.Palm > 0.8:
			return StateHandPresent, Palm
		case sc.Grab > 0.8:
			return StateHandPresent, Grab
		case sc.Peace > 0.8:
			return StateHandPresent, Peace
		default:
			return StateHandPresent, Point
		}

	case StatePrePinch:
		switch {
		case sc.Pinch > pinchConfirm:
			return StatePinched, Point
		case sc.Pinch < pinchAbort:
			return StateHandPresent, Point
		default:
			return StatePrePinch, Point
		}

	case StatePinched:
		if sc.Pinch < pinchRelease {
			return StateRelease, None
		}
		return StatePinched, Pinch

	case StateRelease:
		if sc.Pinch < fullOpen {
			return StateHandPresent, Point
		}
		// A fast re-pinch is ignored: the hand must fully open first.
		return StateRelease, Point
	}

	return StateIdle, None
}

// Machine turns per-frame gesture scores into a hysteretic, debounced
// gesture label. It owns all mutable state: the FSM value, the last raw
// label and its consecutive-tick hold count, every field initialized
// explicitly at construction.
type Machine struct {
	state     State
	lastRaw   Label
	holdTicks int
	lastScore ScoreSet
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{
		state:     StateIdle,
		lastRaw:   None,
		holdTicks: 0,
	}
}

// Step advances the machine one tick. A nil frame means no usable hand data
// this tick (tracking lost or sanity-rejected): the machine resets to Idle
// and reports None. A frame with degenerate geometry reports None without
// touching the state. Otherwise the raw label from the transition table is
// debounced: it surfaces only after MinHoldTicks consecutive ticks, except
// Pinch, which surfaces immediately while the machine is Pinched.
func (m *Machine) Step(frame *detector.HandLandmarks) Label {
	if frame == nil {
		m.Reset()
		return None
	}

	scores, ok := Score(frame)
	m.lastScore = scores
	if !ok {
		return None
	}

	next, raw := transition(m.state, scores)
	m.state = next

	if raw == m.lastRaw {
		m.holdTicks++
	} else {
		m.lastRaw = raw
		m.holdTicks = 1
	}

	if raw == Pinch && m.state == StatePinched {
		return Pinch
	}
	if m.holdTicks >= MinHoldTicks {
		return raw
	}
	return None
}

// State returns the current FSM state.
func (m *Machine) State() State {
	return m.state
}

// LastScores returns the scores from the most recent frame, for HUD and
// state-stream display. Zero while no hand is tracked.
func (m *Machine) LastScores() ScoreSet {
	return m.lastScore
}

// Reset returns the machine to Idle and clears the debounce counters and
// held scores.
func (m *Machine) Reset() {
	m.state = StateIdle
	m.lastRaw = None
	m.holdTicks = 0
	m.lastScore = ScoreSet{}
}
