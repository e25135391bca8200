// Package engine runs the editor's tick loop. Each tick pulls one
// hand sample from the tracking source, classifies it, dispatches the
// resulting gesture against the voxel grid and orbit camera, and
// publishes a snapshot for the renderer and server to read. All grid
// and camera writes happen on the tick goroutine; external callers
// mutate state only through the command queue.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ayusman/airforge/internal/detector"
	"github.com/ayusman/airforge/internal/gesture"
	"github.com/ayusman/airforge/internal/orbit"
	"github.com/ayusman/airforge/internal/voxel"
)

// DefaultGridSize is the edge length of the editing grid.
const DefaultGridSize = 16

// commandQueueSize bounds how many external commands can pile up
// between ticks before Do starts rejecting.
const commandQueueSize = 16

// depthScale converts MediaPipe hand depth into grid Z steps.
const depthScale = 50.0

// Source produces one hand sample per tick. ok=false means the tick
// had no usable sample and the engine keeps its prior gesture state.
type Source interface {
	Poll(nowMs int64) (hand *detector.HandLandmarks, ok bool, err error)
	SetEnabled(enabled bool)
	IsEnabled() bool
	Close() error
}

// CommandKind enumerates the external control surface.
type CommandKind int

const (
	CmdUndo CommandKind = iota
	CmdCycleColor
	CmdClearAll
	CmdResetCamera
	CmdLoadVoxels
	CmdExportVoxels
)

// Command is a control request queued for the next tick. Voxels
// carries the CmdLoadVoxels payload; Reply receives the CmdExportVoxels
// result and should be buffered.
type Command struct {
	Kind   CommandKind
	Voxels []voxel.Placed
	Reply  chan []voxel.Placed
}

// Snapshot is the read-only view of engine state published each tick.
type Snapshot struct {
	Gesture    string      `json:"gesture"`
	State      string      `json:"state"`
	Cursor     voxel.Coord `json:"cursor"`
	Color      voxel.Voxel `json:"color"`
	ColorIndex int         `json:"colorIndex"`
	VoxelCount int         `json:"voxelCount"`
	UndoDepth  int         `json:"undoDepth"`
	CameraYaw  float64     `json:"cameraYaw"`
	Pitch      float64     `json:"cameraPitch"`
	Distance   float64     `json:"cameraDistance"`
	Tracking   bool        `json:"tracking"`
	Timestamp  int64       `json:"timestamp"`
}

// Engine owns the grid, gesture pipeline and camera.
type Engine struct {
	grid    *voxel.Grid
	palette *voxel.Palette
	machine *gesture.Machine
	actions *gesture.Dispatcher
	camera  *orbit.Camera
	source  Source

	cursor    voxel.Coord
	lastLabel gesture.Label
	lastHand  *detector.HandLandmarks

	commands chan Command

	snapMu sync.RWMutex
	snap   Snapshot
}

// New builds an engine over the given tracking source with the demo
// floor placed, the way a fresh session starts.
func New(source Source) *Engine {
	grid := voxel.NewGrid(DefaultGridSize)
	center := float32(DefaultGridSize) / 2

	e := &Engine{
		grid:    grid,
		palette: voxel.NewPalette(),
		machine: gesture.NewMachine(),
		camera:  orbit.NewCamera(mgl32.Vec3{center, center, center}),
		source:  source,
		cursor: voxel.Coord{
			X: DefaultGridSize / 2,
			Y: DefaultGridSize / 2,
			Z: DefaultGridSize / 2,
		},
		commands: make(chan Command, commandQueueSize),
	}

	e.actions = gesture.NewDispatcher(nil)
	e.actions.OnPlace = func() bool { return e.grid.Place(e.cursor, e.palette.Current()) }
	e.actions.OnRemove = func() bool { return e.grid.Remove(e.cursor) }
	e.actions.OnCycleColor = func() { e.palette.Next() }
	e.actions.OnOrbit = func(dYaw, dPitch float64) { e.camera.Orbit(dYaw, dPitch) }

	e.placeDemoFloor()
	e.publishSnapshot(time.Now())
	return e
}

// placeDemoFloor lays a small gray platform at the grid center so a
// fresh scene has something to orbit around.
func (e *Engine) placeDemoFloor() {
	center := DefaultGridSize / 2
	e.grid.Fill(
		voxel.Coord{X: center - 2, Y: 0, Z: center - 2},
		voxel.Coord{X: center + 2, Y: 0, Z: center + 2},
		voxel.Voxel{R: 100, G: 100, B: 100},
	)
}

// Tick advances the engine by one frame: drain queued commands, poll
// the tracking source, classify, dispatch, ease the camera, publish.
func (e *Engine) Tick(now time.Time) {
	e.drainCommands()

	hand, ok, err := e.source.Poll(now.UnixMilli())
	if err != nil {
		log.Printf("tracking error: %v", err)
		ok = false
	}

	if ok {
		label := e.machine.Step(hand)
		if hand != nil {
			e.cursor = mapCursor(hand.IndexTipPos(), e.grid.Size())
		}
		e.actions.Dispatch(label, hand)
		e.lastLabel = label
		e.lastHand = hand
	}

	e.camera.Update()
	e.publishSnapshot(now)
}

// drainCommands applies every queued command before the tick's
// gesture work, preserving the single-writer invariant.
func (e *Engine) drainCommands() {
	for {
		select {
		case cmd := <-e.commands:
			e.apply(cmd)
		default:
			return
		}
	}
}

func (e *Engine) apply(cmd Command) {
	switch cmd.Kind {
	case CmdUndo:
		e.grid.Undo()
	case CmdCycleColor:
		e.palette.Next()
	case CmdClearAll:
		e.grid.Clear()
		e.placeDemoFloor()
	case CmdResetCamera:
		e.camera.Reset()
	case CmdLoadVoxels:
		e.grid.Load(cmd.Voxels)
	case CmdExportVoxels:
		if cmd.Reply != nil {
			select {
			case cmd.Reply <- e.grid.Voxels():
			default:
			}
		}
	}
}

// Do queues a command for the next tick. It reports false when the
// queue is full.
func (e *Engine) Do(cmd Command) bool {
	select {
	case e.commands <- cmd:
		return true
	default:
		return false
	}
}

// ExportVoxels queues an export command and waits for the next tick
// to answer. It returns nil if the engine stops ticking before the
// timeout.
func (e *Engine) ExportVoxels(timeout time.Duration) []voxel.Placed {
	reply := make(chan []voxel.Placed, 1)
	if !e.Do(Command{Kind: CmdExportVoxels, Reply: reply}) {
		return nil
	}
	select {
	case voxels := <-reply:
		return voxels
	case <-time.After(timeout):
		return nil
	}
}

func (e *Engine) publishSnapshot(now time.Time) {
	snap := Snapshot{
		Gesture:    e.lastLabel.String(),
		State:      e.machine.State().String(),
		Cursor:     e.cursor,
		Color:      e.palette.Current(),
		ColorIndex: e.palette.Index(),
		VoxelCount: e.grid.Len(),
		UndoDepth:  e.grid.UndoDepth(),
		CameraYaw:  e.camera.Yaw(),
		Pitch:      e.camera.Pitch(),
		Distance:   e.camera.Distance(),
		Tracking:   e.source.IsEnabled(),
		Timestamp:  now.UnixMilli(),
	}

	e.snapMu.Lock()
	e.snap = snap
	e.snapMu.Unlock()
}

// Snapshot returns the most recently published engine state. Safe to
// call from any goroutine.
func (e *Engine) Snapshot() Snapshot {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	return e.snap
}

// SetTracking enables or disables the tracking source.
func (e *Engine) SetTracking(enabled bool) {
	e.source.SetEnabled(enabled)
}

// Grid exposes the voxel grid for the renderer, which runs on the
// tick goroutine. Other goroutines must use Snapshot and commands.
func (e *Engine) Grid() *voxel.Grid {
	return e.grid
}

// Camera exposes the orbit camera for the renderer.
func (e *Engine) Camera() *orbit.Camera {
	return e.camera
}

// Cursor returns the current 3D cursor position.
func (e *Engine) Cursor() voxel.Coord {
	return e.cursor
}

// LastHand returns the hand from the most recent definitive sample,
// nil when the hand is absent. For the renderer's landmark overlay;
// tick goroutine only.
func (e *Engine) LastHand() *detector.HandLandmarks {
	return e.lastHand
}

// Close shuts down the tracking source.
func (e *Engine) Close() error {
	return e.source.Close()
}

// mapCursor projects a normalized hand position into grid
// coordinates. X maps directly, Y is inverted (image Y grows
// downward), and Z comes from hand depth, which MediaPipe reports
// negative as the hand nears the camera.
func mapCursor(p detector.Point3D, n int) voxel.Coord {
	c := voxel.Coord{
		X: int(p.X * float64(n)),
		Y: int((1 - p.Y) * float64(n)),
		Z: int(float64(n)/2 - p.Z*depthScale),
	}
	return clampCoord(c, n)
}

func clampCoord(c voxel.Coord, n int) voxel.Coord {
	return voxel.Coord{
		X: clampInt(c.X, 0, n-1),
		Y: clampInt(c.Y, 0, n-1),
		Z: clampInt(c.Z, 0, n-1),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
