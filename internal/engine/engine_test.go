package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/ayusman/airforge/internal/detector"
	"github.com/ayusman/airforge/internal/voxel"
)

// step is one scripted Poll result.
type step struct {
	hand *detector.HandLandmarks
	ok   bool
	err  error
}

// scriptedSource replays a fixed sequence of samples. The last step
// repeats once the script runs out.
type scriptedSource struct {
	steps   []step
	i       int
	enabled bool
	closed  bool
}

func newScriptedSource(steps ...step) *scriptedSource {
	return &scriptedSource{steps: steps, enabled: true}
}

func (s *scriptedSource) Poll(nowMs int64) (*detector.HandLandmarks, bool, error) {
	if len(s.steps) == 0 {
		return nil, true, nil
	}
	st := s.steps[s.i]
	if s.i < len(s.steps)-1 {
		s.i++
	}
	return st.hand, st.ok, st.err
}

func (s *scriptedSource) SetEnabled(enabled bool) { s.enabled = enabled }
func (s *scriptedSource) IsEnabled() bool         { return s.enabled }
func (s *scriptedSource) Close() error            { s.closed = true; return nil }

func handStep(h detector.HandLandmarks) step {
	return step{hand: &h, ok: true}
}

func runTicks(e *Engine, n int) {
	now := time.Unix(0, 0)
	for i := 0; i < n; i++ {
		e.Tick(now)
		now = now.Add(16 * time.Millisecond)
	}
}

func TestNewEnginePlacesDemoFloor(t *testing.T) {
	e := New(newScriptedSource())

	// 5x5 platform at y=0.
	if got := e.Grid().Len(); got != 25 {
		t.Errorf("initial voxel count = %d, want 25", got)
	}

	center := DefaultGridSize / 2
	if !e.Grid().Has(voxel.Coord{X: center, Y: 0, Z: center}) {
		t.Error("demo floor missing its center cell")
	}
}

func TestPinchPlacesVoxelAtCursor(t *testing.T) {
	pinch := handStep(detector.PinchLandmarks())
	e := New(newScriptedSource(pinch, pinch, pinch))

	before := e.Grid().Len()
	// Tick 1: hand appears. Tick 2: pre-pinch. Tick 3: pinch
	// confirms. Tick 4: the pinch label surfaces and places.
	runTicks(e, 4)

	if got := e.Grid().Len(); got != before+1 {
		t.Fatalf("voxel count = %d, want %d", got, before+1)
	}

	cursor := e.Cursor()
	v, ok := e.Grid().At(cursor)
	if !ok {
		t.Fatalf("no voxel at cursor %+v", cursor)
	}
	if v != voxel.DefaultColors[0] {
		t.Errorf("placed color = %+v, want first palette color %+v", v, voxel.DefaultColors[0])
	}
}

func TestLastHandTracksSamples(t *testing.T) {
	pinch := handStep(detector.PinchLandmarks())
	e := New(newScriptedSource(pinch, step{hand: nil, ok: true}))

	runTicks(e, 1)
	if e.LastHand() == nil {
		t.Fatal("expected a hand after the first tick")
	}

	runTicks(e, 1)
	if e.LastHand() != nil {
		t.Error("lost hand should clear the overlay hand")
	}
}

func TestRejectedFrameDropsGestureToIdle(t *testing.T) {
	pinch := handStep(detector.PinchLandmarks())
	// The tracker surfaces a sanity-rejected frame as a definitive nil
	// sample. After building toward a pinch, that tick must drop the
	// machine to idle rather than hold pre-pinch state.
	e := New(newScriptedSource(pinch, pinch, step{hand: nil, ok: true}))

	runTicks(e, 3)

	snap := e.Snapshot()
	if snap.State != "idle" {
		t.Errorf("state after rejected frame = %q, want idle", snap.State)
	}
	if snap.Gesture != "none" {
		t.Errorf("gesture after rejected frame = %q, want none", snap.Gesture)
	}
}

func TestCursorFollowsIndexTip(t *testing.T) {
	hand := detector.PinchLandmarks()
	e := New(newScriptedSource(handStep(hand)))

	runTicks(e, 1)

	tip := hand.IndexTipPos()
	want := voxel.Coord{
		X: int(tip.X * DefaultGridSize),
		Y: int((1 - tip.Y) * DefaultGridSize),
		Z: int(DefaultGridSize/2 - tip.Z*depthScale),
	}
	want = e.Grid().Clamp(want)

	if got := e.Cursor(); got != want {
		t.Errorf("cursor = %+v, want %+v", got, want)
	}
}

func TestCursorClampedToGrid(t *testing.T) {
	hand := detector.PinchLandmarks()
	for i := range hand.Points {
		hand.Points[i].X = 1.5  // off the right edge
		hand.Points[i].Y = -0.3 // above the frame
	}
	e := New(newScriptedSource(handStep(hand)))

	runTicks(e, 1)

	got := e.Cursor()
	if got.X != DefaultGridSize-1 || got.Y != DefaultGridSize-1 {
		t.Errorf("cursor = %+v, want clamped to grid edge", got)
	}
}

func TestCommandQueueAppliedAtTickStart(t *testing.T) {
	e := New(newScriptedSource())

	if !e.Do(Command{Kind: CmdCycleColor}) {
		t.Fatal("Do rejected a command on an empty queue")
	}
	runTicks(e, 1)

	if got := e.Snapshot().ColorIndex; got != 1 {
		t.Errorf("color index = %d, want 1 after cycle", got)
	}
}

func TestUndoCommand(t *testing.T) {
	e := New(newScriptedSource())

	c := voxel.Coord{X: 1, Y: 5, Z: 1}
	e.Grid().Place(c, voxel.Voxel{R: 9})

	e.Do(Command{Kind: CmdUndo})
	runTicks(e, 1)

	if e.Grid().Has(c) {
		t.Error("undo command did not revert the placement")
	}
}

func TestClearAllRestoresDemoFloor(t *testing.T) {
	e := New(newScriptedSource())
	e.Grid().Place(voxel.Coord{X: 1, Y: 5, Z: 1}, voxel.Voxel{R: 9})

	e.Do(Command{Kind: CmdClearAll})
	runTicks(e, 1)

	if got := e.Grid().Len(); got != 25 {
		t.Errorf("voxel count after clear = %d, want demo floor's 25", got)
	}
}

func TestLoadVoxelsCommand(t *testing.T) {
	e := New(newScriptedSource())

	e.Do(Command{Kind: CmdLoadVoxels, Voxels: []voxel.Placed{
		{Pos: voxel.Coord{X: 2, Y: 2, Z: 2}, Color: voxel.Voxel{G: 8}},
	}})
	runTicks(e, 1)

	if got := e.Grid().Len(); got != 1 {
		t.Fatalf("voxel count after load = %d, want 1", got)
	}
}

func TestExportVoxelsCommand(t *testing.T) {
	e := New(newScriptedSource())

	reply := make(chan []voxel.Placed, 1)
	e.Do(Command{Kind: CmdExportVoxels, Reply: reply})
	runTicks(e, 1)

	select {
	case voxels := <-reply:
		if len(voxels) != 25 {
			t.Errorf("exported %d voxels, want 25", len(voxels))
		}
	default:
		t.Fatal("export command produced no reply")
	}
}

func TestSourceErrorKeepsState(t *testing.T) {
	pinch := handStep(detector.PinchLandmarks())
	failing := step{err: errors.New("camera unplugged")}
	e := New(newScriptedSource(pinch, failing))

	runTicks(e, 2)

	// The error tick must not reset the gesture machine.
	if got := e.Snapshot().State; got == "idle" {
		t.Errorf("state = %q, want gesture state preserved across source error", got)
	}
}

func TestSnapshotReflectsTracking(t *testing.T) {
	src := newScriptedSource()
	e := New(src)

	e.SetTracking(false)
	runTicks(e, 1)

	if e.Snapshot().Tracking {
		t.Error("snapshot still reports tracking enabled")
	}
	if src.enabled {
		t.Error("SetTracking did not reach the source")
	}
}
