package voxel

import (
	"testing"
)

func TestPlaceAndRemoveRoundTrip(t *testing.T) {
	g := NewGrid(16)
	g.Place(Coord{X: 1, Y: 1, Z: 1}, Voxel{R: 10})

	before := faceSet(g.VisibleFaces())
	beforeLen := g.Len()

	c := Coord{X: 2, Y: 1, Z: 1}
	if !g.Place(c, Voxel{R: 20}) {
		t.Fatal("place failed")
	}
	if !g.Remove(c) {
		t.Fatal("remove failed")
	}

	if g.Len() != beforeLen {
		t.Errorf("cell count = %d, want %d", g.Len(), beforeLen)
	}
	if got := faceSet(g.VisibleFaces()); !sameFaces(got, before) {
		t.Error("face cache does not match pre-place content after round trip")
	}
}

func TestUndoSequenceRestoresEmpty(t *testing.T) {
	g := NewGrid(8)

	ops := 0
	for i := 0; i < 10; i++ {
		if g.Place(Coord{X: i % 8, Y: i / 8, Z: 0}, Voxel{R: uint8(i)}) {
			ops++
		}
	}
	for i := 0; i < 4; i++ {
		if g.Remove(Coord{X: i, Y: 0, Z: 0}) {
			ops++
		}
	}

	for i := 0; i < ops; i++ {
		if !g.Undo() {
			t.Fatalf("undo %d of %d failed", i+1, ops)
		}
	}

	if g.Len() != 0 {
		t.Errorf("grid not empty after full undo: %d cells", g.Len())
	}
	if g.Undo() {
		t.Error("undo on empty log must fail")
	}
}

func TestUndoRestoresOverwrittenVoxel(t *testing.T) {
	g := NewGrid(8)
	c := Coord{X: 3, Y: 3, Z: 3}

	g.Place(c, Voxel{R: 1})
	g.Place(c, Voxel{R: 2}) // overwrite

	if !g.Undo() {
		t.Fatal("undo failed")
	}
	v, ok := g.At(c)
	if !ok || v.R != 1 {
		t.Errorf("cell = %+v (occupied=%v), want original voxel R=1", v, ok)
	}
}

func TestUndoRestoresRemovedVoxel(t *testing.T) {
	g := NewGrid(8)
	c := Coord{X: 0, Y: 0, Z: 0}

	g.Place(c, Voxel{G: 7})
	g.Remove(c)
	if !g.Undo() {
		t.Fatal("undo failed")
	}

	v, ok := g.At(c)
	if !ok || v.G != 7 {
		t.Errorf("cell = %+v (occupied=%v), want restored voxel G=7", v, ok)
	}
}

func TestUndoLogEviction(t *testing.T) {
	g := NewGrid(64)

	// One more edit than the log holds: the first record falls off.
	for i := 0; i <= MaxUndo; i++ {
		if !g.Place(Coord{X: i, Y: 0, Z: 0}, Voxel{}) {
			t.Fatalf("place %d failed", i)
		}
	}
	if g.UndoDepth() != MaxUndo {
		t.Fatalf("undo depth = %d, want %d", g.UndoDepth(), MaxUndo)
	}

	for g.Undo() {
	}

	// The evicted oldest edit is beyond the horizon.
	if g.Len() != 1 {
		t.Errorf("cells after exhausting undo = %d, want 1", g.Len())
	}
	if !g.Has(Coord{X: 0, Y: 0, Z: 0}) {
		t.Error("surviving cell should be the oldest placement")
	}
}

func TestOutOfBoundsPlaceFails(t *testing.T) {
	g := NewGrid(16)

	cases := []Coord{
		{X: 16, Y: 0, Z: 0}, // == gridSize
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 100},
	}
	for _, c := range cases {
		if g.Place(c, Voxel{}) {
			t.Errorf("place at %+v succeeded, want failure", c)
		}
	}

	if g.Len() != 0 {
		t.Errorf("failed places mutated the grid: %d cells", g.Len())
	}
	if g.UndoDepth() != 0 {
		t.Errorf("failed places touched the undo log: depth %d", g.UndoDepth())
	}
}

func TestRemoveEmptyCellFails(t *testing.T) {
	g := NewGrid(16)
	if g.Remove(Coord{X: 1, Y: 1, Z: 1}) {
		t.Error("remove on empty cell succeeded")
	}
	if g.UndoDepth() != 0 {
		t.Error("failed remove touched the undo log")
	}
}

func TestClearIsNotUndoable(t *testing.T) {
	g := NewGrid(8)
	g.Place(Coord{X: 1, Y: 2, Z: 3}, Voxel{B: 9})
	g.Clear()

	if g.Len() != 0 {
		t.Fatal("clear left cells behind")
	}
	if g.Undo() {
		t.Error("undo after clear succeeded; clear must wipe the log")
	}
}

func TestLoadReplacesContent(t *testing.T) {
	g := NewGrid(8)
	g.Place(Coord{X: 0, Y: 0, Z: 0}, Voxel{R: 1})

	g.Load([]Placed{
		{Pos: Coord{X: 1, Y: 1, Z: 1}, Color: Voxel{G: 5}},
		{Pos: Coord{X: 9, Y: 0, Z: 0}, Color: Voxel{}}, // out of bounds, dropped
	})

	if g.Len() != 1 {
		t.Fatalf("cells = %d, want 1", g.Len())
	}
	if !g.Has(Coord{X: 1, Y: 1, Z: 1}) {
		t.Error("loaded cell missing")
	}
	if g.UndoDepth() != 0 {
		t.Error("load should clear the undo log")
	}
}

func TestPaletteCycles(t *testing.T) {
	p := NewPalette()
	first := p.Current()

	for i := 0; i < len(DefaultColors); i++ {
		p.Next()
	}
	if p.Current() != first {
		t.Error("full forward cycle did not wrap to the first color")
	}

	p.Prev()
	if p.Current() != DefaultColors[len(DefaultColors)-1] {
		t.Error("prev from index 0 did not wrap to the last color")
	}
}

func faceSet(faces []Face) map[Face]bool {
	m := make(map[Face]bool, len(faces))
	for _, f := range faces {
		m[f] = true
	}
	return m
}

func sameFaces(a, b map[Face]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for f := range a {
		if !b[f] {
			return false
		}
	}
	return true
}
