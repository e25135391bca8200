// Package voxel implements the sparse voxel grid, its bounded undo log and
// the memoized visible-face cache used by the renderer.
package voxel

// MaxUndo is the undo log capacity. When full, the oldest record is dropped
// silently on insert; undo depth beyond that horizon is gone for good.
const MaxUndo = 50

// Voxel is a grid cell's payload. Presence in the grid is occupancy; an
// absent coordinate is empty space.
type Voxel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Coord is an integer grid coordinate, valid in [0, size) per axis.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Add returns the coordinate offset by another.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// Placed pairs a coordinate with its voxel, for snapshots and persistence.
type Placed struct {
	Pos   Coord `json:"pos"`
	Color Voxel `json:"color"`
}

// editKind discriminates undo records.
type editKind int

const (
	editPlace editKind = iota
	editRemove
)

// editRecord captures everything needed to reverse one mutation.
type editRecord struct {
	kind    editKind
	pos     Coord
	prev    Voxel
	hadPrev bool
}

// Grid is a sparse cubic voxel grid of a fixed size with bounded undo and a
// lazily rebuilt visible-face cache. It is not safe for concurrent use: the
// tick loop is the single writer by construction.
type Grid struct {
	size  int
	cells map[Coord]Voxel
	undo  []editRecord

	faces []Face
	dirty bool
}

// NewGrid creates an empty grid of the given edge size (size^3 cells).
func NewGrid(size int) *Grid {
	return &Grid{
		size:  size,
		cells: make(map[Coord]Voxel),
		undo:  make([]editRecord, 0, MaxUndo),
		dirty: true,
	}
}

// Size returns the grid edge length.
func (g *Grid) Size() int {
	return g.size
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// InBounds reports whether the coordinate lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.size &&
		c.Y >= 0 && c.Y < g.size &&
		c.Z >= 0 && c.Z < g.size
}

// Clamp returns the coordinate clamped into bounds, for cursor mapping.
func (g *Grid) Clamp(c Coord) Coord {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v >= g.size {
			return g.size - 1
		}
		return v
	}
	return Coord{X: clamp(c.X), Y: clamp(c.Y), Z: clamp(c.Z)}
}

// At returns the voxel at the coordinate, if occupied.
func (g *Grid) At(c Coord) (Voxel, bool) {
	v, ok := g.cells[c]
	return v, ok
}

// Has reports whether the coordinate is occupied.
func (g *Grid) Has(c Coord) bool {
	_, ok := g.cells[c]
	return ok
}

// Place sets the voxel at the coordinate, recording the prior cell state for
// undo. Returns false without any state change when the coordinate is out of
// bounds.
func (g *Grid) Place(c Coord, v Voxel) bool {
	if !g.InBounds(c) {
		return false
	}

	prev, had := g.cells[c]
	g.pushUndo(editRecord{kind: editPlace, pos: c, prev: prev, hadPrev: had})

	g.cells[c] = v
	g.dirty = true
	return true
}

// Remove deletes the voxel at the coordinate, recording it for undo. Returns
// false without any state change when the cell is already empty.
func (g *Grid) Remove(c Coord) bool {
	prev, had := g.cells[c]
	if !had {
		return false
	}
	g.pushUndo(editRecord{kind: editRemove, pos: c, prev: prev, hadPrev: true})

	delete(g.cells, c)
	g.dirty = true
	return true
}

// Undo reverses the most recent recorded edit. Returns false when the log is
// empty.
func (g *Grid) Undo() bool {
	if len(g.undo) == 0 {
		return false
	}

	rec := g.undo[len(g.undo)-1]
	g.undo = g.undo[:len(g.undo)-1]

	switch rec.kind {
	case editPlace:
		if rec.hadPrev {
			g.cells[rec.pos] = rec.prev
		} else {
			delete(g.cells, rec.pos)
		}
	case editRemove:
		g.cells[rec.pos] = rec.prev
	}

	g.dirty = true
	return true
}

// UndoDepth returns the number of edits currently reversible.
func (g *Grid) UndoDepth() int {
	return len(g.undo)
}

// Clear empties the grid and the undo log. Clearing is not undoable.
func (g *Grid) Clear() {
	g.cells = make(map[Coord]Voxel)
	g.undo = g.undo[:0]
	g.dirty = true
}

// Voxels returns a snapshot of all occupied cells in unspecified order.
func (g *Grid) Voxels() []Placed {
	out := make([]Placed, 0, len(g.cells))
	for c, v := range g.cells {
		out = append(out, Placed{Pos: c, Color: v})
	}
	return out
}

// Load replaces the grid content with the given cells, dropping anything out
// of bounds, and clears the undo log. Used when restoring a saved scene.
func (g *Grid) Load(voxels []Placed) {
	g.cells = make(map[Coord]Voxel, len(voxels))
	for _, p := range voxels {
		if g.InBounds(p.Pos) {
			g.cells[p.Pos] = p.Color
		}
	}
	g.undo = g.undo[:0]
	g.dirty = true
}

// Fill occupies a rectangular slab without touching the undo log, for scene
// scaffolding like the demo floor.
func (g *Grid) Fill(min, max Coord, v Voxel) {
	for x := min.X; x <= max.X; x++ {
		for y := min.Y; y <= max.Y; y++ {
			for z := min.Z; z <= max.Z; z++ {
				c := Coord{X: x, Y: y, Z: z}
				if g.InBounds(c) {
					g.cells[c] = v
				}
			}
		}
	}
	g.dirty = true
}

func (g *Grid) pushUndo(rec editRecord) {
	if len(g.undo) >= MaxUndo {
		copy(g.undo, g.undo[1:])
		g.undo = g.undo[:len(g.undo)-1]
	}
	g.undo = append(g.undo, rec)
}
