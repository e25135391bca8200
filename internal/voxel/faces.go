package voxel

// Dir is one of the six axis-aligned face directions.
type Dir int

const (
	DirXPos Dir = iota
	DirXNeg
	DirYPos
	DirYNeg
	DirZPos
	DirZNeg
	NumDirs
)

var dirOffsets = [NumDirs]Coord{
	DirXPos: {X: 1},
	DirXNeg: {X: -1},
	DirYPos: {Y: 1},
	DirYNeg: {Y: -1},
	DirZPos: {Z: 1},
	DirZNeg: {Z: -1},
}

var dirNames = [NumDirs]string{
	DirXPos: "right",
	DirXNeg: "left",
	DirYPos: "top",
	DirYNeg: "bottom",
	DirZPos: "front",
	DirZNeg: "back",
}

// Offset returns the neighbor offset for the direction.
func (d Dir) Offset() Coord {
	return dirOffsets[d]
}

func (d Dir) String() string {
	if d < 0 || d >= NumDirs {
		return "unknown"
	}
	return dirNames[d]
}

// Face is one externally visible quad of an occupied cell.
type Face struct {
	Pos   Coord `json:"pos"`
	Dir   Dir   `json:"dir"`
	Color Voxel `json:"color"`
}

// VisibleFaces returns every face of every occupied cell whose neighbor in
// that direction is unoccupied; neighbors outside the grid count as empty, so
// boundary cells expose their outer faces. The result is memoized: mutations
// mark the cache dirty, and the rebuild is one full pass over the occupied
// cells, never repeated for identical grid content. Callers must treat the
// returned slice as read-only.
func (g *Grid) VisibleFaces() []Face {
	if !g.dirty {
		return g.faces
	}

	faces := make([]Face, 0, len(g.cells)*3)
	for pos, v := range g.cells {
		for d := Dir(0); d < NumDirs; d++ {
			if g.Has(pos.Add(d.Offset())) {
				continue
			}
			faces = append(faces, Face{Pos: pos, Dir: d, Color: v})
		}
	}

	g.faces = faces
	g.dirty = false
	return g.faces
}
