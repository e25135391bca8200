package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ayusman/airforge/internal/detector"
	"github.com/ayusman/airforge/internal/orbit"
	"github.com/ayusman/airforge/internal/voxel"
)

func TestHandBonesCoverEveryLandmark(t *testing.T) {
	seen := make(map[int]bool)
	for _, b := range handBones {
		for _, i := range b {
			if i < 0 || i >= detector.NumLandmarks {
				t.Fatalf("bone %v references landmark %d out of range", b, i)
			}
			seen[i] = true
		}
		if b[0] == b[1] {
			t.Errorf("bone %v connects a landmark to itself", b)
		}
	}

	// Every landmark takes part in the skeleton, fingertips included.
	for i := 0; i < detector.NumLandmarks; i++ {
		if !seen[i] {
			t.Errorf("landmark %d missing from the hand trace", i)
		}
	}
}

func TestFaceCornersLieOnFacePlane(t *testing.T) {
	pos := voxel.Coord{X: 3, Y: 5, Z: 7}

	// plane picks the coordinate and value every corner must share.
	plane := map[voxel.Dir]struct {
		axis  int
		value float32
	}{
		voxel.DirXPos: {0, 4},
		voxel.DirXNeg: {0, 3},
		voxel.DirYPos: {1, 6},
		voxel.DirYNeg: {1, 5},
		voxel.DirZPos: {2, 8},
		voxel.DirZNeg: {2, 7},
	}

	for d := voxel.Dir(0); d < voxel.NumDirs; d++ {
		corners := faceCorners(voxel.Face{Pos: pos, Dir: d})
		want := plane[d]
		for i, c := range corners {
			if c[want.axis] != want.value {
				t.Errorf("%v corner %d = %v, want axis %d at %v", d, i, c, want.axis, want.value)
			}
		}
	}
}

func TestFaceCornersFormUnitQuad(t *testing.T) {
	for d := voxel.Dir(0); d < voxel.NumDirs; d++ {
		corners := faceCorners(voxel.Face{Pos: voxel.Coord{X: 1, Y: 2, Z: 3}, Dir: d})

		// Adjacent corners are exactly one unit apart, and the
		// diagonal is sqrt(2).
		for i := 0; i < 4; i++ {
			next := corners[(i+1)%4]
			if dl := corners[i].Sub(next).Len(); dl < 0.999 || dl > 1.001 {
				t.Errorf("%v edge %d length = %v, want 1", d, i, dl)
			}
		}
		if dl := corners[0].Sub(corners[2]).Len(); dl < 1.413 || dl > 1.415 {
			t.Errorf("%v diagonal = %v, want sqrt(2)", d, dl)
		}
	}
}

func TestProjectPointInView(t *testing.T) {
	g := &Game{width: DefaultWidth, height: DefaultHeight}

	target := mgl32.Vec3{8, 8, 8}
	cam := orbit.NewCamera(target)
	vp := cam.ViewProjection(float32(g.width) / float32(g.height))

	// The look target projects near the screen center.
	pt, depth, ok := g.project(vp, target)
	if !ok {
		t.Fatal("look target should be in front of the camera")
	}
	if depth <= 0 {
		t.Errorf("depth = %v, want positive", depth)
	}

	cx, cy := float32(g.width)/2, float32(g.height)/2
	if pt.x < cx-1 || pt.x > cx+1 || pt.y < cy-1 || pt.y > cy+1 {
		t.Errorf("look target projected to (%v, %v), want near (%v, %v)", pt.x, pt.y, cx, cy)
	}
}

func TestProjectPointBehindCamera(t *testing.T) {
	g := &Game{width: DefaultWidth, height: DefaultHeight}

	target := mgl32.Vec3{8, 8, 8}
	cam := orbit.NewCamera(target)
	vp := cam.ViewProjection(float32(g.width) / float32(g.height))

	// A point past the camera on the view axis is rejected.
	eye := cam.Position()
	behind := eye.Add(eye.Sub(target))
	if _, _, ok := g.project(vp, behind); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestProjectFacesDepthSorts(t *testing.T) {
	g := &Game{width: DefaultWidth, height: DefaultHeight}

	target := mgl32.Vec3{8, 8, 8}
	cam := orbit.NewCamera(target)
	vp := cam.ViewProjection(float32(g.width) / float32(g.height))

	// Two top faces at different distances from the default eye
	// (which sits at positive X/Z): the far cell must get the larger
	// depth.
	near := voxel.Face{Pos: voxel.Coord{X: 12, Y: 8, Z: 12}, Dir: voxel.DirYPos, Color: voxel.Voxel{R: 255}}
	far := voxel.Face{Pos: voxel.Coord{X: 2, Y: 8, Z: 2}, Dir: voxel.DirYPos, Color: voxel.Voxel{R: 255}}

	quads := g.projectFaces(vp, []voxel.Face{near, far})
	if len(quads) != 2 {
		t.Fatalf("projected %d quads, want 2", len(quads))
	}
	if quads[0].depth >= quads[1].depth {
		t.Errorf("near depth %v should be less than far depth %v", quads[0].depth, quads[1].depth)
	}
}
