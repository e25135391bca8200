// Package render draws the editor window with ebiten. The renderer is
// a software projector: visible faces are projected through the orbit
// camera, painter-sorted by depth and drawn as 2D triangles. Update
// runs one engine tick per frame, so all grid and camera access here
// stays on the tick goroutine.
package render

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ayusman/airforge/internal/detector"
	"github.com/ayusman/airforge/internal/engine"
	"github.com/ayusman/airforge/internal/scene"
	"github.com/ayusman/airforge/internal/voxel"
)

// FrameSource supplies the latest mirrored camera frame for the
// viewport background. A nil source or nil frame falls back to a flat
// fill.
type FrameSource interface {
	Frame() image.Image
}

// Window defaults
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	TPS           = 60
)

// whiteImage backs the textured-triangle calls; the 1x1 center pixel
// avoids bleeding at triangle edges.
var whiteImage = ebiten.NewImage(3, 3)
var whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

func init() {
	whiteImage.Fill(color.White)
}

// dirShade darkens faces by orientation so the cubes read as 3D.
var dirShade = [voxel.NumDirs]float32{
	voxel.DirXPos: 0.75,
	voxel.DirXNeg: 0.70,
	voxel.DirYPos: 1.00,
	voxel.DirYNeg: 0.40,
	voxel.DirZPos: 0.85,
	voxel.DirZNeg: 0.60,
}

// Game is the ebiten application driving the engine.
type Game struct {
	engine *engine.Engine
	store  *scene.Store
	frames FrameSource

	width      int
	height     int
	background *ebiten.Image
}

// NewGame creates the window game over an engine. The store may be
// nil, which disables the save key; a nil frame source disables the
// camera background.
func NewGame(e *engine.Engine, store *scene.Store, frames FrameSource) *Game {
	return &Game{
		engine: e,
		store:  store,
		frames: frames,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
}

// Run opens the window and blocks until it closes.
func (g *Game) Run() error {
	ebiten.SetWindowTitle("AirForge")
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(TPS)
	return ebiten.RunGame(g)
}

// Update runs one engine tick and handles keyboard commands.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.engine.Do(engine.Command{Kind: engine.CmdUndo})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.engine.Do(engine.Command{Kind: engine.CmdCycleColor})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.engine.Do(engine.Command{Kind: engine.CmdResetCamera})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.engine.Do(engine.Command{Kind: engine.CmdClearAll})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.saveScene()
	}

	g.engine.Tick(time.Now())
	return nil
}

// saveScene snapshots the grid under a timestamped name. Runs on the
// tick goroutine, so reading the grid directly is safe.
func (g *Game) saveScene() {
	if g.store == nil {
		return
	}

	name := "scene-" + time.Now().Format("20060102-150405")
	grid := g.engine.Grid()
	saved, err := g.store.Save(name, grid.Size(), grid.Voxels())
	if err != nil {
		log.Printf("saving scene: %v", err)
		return
	}
	log.Printf("saved scene %q (%d voxels)", saved.Name, saved.VoxelCount)
}

// projected is a face quad in screen space, ready to draw.
type projected struct {
	pts   [4]point2
	depth float32
	r     float32
	g     float32
	b     float32
}

type point2 struct {
	x float32
	y float32
}

// Draw projects and paints the scene over the live camera feed.
func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)

	vp := g.engine.Camera().ViewProjection(float32(g.width) / float32(g.height))

	g.drawFloorGrid(screen, vp)

	grid := g.engine.Grid()
	quads := g.projectFaces(vp, grid.VisibleFaces())

	// Painter's algorithm: farthest first.
	sort.Slice(quads, func(i, j int) bool { return quads[i].depth > quads[j].depth })
	for i := range quads {
		g.fillQuad(screen, &quads[i])
	}

	g.drawCursor(screen, vp)
	g.drawHandTrace(screen)
	g.drawHUD(screen)
}

// drawBackground paints the mirrored camera frame, dimmed so voxels
// stay readable on top of it. Without a frame the viewport falls back
// to a flat fill.
func (g *Game) drawBackground(screen *ebiten.Image) {
	var img image.Image
	if g.frames != nil {
		img = g.frames.Frame()
	}
	if img == nil {
		screen.Fill(color.RGBA{R: 18, G: 18, B: 24, A: 255})
		return
	}

	bounds := img.Bounds()
	if g.background == nil || !g.background.Bounds().Eq(bounds) {
		g.background = ebiten.NewImage(bounds.Dx(), bounds.Dy())
	}
	if rgba, ok := img.(*image.RGBA); ok {
		g.background.WritePixels(rgba.Pix)
	} else {
		g.background = ebiten.NewImageFromImage(img)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(
		float64(g.width)/float64(bounds.Dx()),
		float64(g.height)/float64(bounds.Dy()),
	)
	op.ColorScale.Scale(0.4, 0.4, 0.45, 1)
	screen.DrawImage(g.background, op)
}

// handBones connects the landmark indices finger by finger, the usual
// skeleton drawn over hand tracking feeds.
var handBones = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// drawHandTrace overlays the tracked hand skeleton on the viewport so
// the user can see what the detector sees. Landmark coordinates are
// normalized and already mirrored, so they map straight to the window.
func (g *Game) drawHandTrace(screen *ebiten.Image) {
	hand := g.engine.LastHand()
	if hand == nil {
		return
	}

	toScreen := func(i int) (float32, float32) {
		p := hand.Points[i]
		return float32(p.X) * float32(g.width), float32(p.Y) * float32(g.height)
	}

	boneColor := color.RGBA{R: 80, G: 220, B: 140, A: 200}
	for _, b := range handBones {
		x0, y0 := toScreen(b[0])
		x1, y1 := toScreen(b[1])
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, boneColor, false)
	}

	jointColor := color.RGBA{R: 230, G: 240, B: 235, A: 220}
	for i := 0; i < detector.NumLandmarks; i++ {
		x, y := toScreen(i)
		vector.DrawFilledCircle(screen, x, y, 3, jointColor, false)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// project maps a world point to screen space. ok is false when the
// point is behind the camera.
func (g *Game) project(vp mgl32.Mat4, p mgl32.Vec3) (point2, float32, bool) {
	clip := vp.Mul4x1(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1})
	w := clip.W()
	if w <= 0.001 {
		return point2{}, 0, false
	}

	x := (clip.X()/w*0.5 + 0.5) * float32(g.width)
	y := (1 - (clip.Y()/w*0.5 + 0.5)) * float32(g.height)
	return point2{x: x, y: y}, w, true
}

func (g *Game) projectFaces(vp mgl32.Mat4, faces []voxel.Face) []projected {
	quads := make([]projected, 0, len(faces))

	for _, f := range faces {
		corners := faceCorners(f)

		var q projected
		visible := true
		for i, c := range corners {
			pt, depth, ok := g.project(vp, c)
			if !ok {
				visible = false
				break
			}
			q.pts[i] = pt
			q.depth += depth
		}
		if !visible {
			continue
		}
		q.depth /= 4

		shade := dirShade[f.Dir]
		q.r = float32(f.Color.R) / 255 * shade
		q.g = float32(f.Color.G) / 255 * shade
		q.b = float32(f.Color.B) / 255 * shade
		quads = append(quads, q)
	}

	return quads
}

func (g *Game) fillQuad(screen *ebiten.Image, q *projected) {
	vs := make([]ebiten.Vertex, 4)
	for i, p := range q.pts {
		vs[i] = ebiten.Vertex{
			DstX:   p.x,
			DstY:   p.y,
			SrcX:   1,
			SrcY:   1,
			ColorR: q.r,
			ColorG: q.g,
			ColorB: q.b,
			ColorA: 1,
		}
	}

	indices := []uint16{0, 1, 2, 0, 2, 3}
	screen.DrawTriangles(vs, indices, whiteSubImage, nil)
}

// drawFloorGrid strokes the y=0 grid lines.
func (g *Game) drawFloorGrid(screen *ebiten.Image, vp mgl32.Mat4) {
	n := float32(g.engine.Grid().Size())
	lineColor := color.RGBA{R: 60, G: 60, B: 70, A: 255}

	for i := float32(0); i <= n; i++ {
		g.strokeSegment(screen, vp, mgl32.Vec3{i, 0, 0}, mgl32.Vec3{i, 0, n}, lineColor)
		g.strokeSegment(screen, vp, mgl32.Vec3{0, 0, i}, mgl32.Vec3{n, 0, i}, lineColor)
	}
}

// drawCursor outlines the cell the hand cursor occupies.
func (g *Game) drawCursor(screen *ebiten.Image, vp mgl32.Mat4) {
	c := g.engine.Cursor()
	v := g.engine.Snapshot().Color
	outline := color.RGBA{R: v.R, G: v.G, B: v.B, A: 255}

	x, y, z := float32(c.X), float32(c.Y), float32(c.Z)
	corners := [8]mgl32.Vec3{
		{x, y, z}, {x + 1, y, z}, {x + 1, y + 1, z}, {x, y + 1, z},
		{x, y, z + 1}, {x + 1, y, z + 1}, {x + 1, y + 1, z + 1}, {x, y + 1, z + 1},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0}, // back face
		{4, 5}, {5, 6}, {6, 7}, {7, 4}, // front face
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // connecting
	}

	for _, e := range edges {
		g.strokeSegment(screen, vp, corners[e[0]], corners[e[1]], outline)
	}
}

func (g *Game) strokeSegment(screen *ebiten.Image, vp mgl32.Mat4, a, b mgl32.Vec3, clr color.Color) {
	pa, _, okA := g.project(vp, a)
	pb, _, okB := g.project(vp, b)
	if !okA || !okB {
		return
	}
	vector.StrokeLine(screen, pa.x, pa.y, pb.x, pb.y, 1, clr, false)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	snap := g.engine.Snapshot()

	// Current color swatch.
	vector.DrawFilledRect(screen, 10, 10, 24, 24,
		color.RGBA{R: snap.Color.R, G: snap.Color.G, B: snap.Color.B, A: 255}, false)

	status := "tracking"
	if !snap.Tracking {
		status = "paused"
	}

	hud := fmt.Sprintf(
		"gesture: %s (%s)\ncursor: %d,%d,%d\nvoxels: %d  undo: %d\ncolor: %d/%d  [%s]\nfps: %0.1f\n\npinch=place  palm=delete  fist=orbit  peace=color\nZ undo  C color  R camera  X clear  S save  Q quit",
		snap.Gesture, snap.State,
		snap.Cursor.X, snap.Cursor.Y, snap.Cursor.Z,
		snap.VoxelCount, snap.UndoDepth,
		snap.ColorIndex+1, len(voxel.DefaultColors), status,
		ebiten.ActualFPS(),
	)
	ebitenutil.DebugPrintAt(screen, hud, 44, 10)
}

// faceCorners returns the world-space quad of a visible face, wound
// consistently around the face center.
func faceCorners(f voxel.Face) [4]mgl32.Vec3 {
	x, y, z := float32(f.Pos.X), float32(f.Pos.Y), float32(f.Pos.Z)

	switch f.Dir {
	case voxel.DirXPos:
		return [4]mgl32.Vec3{
			{x + 1, y, z}, {x + 1, y + 1, z}, {x + 1, y + 1, z + 1}, {x + 1, y, z + 1},
		}
	case voxel.DirXNeg:
		return [4]mgl32.Vec3{
			{x, y, z}, {x, y, z + 1}, {x, y + 1, z + 1}, {x, y + 1, z},
		}
	case voxel.DirYPos:
		return [4]mgl32.Vec3{
			{x, y + 1, z}, {x, y + 1, z + 1}, {x + 1, y + 1, z + 1}, {x + 1, y + 1, z},
		}
	case voxel.DirYNeg:
		return [4]mgl32.Vec3{
			{x, y, z}, {x + 1, y, z}, {x + 1, y, z + 1}, {x, y, z + 1},
		}
	case voxel.DirZPos:
		return [4]mgl32.Vec3{
			{x, y, z + 1}, {x + 1, y, z + 1}, {x + 1, y + 1, z + 1}, {x, y + 1, z + 1},
		}
	default: // DirZNeg
		return [4]mgl32.Vec3{
			{x, y, z}, {x, y + 1, z}, {x + 1, y + 1, z}, {x + 1, y, z},
		}
	}
}
