// Package orbit implements the editor's orbiting camera. The camera
// circles a fixed look target on a sphere described by yaw, pitch and
// distance, and eases toward its target angles every frame so grab
// gestures feel damped instead of jittery.
package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Defaults for a fresh camera and the limits it is clamped to.
const (
	DefaultYaw      = 45.0
	DefaultPitch    = 30.0
	DefaultDistance = 35.0

	Smoothing = 0.15

	MinPitch    = -80.0
	MaxPitch    = 80.0
	MinDistance = 10.0
	MaxDistance = 100.0

	fovDegrees = 60.0
	nearPlane  = 0.1
	farPlane   = 500.0
)

// Camera orbits a look target. Orbit and Zoom move the target angles
// immediately; Update eases the rendered angles toward them.
type Camera struct {
	yaw      float64
	pitch    float64
	distance float64

	targetYaw      float64
	targetPitch    float64
	targetDistance float64

	lookAt mgl32.Vec3
}

// NewCamera returns a camera at the default vantage looking at target.
func NewCamera(target mgl32.Vec3) *Camera {
	c := &Camera{lookAt: target}
	c.Reset()
	return c
}

// Reset snaps the camera back to the default vantage.
func (c *Camera) Reset() {
	c.yaw = DefaultYaw
	c.pitch = DefaultPitch
	c.distance = DefaultDistance
	c.targetYaw = DefaultYaw
	c.targetPitch = DefaultPitch
	c.targetDistance = DefaultDistance
}

// SetTarget moves the point the camera looks at.
func (c *Camera) SetTarget(target mgl32.Vec3) {
	c.lookAt = target
}

// Orbit adjusts the target yaw and pitch by the given deltas in
// degrees. Pitch is clamped so the camera never flips over the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.targetYaw += dYaw
	c.targetPitch = clamp(c.targetPitch+dPitch, MinPitch, MaxPitch)
}

// Zoom adjusts the target distance, clamped to the allowed range.
func (c *Camera) Zoom(dDistance float64) {
	c.targetDistance = clamp(c.targetDistance+dDistance, MinDistance, MaxDistance)
}

// Update eases the rendered angles toward their targets. Call once
// per frame.
func (c *Camera) Update() {
	c.yaw += (c.targetYaw - c.yaw) * Smoothing
	c.pitch += (c.targetPitch - c.pitch) * Smoothing
	c.distance += (c.targetDistance - c.distance) * Smoothing
}

// Yaw returns the rendered yaw in degrees.
func (c *Camera) Yaw() float64 { return c.yaw }

// Pitch returns the rendered pitch in degrees.
func (c *Camera) Pitch() float64 { return c.pitch }

// Distance returns the rendered distance to the look target.
func (c *Camera) Distance() float64 { return c.distance }

// Position returns the camera's world position on its orbit sphere.
func (c *Camera) Position() mgl32.Vec3 {
	yawRad := c.yaw * math.Pi / 180
	pitchRad := c.pitch * math.Pi / 180

	horiz := c.distance * math.Cos(pitchRad)
	x := horiz * math.Cos(yawRad)
	y := c.distance * math.Sin(pitchRad)
	z := horiz * math.Sin(yawRad)

	return c.lookAt.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
}

// ViewMatrix returns the camera's look-at matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.lookAt, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the given
// viewport aspect ratio.
func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fovDegrees), aspect, nearPlane, farPlane)
}

// ViewProjection returns the combined projection and view matrix.
func (c *Camera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
