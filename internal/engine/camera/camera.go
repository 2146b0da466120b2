// Package camera provides the orbit camera that views the scene.
package camera

import "github.com/go-gl/mathgl/mgl32"

// Defaults restored by Reset.
const (
	DefaultDistance = 2.0
	MinDistance     = 0.05
	MaxDistance     = 50.0
)

// wheelStep is the distance change per wheel notch.
const wheelStep = 120.0 / 360.0

// Orbit looks at the origin from Distance away. Pitch spins the scene
// about the vertical axis and Yaw tilts it about the horizontal one, both
// in degrees.
type Orbit struct {
	Pitch    float32
	Yaw      float32
	Distance float32
}

// NewOrbit returns a camera in the reset position.
func NewOrbit() *Orbit {
	c := &Orbit{}
	c.Reset()
	return c
}

// Reset restores the initial viewpoint.
func (c *Orbit) Reset() {
	c.Pitch, c.Yaw = 0, 0
	c.Distance = DefaultDistance
}

// ViewMatrix returns translate(0,0,-Distance) · rotX(Yaw) · rotY(Pitch).
func (c *Orbit) ViewMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, -c.Distance).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(c.Yaw))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.Pitch)))
}

// HandleDrag rotates by a mouse drag of (dx, dy) pixels in a window of
// the given size. A drag across the full window is one full turn.
func (c *Orbit) HandleDrag(dx, dy float32, width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Pitch += 360 * dx / float32(width)
	c.Yaw += 360 * dy / float32(height)
}

// HandleZoom moves the camera closer for positive wheel notches.
func (c *Orbit) HandleZoom(notches float32) {
	c.Distance = mgl32.Clamp(c.Distance-notches*wheelStep, MinDistance, MaxDistance)
}
