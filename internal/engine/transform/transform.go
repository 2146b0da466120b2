// Package transform describes the placement of a mesh instance.
package transform

import "github.com/go-gl/mathgl/mgl32"

// Up is the default rotation axis.
var Up = mgl32.Vec3{0, 1, 0}

// Transform is a position, an axis-angle rotation in degrees and a
// per-axis scale. The axis need not be normalized.
type Transform struct {
	Position mgl32.Vec3
	Axis     mgl32.Vec3
	Angle    float32
	Scale    mgl32.Vec3
}

// New returns the identity transform: origin, no rotation about Up, unit scale.
func New() Transform {
	return Transform{Axis: Up, Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns translate · rotate · scale. A zero-length axis rotates
// about Up.
func (t Transform) Matrix() mgl32.Mat4 {
	axis := t.Axis
	if axis.Len() == 0 {
		axis = Up
	}
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(t.Angle), axis.Normalize())).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}
