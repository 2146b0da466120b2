package shadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Light-space frustum: a 10×10 orthographic box around the origin.
const (
	frustumHalf = 5
	frustumNear = 0.1
	frustumFar  = 100
)

// LightMatrices returns the view and projection of a light at lightPos
// looking at the origin.
func LightMatrices(lightPos mgl32.Vec3) (view, projection mgl32.Mat4) {
	up := mgl32.Vec3{0, 1, 0}
	// lookAt degenerates when the light sits straight above the origin
	if n := lightPos.Normalize(); float32(math.Abs(float64(n.Y()))) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view = mgl32.LookAtV(lightPos, mgl32.Vec3{}, up)
	projection = mgl32.Ortho(-frustumHalf, frustumHalf, -frustumHalf, frustumHalf, frustumNear, frustumFar)
	return view, projection
}
