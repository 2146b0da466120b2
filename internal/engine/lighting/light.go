// Package lighting describes the scene's single point light.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Light is a point light. Color is HDR and may exceed 1 per channel.
type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// Default is the warm evening light of the island scene.
func Default() Light {
	return Light{
		Position: mgl32.Vec3{0, 3, 1.5},
		Color:    mgl32.Vec3{0.99, 0.72, 0.60}.Mul(30),
	}
}

// SunPosition places a light at distance from the origin along the direction
// given by longitude (rotation about +Y) and latitude (elevation above the
// horizon), both in degrees.
func SunPosition(longitude, latitude, distance float32) mgl32.Vec3 {
	lon := float64(mgl32.DegToRad(longitude))
	lat := float64(mgl32.DegToRad(latitude))
	dir := mgl32.Vec3{
		float32(math.Cos(lat) * math.Sin(lon)),
		float32(math.Sin(lat)),
		float32(math.Cos(lat) * math.Cos(lon)),
	}
	return dir.Mul(distance)
}
