// Package animation provides per-tick transform mutators.
//
// Every animation advances by a fixed Tick per Apply call regardless of
// wall-clock time, so N calls always reproduce the same result.
package animation

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/islet/internal/engine/transform"
)

// Tick is the simulated time step of one Apply call, in seconds.
const Tick = float32(1.0 / 60.0)

// Animation produces this frame's transform from the previous one.
// Apply takes and returns a value and never aliases its input.
type Animation interface {
	Apply(t transform.Transform) transform.Transform
}

// Spin rotates about a fixed axis, one full turn every Period seconds.
type Spin struct {
	Period float32
	Axis   mgl32.Vec3
}

// Apply overwrites the axis and accumulates the angle.
func (s *Spin) Apply(t transform.Transform) transform.Transform {
	t.Axis = s.Axis
	t.Angle += 360 / s.Period * Tick
	return t
}

// Bounce oscillates the position about Center along Offset.
type Bounce struct {
	Period float32
	Center mgl32.Vec3
	Offset mgl32.Vec3

	time float32
}

// Apply sets the position to Center + Offset·sin(time/Period).
func (b *Bounce) Apply(t transform.Transform) transform.Transform {
	t.Position = b.Center.Add(b.Offset.Mul(sin(b.time / b.Period)))
	b.time += Tick
	return t
}

// Squash oscillates the scale between 1 and 1+Direction per axis.
type Squash struct {
	Period    float32
	Direction mgl32.Vec3

	time float32
}

// Apply sets the scale to 1 + Direction·(0.5 + sin(time/Period)/2).
func (s *Squash) Apply(t transform.Transform) transform.Transform {
	t.Scale = mgl32.Vec3{1, 1, 1}.Add(s.Direction.Mul(0.5 + sin(s.time/s.Period)/2))
	s.time += Tick
	return t
}

// Combo applies its children in order, each consuming the previous output.
type Combo struct {
	Steps []Animation
}

// Add appends a step.
func (c *Combo) Add(a Animation) {
	c.Steps = append(c.Steps, a)
}

// Apply runs every step in order.
func (c *Combo) Apply(t transform.Transform) transform.Transform {
	for _, a := range c.Steps {
		t = a.Apply(t)
	}
	return t
}

func sin(x float32) float32 {
	return float32(math.Sin(float64(x)))
}
