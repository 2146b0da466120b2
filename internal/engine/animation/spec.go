package animation

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownAnimation is returned for an unrecognized Spec type.
var ErrUnknownAnimation = errors.New("unknown animation")

// Spec is the declarative form of an animation, as found in scene manifests.
type Spec struct {
	Type      string     `yaml:"type"`
	Period    float32    `yaml:"period,omitempty"`
	Axis      [3]float32 `yaml:"axis,omitempty"`
	Center    [3]float32 `yaml:"center,omitempty"`
	Offset    [3]float32 `yaml:"offset,omitempty"`
	Direction [3]float32 `yaml:"direction,omitempty"`
	Steps     []Spec     `yaml:"steps,omitempty"`
}

// Build constructs the animation described by s. A zero period is an
// error for the periodic kinds.
func (s Spec) Build() (Animation, error) {
	switch s.Type {
	case "spin", "bounce", "squash":
		if s.Period == 0 {
			return nil, fmt.Errorf("%s animation: period must be non-zero", s.Type)
		}
	}

	switch s.Type {
	case "spin":
		axis := mgl32.Vec3(s.Axis)
		if axis.Len() == 0 {
			axis = mgl32.Vec3{0, 1, 0}
		}
		return &Spin{Period: s.Period, Axis: axis}, nil
	case "bounce":
		return &Bounce{Period: s.Period, Center: s.Center, Offset: s.Offset}, nil
	case "squash":
		return &Squash{Period: s.Period, Direction: s.Direction}, nil
	case "combo":
		c := &Combo{}
		for i, step := range s.Steps {
			a, err := step.Build()
			if err != nil {
				return nil, fmt.Errorf("combo step %d: %w", i, err)
			}
			c.Add(a)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%q: %w", s.Type, ErrUnknownAnimation)
}
