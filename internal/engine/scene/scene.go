// Package scene holds the data drawn each frame: mesh instances with
// their materials, animations and transforms, plus the light.
package scene

import (
	"github.com/Faultbox/islet/internal/engine/animation"
	"github.com/Faultbox/islet/internal/engine/lighting"
	"github.com/Faultbox/islet/internal/engine/mesh"
	"github.com/Faultbox/islet/internal/engine/transform"
)

// MeshInstance places one mesh buffer in the scene. It owns Mesh and
// Animation exclusively and holds one reference to Material.
type MeshInstance struct {
	Name      string
	Mesh      *mesh.Buffer
	Material  *Material
	Animation animation.Animation // may be nil
	Transform transform.Transform
}

// Scene is an ordered list of instances, drawn in order, and one light.
type Scene struct {
	Meshes []*MeshInstance
	Light  lighting.Light
	// Time is simulated seconds, advanced by animation.Tick per Update.
	Time float32
}

// New returns an empty scene lit by the default light.
func New() *Scene {
	return &Scene{Light: lighting.Default()}
}

// Add appends an instance, transferring ownership of its mesh, animation
// and material reference to the scene.
func (s *Scene) Add(inst *MeshInstance) {
	s.Meshes = append(s.Meshes, inst)
}

// Update advances time by one tick and applies every animation.
func (s *Scene) Update() {
	s.Time += animation.Tick
	for _, m := range s.Meshes {
		if m.Animation != nil {
			m.Transform = m.Animation.Apply(m.Transform)
		}
	}
}

// Destroy releases every instance's mesh and material reference.
func (s *Scene) Destroy() {
	for _, m := range s.Meshes {
		m.Mesh.Destroy()
		if m.Material != nil {
			m.Material.Release()
		}
	}
	s.Meshes = nil
}
