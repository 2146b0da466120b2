package scene

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/islet/internal/engine/texture"
)

// Material is the surface description shared by mesh instances. It owns
// its textures and is reference counted: every holder calls Release once,
// and the last release destroys the textures.
type Material struct {
	DiffuseMap *texture.Texture
	WaveMask   *texture.Texture

	Ka, Kd, Ks float32
	Exponent   float32

	// IsWater selects the ocean wave table and enables water shading.
	IsWater bool

	refs atomic.Int32
}

// NewMaterial takes ownership of the two textures. The returned material
// holds one reference.
func NewMaterial(diffuse *texture.Texture, ka, kd, ks, exponent float32, waveMask *texture.Texture) *Material {
	m := &Material{
		DiffuseMap: diffuse,
		WaveMask:   waveMask,
		Ka:         ka,
		Kd:         kd,
		Ks:         ks,
		Exponent:   exponent,
	}
	m.refs.Store(1)
	return m
}

// Share adds a reference and returns m.
func (m *Material) Share() *Material {
	if m.refs.Add(1) <= 1 {
		panic("scene: share of released material")
	}
	return m
}

// Release drops a reference, destroying the textures on the last one.
func (m *Material) Release() {
	switch n := m.refs.Add(-1); {
	case n == 0:
		m.DiffuseMap.Destroy()
		m.WaveMask.Destroy()
	case n < 0:
		panic("scene: material released too many times")
	}
}

// Refs returns the current reference count.
func (m *Material) Refs() int32 {
	return m.refs.Load()
}

// Properties packs (ka, kd, ks, exponent) for the material_properties uniform.
func (m *Material) Properties() mgl32.Vec4 {
	return mgl32.Vec4{m.Ka, m.Kd, m.Ks, m.Exponent}
}
