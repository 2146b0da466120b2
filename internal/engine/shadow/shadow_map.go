// Package shadow provides the depth-only render target and light-space
// matrices for shadow mapping.
package shadow

import (
	"fmt"

	"github.com/Faultbox/islet/internal/engine/framebuffer"
	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/texture"
)

// DefaultResolution is the side length of the square shadow map.
const DefaultResolution = 2048

// Map is a square depth texture attached to a depth-only framebuffer.
type Map struct {
	Depth       *texture.Texture
	Framebuffer *framebuffer.Framebuffer
	Resolution  int32
}

// NewMap allocates and finalizes a shadow map. Sampling outside the map
// reads as fully lit.
func NewMap(dev gpu.Device, resolution int32) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	depth, err := texture.New(dev, resolution, resolution, gpu.FormatDepth24, nil)
	if err != nil {
		return nil, fmt.Errorf("shadow depth texture: %w", err)
	}
	depth.SetSampler(gpu.Sampler{
		MinFilter:  gpu.FilterLinear,
		MagFilter:  gpu.FilterLinear,
		WrapS:      gpu.WrapClampToBorder,
		WrapT:      gpu.WrapClampToBorder,
		Border:     [4]float32{1, 1, 1, 1},
		CompareRef: true,
	})

	fb, err := framebuffer.New(dev)
	if err != nil {
		depth.Destroy()
		return nil, fmt.Errorf("shadow framebuffer: %w", err)
	}
	fb.AttachDepthTexture(depth)
	if err := fb.Finalize(); err != nil {
		fb.Destroy()
		depth.Destroy()
		return nil, fmt.Errorf("shadow framebuffer: %w", err)
	}

	return &Map{Depth: depth, Framebuffer: fb, Resolution: resolution}, nil
}

// Begin sets the viewport to the map, binds its framebuffer and clears depth.
func (m *Map) Begin(dev gpu.Device) {
	dev.Viewport(0, 0, m.Resolution, m.Resolution)
	m.Framebuffer.Bind()
	dev.Clear(gpu.ClearDepth)
}

// Destroy releases the framebuffer and depth texture.
func (m *Map) Destroy() {
	if m == nil {
		return
	}
	m.Framebuffer.Destroy()
	m.Depth.Destroy()
}
