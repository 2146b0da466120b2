// Package texture provides GPU texture handles and image decoding.
package texture

import (
	"fmt"

	"github.com/Faultbox/islet/internal/engine/gpu"
)

// Texture exclusively owns one native 2D texture.
type Texture struct {
	dev    gpu.Device
	handle gpu.Handle
	width  int32
	height int32
	format gpu.PixelFormat
}

// New allocates a width×height texture. pixels may be nil to leave the
// storage uninitialized (render targets). The texture is left bound.
func New(dev gpu.Device, width, height int32, format gpu.PixelFormat, pixels []byte) (*Texture, error) {
	id := dev.CreateTexture()
	if id == 0 {
		return nil, fmt.Errorf("texture %dx%d %s: %w", width, height, format, gpu.ErrAllocation)
	}

	t := &Texture{
		dev:    dev,
		width:  width,
		height: height,
		format: format,
	}
	t.handle.Reset(id)

	t.Bind()
	dev.TexImage2D(width, height, format, pixels)

	return t, nil
}

// NewTarget allocates an uninitialized, linearly filtered, edge-clamped
// texture suitable as a color attachment.
func NewTarget(dev gpu.Device, width, height int32, format gpu.PixelFormat) (*Texture, error) {
	t, err := New(dev, width, height, format, nil)
	if err != nil {
		return nil, err
	}
	t.SetSampler(gpu.Sampler{
		MinFilter: gpu.FilterLinear,
		MagFilter: gpu.FilterLinear,
		WrapS:     gpu.WrapClampToEdge,
		WrapT:     gpu.WrapClampToEdge,
	})
	return t, nil
}

// FromImage uploads a decoded image as a mipmapped, anisotropically
// filtered sRGB texture. Rows are flipped so that texture coordinate (0,0)
// addresses the bottom-left pixel. A nil or empty image yields a 1×1
// all-zero texture.
func FromImage(dev gpu.Device, img *Image) (*Texture, error) {
	if img.Empty() {
		img = Blank()
	}

	t, err := New(dev, int32(img.Width), int32(img.Height), gpu.FormatSRGBA8, FlipRows(img.Pix, img.Width, img.Height))
	if err != nil {
		return nil, err
	}

	dev.GenerateMipmap()
	t.SetSampler(gpu.Sampler{
		MinFilter:  gpu.FilterLinearMipmapLinear,
		MagFilter:  gpu.FilterLinear,
		WrapS:      gpu.WrapClampToEdge,
		WrapT:      gpu.WrapClampToEdge,
		Anisotropy: dev.MaxAnisotropy(),
	})

	return t, nil
}

// SetSampler binds the texture and applies s to it.
func (t *Texture) SetSampler(s gpu.Sampler) {
	t.Bind()
	t.dev.SetSampler(s)
}

// Bind binds the texture to the active texture unit.
func (t *Texture) Bind() {
	t.dev.BindTexture(t.handle.MustID("texture"))
}

// BindUnit activates unit and binds the texture to it.
func (t *Texture) BindUnit(unit uint32) {
	t.dev.ActiveTexture(unit)
	t.Bind()
}

// Unbind clears the active texture unit.
func (t *Texture) Unbind() {
	t.dev.BindTexture(0)
}

// ID returns the native texture id, 0 after Move or Destroy.
func (t *Texture) ID() uint32 {
	return t.handle.ID()
}

// Size returns the texture dimensions.
func (t *Texture) Size() (width, height int32) {
	return t.width, t.height
}

// Format returns the storage format.
func (t *Texture) Format() gpu.PixelFormat {
	return t.format
}

// Move transfers ownership of the native texture to a new Texture.
// t is left empty and its Destroy releases nothing.
func (t *Texture) Move() *Texture {
	m := &Texture{
		dev:    t.dev,
		width:  t.width,
		height: t.height,
		format: t.format,
	}
	m.handle.Reset(t.handle.Take())
	return m
}

// Destroy releases the native texture. Safe on an empty texture.
func (t *Texture) Destroy() {
	if t == nil {
		return
	}
	if id := t.handle.Take(); id != 0 {
		t.dev.DeleteTexture(id)
	}
}
