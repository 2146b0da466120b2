package framebuffer

import (
	"fmt"

	"github.com/Faultbox/islet/internal/engine/gpu"
)

// Renderbuffer exclusively owns one native renderbuffer.
type Renderbuffer struct {
	dev    gpu.Device
	handle gpu.Handle
	width  int32
	height int32
}

// NewRenderbuffer allocates width×height storage, Depth24 unless a format is given.
func NewRenderbuffer(dev gpu.Device, width, height int32, format ...gpu.PixelFormat) (*Renderbuffer, error) {
	f := gpu.FormatDepth24
	if len(format) > 0 {
		f = format[0]
	}

	id := dev.CreateRenderbuffer()
	if id == 0 {
		return nil, fmt.Errorf("renderbuffer %dx%d: %w", width, height, gpu.ErrAllocation)
	}

	rb := &Renderbuffer{dev: dev, width: width, height: height}
	rb.handle.Reset(id)

	rb.Bind()
	dev.RenderbufferStorage(width, height, f)
	rb.Unbind()

	return rb, nil
}

// Bind makes this the current renderbuffer.
func (rb *Renderbuffer) Bind() {
	rb.dev.BindRenderbuffer(rb.handle.MustID("renderbuffer"))
}

// Unbind clears the renderbuffer binding.
func (rb *Renderbuffer) Unbind() {
	rb.dev.BindRenderbuffer(0)
}

// ID returns the native renderbuffer id, 0 after Move or Destroy.
func (rb *Renderbuffer) ID() uint32 {
	return rb.handle.ID()
}

// Size returns the storage dimensions.
func (rb *Renderbuffer) Size() (width, height int32) {
	return rb.width, rb.height
}

// Move transfers ownership to a new Renderbuffer and leaves rb empty.
func (rb *Renderbuffer) Move() *Renderbuffer {
	m := &Renderbuffer{dev: rb.dev, width: rb.width, height: rb.height}
	m.handle.Reset(rb.handle.Take())
	return m
}

// Destroy releases the native renderbuffer. Safe on an empty renderbuffer.
func (rb *Renderbuffer) Destroy() {
	if rb == nil {
		return
	}
	if id := rb.handle.Take(); id != 0 {
		rb.dev.DeleteRenderbuffer(id)
	}
}
