// Package framebuffer provides offscreen render targets.
package framebuffer

import (
	"fmt"

	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/texture"
)

// Framebuffer exclusively owns one native framebuffer object and records
// which color slots have been attached, in attachment order.
//
// Attachments are added with AttachColor/AttachDepth*, then Finalize locks
// the set and declares the draw buffers. Only a finalized framebuffer may
// be bound. The attached textures and renderbuffers are not owned.
type Framebuffer struct {
	dev       gpu.Device
	handle    gpu.Handle
	colors    []gpu.Attachment
	hasDepth  bool
	finalized bool
}

// New creates an empty framebuffer.
func New(dev gpu.Device) (*Framebuffer, error) {
	id := dev.CreateFramebuffer()
	if id == 0 {
		return nil, fmt.Errorf("creating framebuffer: %w", gpu.ErrAllocation)
	}
	fb := &Framebuffer{dev: dev}
	fb.handle.Reset(id)
	return fb, nil
}

func (fb *Framebuffer) bindForSetup() {
	if fb.finalized {
		panic("framebuffer: attachment after finalize")
	}
	fb.dev.BindFramebuffer(fb.handle.MustID("framebuffer"))
}

// AttachColor attaches tex at the next sequential color slot and returns it.
func (fb *Framebuffer) AttachColor(tex *texture.Texture) gpu.Attachment {
	fb.bindForSetup()
	slot := gpu.ColorAttachment(len(fb.colors))
	fb.dev.FramebufferTexture(slot, tex.ID())
	fb.colors = append(fb.colors, slot)
	return slot
}

// AttachDepthTexture attaches tex as the depth buffer, replacing any previous one.
func (fb *Framebuffer) AttachDepthTexture(tex *texture.Texture) {
	fb.bindForSetup()
	fb.dev.FramebufferTexture(gpu.DepthAttachment, tex.ID())
	fb.hasDepth = true
}

// AttachDepthRenderbuffer attaches rb as the depth buffer, replacing any previous one.
func (fb *Framebuffer) AttachDepthRenderbuffer(rb *Renderbuffer) {
	fb.bindForSetup()
	fb.dev.FramebufferRenderbuffer(gpu.DepthAttachment, rb.ID())
	fb.hasDepth = true
}

// Finalize declares the draw buffers from the recorded color slots and
// checks completeness. A framebuffer without color slots declares no color
// output so depth-only passes work. Finalizing twice panics.
func (fb *Framebuffer) Finalize() error {
	if fb.finalized {
		panic("framebuffer: finalized twice")
	}
	fb.dev.BindFramebuffer(fb.handle.MustID("framebuffer"))
	defer fb.dev.BindFramebuffer(0)

	if len(fb.colors) == 0 && !fb.hasDepth {
		return fmt.Errorf("framebuffer %d has no attachments: %w", fb.handle.ID(), gpu.ErrIncompleteFramebuffer)
	}

	fb.dev.DrawBuffers(fb.colors)

	if ok, status := fb.dev.FramebufferComplete(); !ok {
		return fmt.Errorf("framebuffer %d status 0x%x: %w", fb.handle.ID(), status, gpu.ErrIncompleteFramebuffer)
	}

	fb.finalized = true
	return nil
}

// Bind makes this framebuffer the current render target.
func (fb *Framebuffer) Bind() {
	if !fb.finalized {
		panic("framebuffer: bind before finalize")
	}
	fb.dev.BindFramebuffer(fb.handle.MustID("framebuffer"))
}

// Unbind restores the default framebuffer.
func (fb *Framebuffer) Unbind() {
	fb.dev.BindFramebuffer(0)
}

// ColorAttachments returns the attached color slots in attachment order.
func (fb *Framebuffer) ColorAttachments() []gpu.Attachment {
	return append([]gpu.Attachment(nil), fb.colors...)
}

// NoColorOutput reports whether the framebuffer was finalized without color slots.
func (fb *Framebuffer) NoColorOutput() bool {
	return fb.finalized && len(fb.colors) == 0
}

// Finalized reports whether Finalize succeeded.
func (fb *Framebuffer) Finalized() bool {
	return fb.finalized
}

// ID returns the native framebuffer id, 0 after Move or Destroy.
func (fb *Framebuffer) ID() uint32 {
	return fb.handle.ID()
}

// Move transfers ownership and attachment state to a new Framebuffer.
// fb is left empty.
func (fb *Framebuffer) Move() *Framebuffer {
	m := &Framebuffer{
		dev:       fb.dev,
		colors:    fb.colors,
		hasDepth:  fb.hasDepth,
		finalized: fb.finalized,
	}
	m.handle.Reset(fb.handle.Take())
	fb.colors = nil
	fb.hasDepth = false
	fb.finalized = false
	return m
}

// Destroy releases the native framebuffer. Safe on an empty framebuffer.
func (fb *Framebuffer) Destroy() {
	if fb == nil {
		return
	}
	if id := fb.handle.Take(); id != 0 {
		fb.dev.DeleteFramebuffer(id)
	}
}
