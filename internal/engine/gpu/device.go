// Package gpu defines the GPU device abstraction used by the render core.
//
// Every native object (texture, renderbuffer, framebuffer, vertex array,
// buffer, program) is addressed by a uint32 id; id 0 means "no object".
// All calls mutate a single global context, so a Device must only be used
// from the thread that owns the GL context.
package gpu

import (
	"errors"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrAllocation is returned when the driver fails to create a native object.
	ErrAllocation = errors.New("gpu: native object allocation failed")

	// ErrIncompleteFramebuffer is returned when a framebuffer's attachment set
	// is not complete at finalize time.
	ErrIncompleteFramebuffer = errors.New("gpu: framebuffer incomplete")
)

// PixelFormat selects internal storage, upload format and component type.
type PixelFormat int

const (
	FormatRGBA8 PixelFormat = iota
	FormatSRGBA8
	FormatRGB16F
	FormatDepth24
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatSRGBA8:
		return "SRGBA8"
	case FormatRGB16F:
		return "RGB16F"
	case FormatDepth24:
		return "Depth24"
	default:
		return "unknown"
	}
}

// Attachment names a framebuffer attachment point.
// Values >= 0 are color attachment slots.
type Attachment int

// DepthAttachment is the single depth slot of a framebuffer.
const DepthAttachment Attachment = -1

// ColorAttachment returns the attachment point for color slot n.
func ColorAttachment(slot int) Attachment {
	return Attachment(slot)
}

// IsColor reports whether a is a color slot.
func (a Attachment) IsColor() bool {
	return a >= 0
}

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterLinearMipmapLinear
)

// Wrap is a texture coordinate wrap mode.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
	WrapClampToBorder
)

// Sampler holds the sampling state applied to the bound texture.
type Sampler struct {
	MinFilter Filter
	MagFilter Filter
	WrapS     Wrap
	WrapT     Wrap

	// Border is used with WrapClampToBorder.
	Border [4]float32

	// CompareRef enables depth comparison for shadow samplers.
	CompareRef bool

	// Anisotropy > 1 enables anisotropic filtering.
	Anisotropy float32
}

// Capability is a server-side toggle.
type Capability int

const (
	CapDepthTest Capability = iota
	CapCullFace
	CapBlend
)

// ClearMask selects which buffers Clear resets.
type ClearMask int

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// DepthFunc is the depth comparison function.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
)

// BufferTarget is a buffer binding point.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// Device is the GPU context as seen by the render core.
type Device interface {
	CreateTexture() uint32
	DeleteTexture(id uint32)
	ActiveTexture(unit uint32)
	BindTexture(id uint32)
	// TexImage2D allocates storage for the bound texture. pixels may be nil.
	TexImage2D(width, height int32, format PixelFormat, pixels []byte)
	SetSampler(s Sampler)
	GenerateMipmap()
	MaxAnisotropy() float32

	CreateRenderbuffer() uint32
	DeleteRenderbuffer(id uint32)
	BindRenderbuffer(id uint32)
	RenderbufferStorage(width, height int32, format PixelFormat)

	CreateFramebuffer() uint32
	DeleteFramebuffer(id uint32)
	BindFramebuffer(id uint32)
	CurrentFramebuffer() uint32
	FramebufferTexture(attachment Attachment, texture uint32)
	FramebufferRenderbuffer(attachment Attachment, renderbuffer uint32)
	// DrawBuffers declares the active color outputs; an empty list
	// declares no color draw and read buffer.
	DrawBuffers(attachments []Attachment)
	FramebufferComplete() (bool, uint32)

	CreateVertexArray() uint32
	DeleteVertexArray(id uint32)
	BindVertexArray(id uint32)
	CreateBuffer() uint32
	DeleteBuffer(id uint32)
	BindBuffer(target BufferTarget, id uint32)
	BufferData(target BufferTarget, data unsafe.Pointer, size int)
	VertexAttrib(index uint32, components int32, stride int32, offset uintptr)
	DrawElements(count int32)

	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform1fv(location int32, v []float32)
	Uniform3f(location int32, v mgl32.Vec3)
	Uniform4f(location int32, v mgl32.Vec4)
	UniformMatrix3(location int32, m mgl32.Mat3)
	UniformMatrix4(location int32, m mgl32.Mat4)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Enable(c Capability)
	Disable(c Capability)
	SetDepthFunc(f DepthFunc)
	ReadPixels(width, height int32) []byte
}

// NotFound is the sentinel uniform location for names a program lacks.
const NotFound int32 = -1
