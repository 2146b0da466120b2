package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/islet/internal/logger"
)

// Anisotropic filtering is core only since 4.6; the EXT enums share values.
const (
	textureMaxAnisotropy    = 0x84FE
	maxTextureMaxAnisotropy = 0x84FF
)

// GL is a Device backed by the current OpenGL 4.1 core context.
type GL struct{}

// NewGL loads the GL function pointers for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	return &GL{}, nil
}

func (*GL) CreateTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (*GL) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (*GL) ActiveTexture(unit uint32) { gl.ActiveTexture(gl.TEXTURE0 + unit) }

func (*GL) BindTexture(id uint32) { gl.BindTexture(gl.TEXTURE_2D, id) }

func (*GL) TexImage2D(width, height int32, format PixelFormat, pixels []byte) {
	internal, upload, xtype := pixelFormat(format)
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, width, height, 0, upload, xtype, ptr)
}

func (*GL) SetSampler(s Sampler) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter(s.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter(s.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap(s.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap(s.WrapT))
	if s.WrapS == WrapClampToBorder || s.WrapT == WrapClampToBorder {
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &s.Border[0])
	}
	if s.CompareRef {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	}
	if s.Anisotropy > 1 {
		gl.TexParameterf(gl.TEXTURE_2D, textureMaxAnisotropy, s.Anisotropy)
	}
}

func (*GL) GenerateMipmap() { gl.GenerateMipmap(gl.TEXTURE_2D) }

func (*GL) MaxAnisotropy() float32 {
	var f float32
	gl.GetFloatv(maxTextureMaxAnisotropy, &f)
	// Drivers without the extension raise INVALID_ENUM and leave f untouched.
	for gl.GetError() != gl.NO_ERROR {
	}
	return f
}

func (*GL) CreateRenderbuffer() uint32 {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return id
}

func (*GL) DeleteRenderbuffer(id uint32) { gl.DeleteRenderbuffers(1, &id) }

func (*GL) BindRenderbuffer(id uint32) { gl.BindRenderbuffer(gl.RENDERBUFFER, id) }

func (*GL) RenderbufferStorage(width, height int32, format PixelFormat) {
	internal, _, _ := pixelFormat(format)
	gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(internal), width, height)
}

func (*GL) CreateFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (*GL) DeleteFramebuffer(id uint32) { gl.DeleteFramebuffers(1, &id) }

func (*GL) BindFramebuffer(id uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, id) }

func (*GL) CurrentFramebuffer() uint32 {
	var id int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &id)
	return uint32(id)
}

func (*GL) FramebufferTexture(attachment Attachment, texture uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachmentPoint(attachment), gl.TEXTURE_2D, texture, 0)
}

func (*GL) FramebufferRenderbuffer(attachment Attachment, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, attachmentPoint(attachment), gl.RENDERBUFFER, renderbuffer)
}

func (*GL) DrawBuffers(attachments []Attachment) {
	if len(attachments) == 0 {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
		return
	}
	points := make([]uint32, len(attachments))
	for i, a := range attachments {
		points[i] = attachmentPoint(a)
	}
	gl.DrawBuffers(int32(len(points)), &points[0])
}

func (*GL) FramebufferComplete() (bool, uint32) {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	return status == gl.FRAMEBUFFER_COMPLETE, status
}

func (*GL) CreateVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (*GL) DeleteVertexArray(id uint32) { gl.DeleteVertexArrays(1, &id) }

func (*GL) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (*GL) CreateBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (*GL) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (*GL) BindBuffer(target BufferTarget, id uint32) { gl.BindBuffer(bufferTarget(target), id) }

func (*GL) BufferData(target BufferTarget, data unsafe.Pointer, size int) {
	gl.BufferData(bufferTarget(target), size, data, gl.STATIC_DRAW)
}

func (*GL) VertexAttrib(index uint32, components int32, stride int32, offset uintptr) {
	gl.EnableVertexAttribArray(index)
	gl.VertexAttribPointerWithOffset(index, components, gl.FLOAT, false, stride, offset)
}

func (*GL) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}

func (*GL) DeleteProgram(id uint32) { gl.DeleteProgram(id) }

func (*GL) UseProgram(id uint32) { gl.UseProgram(id) }

func (*GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*GL) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (*GL) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (*GL) Uniform1fv(location int32, v []float32) {
	if len(v) == 0 {
		return
	}
	gl.Uniform1fv(location, int32(len(v)), &v[0])
}

func (*GL) Uniform3f(location int32, v mgl32.Vec3) { gl.Uniform3fv(location, 1, &v[0]) }

func (*GL) Uniform4f(location int32, v mgl32.Vec4) { gl.Uniform4fv(location, 1, &v[0]) }

func (*GL) UniformMatrix3(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (*GL) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (*GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (*GL) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (*GL) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (*GL) Enable(c Capability) { gl.Enable(capability(c)) }

func (*GL) Disable(c Capability) { gl.Disable(capability(c)) }

func (*GL) SetDepthFunc(f DepthFunc) {
	if f == DepthLessEqual {
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthFunc(gl.LESS)
}

// ReadPixels reads the bound framebuffer as bottom-up RGBA rows.
func (*GL) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func pixelFormat(f PixelFormat) (internal int32, upload, xtype uint32) {
	switch f {
	case FormatSRGBA8:
		return gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE
	case FormatRGB16F:
		return gl.RGB16F, gl.RGB, gl.FLOAT
	case FormatDepth24:
		return gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.FLOAT
	default:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	}
}

func attachmentPoint(a Attachment) uint32 {
	if a == DepthAttachment {
		return gl.DEPTH_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0 + uint32(a)
}

func filter(f Filter) int32 {
	switch f {
	case FilterNearest:
		return gl.NEAREST
	case FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func wrap(w Wrap) int32 {
	switch w {
	case WrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	case WrapClampToBorder:
		return gl.CLAMP_TO_BORDER
	default:
		return gl.REPEAT
	}
}

func capability(c Capability) uint32 {
	switch c {
	case CapCullFace:
		return gl.CULL_FACE
	case CapBlend:
		return gl.BLEND
	default:
		return gl.DEPTH_TEST
	}
}

func bufferTarget(t BufferTarget) uint32 {
	if t == ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}
