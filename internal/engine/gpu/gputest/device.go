// Package gputest provides a recording gpu.Device for tests that run
// without a GL context.
package gputest

import (
	"fmt"
	"regexp"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/islet/internal/engine/gpu"
)

// Kind classifies native objects.
type Kind int

const (
	KindTexture Kind = iota
	KindRenderbuffer
	KindFramebuffer
	KindVertexArray
	KindBuffer
	KindProgram
)

func (k Kind) String() string {
	return [...]string{"texture", "renderbuffer", "framebuffer", "vertex array", "buffer", "program"}[k]
}

// TextureInfo is the storage last allocated for a texture.
type TextureInfo struct {
	Width, Height int32
	Format        gpu.PixelFormat
	Pixels        []byte
	Sampler       gpu.Sampler
	Mipmapped     bool
}

// Framebuffer is the recorded attachment state of a framebuffer.
type Framebuffer struct {
	Textures      map[gpu.Attachment]uint32
	Renderbuffers map[gpu.Attachment]uint32
	DrawBuffers   []gpu.Attachment
	NoColorOutput bool
	Declared      bool
}

func (f *Framebuffer) attachments() int {
	return len(f.Textures) + len(f.Renderbuffers)
}

// Draw is a snapshot of context state at an indexed draw call.
type Draw struct {
	Program     uint32
	Framebuffer uint32
	VertexArray uint32
	Count       int32
	Units       map[uint32]uint32
	DepthTest   bool
	Viewport    [4]int32
}

// UniformWrite is one uniform upload.
type UniformWrite struct {
	Program uint32
	Name    string
	Value   any
}

// Clear records a Clear call.
type Clear struct {
	Framebuffer uint32
	Mask        gpu.ClearMask
	Color       [4]float32
}

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)`)

// Device is an in-memory gpu.Device that records every call.
type Device struct {
	// FailAllocations makes every Create* call return 0.
	FailAllocations bool
	// FailCompile makes CompileProgram return an error.
	FailCompile bool
	// Incomplete forces FramebufferComplete to fail.
	Incomplete bool
	// Anisotropy is reported by MaxAnisotropy.
	Anisotropy float32

	nextID uint32

	Live    map[Kind]map[uint32]bool
	Deleted map[Kind][]uint32
	Created map[Kind][]uint32

	Textures      map[uint32]*TextureInfo
	Renderbuffers map[uint32][3]int32
	Framebuffers  map[uint32]*Framebuffer
	BufferSizes   map[uint32]int

	// uniform names per program, index is the location
	uniforms map[uint32][]string

	FramebufferBinding  uint32
	TextureUnit         uint32
	Units               map[uint32]uint32
	RenderbufferBinding uint32
	VertexArrayBinding  uint32
	ProgramBinding      uint32
	buffers             map[gpu.BufferTarget]uint32

	Caps       map[gpu.Capability]bool
	Depth      gpu.DepthFunc
	ViewportXY [4]int32
	Color      [4]float32

	Draws    []Draw
	Clears   []Clear
	Uniforms []UniformWrite
	// InvalidWrites counts uniform writes to location -1.
	InvalidWrites int
	// Calls is the ordered list of method names invoked.
	Calls []string
}

// New returns an empty device with the default window framebuffer (id 0) bound.
func New() *Device {
	d := &Device{
		Live:          make(map[Kind]map[uint32]bool),
		Deleted:       make(map[Kind][]uint32),
		Created:       make(map[Kind][]uint32),
		Textures:      make(map[uint32]*TextureInfo),
		Renderbuffers: make(map[uint32][3]int32),
		Framebuffers:  make(map[uint32]*Framebuffer),
		BufferSizes:   make(map[uint32]int),
		uniforms:      make(map[uint32][]string),
		Units:         make(map[uint32]uint32),
		buffers:       make(map[gpu.BufferTarget]uint32),
		Caps:          make(map[gpu.Capability]bool),
		Anisotropy:    16,
	}
	for k := KindTexture; k <= KindProgram; k++ {
		d.Live[k] = make(map[uint32]bool)
	}
	return d
}

var _ gpu.Device = (*Device)(nil)

func (d *Device) call(name string) {
	d.Calls = append(d.Calls, name)
}

func (d *Device) create(k Kind) uint32 {
	d.call("Create" + k.String())
	if d.FailAllocations {
		return 0
	}
	d.nextID++
	d.Live[k][d.nextID] = true
	d.Created[k] = append(d.Created[k], d.nextID)
	return d.nextID
}

func (d *Device) remove(k Kind, id uint32) {
	d.call("Delete" + k.String())
	if id == 0 {
		return
	}
	if !d.Live[k][id] {
		panic(fmt.Sprintf("gputest: delete of dead %s %d", k, id))
	}
	delete(d.Live[k], id)
	d.Deleted[k] = append(d.Deleted[k], id)
}

// LiveCount returns the number of live objects of kind k.
func (d *Device) LiveCount(k Kind) int {
	return len(d.Live[k])
}

// WasDeleted reports whether object id of kind k has been deleted.
func (d *Device) WasDeleted(k Kind, id uint32) bool {
	for _, x := range d.Deleted[k] {
		if x == id {
			return true
		}
	}
	return false
}

func (d *Device) CreateTexture() uint32 { return d.create(KindTexture) }

func (d *Device) DeleteTexture(id uint32) {
	d.remove(KindTexture, id)
	for unit, tex := range d.Units {
		if tex == id {
			d.Units[unit] = 0
		}
	}
}

func (d *Device) ActiveTexture(unit uint32) {
	d.call("ActiveTexture")
	d.TextureUnit = unit
}

func (d *Device) BindTexture(id uint32) {
	d.call("BindTexture")
	if id != 0 && !d.Live[KindTexture][id] {
		panic(fmt.Sprintf("gputest: bind of dead texture %d", id))
	}
	d.Units[d.TextureUnit] = id
}

func (d *Device) bound() *TextureInfo {
	id := d.Units[d.TextureUnit]
	if id == 0 {
		panic("gputest: no texture bound")
	}
	info, ok := d.Textures[id]
	if !ok {
		info = &TextureInfo{}
		d.Textures[id] = info
	}
	return info
}

func (d *Device) TexImage2D(width, height int32, format gpu.PixelFormat, pixels []byte) {
	d.call("TexImage2D")
	info := d.bound()
	info.Width, info.Height, info.Format = width, height, format
	info.Pixels = append([]byte(nil), pixels...)
}

func (d *Device) SetSampler(s gpu.Sampler) {
	d.call("SetSampler")
	d.bound().Sampler = s
}

func (d *Device) GenerateMipmap() {
	d.call("GenerateMipmap")
	d.bound().Mipmapped = true
}

func (d *Device) MaxAnisotropy() float32 { return d.Anisotropy }

func (d *Device) CreateRenderbuffer() uint32 { return d.create(KindRenderbuffer) }

func (d *Device) DeleteRenderbuffer(id uint32) { d.remove(KindRenderbuffer, id) }

func (d *Device) BindRenderbuffer(id uint32) {
	d.call("BindRenderbuffer")
	d.RenderbufferBinding = id
}

func (d *Device) RenderbufferStorage(width, height int32, format gpu.PixelFormat) {
	d.call("RenderbufferStorage")
	d.Renderbuffers[d.RenderbufferBinding] = [3]int32{width, height, int32(format)}
}

func (d *Device) CreateFramebuffer() uint32 {
	id := d.create(KindFramebuffer)
	if id != 0 {
		d.Framebuffers[id] = &Framebuffer{
			Textures:      make(map[gpu.Attachment]uint32),
			Renderbuffers: make(map[gpu.Attachment]uint32),
		}
	}
	return id
}

func (d *Device) DeleteFramebuffer(id uint32) {
	d.remove(KindFramebuffer, id)
	if d.FramebufferBinding == id {
		d.FramebufferBinding = 0
	}
}

func (d *Device) BindFramebuffer(id uint32) {
	d.call("BindFramebuffer")
	if id != 0 && !d.Live[KindFramebuffer][id] {
		panic(fmt.Sprintf("gputest: bind of dead framebuffer %d", id))
	}
	d.FramebufferBinding = id
}

func (d *Device) CurrentFramebuffer() uint32 { return d.FramebufferBinding }

func (d *Device) boundFramebuffer() *Framebuffer {
	fb, ok := d.Framebuffers[d.FramebufferBinding]
	if !ok {
		panic("gputest: attachment on default framebuffer")
	}
	return fb
}

func (d *Device) FramebufferTexture(attachment gpu.Attachment, texture uint32) {
	d.call("FramebufferTexture")
	fb := d.boundFramebuffer()
	delete(fb.Renderbuffers, attachment)
	fb.Textures[attachment] = texture
}

func (d *Device) FramebufferRenderbuffer(attachment gpu.Attachment, renderbuffer uint32) {
	d.call("FramebufferRenderbuffer")
	fb := d.boundFramebuffer()
	delete(fb.Textures, attachment)
	fb.Renderbuffers[attachment] = renderbuffer
}

func (d *Device) DrawBuffers(attachments []gpu.Attachment) {
	d.call("DrawBuffers")
	fb := d.boundFramebuffer()
	fb.Declared = true
	fb.DrawBuffers = append([]gpu.Attachment(nil), attachments...)
	fb.NoColorOutput = len(attachments) == 0
}

func (d *Device) FramebufferComplete() (bool, uint32) {
	d.call("FramebufferComplete")
	fb := d.boundFramebuffer()
	if d.Incomplete || fb.attachments() == 0 {
		return false, 0x8CD7 // FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT
	}
	return true, 0x8CD5
}

func (d *Device) CreateVertexArray() uint32 { return d.create(KindVertexArray) }

func (d *Device) DeleteVertexArray(id uint32) { d.remove(KindVertexArray, id) }

func (d *Device) BindVertexArray(id uint32) {
	d.call("BindVertexArray")
	d.VertexArrayBinding = id
}

func (d *Device) CreateBuffer() uint32 { return d.create(KindBuffer) }

func (d *Device) DeleteBuffer(id uint32) { d.remove(KindBuffer, id) }

func (d *Device) BindBuffer(target gpu.BufferTarget, id uint32) {
	d.call("BindBuffer")
	d.buffers[target] = id
}

func (d *Device) BufferData(target gpu.BufferTarget, _ unsafe.Pointer, size int) {
	d.call("BufferData")
	d.BufferSizes[d.buffers[target]] = size
}

func (d *Device) VertexAttrib(uint32, int32, int32, uintptr) { d.call("VertexAttrib") }

func (d *Device) DrawElements(count int32) {
	d.call("DrawElements")
	units := make(map[uint32]uint32, len(d.Units))
	for u, t := range d.Units {
		if t != 0 {
			units[u] = t
		}
	}
	d.Draws = append(d.Draws, Draw{
		Program:     d.ProgramBinding,
		Framebuffer: d.FramebufferBinding,
		VertexArray: d.VertexArrayBinding,
		Count:       count,
		Units:       units,
		DepthTest:   d.Caps[gpu.CapDepthTest],
		Viewport:    d.ViewportXY,
	})
}

// CompileProgram registers every `uniform <type> <name>` declared in either source.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if d.FailCompile {
		d.call("CompileProgram")
		return 0, fmt.Errorf("gputest: compile failed")
	}
	id := d.create(KindProgram)
	if id == 0 {
		return 0, gpu.ErrAllocation
	}
	seen := make(map[string]bool)
	for _, src := range []string{vertexSrc, fragmentSrc} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				d.uniforms[id] = append(d.uniforms[id], m[1])
			}
		}
	}
	return id, nil
}

func (d *Device) DeleteProgram(id uint32) { d.remove(KindProgram, id) }

func (d *Device) UseProgram(id uint32) {
	d.call("UseProgram")
	d.ProgramBinding = id
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	for i, n := range d.uniforms[program] {
		if n == name {
			return int32(i)
		}
	}
	return gpu.NotFound
}

func (d *Device) write(location int32, v any) {
	d.call("Uniform")
	names := d.uniforms[d.ProgramBinding]
	if location < 0 || int(location) >= len(names) {
		d.InvalidWrites++
		return
	}
	d.Uniforms = append(d.Uniforms, UniformWrite{Program: d.ProgramBinding, Name: names[location], Value: v})
}

func (d *Device) Uniform1i(location int32, v int32) { d.write(location, v) }
func (d *Device) Uniform1f(location int32, v float32) { d.write(location, v) }
func (d *Device) Uniform1fv(location int32, v []float32) { d.write(location, append([]float32(nil), v...)) }
func (d *Device) Uniform3f(location int32, v mgl32.Vec3) { d.write(location, v) }
func (d *Device) Uniform4f(location int32, v mgl32.Vec4) { d.write(location, v) }
func (d *Device) UniformMatrix3(location int32, m mgl32.Mat3) { d.write(location, m) }
func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) { d.write(location, m) }

// LastUniform returns the most recent value written to name in program.
func (d *Device) LastUniform(program uint32, name string) (any, bool) {
	for i := len(d.Uniforms) - 1; i >= 0; i-- {
		w := d.Uniforms[i]
		if w.Program == program && w.Name == name {
			return w.Value, true
		}
	}
	return nil, false
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.call("Viewport")
	d.ViewportXY = [4]int32{x, y, width, height}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.call("ClearColor")
	d.Color = [4]float32{r, g, b, a}
}

func (d *Device) Clear(mask gpu.ClearMask) {
	d.call("Clear")
	d.Clears = append(d.Clears, Clear{Framebuffer: d.FramebufferBinding, Mask: mask, Color: d.Color})
}

func (d *Device) Enable(c gpu.Capability) {
	d.call("Enable")
	d.Caps[c] = true
}

func (d *Device) Disable(c gpu.Capability) {
	d.call("Disable")
	d.Caps[c] = false
}

func (d *Device) SetDepthFunc(f gpu.DepthFunc) {
	d.call("SetDepthFunc")
	d.Depth = f
}

func (d *Device) ReadPixels(width, height int32) []byte {
	d.call("ReadPixels")
	return make([]byte, int(width)*int(height)*4)
}

// Reset clears the recorded draws, clears, uniform writes and calls,
// keeping object and binding state.
func (d *Device) Reset() {
	d.Draws = nil
	d.Clears = nil
	d.Uniforms = nil
	d.Calls = nil
	d.InvalidWrites = 0
}
