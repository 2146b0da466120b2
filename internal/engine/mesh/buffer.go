// Package mesh uploads indexed vertex data to the GPU.
package mesh

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/model"
)

// ErrIndexOutOfRange is returned when an index references a missing vertex.
var ErrIndexOutOfRange = errors.New("mesh: index out of range")

var vertexSize = int32(unsafe.Sizeof(model.Vertex{}))

// Vertex attribute locations shared with the shader sources.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribTexCoord = 2
)

// Buffer exclusively owns a vertex array object and its vertex and index
// buffers. It is immutable after construction.
type Buffer struct {
	dev   gpu.Device
	vao   gpu.Handle
	vbo   gpu.Handle
	ebo   gpu.Handle
	count int32
}

// New uploads vertices and indices. Every index must be below len(vertices).
func New(dev gpu.Device, vertices []model.Vertex, indices []uint32) (*Buffer, error) {
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("index %d at position %d (%d vertices): %w", idx, i, len(vertices), ErrIndexOutOfRange)
		}
	}

	b := &Buffer{dev: dev, count: int32(len(indices))}
	b.vao.Reset(dev.CreateVertexArray())
	b.vbo.Reset(dev.CreateBuffer())
	b.ebo.Reset(dev.CreateBuffer())
	if !b.vao.Valid() || !b.vbo.Valid() || !b.ebo.Valid() {
		b.Destroy()
		return nil, fmt.Errorf("mesh buffers: %w", gpu.ErrAllocation)
	}

	dev.BindVertexArray(b.vao.ID())
	dev.BindBuffer(gpu.ArrayBuffer, b.vbo.ID())
	dev.BindBuffer(gpu.ElementArrayBuffer, b.ebo.ID())

	if len(vertices) > 0 {
		dev.BufferData(gpu.ArrayBuffer, unsafe.Pointer(&vertices[0]), len(vertices)*int(vertexSize))
	} else {
		dev.BufferData(gpu.ArrayBuffer, nil, 0)
	}
	if len(indices) > 0 {
		dev.BufferData(gpu.ElementArrayBuffer, unsafe.Pointer(&indices[0]), len(indices)*4)
	} else {
		dev.BufferData(gpu.ElementArrayBuffer, nil, 0)
	}

	var v model.Vertex
	dev.VertexAttrib(AttribPosition, 3, vertexSize, unsafe.Offsetof(v.Position))
	dev.VertexAttrib(AttribNormal, 3, vertexSize, unsafe.Offsetof(v.Normal))
	dev.VertexAttrib(AttribTexCoord, 2, vertexSize, unsafe.Offsetof(v.TexCoord))

	dev.BindVertexArray(0)
	return b, nil
}

// FromModel uploads a CPU-side mesh.
func FromModel(dev gpu.Device, m *model.Mesh) (*Buffer, error) {
	return New(dev, m.Vertices, m.Indices)
}

// ScreenQuad returns a buffer covering clip space [-1,1]² with texture
// coordinates [0,1]², for full-screen passes.
func ScreenQuad(dev gpu.Device) (*Buffer, error) {
	vertices := []model.Vertex{
		{Position: [3]float32{-1, 1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{1, 1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{-1, -1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{1, -1, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 0}},
	}
	return New(dev, vertices, []uint32{0, 2, 3, 0, 3, 1})
}

// Draw issues one indexed triangle draw. Empty buffers draw nothing.
func (b *Buffer) Draw() {
	if b.count == 0 {
		return
	}
	b.dev.BindVertexArray(b.vao.MustID("vertex array"))
	b.dev.DrawElements(b.count)
}

// Count returns the number of indices.
func (b *Buffer) Count() int32 {
	return b.count
}

// VertexArray returns the native vertex array id, 0 after Move or Destroy.
func (b *Buffer) VertexArray() uint32 {
	return b.vao.ID()
}

// Move transfers ownership of all three native objects to a new Buffer.
func (b *Buffer) Move() *Buffer {
	m := &Buffer{dev: b.dev, count: b.count}
	m.vao.Reset(b.vao.Take())
	m.vbo.Reset(b.vbo.Take())
	m.ebo.Reset(b.ebo.Take())
	b.count = 0
	return m
}

// Destroy releases the native objects. Safe on an empty buffer.
func (b *Buffer) Destroy() {
	if b == nil {
		return
	}
	if id := b.vao.Take(); id != 0 {
		b.dev.DeleteVertexArray(id)
	}
	if id := b.vbo.Take(); id != 0 {
		b.dev.DeleteBuffer(id)
	}
	if id := b.ebo.Take(); id != 0 {
		b.dev.DeleteBuffer(id)
	}
}
