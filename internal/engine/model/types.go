// Package model provides CPU-side mesh data: OBJ parsing, normalization
// and procedural primitives.
package model

import "math"

// Vertex is the interleaved vertex layout uploaded to the GPU: position,
// normal and texture coordinate, 32 bytes with no padding.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds indexed triangle data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Bounds computes the bounding box of the mesh vertices.
// An empty mesh yields zero bounds.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for _, v := range m.Vertices {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v.Position[i])
			b.Max[i] = max(b.Max[i], v.Position[i])
		}
	}
	return b
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// MaxExtent returns the longest side of the box.
func (b Bounds) MaxExtent() float32 {
	return max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1], b.Max[2]-b.Min[2])
}

// Unitize centers the mesh on the origin and scales it uniformly so its
// longest side spans [-1, 1]. Degenerate meshes are only centered.
func (m *Mesh) Unitize() {
	b := m.Bounds()
	c := b.Center()
	half := b.MaxExtent() / 2
	if half == 0 {
		half = 1
	}
	for i := range m.Vertices {
		p := &m.Vertices[i].Position
		for k := 0; k < 3; k++ {
			p[k] = (p[k] - c[k]) / half
		}
	}
}

// Scale multiplies every position per axis. Normals are left untouched,
// so non-uniform factors are only correct for axis-aligned faces.
func (m *Mesh) Scale(x, y, z float32) {
	for i := range m.Vertices {
		p := &m.Vertices[i].Position
		p[0], p[1], p[2] = p[0]*x, p[1]*y, p[2]*z
	}
}
