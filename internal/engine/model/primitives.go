package model

import "math"

// Plane returns a flat grid of size×size centered on the origin in the XZ
// plane, facing +Y, split into segments×segments quads. Texture
// coordinates span [0,1] across the grid.
func Plane(size float32, segments int) *Mesh {
	if segments < 1 {
		segments = 1
	}
	m := &Mesh{}
	row := segments + 1
	for z := 0; z <= segments; z++ {
		for x := 0; x <= segments; x++ {
			u := float32(x) / float32(segments)
			v := float32(z) / float32(segments)
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{(u - 0.5) * size, 0, (v - 0.5) * size},
				Normal:   [3]float32{0, 1, 0},
				TexCoord: [2]float32{u, 1 - v},
			})
		}
	}
	for z := 0; z < segments; z++ {
		for x := 0; x < segments; x++ {
			a := uint32(z*row + x)
			b := a + 1
			c := a + uint32(row)
			d := c + 1
			m.Indices = append(m.Indices, a, c, d, a, d, b)
		}
	}
	return m
}

// Cube returns an axis-aligned cube with side 2 centered on the origin.
// Each face has its own four vertices so normals stay flat.
func Cube() *Mesh {
	faces := []struct {
		normal, u, v [3]float32
	}{
		{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
		{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
		{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	m := &Mesh{}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, c := range corners {
			var p [3]float32
			for k := 0; k < 3; k++ {
				p[k] = f.normal[k] + c[0]*f.u[k] + c[1]*f.v[k]
			}
			m.Vertices = append(m.Vertices, Vertex{
				Position: p,
				Normal:   f.normal,
				TexCoord: [2]float32{(c[0] + 1) / 2, (c[1] + 1) / 2},
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Sphere returns a UV sphere of radius 1 centered on the origin.
func Sphere(stacks, slices int) *Mesh {
	stacks = max(stacks, 2)
	slices = max(slices, 3)

	m := &Mesh{}
	for i := 0; i <= stacks; i++ {
		v := float64(i) / float64(stacks)
		phi := v * math.Pi
		for j := 0; j <= slices; j++ {
			u := float64(j) / float64(slices)
			theta := u * 2 * math.Pi
			n := [3]float32{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(-math.Sin(phi) * math.Sin(theta)),
			}
			m.Vertices = append(m.Vertices, Vertex{
				Position: n,
				Normal:   n,
				TexCoord: [2]float32{float32(u), float32(1 - v)},
			})
		}
	}
	row := uint32(slices + 1)
	for i := uint32(0); i < uint32(stacks); i++ {
		for j := uint32(0); j < uint32(slices); j++ {
			a := i*row + j
			b := a + row
			m.Indices = append(m.Indices, a, b, b+1, a, b+1, a+1)
		}
	}
	return m
}
