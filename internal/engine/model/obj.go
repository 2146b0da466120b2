package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// objRef indexes one face corner into the position, uv and normal lists.
// -1 means absent.
type objRef struct {
	v, vt, vn int
}

// ParseOBJ reads a Wavefront OBJ stream into an indexed mesh.
//
// Polygons are fan-triangulated and negative (relative) indices are
// resolved. Corners sharing the same position/uv/normal triple share one
// vertex. Missing normals and texture coordinates are zero. Grouping,
// material and free-form statements are ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions [][3]float32
		uvs       [][2]float32
		normals   [][3]float32
		mesh      = &Mesh{}
		seen      = make(map[objRef]uint32)
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			positions = append(positions, [3]float32{p[0], p[1], p[2]})

		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			uvs = append(uvs, [2]float32{p[0], p[1]})

		case "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			normals = append(normals, [3]float32{p[0], p[1], p[2]})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", line)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, f := range fields[1:] {
				ref, err := parseRef(f, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				idx, ok := seen[ref]
				if !ok {
					v := Vertex{Position: positions[ref.v]}
					if ref.vt >= 0 {
						v.TexCoord = uvs[ref.vt]
					}
					if ref.vn >= 0 {
						v.Normal = normals[ref.vn]
					}
					idx = uint32(len(mesh.Vertices))
					mesh.Vertices = append(mesh.Vertices, v)
					seen[ref] = idx
				}
				corners = append(corners, idx)
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.Indices = append(mesh.Indices, corners[0], corners[i], corners[i+1])
			}

		default:
			// o, g, s, usemtl, mtllib and friends
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}
	return mesh, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseRef(s string, nv, nvt, nvn int) (objRef, error) {
	parts := strings.Split(s, "/")
	ref := objRef{v: -1, vt: -1, vn: -1}

	var err error
	if ref.v, err = resolveIndex(parts[0], nv); err != nil {
		return ref, fmt.Errorf("vertex %q: %w", s, err)
	}
	if ref.v < 0 {
		return ref, fmt.Errorf("vertex %q: missing position", s)
	}
	if len(parts) > 1 && parts[1] != "" {
		if ref.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return ref, fmt.Errorf("texcoord %q: %w", s, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ref.vn, err = resolveIndex(parts[2], nvn); err != nil {
			return ref, fmt.Errorf("normal %q: %w", s, err)
		}
	}
	return ref, nil
}

// resolveIndex converts a 1-based or negative OBJ index into a 0-based one.
func resolveIndex(s string, count int) (int, error) {
	if s == "" {
		return -1, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	}
	return 0, fmt.Errorf("index %d out of range (%d defined)", i, count)
}
