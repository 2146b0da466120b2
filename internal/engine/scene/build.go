package scene

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/islet/internal/engine/animation"
	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/lighting"
	"github.com/Faultbox/islet/internal/engine/mesh"
	"github.com/Faultbox/islet/internal/engine/model"
	"github.com/Faultbox/islet/internal/engine/texture"
	"github.com/Faultbox/islet/internal/engine/transform"
	"github.com/Faultbox/islet/internal/logger"
)

// AssetSource resolves texture and model paths named in a manifest.
type AssetSource interface {
	Image(name string) (*texture.Image, error)
	Model(name string) (*model.Mesh, error)
}

func primitive(name string) (*model.Mesh, error) {
	switch name {
	case "cube":
		return model.Cube(), nil
	case "sphere":
		return model.Sphere(24, 48), nil
	case "plane":
		return model.Plane(2, 64), nil
	}
	return nil, fmt.Errorf("unknown primitive %q", name)
}

// Build creates the GPU resources for every material and instance in m.
// Missing textures and models are logged and replaced by their fallbacks;
// only GPU allocation failures are returned, after releasing everything
// built so far.
func Build(dev gpu.Device, m *Manifest, src AssetSource) (_ *Scene, err error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	s := New()
	s.Light = buildLight(m.Light)

	materials := make(map[string]*Material, len(m.Materials))
	defer func() {
		// drop the build references; instances hold their own
		for _, mat := range materials {
			mat.Release()
		}
		if err != nil {
			s.Destroy()
		}
	}()

	names := make([]string, 0, len(m.Materials))
	for name := range m.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mat, err := buildMaterial(dev, m.Materials[name], src)
		if err != nil {
			return nil, fmt.Errorf("material %s: %w", name, err)
		}
		materials[name] = mat
	}

	for _, spec := range m.Meshes {
		inst, err := buildInstance(dev, spec, materials[spec.Material], src)
		if err != nil {
			return nil, fmt.Errorf("mesh %s: %w", spec.Name, err)
		}
		s.Add(inst)
	}

	logger.Info("scene built",
		zap.Int("materials", len(materials)),
		zap.Int("meshes", len(s.Meshes)),
	)
	return s, nil
}

func buildLight(spec LightSpec) lighting.Light {
	l := lighting.Default()
	switch {
	case spec.Position != nil:
		l.Position = *spec.Position
	case spec.Sun != nil:
		l.Position = lighting.SunPosition(spec.Sun.Longitude, spec.Sun.Latitude, spec.Sun.Distance)
	}
	if spec.Color != ([3]float32{}) {
		intensity := spec.Intensity
		if intensity == 0 {
			intensity = 1
		}
		l.Color = mgl32.Vec3(spec.Color).Mul(intensity)
	}
	return l
}

func buildMaterial(dev gpu.Device, spec MaterialSpec, src AssetSource) (*Material, error) {
	c := spec.Color
	diffuse, err := loadTexture(dev, src, spec.Diffuse, texture.Solid(unorm(c[0]), unorm(c[1]), unorm(c[2]), 255))
	if err != nil {
		return nil, err
	}
	w := unorm(spec.WaveStrength)
	mask, err := loadTexture(dev, src, spec.WaveMask, texture.Solid(w, w, w, 255))
	if err != nil {
		diffuse.Destroy()
		return nil, err
	}

	mat := NewMaterial(diffuse, spec.Ka, spec.Kd, spec.Ks, spec.Exponent, mask)
	mat.IsWater = spec.Water
	return mat, nil
}

func loadTexture(dev gpu.Device, src AssetSource, name string, fallback *texture.Image) (*texture.Texture, error) {
	img := fallback
	if name != "" {
		loaded, err := src.Image(name)
		if err != nil {
			logger.Warn("texture unavailable, using fallback", zap.String("path", name), zap.Error(err))
		} else {
			img = loaded
		}
	}
	return texture.FromImage(dev, img)
}

func buildInstance(dev gpu.Device, spec InstanceSpec, mat *Material, src AssetSource) (*MeshInstance, error) {
	var anim animation.Animation
	if spec.Animation != nil {
		var err error
		if anim, err = spec.Animation.Build(); err != nil {
			return nil, err
		}
	}

	geometry, err := loadGeometry(spec, src)
	if err != nil {
		return nil, err
	}
	if spec.Size != 0 {
		geometry.Scale(spec.Size, spec.Size, spec.Size)
	}
	buf, err := mesh.FromModel(dev, geometry)
	if err != nil {
		return nil, err
	}

	return &MeshInstance{
		Name:      spec.Name,
		Mesh:      buf,
		Material:  mat.Share(),
		Animation: anim,
		Transform: buildTransform(spec.Transform),
	}, nil
}

func loadGeometry(spec InstanceSpec, src AssetSource) (*model.Mesh, error) {
	if spec.Model != "" {
		m, err := src.Model(spec.Model)
		if err == nil {
			return m, nil
		}
		if spec.Primitive == "" {
			logger.Warn("model unavailable, using empty mesh", zap.String("path", spec.Model), zap.Error(err))
			return &model.Mesh{}, nil
		}
		logger.Warn("model unavailable, using primitive",
			zap.String("path", spec.Model),
			zap.String("primitive", spec.Primitive),
			zap.Error(err),
		)
	}
	m, err := primitive(spec.Primitive)
	if err != nil {
		return nil, err
	}
	if s := spec.PrimitiveScale; s != nil {
		m.Scale(s[0], s[1], s[2])
	}
	return m, nil
}

func buildTransform(spec TransformSpec) transform.Transform {
	t := transform.New()
	t.Position = spec.Position
	t.Angle = spec.Angle
	if spec.Axis != nil {
		t.Axis = *spec.Axis
	}
	if spec.Scale != nil {
		t.Scale = *spec.Scale
	}
	return t
}

func unorm(f float32) uint8 {
	return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5)
}
