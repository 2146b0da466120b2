package scene

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/islet/internal/engine/animation"
)

//go:embed default.yaml
var defaultManifest []byte

// Manifest is the YAML description of a scene.
type Manifest struct {
	Light     LightSpec               `yaml:"light"`
	Materials map[string]MaterialSpec `yaml:"materials"`
	Meshes    []InstanceSpec          `yaml:"meshes"`
}

// LightSpec positions the light either directly or as a sun.
type LightSpec struct {
	Position  *[3]float32 `yaml:"position,omitempty"`
	Sun       *SunSpec    `yaml:"sun,omitempty"`
	Color     [3]float32  `yaml:"color"`
	Intensity float32     `yaml:"intensity,omitempty"`
}

// SunSpec places the light by angles, see lighting.SunPosition.
type SunSpec struct {
	Longitude float32 `yaml:"longitude"`
	Latitude  float32 `yaml:"latitude"`
	Distance  float32 `yaml:"distance"`
}

// MaterialSpec describes a material. Texture paths are resolved through the
// asset source; when a texture is missing the solid fallback is used.
type MaterialSpec struct {
	Diffuse      string     `yaml:"diffuse,omitempty"`
	Color        [3]float32 `yaml:"color,omitempty"`
	WaveMask     string     `yaml:"wave_mask,omitempty"`
	WaveStrength float32    `yaml:"wave_strength,omitempty"`
	Ka           float32    `yaml:"ka"`
	Kd           float32    `yaml:"kd"`
	Ks           float32    `yaml:"ks"`
	Exponent     float32    `yaml:"exponent"`
	Water        bool       `yaml:"water,omitempty"`
}

// InstanceSpec is one mesh instance. Model is an OBJ path; Primitive is
// used instead when Model is empty or cannot be loaded, shaped by
// PrimitiveScale. Size scales the geometry itself, so it survives
// animations that overwrite the transform scale.
type InstanceSpec struct {
	Name           string          `yaml:"name"`
	Model          string          `yaml:"model,omitempty"`
	Primitive      string          `yaml:"primitive,omitempty"`
	PrimitiveScale *[3]float32     `yaml:"primitive_scale,omitempty"`
	Size           float32         `yaml:"size,omitempty"`
	Material       string          `yaml:"material"`
	Transform      TransformSpec   `yaml:"transform,omitempty"`
	Animation      *animation.Spec `yaml:"animation,omitempty"`
}

// TransformSpec is the initial transform. Missing axis and scale default
// to up and unit.
type TransformSpec struct {
	Position [3]float32  `yaml:"position,omitempty"`
	Axis     *[3]float32 `yaml:"axis,omitempty"`
	Angle    float32     `yaml:"angle,omitempty"`
	Scale    *[3]float32 `yaml:"scale,omitempty"`
}

// DefaultManifest returns the built-in island scene.
func DefaultManifest() *Manifest {
	m, err := ParseManifest(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("scene: embedded manifest: %v", err))
	}
	return m
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes YAML, rejecting unknown fields, and validates
// references between sections.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing scene manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every instance names a known material and has
// geometry, and that every animation spec builds.
func (m *Manifest) Validate() error {
	if m.Light.Position != nil && m.Light.Sun != nil {
		return fmt.Errorf("light: position and sun are exclusive")
	}
	if m.Light.Sun != nil && m.Light.Sun.Distance <= 0 {
		return fmt.Errorf("light: sun distance must be positive")
	}
	for i, inst := range m.Meshes {
		if _, ok := m.Materials[inst.Material]; !ok {
			return fmt.Errorf("mesh %d (%s): unknown material %q", i, inst.Name, inst.Material)
		}
		if inst.Model == "" && inst.Primitive == "" {
			return fmt.Errorf("mesh %d (%s): needs a model or a primitive", i, inst.Name)
		}
		if inst.Primitive != "" {
			if _, err := primitive(inst.Primitive); err != nil {
				return fmt.Errorf("mesh %d (%s): %w", i, inst.Name, err)
			}
		}
		if inst.Animation != nil {
			if _, err := inst.Animation.Build(); err != nil {
				return fmt.Errorf("mesh %d (%s): %w", i, inst.Name, err)
			}
		}
	}
	return nil
}
