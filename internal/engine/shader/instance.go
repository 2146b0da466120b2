package shader

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/mesh"
	"github.com/Faultbox/islet/internal/engine/scene"
	"github.com/Faultbox/islet/internal/engine/water"
	"github.com/Faultbox/islet/internal/logger"
)

// Texture units used by scene programs.
const (
	UnitDiffuse  = 0
	UnitShadow   = 1
	UnitWaveMask = 2
)

// locations caches the uniform vocabulary of scene programs.
type locations struct {
	model, view, projection, normalMatrix int32
	materialDiffuse, materialProperties   int32
	lightPosition, lightColor             int32
	amplitude, frequency, phase, time     int32
	waveMask, isWater                     int32
}

// Instance is a program plus its cached uniform locations. Uniforms the
// program does not declare are skipped on every write.
type Instance struct {
	*Program
	loc locations
}

// Option configures New.
type Option func(*options)

type options struct {
	scene bool
}

// ForScene marks a program that draws scenes; missing transform uniforms
// are then logged as warnings.
func ForScene() Option {
	return func(o *options) { o.scene = true }
}

// New compiles a program and caches its uniform locations.
func New(dev gpu.Device, name, vertexSrc, fragmentSrc string, opts ...Option) (*Instance, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p, err := CompileProgram(dev, name, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	s := &Instance{Program: p}
	s.loc = locations{
		model:              p.Uniform("model"),
		view:               p.Uniform("view"),
		projection:         p.Uniform("projection"),
		normalMatrix:       p.Uniform("normal_matrix"),
		materialDiffuse:    p.Uniform("material_diffuse"),
		materialProperties: p.Uniform("material_properties"),
		lightPosition:      p.Uniform("light_position"),
		lightColor:         p.Uniform("light_color"),
		amplitude:          p.Uniform("amplitude"),
		frequency:          p.Uniform("frequency"),
		phase:              p.Uniform("phase"),
		time:               p.Uniform("time"),
		waveMask:           p.Uniform("wave_mask"),
		isWater:            p.Uniform("is_water"),
	}

	if o.scene {
		for uniform, loc := range map[string]int32{
			"model":         s.loc.model,
			"view":          s.loc.view,
			"projection":    s.loc.projection,
			"normal_matrix": s.loc.normalMatrix,
		} {
			if loc == gpu.NotFound {
				logger.Warn("required uniform missing", zap.String("program", name), zap.String("uniform", uniform))
			}
		}
	}

	logger.Debug("program compiled", zap.String("program", name), zap.Uint32("id", p.ID()))
	return s, nil
}

// Draw pushes the per-frame uniforms once, then per-instance uniforms and
// a draw call for every mesh instance in order.
func (s *Instance) Draw(sc *scene.Scene, view, projection mgl32.Mat4) {
	s.Use()
	s.bindGlobals(sc.Time, view, projection)
	for _, inst := range sc.Meshes {
		s.bindInstance(inst, view, sc)
		inst.Mesh.Draw()
	}
}

// DrawMesh binds the program and draws b with whatever state is current.
func (s *Instance) DrawMesh(b *mesh.Buffer) {
	s.Use()
	b.Draw()
}

func (s *Instance) bindGlobals(time float32, view, projection mgl32.Mat4) {
	dev := s.dev
	if s.loc.view != gpu.NotFound {
		dev.UniformMatrix4(s.loc.view, view)
	}
	if s.loc.projection != gpu.NotFound {
		dev.UniformMatrix4(s.loc.projection, projection)
	}
	s.bindWaves(water.Ripple)
	if s.loc.time != gpu.NotFound {
		dev.Uniform1f(s.loc.time, time)
	}
}

func (s *Instance) bindWaves(w water.Waves) {
	dev := s.dev
	if s.loc.amplitude != gpu.NotFound {
		dev.Uniform1fv(s.loc.amplitude, w.Amplitude)
	}
	if s.loc.frequency != gpu.NotFound {
		dev.Uniform1fv(s.loc.frequency, w.Frequency)
	}
	if s.loc.phase != gpu.NotFound {
		dev.Uniform1fv(s.loc.phase, w.Phase)
	}
}

func (s *Instance) bindInstance(inst *scene.MeshInstance, view mgl32.Mat4, sc *scene.Scene) {
	dev := s.dev
	mat := inst.Material

	model := inst.Transform.Matrix()
	if s.loc.model != gpu.NotFound {
		dev.UniformMatrix4(s.loc.model, model)
	}
	if s.loc.normalMatrix != gpu.NotFound {
		dev.UniformMatrix3(s.loc.normalMatrix, NormalMatrix(view, model))
	}

	if s.loc.isWater != gpu.NotFound {
		var isWater int32
		if mat.IsWater {
			isWater = 1
		}
		dev.Uniform1i(s.loc.isWater, isWater)
	}
	s.bindWaves(water.For(mat.IsWater))

	if s.loc.materialDiffuse != gpu.NotFound {
		mat.DiffuseMap.BindUnit(UnitDiffuse)
	}
	if s.loc.waveMask != gpu.NotFound {
		mat.WaveMask.BindUnit(UnitWaveMask)
	}
	dev.ActiveTexture(UnitDiffuse)

	if s.loc.materialProperties != gpu.NotFound {
		dev.Uniform4f(s.loc.materialProperties, mat.Properties())
	}
	if s.loc.lightPosition != gpu.NotFound && s.loc.lightColor != gpu.NotFound {
		dev.Uniform3f(s.loc.lightPosition, sc.Light.Position)
		dev.Uniform3f(s.loc.lightColor, sc.Light.Color)
	}
}

// NormalMatrix returns the inverse transpose of the upper 3×3 of view·model.
func NormalMatrix(view, model mgl32.Mat4) mgl32.Mat3 {
	return view.Mul4(model).Mat3().Inv().Transpose()
}
