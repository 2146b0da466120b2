// Package renderer drives the per-frame pass sequence: shadow depth, main
// color, bloom extraction, ping-pong blur and the final composite.
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/mesh"
	"github.com/Faultbox/islet/internal/engine/scene"
	"github.com/Faultbox/islet/internal/engine/shader"
	"github.com/Faultbox/islet/internal/engine/shader/shaders"
	"github.com/Faultbox/islet/internal/engine/shadow"
	"github.com/Faultbox/islet/internal/logger"
)

// Fixed pipeline parameters.
const (
	ShadowSize     = shadow.DefaultResolution
	BlurIterations = 5

	FieldOfView = 60 // degrees
	Near        = 0.001
	Far         = 100
)

// SkyColor is the HDR clear color of the main pass. Its alpha is 0.
var SkyColor = mgl32.Vec4{2, 8, 10, 0}

// Pipeline owns every program and render target used by a frame.
// It must only be used from the thread owning the GL context.
type Pipeline struct {
	dev    gpu.Device
	width  int32
	height int32

	phong    *shader.Instance
	depth    *shader.Instance
	screen   *shader.Instance
	highPass *shader.Instance
	blurV    *shader.Instance
	blurH    *shader.Instance

	quad      *mesh.Buffer
	shadowMap *shadow.Map
	targets   *targets

	projection mgl32.Mat4
}

// New compiles the programs and allocates the shadow map and the
// window-sized targets. Any allocation or completeness failure is returned
// and everything created so far is released.
func New(dev gpu.Device, width, height int32) (_ *Pipeline, err error) {
	p := &Pipeline{dev: dev}
	defer func() {
		if err != nil {
			p.Destroy()
		}
	}()

	if err := p.compile(); err != nil {
		return nil, err
	}

	if p.quad, err = mesh.ScreenQuad(dev); err != nil {
		return nil, fmt.Errorf("screen quad: %w", err)
	}
	if p.shadowMap, err = shadow.NewMap(dev, ShadowSize); err != nil {
		return nil, err
	}
	if p.targets, err = newTargets(dev, width, height); err != nil {
		return nil, err
	}
	p.setSize(width, height)

	dev.Enable(gpu.CapDepthTest)
	dev.SetDepthFunc(gpu.DepthLessEqual)
	dev.Disable(gpu.CapCullFace)

	logger.Info("pipeline ready",
		zap.Int32("width", width),
		zap.Int32("height", height),
		zap.Int("shadow_size", ShadowSize),
	)
	return p, nil
}

func (p *Pipeline) compile() error {
	var err error
	build := func(name, vs, fs string, opts ...shader.Option) *shader.Instance {
		if err != nil {
			return nil
		}
		var s *shader.Instance
		s, err = shader.New(p.dev, name, vs, fs, opts...)
		return s
	}

	p.phong = build("phong", shaders.PhongVertexShader, shaders.PhongFragmentShader, shader.ForScene())
	p.depth = build("shadow", shaders.ShadowVertexShader, shaders.ShadowFragmentShader)
	p.screen = build("screen", shaders.ScreenVertexShader, shaders.ScreenFragmentShader)
	p.highPass = build("high_pass", shaders.ScreenVertexShader, shaders.HighPassFragmentShader)
	p.blurV = build("blur_vertical", shaders.ScreenVertexShader, shaders.BlurVerticalFragmentShader)
	p.blurH = build("blur_horizontal", shaders.ScreenVertexShader, shaders.BlurHorizontalFragmentShader)
	if err != nil {
		return err
	}

	p.phong.SetInt("material_diffuse", shader.UnitDiffuse)
	p.phong.SetInt("shadow_map", shader.UnitShadow)
	p.phong.SetInt("wave_mask", shader.UnitWaveMask)
	p.depth.SetInt("wave_mask", shader.UnitWaveMask)
	p.screen.SetInt("screen_texture", 0)
	p.screen.SetInt("bloom_texture", 1)
	for _, s := range []*shader.Instance{p.highPass, p.blurV, p.blurH} {
		s.SetInt("screen_texture", 0)
	}
	return nil
}

func (p *Pipeline) setSize(width, height int32) {
	p.width, p.height = width, height
	aspect := float32(width) / float32(height)
	p.projection = mgl32.Perspective(mgl32.DegToRad(FieldOfView), aspect, Near, Far)
}

// RenderFrame advances the scene by one tick and renders it with the
// given camera view into the framebuffer bound on entry.
func (p *Pipeline) RenderFrame(sc *scene.Scene, view mgl32.Mat4) {
	dev := p.dev
	out := dev.CurrentFramebuffer()

	sc.Update()

	// shadow depth
	lightView, lightProj := shadow.LightMatrices(sc.Light.Position)
	p.shadowMap.Begin(dev)
	p.depth.Draw(sc, lightView, lightProj)

	// main color
	t := p.targets
	dev.Viewport(0, 0, p.width, p.height)
	t.main.Bind()
	dev.Enable(gpu.CapDepthTest)
	dev.ClearColor(SkyColor[0], SkyColor[1], SkyColor[2], SkyColor[3])
	dev.Clear(gpu.ClearColor | gpu.ClearDepth)

	p.shadowMap.Depth.BindUnit(shader.UnitShadow)
	p.phong.SetMatrix("light_view", lightView)
	p.phong.SetMatrix("light_projection", lightProj)
	p.phong.Draw(sc, view, p.projection)

	dev.Disable(gpu.CapDepthTest)
	p.bloom()

	// composite
	dev.BindFramebuffer(out)
	dev.Enable(gpu.CapDepthTest)
	t.color.BindUnit(0)
	t.ping[0].BindUnit(1)
	dev.Clear(gpu.ClearColor)
	p.screen.DrawMesh(p.quad)
}

// Resize rebuilds the window-sized targets and the projection. The shadow
// map is kept. A zero dimension, as reported for minimized windows, is
// ignored. On error the previous targets stay in place.
func (p *Pipeline) Resize(width, height int32) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width == p.width && height == p.height {
		return nil
	}

	t, err := newTargets(p.dev, width, height)
	if err != nil {
		return fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}
	p.targets.destroy()
	p.targets = t
	p.setSize(width, height)

	logger.Debug("pipeline resized", zap.Int32("width", width), zap.Int32("height", height))
	return nil
}

// Size returns the window size the targets are allocated for.
func (p *Pipeline) Size() (width, height int32) {
	return p.width, p.height
}

// Projection returns the camera projection for the current aspect ratio.
func (p *Pipeline) Projection() mgl32.Mat4 {
	return p.projection
}

// Destroy releases every program and target. Safe on a partially built
// pipeline.
func (p *Pipeline) Destroy() {
	if p == nil {
		return
	}
	for _, s := range []**shader.Instance{&p.phong, &p.depth, &p.screen, &p.highPass, &p.blurV, &p.blurH} {
		if *s != nil {
			(*s).Destroy()
			*s = nil
		}
	}
	if p.quad != nil {
		p.quad.Destroy()
		p.quad = nil
	}
	p.shadowMap.Destroy()
	p.shadowMap = nil
	p.targets.destroy()
	p.targets = nil
}
