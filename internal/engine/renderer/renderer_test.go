package renderer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/gpu/gputest"
	"github.com/Faultbox/islet/internal/engine/mesh"
	"github.com/Faultbox/islet/internal/engine/model"
	"github.com/Faultbox/islet/internal/engine/scene"
	"github.com/Faultbox/islet/internal/engine/texture"
	"github.com/Faultbox/islet/internal/engine/transform"
)

func newPipeline(t *testing.T, dev *gputest.Device) *Pipeline {
	t.Helper()
	p, err := New(dev, 800, 600)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// oneCube is a scene with a single unanimated cube and the default light.
func oneCube(t *testing.T, dev *gputest.Device) *scene.Scene {
	t.Helper()
	diffuse, err := texture.FromImage(dev, texture.Solid(128, 128, 128, 255))
	if err != nil {
		t.Fatal(err)
	}
	mask, err := texture.FromImage(dev, texture.Blank())
	if err != nil {
		t.Fatal(err)
	}
	buf, err := mesh.FromModel(dev, model.Cube())
	if err != nil {
		t.Fatal(err)
	}
	s := scene.New()
	s.Add(&scene.MeshInstance{
		Name:      "cube",
		Mesh:      buf,
		Material:  scene.NewMaterial(diffuse, 0.2, 0.6, 0.2, 8, mask),
		Transform: transform.New(),
	})
	return s
}

func TestNewState(t *testing.T) {
	dev := gputest.New()
	p := newPipeline(t, dev)
	defer p.Destroy()

	if !dev.Caps[gpu.CapDepthTest] || dev.Caps[gpu.CapCullFace] {
		t.Errorf("caps = %v", dev.Caps)
	}
	if dev.Depth != gpu.DepthLessEqual {
		t.Errorf("depth func = %v", dev.Depth)
	}
	if v, _ := dev.LastUniform(p.phong.ID(), "shadow_map"); v != int32(1) {
		t.Errorf("shadow_map sampler = %v, want 1", v)
	}
	if v, _ := dev.LastUniform(p.screen.ID(), "bloom_texture"); v != int32(1) {
		t.Errorf("bloom_texture sampler = %v, want 1", v)
	}
	if dev.InvalidWrites != 0 {
		t.Errorf("%d invalid uniform writes", dev.InvalidWrites)
	}
}

func TestRenderFrame(t *testing.T) {
	dev := gputest.New()
	p := newPipeline(t, dev)
	defer p.Destroy()
	s := oneCube(t, dev)
	defer s.Destroy()

	dev.Reset()
	p.RenderFrame(s, mgl32.Translate3D(0, 0, -2))

	want := 1 + 1 + 1 + 2*BlurIterations + 1
	if len(dev.Draws) != want {
		t.Fatalf("draws = %d, want %d", len(dev.Draws), want)
	}
	if s.Time == 0 {
		t.Error("scene not advanced")
	}

	shadowDraw := dev.Draws[0]
	if shadowDraw.Program != p.depth.ID() || shadowDraw.Framebuffer != p.shadowMap.Framebuffer.ID() {
		t.Errorf("shadow draw = %+v", shadowDraw)
	}
	if shadowDraw.Viewport != [4]int32{0, 0, ShadowSize, ShadowSize} {
		t.Errorf("shadow viewport = %v", shadowDraw.Viewport)
	}
	if !shadowDraw.DepthTest {
		t.Error("depth test off at cycle start")
	}

	mainDraw := dev.Draws[1]
	if mainDraw.Program != p.phong.ID() || mainDraw.Framebuffer != p.targets.main.ID() {
		t.Errorf("main draw = %+v", mainDraw)
	}
	if mainDraw.Viewport != [4]int32{0, 0, 800, 600} {
		t.Errorf("main viewport = %v", mainDraw.Viewport)
	}
	if mainDraw.Units[1] != p.shadowMap.Depth.ID() {
		t.Errorf("unit 1 = %d, want shadow depth", mainDraw.Units[1])
	}

	extract := dev.Draws[2]
	if extract.Program != p.highPass.ID() || extract.Framebuffer != p.targets.pingFB[0].ID() ||
		extract.Units[0] != p.targets.color.ID() || extract.DepthTest {
		t.Errorf("extract draw = %+v", extract)
	}

	for i := 0; i < BlurIterations; i++ {
		v, h := dev.Draws[3+2*i], dev.Draws[4+2*i]
		if v.Program != p.blurV.ID() || v.Framebuffer != p.targets.pingFB[1].ID() || v.Units[0] != p.targets.ping[0].ID() {
			t.Errorf("blur %d vertical = %+v", i, v)
		}
		if h.Program != p.blurH.ID() || h.Framebuffer != p.targets.pingFB[0].ID() || h.Units[0] != p.targets.ping[1].ID() {
			t.Errorf("blur %d horizontal = %+v", i, h)
		}
	}

	composite := dev.Draws[len(dev.Draws)-1]
	if composite.Program != p.screen.ID() || composite.Framebuffer != 0 {
		t.Errorf("composite draw = %+v", composite)
	}
	if composite.Units[0] != p.targets.color.ID() || composite.Units[1] != p.targets.ping[0].ID() {
		t.Errorf("composite units = %v", composite.Units)
	}
	if !composite.DepthTest || !dev.Caps[gpu.CapDepthTest] {
		t.Error("depth test off at cycle end")
	}

	var skyCleared bool
	for _, c := range dev.Clears {
		if c.Framebuffer == p.targets.main.ID() && c.Mask == gpu.ClearColor|gpu.ClearDepth {
			skyCleared = c.Color == [4]float32{2, 8, 10, 0}
		}
	}
	if !skyCleared {
		t.Error("main target not cleared to the sky color")
	}
	if dev.InvalidWrites != 0 {
		t.Errorf("%d invalid uniform writes", dev.InvalidWrites)
	}
}

func TestRenderFrameRestoresFramebuffer(t *testing.T) {
	dev := gputest.New()
	p := newPipeline(t, dev)
	defer p.Destroy()
	s := oneCube(t, dev)
	defer s.Destroy()

	out := p.targets.pingFB[1].ID()
	dev.BindFramebuffer(out)
	dev.Reset()
	p.RenderFrame(s, mgl32.Ident4())

	if last := dev.Draws[len(dev.Draws)-1]; last.Framebuffer != out {
		t.Errorf("composite wrote to %d, want %d", last.Framebuffer, out)
	}
}

func TestResize(t *testing.T) {
	dev := gputest.New()
	p := newPipeline(t, dev)
	defer p.Destroy()

	old := p.targets
	oldTextures := []uint32{old.color.ID(), old.ping[0].ID(), old.ping[1].ID()}
	oldDepth := old.depth.ID()
	shadowTex, shadowFB := p.shadowMap.Depth.ID(), p.shadowMap.Framebuffer.ID()
	liveTextures := dev.LiveCount(gputest.KindTexture)

	if err := p.Resize(400, 300); err != nil {
		t.Fatal(err)
	}

	for _, id := range oldTextures {
		if !dev.WasDeleted(gputest.KindTexture, id) {
			t.Errorf("texture %d not destroyed", id)
		}
	}
	if !dev.WasDeleted(gputest.KindRenderbuffer, oldDepth) {
		t.Error("depth renderbuffer not destroyed")
	}
	if !dev.Live[gputest.KindTexture][shadowTex] || !dev.Live[gputest.KindFramebuffer][shadowFB] {
		t.Error("shadow map rebuilt")
	}
	if dev.LiveCount(gputest.KindTexture) != liveTextures {
		t.Errorf("live textures = %d, want %d", dev.LiveCount(gputest.KindTexture), liveTextures)
	}
	if w, h := p.targets.color.Size(); w != 400 || h != 300 {
		t.Errorf("color target = %dx%d", w, h)
	}
	if rw, rh := p.targets.depth.Size(); rw != 400 || rh != 300 {
		t.Errorf("depth target = %dx%d", rw, rh)
	}

	proj := p.Projection()
	if aspect := proj[5] / proj[0]; aspect < 1.3333 || aspect > 1.3334 {
		t.Errorf("aspect = %v, want 400/300", aspect)
	}
}

func TestResizeIgnoresZero(t *testing.T) {
	dev := gputest.New()
	p := newPipeline(t, dev)
	defer p.Destroy()

	color := p.targets.color.ID()
	if err := p.Resize(0, 0); err != nil {
		t.Fatal(err)
	}
	if p.targets.color.ID() != color {
		t.Error("targets rebuilt for a zero size")
	}
}

func TestResizeFailureKeepsTargets(t *testing.T) {
	dev := gputest.New()
	p := newPipeline(t, dev)
	defer p.Destroy()

	color := p.targets.color.ID()
	dev.Incomplete = true
	err := p.Resize(640, 480)
	if !errors.Is(err, gpu.ErrIncompleteFramebuffer) {
		t.Fatalf("err = %v", err)
	}
	if p.targets.color.ID() != color {
		t.Error("targets replaced after a failed resize")
	}
	if w, _ := p.Size(); w != 800 {
		t.Errorf("width = %d after failed resize", w)
	}
}

func TestNewFailureReleasesEverything(t *testing.T) {
	dev := gputest.New()
	dev.Incomplete = true

	if _, err := New(dev, 800, 600); !errors.Is(err, gpu.ErrIncompleteFramebuffer) {
		t.Fatalf("err = %v", err)
	}
	for k := gputest.KindTexture; k <= gputest.KindProgram; k++ {
		if n := dev.LiveCount(k); n != 0 {
			t.Errorf("%d %s objects leaked", n, k)
		}
	}
}

func TestDestroy(t *testing.T) {
	dev := gputest.New()
	p := newPipeline(t, dev)
	p.Destroy()
	p.Destroy()

	for k := gputest.KindTexture; k <= gputest.KindProgram; k++ {
		if n := dev.LiveCount(k); n != 0 {
			t.Errorf("%d %s objects leaked", n, k)
		}
	}
}
