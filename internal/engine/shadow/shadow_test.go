package shadow

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/gpu/gputest"
)

func TestNewMap(t *testing.T) {
	dev := gputest.New()
	m, err := NewMap(dev, 0)
	if err != nil {
		t.Fatal(err)
	}
	if m.Resolution != DefaultResolution {
		t.Errorf("resolution = %d", m.Resolution)
	}

	info := dev.Textures[m.Depth.ID()]
	if info.Format != gpu.FormatDepth24 || info.Width != DefaultResolution {
		t.Errorf("depth storage = %+v", info)
	}
	if !info.Sampler.CompareRef || info.Sampler.WrapS != gpu.WrapClampToBorder || info.Sampler.Border != [4]float32{1, 1, 1, 1} {
		t.Errorf("sampler = %+v", info.Sampler)
	}

	rec := dev.Framebuffers[m.Framebuffer.ID()]
	if rec.Textures[gpu.DepthAttachment] != m.Depth.ID() || !rec.NoColorOutput {
		t.Errorf("framebuffer = %+v", rec)
	}

	m.Begin(dev)
	if dev.ViewportXY != [4]int32{0, 0, DefaultResolution, DefaultResolution} {
		t.Errorf("viewport = %v", dev.ViewportXY)
	}
	if n := len(dev.Clears); n == 0 || dev.Clears[n-1].Mask != gpu.ClearDepth {
		t.Error("expected depth-only clear")
	}

	m.Destroy()
	if dev.LiveCount(gputest.KindTexture) != 0 || dev.LiveCount(gputest.KindFramebuffer) != 0 {
		t.Error("shadow map leaked")
	}
}

func TestNewMapIncomplete(t *testing.T) {
	dev := gputest.New()
	dev.Incomplete = true
	if _, err := NewMap(dev, 512); !errors.Is(err, gpu.ErrIncompleteFramebuffer) {
		t.Errorf("err = %v", err)
	}
	if dev.LiveCount(gputest.KindTexture) != 0 {
		t.Error("depth texture leaked on failure")
	}
}

func TestLightMatrices(t *testing.T) {
	light := mgl32.Vec3{0, 3, 1.5}
	view, proj := LightMatrices(light)

	// the origin lies straight ahead of the light
	o := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	want := -light.Len()
	if d := o.Z() - want; d > 1e-4 || d < -1e-4 || o.X() > 1e-4 || o.Y() > 1e-4 {
		t.Errorf("origin in light space = %v", o)
	}

	if !proj.ApproxEqual(mgl32.Ortho(-5, 5, -5, 5, 0.1, 100)) {
		t.Errorf("projection = %v", proj)
	}

	// overhead light must not produce NaNs
	view, _ = LightMatrices(mgl32.Vec3{0, 5, 0})
	for _, v := range view {
		if v != v {
			t.Fatal("NaN in overhead light view")
		}
	}
}
