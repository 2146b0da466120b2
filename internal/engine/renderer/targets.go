package renderer

import (
	"github.com/Faultbox/islet/internal/engine/framebuffer"
	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/texture"
)

// targets are the window-sized render targets, rebuilt on resize.
type targets struct {
	color *texture.Texture
	depth *framebuffer.Renderbuffer
	main  *framebuffer.Framebuffer

	ping   [2]*texture.Texture
	pingFB [2]*framebuffer.Framebuffer
}

func newTargets(dev gpu.Device, width, height int32) (_ *targets, err error) {
	t := &targets{}
	defer func() {
		if err != nil {
			t.destroy()
		}
	}()

	if t.color, err = texture.NewTarget(dev, width, height, gpu.FormatRGB16F); err != nil {
		return nil, err
	}
	if t.depth, err = framebuffer.NewRenderbuffer(dev, width, height); err != nil {
		return nil, err
	}
	if t.main, err = framebuffer.New(dev); err != nil {
		return nil, err
	}
	t.main.AttachColor(t.color)
	t.main.AttachDepthRenderbuffer(t.depth)
	if err = t.main.Finalize(); err != nil {
		return nil, err
	}

	for i := range t.ping {
		if t.ping[i], err = texture.NewTarget(dev, width, height, gpu.FormatRGB16F); err != nil {
			return nil, err
		}
		if t.pingFB[i], err = framebuffer.New(dev); err != nil {
			return nil, err
		}
		t.pingFB[i].AttachColor(t.ping[i])
		if err = t.pingFB[i].Finalize(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *targets) destroy() {
	if t == nil {
		return
	}
	t.main.Destroy()
	t.depth.Destroy()
	t.color.Destroy()
	for i := range t.ping {
		t.pingFB[i].Destroy()
		t.ping[i].Destroy()
	}
}
