package framebuffer

import (
	"errors"
	"testing"

	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/gpu/gputest"
	"github.com/Faultbox/islet/internal/engine/texture"
)

func target(t *testing.T, dev gpu.Device) *texture.Texture {
	t.Helper()
	tex, err := texture.NewTarget(dev, 8, 8, gpu.FormatRGB16F)
	if err != nil {
		t.Fatal(err)
	}
	return tex
}

func TestColorSlotsInOrder(t *testing.T) {
	dev := gputest.New()
	fb, err := New(dev)
	if err != nil {
		t.Fatal(err)
	}
	a, b := target(t, dev), target(t, dev)

	if s := fb.AttachColor(a); s != gpu.ColorAttachment(0) {
		t.Errorf("first slot = %v", s)
	}
	if s := fb.AttachColor(b); s != gpu.ColorAttachment(1) {
		t.Errorf("second slot = %v", s)
	}
	if err := fb.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	rec := dev.Framebuffers[fb.ID()]
	want := []gpu.Attachment{gpu.ColorAttachment(0), gpu.ColorAttachment(1)}
	if len(rec.DrawBuffers) != 2 || rec.DrawBuffers[0] != want[0] || rec.DrawBuffers[1] != want[1] {
		t.Errorf("draw buffers = %v, want %v", rec.DrawBuffers, want)
	}
	if rec.Textures[want[0]] != a.ID() || rec.Textures[want[1]] != b.ID() {
		t.Error("textures attached to the wrong slots")
	}
	if fb.NoColorOutput() {
		t.Error("NoColorOutput on a color framebuffer")
	}
}

func TestDepthOnlyDeclaresNoColor(t *testing.T) {
	dev := gputest.New()
	fb, _ := New(dev)
	depth, err := texture.New(dev, 16, 16, gpu.FormatDepth24, nil)
	if err != nil {
		t.Fatal(err)
	}
	fb.AttachDepthTexture(depth)

	if err := fb.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	rec := dev.Framebuffers[fb.ID()]
	if !rec.Declared || !rec.NoColorOutput {
		t.Errorf("declared=%v noColor=%v, want both", rec.Declared, rec.NoColorOutput)
	}
	if !fb.NoColorOutput() {
		t.Error("NoColorOutput = false")
	}
}

func TestDepthAttachmentOverwrites(t *testing.T) {
	dev := gputest.New()
	fb, _ := New(dev)
	first, _ := NewRenderbuffer(dev, 8, 8)
	second, _ := NewRenderbuffer(dev, 8, 8)

	fb.AttachDepthRenderbuffer(first)
	fb.AttachDepthRenderbuffer(second)
	fb.AttachColor(target(t, dev))
	if err := fb.Finalize(); err != nil {
		t.Fatal(err)
	}

	if got := dev.Framebuffers[fb.ID()].Renderbuffers[gpu.DepthAttachment]; got != second.ID() {
		t.Errorf("depth = %d, want %d", got, second.ID())
	}
}

func TestFinalizeNoAttachments(t *testing.T) {
	dev := gputest.New()
	fb, _ := New(dev)
	if err := fb.Finalize(); !errors.Is(err, gpu.ErrIncompleteFramebuffer) {
		t.Errorf("err = %v, want ErrIncompleteFramebuffer", err)
	}
	if fb.Finalized() {
		t.Error("failed finalize marked framebuffer finalized")
	}
}

func TestFinalizeIncomplete(t *testing.T) {
	dev := gputest.New()
	dev.Incomplete = true
	fb, _ := New(dev)
	fb.AttachColor(target(t, dev))
	if err := fb.Finalize(); !errors.Is(err, gpu.ErrIncompleteFramebuffer) {
		t.Errorf("err = %v, want ErrIncompleteFramebuffer", err)
	}
}

func TestFinalizeTwicePanics(t *testing.T) {
	dev := gputest.New()
	fb, _ := New(dev)
	fb.AttachColor(target(t, dev))
	if err := fb.Finalize(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	_ = fb.Finalize()
}

func TestBindBeforeFinalizePanics(t *testing.T) {
	dev := gputest.New()
	fb, _ := New(dev)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	fb.Bind()
}

func TestFinalizeRestoresDefault(t *testing.T) {
	dev := gputest.New()
	fb, _ := New(dev)
	fb.AttachColor(target(t, dev))
	_ = fb.Finalize()
	if dev.FramebufferBinding != 0 {
		t.Errorf("binding after finalize = %d, want 0", dev.FramebufferBinding)
	}
	fb.Bind()
	if dev.FramebufferBinding != fb.ID() {
		t.Error("Bind did not bind")
	}
}

func TestMoveAndDestroy(t *testing.T) {
	dev := gputest.New()
	fb, _ := New(dev)
	fb.AttachColor(target(t, dev))
	_ = fb.Finalize()

	moved := fb.Move()
	fb.Destroy()
	if dev.LiveCount(gputest.KindFramebuffer) != 1 {
		t.Fatal("moved-from Destroy released the framebuffer")
	}
	if !moved.Finalized() || len(moved.ColorAttachments()) != 1 {
		t.Error("Move lost attachment state")
	}
	moved.Destroy()
	if dev.LiveCount(gputest.KindFramebuffer) != 0 {
		t.Error("framebuffer leaked")
	}

	rb, _ := NewRenderbuffer(dev, 4, 4)
	rb2 := rb.Move()
	rb.Destroy()
	rb2.Destroy()
	if n := len(dev.Deleted[gputest.KindRenderbuffer]); n != 1 {
		t.Errorf("renderbuffer deletes = %d, want 1", n)
	}
}

func TestRenderbufferStorage(t *testing.T) {
	dev := gputest.New()
	rb, err := NewRenderbuffer(dev, 800, 600)
	if err != nil {
		t.Fatal(err)
	}
	if got := dev.Renderbuffers[rb.ID()]; got != [3]int32{800, 600, int32(gpu.FormatDepth24)} {
		t.Errorf("storage = %v", got)
	}
}
