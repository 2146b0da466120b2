// Package app implements the viewer's main loop.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/islet/internal/assets"
	"github.com/Faultbox/islet/internal/config"
	"github.com/Faultbox/islet/internal/engine/animation"
	"github.com/Faultbox/islet/internal/engine/camera"
	"github.com/Faultbox/islet/internal/engine/debug"
	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/input"
	"github.com/Faultbox/islet/internal/engine/renderer"
	"github.com/Faultbox/islet/internal/engine/scene"
	"github.com/Faultbox/islet/internal/engine/window"
	"github.com/Faultbox/islet/internal/logger"
)

// Title is the window title.
const Title = "Islet"

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	dev      gpu.Device
	pipeline *renderer.Pipeline
	assets   *assets.Loader
	scene    *scene.Scene
	camera   *camera.Orbit
	input    *input.Input
	shots    *debug.ScreenshotCapture

	// drawableSize reports the framebuffer size in pixels after a resize
	// event; windowSize is the size in points that mouse motion uses.
	drawableSize func() (int32, int32)
	windowSize   func() (int32, int32)
	// screenshot is taken after the next composite.
	screenshot bool
}

// New creates the window, GL context, pipeline and scene.
func New(cfg *config.Config) (_ *App, err error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	a := &App{cfg: cfg}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	a.drawableSize = a.window.DrawableSize
	a.windowSize = func() (int32, int32) {
		w, h := a.window.GetSize()
		return int32(w), int32(h)
	}

	// GL functions are only loadable once a context is current
	a.dev, err = gpu.NewGL()
	if err != nil {
		return nil, err
	}

	width, height := a.drawableSize()
	if err := a.setup(width, height); err != nil {
		return nil, err
	}

	a.input = input.New()

	logger.Info("viewer initialized successfully")
	return a, nil
}

// setup builds everything that needs only a device.
func (a *App) setup(width, height int32) (err error) {
	if a.pipeline, err = renderer.New(a.dev, width, height); err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	a.assets = assets.NewLoader()
	if dir := a.cfg.Scene.Assets; dir != "" {
		if err := a.assets.AddDir(dir); err != nil {
			logger.Warn("asset directory unavailable, using fallbacks", zap.String("path", dir), zap.Error(err))
		}
	}

	manifest := scene.DefaultManifest()
	if path := a.cfg.Scene.Manifest; path != "" {
		if manifest, err = scene.LoadManifest(path); err != nil {
			return err
		}
	}
	if a.scene, err = scene.Build(a.dev, manifest, a.assets); err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}

	a.camera = camera.NewOrbit()
	a.shots = debug.NewScreenshotCapture(a.cfg.Debug.ScreenshotDir, "islet")
	return nil
}

// frameInterval is the wall-clock time between frames.
func (a *App) frameInterval() time.Duration {
	if fps := a.cfg.Graphics.FPSLimit; fps > 0 {
		return time.Second / time.Duration(fps)
	}
	return time.Duration(float64(animation.Tick) * float64(time.Second))
}

// Run drives frames from a fixed-interval ticker until quit.
func (a *App) Run() error {
	a.running = true

	ticker := time.NewTicker(a.frameInterval())
	defer ticker.Stop()

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop", zap.Duration("interval", a.frameInterval()))

	for a.running {
		<-ticker.C

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			if err := a.handleEvent(event); err != nil {
				return err
			}
		}
		if !a.running {
			break
		}

		// 2. Advance and render
		a.render()

		// 3. Present (swap buffers)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// render advances the scene one tick and draws it.
func (a *App) render() {
	a.pipeline.RenderFrame(a.scene, a.camera.ViewMatrix())

	if a.screenshot {
		a.screenshot = false
		w, h := a.pipeline.Size()
		if _, err := a.shots.Capture(a.dev, w, h); err != nil {
			logger.Error("screenshot failed", zap.Error(err))
		}
	}
}

// Close releases GPU resources before the context goes away.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.scene != nil {
		a.scene.Destroy()
		a.scene = nil
	}
	if a.pipeline != nil {
		a.pipeline.Destroy()
		a.pipeline = nil
	}
	if a.assets != nil {
		hits, misses := a.assets.Stats()
		logger.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
		a.assets.Close()
		a.assets = nil
	}
	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
}
