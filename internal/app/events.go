package app

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/islet/internal/engine/input"
	"github.com/Faultbox/islet/internal/logger"
)

// handleEvent applies one input event. Only a failed resize is an error.
func (a *App) handleEvent(ev input.Event) error {
	switch ev.Type {
	case input.EventQuit:
		a.running = false

	case input.EventWindowResize:
		w, h := a.drawableSize()
		if err := a.pipeline.Resize(w, h); err != nil {
			return err
		}

	case input.EventKeyDown:
		switch ev.Key {
		case sdl.SCANCODE_ESCAPE:
			a.running = false
		case sdl.SCANCODE_R:
			a.camera.Reset()
			logger.Debug("camera reset")
		case sdl.SCANCODE_F12:
			a.screenshot = true
		}

	case input.EventMouseDrag:
		w, h := a.windowSize()
		a.camera.HandleDrag(float32(ev.DX), float32(ev.DY), w, h)

	case input.EventMouseWheel:
		a.camera.HandleZoom(ev.Wheel)
		logger.Debug("zoom", zap.Float32("distance", a.camera.Distance))
	}
	return nil
}
