// Package shader wraps compiled programs and draws scenes and
// full-screen quads with them.
package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/logger"
)

// Program exclusively owns one linked program.
type Program struct {
	dev    gpu.Device
	handle gpu.Handle
	name   string
}

// CompileProgram compiles and links vertex and fragment sources.
func CompileProgram(dev gpu.Device, name, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	p := &Program{dev: dev, name: name}
	p.handle.Reset(id)
	return p, nil
}

// Name returns the name given at compile time.
func (p *Program) Name() string {
	return p.name
}

// ID returns the native program id.
func (p *Program) ID() uint32 {
	return p.handle.ID()
}

// Use makes the program current.
func (p *Program) Use() {
	p.dev.UseProgram(p.handle.MustID("program"))
}

// Uniform returns the location of name, or gpu.NotFound.
func (p *Program) Uniform(name string) int32 {
	return p.dev.UniformLocation(p.handle.ID(), name)
}

// SetInt binds the program and sets an integer uniform such as a sampler
// unit. Unknown names are skipped.
func (p *Program) SetInt(name string, v int32) {
	p.Use()
	if loc := p.lookup(name); loc != gpu.NotFound {
		p.dev.Uniform1i(loc, v)
	}
}

// SetMatrix binds the program and sets a mat4 uniform. Unknown names are
// skipped.
func (p *Program) SetMatrix(name string, m mgl32.Mat4) {
	p.Use()
	if loc := p.lookup(name); loc != gpu.NotFound {
		p.dev.UniformMatrix4(loc, m)
	}
}

func (p *Program) lookup(name string) int32 {
	loc := p.Uniform(name)
	if loc == gpu.NotFound {
		logger.Debug("uniform not found", zap.String("program", p.name), zap.String("uniform", name))
	}
	return loc
}

// Destroy deletes the program. Safe on an empty program.
func (p *Program) Destroy() {
	if p == nil {
		return
	}
	if id := p.handle.Take(); id != 0 {
		p.dev.DeleteProgram(id)
	}
}
