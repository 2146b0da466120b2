package renderer

import (
	"github.com/Faultbox/islet/internal/engine/framebuffer"
	"github.com/Faultbox/islet/internal/engine/gpu"
	"github.com/Faultbox/islet/internal/engine/shader"
	"github.com/Faultbox/islet/internal/engine/texture"
)

// bloom extracts bright pixels of the main color into ping[0], then blurs
// them back and forth between the ping-pong pair. The result ends in ping[0].
func (p *Pipeline) bloom() {
	t := p.targets
	p.quadPass(p.highPass, t.color, t.pingFB[0])
	for i := 0; i < BlurIterations; i++ {
		p.quadPass(p.blurV, t.ping[0], t.pingFB[1])
		p.quadPass(p.blurH, t.ping[1], t.pingFB[0])
	}
}

// quadPass draws a full-screen quad with prog sampling src on unit 0 into dst.
func (p *Pipeline) quadPass(prog *shader.Instance, src *texture.Texture, dst *framebuffer.Framebuffer) {
	dst.Bind()
	src.BindUnit(0)
	p.dev.Clear(gpu.ClearColor)
	prog.DrawMesh(p.quad)
}
