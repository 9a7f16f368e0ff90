package canvas

import (
	"github.com/inamate/drawkit/internal/drag"
	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/shape"
)

const (
	// closeTolerance is the squared distance to the first vertex that
	// closes a path.
	closeTolerance = 4 * 4
	// finishTolerance is the squared distance to the last committed
	// vertex that ends an open path.
	finishTolerance = 1
)

// pathMode draws a path one click per vertex. The last vertex follows
// the pointer until the next click commits it.
type pathMode struct {
	baseMode
	path    *shape.Path
	drawing bool
}

func newPathMode(c *Canvas) Handler {
	return &pathMode{baseMode: baseMode{c: c}}
}

func (m *pathMode) PointerDown(ev drag.Pointer) {
	c := m.c
	pt := c.ClientToCanvas(ev)
	if !m.drawing {
		p := shape.NewPath(c.sf, c.CurrentStroke(), c.CurrentFill())
		c.AddShape(p)
		p.AddVertex(pt)
		p.AddVertex(pt)
		p.UpdatePath()
		m.path = p
		m.drawing = true
		return
	}

	p := m.path
	vs := p.Vertices()
	n := len(vs)
	switch {
	case geom.SquaredDistance(pt, vs[0]) < closeTolerance:
		p.SetClosed(true)
		m.finish()
	case n > 2 && geom.SquaredDistance(pt, vs[n-2]) < finishTolerance:
		m.finish()
	default:
		p.SetVertex(n-1, pt)
		p.AddVertex(pt)
		p.UpdatePath()
	}
}

func (m *pathMode) PointerMove(ev drag.Pointer) {
	if !m.drawing {
		return
	}
	if n := len(m.path.Vertices()); n > 1 {
		m.path.SetVertex(n-1, m.c.ClientToCanvas(ev))
	}
	m.path.UpdatePath()
}

func (m *pathMode) Exit() int {
	if m.drawing {
		m.c.DeleteShape(m.c.indexOf(m.path))
	}
	m.drawing = false
	m.path = nil
	return m.baseMode.Exit()
}

// finish drops the rubber band vertex and keeps the path if at least two
// vertices remain.
func (m *pathMode) finish() {
	c := m.c
	p := m.path
	m.drawing = false
	m.path = nil

	p.RemoveLastVertex()
	if len(p.Vertices()) <= 1 {
		c.DeleteShape(c.indexOf(p))
		return
	}
	if len(p.Vertices()) <= 2 {
		p.SetClosed(false)
	}
	p.UpdatePath()
	p.UpdateBounds()
	c.SetMode(ModeMove)
	c.SetCurrentShapeIndex(c.indexOf(p))
}
