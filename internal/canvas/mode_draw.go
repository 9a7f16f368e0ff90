package canvas

import (
	"github.com/inamate/drawkit/internal/drag"
	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/shape"
)

// drawMode creates a box-shaped shape spanned by a drag.
type drawMode struct {
	baseMode
	create func(c *Canvas) shape.Shape
	start  geom.Vec2
}

func newRectMode(c *Canvas) Handler {
	return &drawMode{baseMode: baseMode{c: c}, create: func(c *Canvas) shape.Shape {
		return shape.NewRect(c.sf, c.CurrentStroke(), c.CurrentFill())
	}}
}

func newEllipseMode(c *Canvas) Handler {
	return &drawMode{baseMode: baseMode{c: c}, create: func(c *Canvas) shape.Shape {
		return shape.NewEllipse(c.sf, c.CurrentStroke(), c.CurrentFill())
	}}
}

func (m *drawMode) PointerDown(ev drag.Pointer) {
	c := m.c
	if c.Dragging() {
		return
	}
	m.start = c.ClientToCanvas(ev)
	s := m.create(c)
	g := s.Geometry()
	s.SetTransform(m.start.X, m.start.Y, g.Width, g.Height, 0, false)
	c.AddShape(s)
	c.BeginDrag(ev, m.drag, m.dragEnd)
}

func (m *drawMode) drag(ev drag.Pointer) {
	s := m.c.Shape(0)
	if s == nil {
		return
	}
	pt := m.c.ClientToCanvas(ev)
	b := geom.ComputeBounds(pt, m.start, s.Transform(), ev.Shift)
	s.SetTransform(b.X, b.Y, b.W, b.H, s.Geometry().Rot, false)
}

func (m *drawMode) dragEnd(drag.Pointer) {
	m.c.EndDrag()
	m.c.SetMode(ModeMove)
	m.c.SetCurrentShapeIndex(0)
}
