package canvas

import (
	"github.com/inamate/drawkit/internal/drag"
	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/shape"
)

// modifyMode moves shapes and drags the individual vertices of paths.
type modifyMode struct {
	baseMode
	editing int
	vertex  int
	start   geom.Vec2
	base    geom.Vec2
}

func newModifyMode(c *Canvas) Handler {
	return &modifyMode{baseMode: baseMode{c: c}, editing: -1, vertex: -1}
}

func (m *modifyMode) Enter(index int) {
	m.editing = index
	m.recreateVertexHandles(m.c.Shape(index))
}

func (m *modifyMode) Exit() int {
	index := m.editing
	m.editing = -1
	m.vertex = -1
	return index
}

func (m *modifyMode) recreateVertexHandles(s shape.Shape) {
	m.c.RemoveAllHandles()
	if p, ok := s.(shape.VertexShape); ok {
		m.c.addVertexHandles(p)
	}
}

func (m *modifyMode) editingPath() (shape.VertexShape, bool) {
	p, ok := m.c.Shape(m.editing).(shape.VertexShape)
	return p, ok
}

func (m *modifyMode) PointerDown(ev drag.Pointer) {
	c := m.c
	if c.Dragging() {
		return
	}
	pt := c.ClientToCanvas(ev)
	label := c.HandleLabelAt(pt)
	if n, ok := ParseVertexLabel(label); ok && m.editing >= 0 {
		p, ok := m.editingPath()
		if !ok || n >= len(p.Vertices()) {
			return
		}
		m.start = pt
		m.base = p.ToWorld(p.Vertices()[n])
		if c.BeginDrag(ev, m.dragVertex, m.dragVertexEnd) {
			m.vertex = n
		}
		return
	}

	index := c.ShapeIndexAt(pt.X, pt.Y)
	if index != m.editing {
		c.RemoveAllHandles()
	}
	if s := c.Shape(index); s != nil {
		g := s.Geometry()
		m.start = pt
		m.base = geom.V(g.X, g.Y)
		if c.BeginDrag(ev, m.dragShape, m.dragEnd) && index != m.editing {
			m.recreateVertexHandles(s)
		}
	}
	m.editing = index
}

func (m *modifyMode) dragShape(ev drag.Pointer) {
	s := m.c.Shape(m.editing)
	if s == nil {
		return
	}
	pt := m.c.ClientToCanvas(ev)
	g := s.Geometry()
	s.SetTransform(m.base.X+pt.X-m.start.X, m.base.Y+pt.Y-m.start.Y, g.Width, g.Height, g.Rot, false)
	if p, ok := s.(shape.VertexShape); ok {
		m.c.updateVertexHandles(p)
	}
}

func (m *modifyMode) dragEnd(drag.Pointer) {
	m.c.EndDrag()
}

func (m *modifyMode) dragVertex(ev drag.Pointer) {
	p, ok := m.editingPath()
	if !ok || m.vertex < 0 || m.vertex >= len(p.Vertices()) {
		return
	}
	pt := m.c.ClientToCanvas(ev).Add(m.base).Sub(m.start)
	p.SetVertex(m.vertex, p.ToLocal(pt))
	m.c.TransformHandle(VertexLabel(m.vertex), pt, p.Geometry().Rot)
	p.UpdatePath()
}

// dragVertexEnd refits the path bounds once the vertex is dropped.
func (m *modifyMode) dragVertexEnd(drag.Pointer) {
	if p, ok := m.editingPath(); ok && m.c.Dragging() {
		p.UpdateBounds()
		m.c.updateVertexHandles(p)
	}
	m.vertex = -1
	m.c.EndDrag()
}
