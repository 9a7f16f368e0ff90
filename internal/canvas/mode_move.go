package canvas

import (
	"math"

	"github.com/inamate/drawkit/internal/drag"
	"github.com/inamate/drawkit/internal/geom"
)

// cornerAnchors maps a corner handle to the local direction of the
// opposite corner, which stays fixed while the handle is dragged.
var cornerAnchors = map[string]geom.Vec2{
	LabelLeftTop:     {X: 1, Y: 1},
	LabelRightTop:    {X: -1, Y: 1},
	LabelLeftBottom:  {X: 1, Y: -1},
	LabelRightBottom: {X: -1, Y: -1},
}

// moveMode selects shapes and moves, resizes or rotates the selection.
type moveMode struct {
	baseMode
	start geom.Vec2
	base  geom.Vec2
}

func newMoveMode(c *Canvas) Handler {
	return &moveMode{baseMode: baseMode{c: c}}
}

func (m *moveMode) Enter(index int) {
	m.c.SetCurrentShapeIndex(index)
}

func (m *moveMode) PointerDown(ev drag.Pointer) {
	c := m.c
	if c.Dragging() {
		return
	}
	pt := c.ClientToCanvas(ev)
	label := c.HandleLabelAt(pt)
	if s := c.Shape(c.current); label != "" && s != nil {
		if label == LabelRotation {
			c.BeginDrag(ev, m.dragRotation, m.dragEnd)
			return
		}
		if dir, ok := cornerAnchors[label]; ok {
			g := s.Geometry()
			m.base = s.Transform().Transform(dir.ScaleXY(g.Width, g.Height))
			c.BeginDrag(ev, m.dragCorner, m.dragEnd)
		}
		return
	}

	index := c.ShapeIndexAt(pt.X, pt.Y)
	c.SetCurrentShapeIndex(index)
	if s := c.Shape(index); s != nil {
		g := s.Geometry()
		m.start = pt
		m.base = geom.V(g.X, g.Y)
		c.BeginDrag(ev, m.dragShape, m.dragEnd)
	}
}

func (m *moveMode) dragShape(ev drag.Pointer) {
	s := m.c.Shape(m.c.current)
	if s == nil {
		return
	}
	pt := m.c.ClientToCanvas(ev)
	g := s.Geometry()
	s.SetTransform(m.base.X+pt.X-m.start.X, m.base.Y+pt.Y-m.start.Y, g.Width, g.Height, g.Rot, false)
	m.c.UpdateCornerHandles()
}

func (m *moveMode) dragCorner(ev drag.Pointer) {
	s := m.c.Shape(m.c.current)
	if s == nil {
		return
	}
	pt := m.c.ClientToCanvas(ev)
	b := geom.ComputeBounds(pt, m.base, s.Transform(), ev.Shift)
	s.SetTransform(b.X, b.Y, b.W, b.H, s.Geometry().Rot, false)
	m.c.UpdateCornerHandles()
}

func (m *moveMode) dragRotation(ev drag.Pointer) {
	s := m.c.Shape(m.c.current)
	if s == nil {
		return
	}
	pt := m.c.ClientToCanvas(ev)
	g := s.Geometry()
	angle := math.Atan2(pt.X-g.X, -(pt.Y-g.Y)) * 180 / math.Pi
	s.SetTransform(g.X, g.Y, g.Width, g.Height, angle, false)
	m.c.UpdateCornerHandles()
}

func (m *moveMode) dragEnd(drag.Pointer) {
	m.c.EndDrag()
}
