package canvas

import (
	"strconv"
	"strings"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/shape"
	"github.com/inamate/drawkit/internal/surface"
)

// HandleKind selects the marker drawn for a handle.
type HandleKind int

const (
	HandleCorner HandleKind = iota
	HandleRotation
	HandleVertex
	HandleBox
)

// Handle labels.
const (
	LabelLeftTop     = "leftTop"
	LabelRightTop    = "rightTop"
	LabelLeftBottom  = "leftBottom"
	LabelRightBottom = "rightBottom"
	LabelRotation    = "rot"
	LabelNewText     = "newtext"
	vertexPrefix     = "vertex"
)

var cornerLabels = []string{LabelLeftTop, LabelRightTop, LabelLeftBottom, LabelRightBottom}

// handleRadius is the pick distance around a handle's position.
const handleRadius = 5

// rotationOffset is how far the rotation handle sits above the top edge.
const rotationOffset = 30

// Handle is an overlay marker that starts a specific edit gesture.
type Handle struct {
	Label string
	Kind  HandleKind
	Pos   geom.Vec2
	el    surface.Element
}

// VertexLabel returns the label of the handle for vertex i.
func VertexLabel(i int) string {
	return vertexPrefix + strconv.Itoa(i)
}

// ParseVertexLabel returns the vertex index encoded in a handle label.
func ParseVertexLabel(label string) (int, bool) {
	rest, ok := strings.CutPrefix(label, vertexPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// AddHandle draws a handle, replacing any handle with the same label.
func (c *Canvas) AddHandle(label string, kind HandleKind) *Handle {
	if c.frozen {
		return nil
	}
	c.removeHandle(label)

	var el surface.Element
	switch kind {
	case HandleRotation:
		el = c.sf.DrawEllipse(surface.HandleLayer, 0, 0, 4, 4, c.handleStroke, c.handleFill)
	case HandleBox:
		el = c.sf.DrawRect(surface.HandleLayer, 0, 0, 0, 0, c.handleStroke, c.handleFill)
	default:
		el = c.sf.DrawRect(surface.HandleLayer, -3, -3, 6, 6, c.handleStroke, c.handleFill)
	}
	h := &Handle{Label: label, Kind: kind, el: el}
	c.handles = append(c.handles, h)
	return h
}

// Handle returns the handle with the given label, or nil.
func (c *Canvas) Handle(label string) *Handle {
	for _, h := range c.handles {
		if h.Label == label {
			return h
		}
	}
	return nil
}

// Handles returns the labels of the visible handles in creation order.
func (c *Canvas) Handles() []string {
	labels := make([]string, len(c.handles))
	for i, h := range c.handles {
		labels[i] = h.Label
	}
	return labels
}

func (c *Canvas) removeHandle(label string) {
	for i, h := range c.handles {
		if h.Label == label {
			h.el.Remove()
			c.handles = append(c.handles[:i], c.handles[i+1:]...)
			return
		}
	}
}

// TransformHandle moves a handle to pos, rotated by rot degrees.
func (c *Canvas) TransformHandle(label string, pos geom.Vec2, rot float64) {
	h := c.Handle(label)
	if h == nil {
		return
	}
	h.Pos = pos
	h.el.SetTransformation(pos.X, pos.Y, rot, 0, 0)
}

// SetHandleBox resizes a box handle to cover r.
func (c *Canvas) SetHandleBox(label string, r geom.Rect) {
	h := c.Handle(label)
	if h == nil {
		return
	}
	h.Pos = r.Center()
	h.el.SetPosition(r.X, r.Y)
	h.el.SetSize(r.Width, r.Height)
}

// RemoveAllHandles clears the handle layer.
func (c *Canvas) RemoveAllHandles() {
	if c.frozen {
		return
	}
	for _, h := range c.handles {
		h.el.Remove()
	}
	c.handles = nil
	c.sf.Clear(surface.HandleLayer)
}

// HandleLabelAt returns the label of the nearest handle within pick
// distance of the canvas point, or "".
func (c *Canvas) HandleLabelAt(pt geom.Vec2) string {
	best := ""
	bestDist := float64(handleRadius * handleRadius)
	for _, h := range c.handles {
		if d := geom.SquaredDistance(h.Pos, pt); d < bestDist {
			best, bestDist = h.Label, d
		}
	}
	return best
}

// UpdateCornerHandles places the corner and rotation handles around the
// selected shape.
func (c *Canvas) UpdateCornerHandles() {
	s := c.Shape(c.current)
	if s == nil {
		return
	}
	g := s.Geometry()
	t := s.Transform()
	center := t.Origin
	sx := t.Axes.X.Scale(g.Width)
	sy := t.Axes.Y.Scale(g.Height)

	leftTop := center.Sub(sx.Add(sy))
	rightTop := center.Add(sx.Sub(sy))
	c.TransformHandle(LabelLeftTop, leftTop, g.Rot)
	c.TransformHandle(LabelRightTop, rightTop, g.Rot)
	c.TransformHandle(LabelLeftBottom, center.Sub(sx.Sub(sy)), g.Rot)
	c.TransformHandle(LabelRightBottom, center.Add(sx.Add(sy)), g.Rot)

	rot := geom.Lerp(leftTop, rightTop, 0.5).Sub(t.Axes.Y.Scale(rotationOffset))
	c.TransformHandle(LabelRotation, rot, g.Rot)
}

// addVertexHandles shows one handle per vertex of p.
func (c *Canvas) addVertexHandles(p shape.VertexShape) {
	for i := range p.Vertices() {
		c.AddHandle(VertexLabel(i), HandleVertex)
	}
	c.updateVertexHandles(p)
}

func (c *Canvas) updateVertexHandles(p shape.VertexShape) {
	rot := p.Geometry().Rot
	for i, v := range p.Vertices() {
		c.TransformHandle(VertexLabel(i), p.ToWorld(v), rot)
	}
}
