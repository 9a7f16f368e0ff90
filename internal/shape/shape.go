// Package shape implements the drawable shapes of a drawing: their
// placement, hit testing and SVG markup form.
package shape

import (
	"math"

	"github.com/beevik/etree"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/surface"
)

// Kind identifies a shape variant.
type Kind string

const (
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindPath    Kind = "path"
	KindText    Kind = "text"
	KindImage   Kind = "image"
)

// Geometry is the placement of a shape: centre, half extents and
// clockwise rotation in degrees.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rot    float64 `json:"rot"`
}

// Shape is implemented by every drawable variant.
type Shape interface {
	Kind() Kind
	Geometry() Geometry
	// SetTransform places the shape. Half extents are clamped to
	// geom.MinimumValue. Unchanged values are skipped unless force is set.
	SetTransform(x, y, width, height, rot float64, force bool)
	Transform() geom.Transform
	// Contains hit tests a world point.
	Contains(x, y float64) bool
	// Encode returns the shape's SVG element.
	Encode() *etree.Element
	// Reconstruct draws a fresh element on top of the shape layer.
	Reconstruct()
	Dispose()
	IsPath() bool
	IsText() bool
}

// Styled is implemented by shapes with an outline and a fill.
type Styled interface {
	Shape
	Stroke() *surface.Stroke
	SetStroke(s *surface.Stroke)
	Fill() *surface.Fill
	SetFill(f *surface.Fill)
}

// VertexShape is implemented by shapes whose outline is made of
// editable vertices.
type VertexShape interface {
	Styled
	Vertices() []geom.Vec2
	SetVertex(i int, v geom.Vec2)
	ToWorld(v geom.Vec2) geom.Vec2
	ToLocal(p geom.Vec2) geom.Vec2
	UpdatePath()
	UpdateBounds()
}

type base struct {
	sf     surface.Surface
	el     surface.Element
	x, y   float64
	width  float64
	height float64
	rot    float64
}

func newBase(sf surface.Surface) base {
	return base{sf: sf, width: 0.5, height: 0.5}
}

func (b *base) Geometry() Geometry {
	return Geometry{X: b.x, Y: b.y, Width: b.width, Height: b.height, Rot: b.rot}
}

func (b *base) Transform() geom.Transform {
	return geom.NewTransform(b.x, b.y, b.rot)
}

func (b *base) IsPath() bool { return false }
func (b *base) IsText() bool { return false }

func (b *base) Dispose() {
	b.removeElement()
}

func (b *base) removeElement() {
	if b.el != nil {
		b.el.Remove()
		b.el = nil
	}
}

func (b *base) recreate(draw func() surface.Element) {
	b.removeElement()
	b.el = draw()
}

func (b *base) reconstruct(draw func() surface.Element) {
	b.recreate(draw)
	b.el.SetTransformation(b.x, b.y, b.rot, 0, 0)
}

func (b *base) clampSize() {
	b.width = math.Max(geom.MinimumValue, b.width)
	b.height = math.Max(geom.MinimumValue, b.height)
}

// containsBox is the default hit test: the local box grown by one unit.
func (b *base) containsBox(x, y float64) bool {
	pt := b.Transform().InverseTransform(geom.V(x, y))
	return math.Abs(pt.X) < b.width+1 && math.Abs(pt.Y) < b.height+1
}

func (b *base) setTransform(x, y, width, height, rot float64, force bool, resized func()) {
	if force || b.width != width || b.height != height {
		b.width = math.Max(geom.MinimumValue, width)
		b.height = math.Max(geom.MinimumValue, height)
		resized()
	}
	if force || b.x != x || b.y != y || b.rot != rot {
		b.x, b.y, b.rot = x, y, rot
		b.el.SetTransformation(x, y, rot, 0, 0)
	}
}

// resizeBox keeps a box element centred on the local origin.
func (b *base) resizeBox() {
	b.el.SetPosition(-b.width, -b.height)
	b.el.SetSize(b.width*2, b.height*2)
}

type styled struct {
	base
	stroke *surface.Stroke
	fill   *surface.Fill
}

func newStyled(sf surface.Surface, s *surface.Stroke, f *surface.Fill) styled {
	return styled{base: newBase(sf), stroke: s, fill: f}
}

func (s *styled) Stroke() *surface.Stroke { return s.stroke }
func (s *styled) Fill() *surface.Fill     { return s.fill }

func (s *styled) SetStroke(stroke *surface.Stroke) {
	s.stroke = stroke
	s.el.SetStroke(stroke)
}

func (s *styled) SetFill(fill *surface.Fill) {
	s.fill = fill
	s.el.SetFill(fill)
}

// strokeHitWidth is the tolerance used when hit testing outlines.
func (s *styled) strokeHitWidth() float64 {
	if s.stroke == nil {
		return 2
	}
	return math.Max(2, s.stroke.Width/2)
}

// outlineOnly reports whether only the stroke band is hittable.
func (s *styled) outlineOnly() bool {
	return s.stroke != nil && s.fill == nil
}
