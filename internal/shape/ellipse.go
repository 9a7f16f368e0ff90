package shape

import (
	"math"

	"github.com/beevik/etree"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/surface"
)

// Ellipse is a rotated ellipse whose radii are the half extents.
type Ellipse struct {
	styled
}

func NewEllipse(sf surface.Surface, stroke *surface.Stroke, fill *surface.Fill) *Ellipse {
	e := &Ellipse{styled: newStyled(sf, stroke, fill)}
	e.recreate(e.draw)
	return e
}

func (e *Ellipse) Kind() Kind { return KindEllipse }

func (e *Ellipse) draw() surface.Element {
	return e.sf.DrawEllipse(surface.ShapeLayer, 0, 0, e.width, e.height, e.stroke, e.fill)
}

func (e *Ellipse) resize() {
	e.el.SetRadius(e.width, e.height)
}

func (e *Ellipse) SetTransform(x, y, width, height, rot float64, force bool) {
	e.setTransform(x, y, width, height, rot, force, e.resize)
}

func (e *Ellipse) Reconstruct() {
	e.reconstruct(e.draw)
}

// Contains squashes the ellipse into a circle of the smaller radius and
// tests the disc, or only the outline band for stroked hollow ellipses.
func (e *Ellipse) Contains(x, y float64) bool {
	if e.width < 2 || e.height < 2 {
		return e.containsBox(x, y)
	}
	pt := e.Transform().InverseTransform(geom.V(x, y))
	var radius float64
	if e.width < e.height {
		pt.Y *= e.width / e.height
		radius = e.width
	} else {
		pt.X *= e.height / e.width
		radius = e.height
	}
	if !e.outlineOnly() {
		return pt.Magnitude() <= radius
	}
	return math.Abs(pt.Magnitude()-radius) <= e.strokeHitWidth()
}

func (e *Ellipse) Encode() *etree.Element {
	el := etree.NewElement("ellipse")
	setNumber(el, "cx", 0)
	setNumber(el, "cy", 0)
	setNumber(el, "rx", e.width)
	setNumber(el, "ry", e.height)
	e.encodeStyle(el)
	e.encodeTransform(el)
	return el
}

func decodeEllipse(sf surface.Surface, el *etree.Element) (Shape, error) {
	e := &Ellipse{styled: newStyled(sf, nil, nil)}
	e.width = attrNumber(el, "rx", 10)
	e.height = attrNumber(el, "ry", 10)
	e.decodeStyle(el)
	e.clampSize()
	e.decodeTransform(el)
	e.reconstruct(e.draw)
	return e, nil
}
