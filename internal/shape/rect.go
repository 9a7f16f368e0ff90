package shape

import (
	"math"

	"github.com/beevik/etree"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/surface"
)

// Rect is a rotated rectangle centred on its position.
type Rect struct {
	styled
}

// NewRect creates a rectangle with default geometry and draws it.
func NewRect(sf surface.Surface, stroke *surface.Stroke, fill *surface.Fill) *Rect {
	r := &Rect{styled: newStyled(sf, stroke, fill)}
	r.recreate(r.draw)
	return r
}

func (r *Rect) Kind() Kind { return KindRect }

func (r *Rect) draw() surface.Element {
	w, h := r.width, r.height
	return r.sf.DrawRect(surface.ShapeLayer, -w, -h, w*2, h*2, r.stroke, r.fill)
}

func (r *Rect) SetTransform(x, y, width, height, rot float64, force bool) {
	r.setTransform(x, y, width, height, rot, force, r.resizeBox)
}

func (r *Rect) Reconstruct() {
	r.reconstruct(r.draw)
}

// Contains hit tests the whole box for filled or tiny rectangles, and
// only the outline band for stroked hollow ones.
func (r *Rect) Contains(x, y float64) bool {
	if r.width < 2 || r.height < 2 || !r.outlineOnly() {
		return r.containsBox(x, y)
	}
	pt := r.Transform().InverseTransform(geom.V(x, y))
	sw := r.strokeHitWidth()
	diffX := math.Abs(pt.X) - r.width
	diffY := math.Abs(pt.Y) - r.height

	var value, limit float64
	switch {
	case diffX*diffX < sw*sw:
		value, limit = pt.Y, r.height+sw
	case diffY*diffY < sw*sw:
		value, limit = pt.X, r.width+sw
	default:
		return false
	}
	return value*value <= limit*limit
}

func (r *Rect) Encode() *etree.Element {
	el := etree.NewElement("rect")
	setNumber(el, "x", -r.width)
	setNumber(el, "y", -r.height)
	setNumber(el, "width", r.width*2)
	setNumber(el, "height", r.height*2)
	r.encodeStyle(el)
	r.encodeTransform(el)
	return el
}

func decodeRect(sf surface.Surface, el *etree.Element) (Shape, error) {
	r := &Rect{styled: newStyled(sf, nil, nil)}
	r.width = attrNumber(el, "width", 10) / 2
	r.height = attrNumber(el, "height", 10) / 2
	r.decodeStyle(el)
	r.clampSize()
	r.decodeTransform(el)
	r.reconstruct(r.draw)
	return r, nil
}
