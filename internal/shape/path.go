package shape

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/surface"
)

// Path is a polyline or polygon. Vertices live in their own space;
// center and size describe their bounding box there, and the shape's
// half extents stretch that box onto the placed shape.
type Path struct {
	styled
	vertices []geom.Vec2
	closed   bool
	center   geom.Vec2
	size     geom.Vec2
	cached   geom.Transform
}

// NewPath creates an empty path. Until its bounds are updated, vertex
// space coincides with world space.
func NewPath(sf surface.Surface, stroke *surface.Stroke, fill *surface.Fill) *Path {
	p := &Path{
		styled: newStyled(sf, stroke, fill),
		size:   geom.V(0.5, 0.5),
		cached: geom.NewTransform(0, 0, 0),
	}
	p.recreate(p.draw)
	return p
}

func (p *Path) Kind() Kind   { return KindPath }
func (p *Path) IsPath() bool { return true }

// Vertices returns the vertex list. Callers must not retain it across
// mutations.
func (p *Path) Vertices() []geom.Vec2 { return p.vertices }

func (p *Path) SetVertex(i int, v geom.Vec2) {
	p.vertices[i] = v
}

func (p *Path) AddVertex(v geom.Vec2) {
	p.vertices = append(p.vertices, v)
}

// RemoveLastVertex drops the final vertex, if any.
func (p *Path) RemoveLastVertex() {
	if n := len(p.vertices); n > 0 {
		p.vertices = p.vertices[:n-1]
	}
}

func (p *Path) Closed() bool { return p.closed }

func (p *Path) SetClosed(closed bool) {
	p.closed = closed
}

func (p *Path) scale() (float64, float64) {
	return p.width / p.size.X, p.height / p.size.Y
}

// outline returns the vertices stretched by the current scale, in the
// element's coordinate space.
func (p *Path) outline() surface.Path {
	sx, sy := p.scale()
	pts := make([]geom.Vec2, len(p.vertices))
	for i, v := range p.vertices {
		pts[i] = v.ScaleXY(sx, sy)
	}
	return surface.Path{Points: pts, Closed: p.closed && len(pts) > 0}
}

func (p *Path) draw() surface.Element {
	return p.sf.DrawPath(surface.ShapeLayer, p.outline(), p.stroke, p.fill)
}

// UpdatePath pushes the current vertices to the element.
func (p *Path) UpdatePath() {
	p.el.SetPath(p.outline())
}

func (p *Path) pivot() geom.Vec2 {
	sx, sy := p.scale()
	return p.center.ScaleXY(sx, sy)
}

func (p *Path) SetTransform(x, y, width, height, rot float64, force bool) {
	update := false
	if force || p.width != width || p.height != height {
		p.width = math.Max(geom.MinimumValue, width)
		p.height = math.Max(geom.MinimumValue, height)
		update = true
	}
	if force || update || p.x != x || p.y != y || p.rot != rot {
		c := p.pivot()
		p.x, p.y, p.rot = x, y, rot
		p.el.SetTransformation(x-c.X, y-c.Y, rot, c.X, c.Y)
		p.cached = p.Transform()
	}
	if update {
		p.UpdatePath()
	}
}

func (p *Path) Reconstruct() {
	p.recreate(p.draw)
	p.SetTransform(p.x, p.y, p.width, p.height, p.rot, true)
}

// vertexBounds returns the centre and half extents of the vertices.
func (p *Path) vertexBounds() (geom.Vec2, geom.Vec2) {
	lo := geom.V(math.MaxFloat64, math.MaxFloat64)
	hi := geom.V(-math.MaxFloat64, -math.MaxFloat64)
	for _, v := range p.vertices {
		lo = geom.V(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y))
		hi = geom.V(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y))
	}
	center := geom.V((hi.X+lo.X)/2, (hi.Y+lo.Y)/2)
	size := geom.V(
		math.Max(geom.MinimumValue, (hi.X-lo.X)/2),
		math.Max(geom.MinimumValue, (hi.Y-lo.Y)/2))
	return center, size
}

// UpdateBounds refits center and size to the vertices after editing and
// moves the shape so nothing shifts on screen.
func (p *Path) UpdateBounds() {
	oldCenter := p.center
	sx, sy := p.scale()
	axes := p.cached.Axes
	p.center, p.size = p.vertexBounds()

	offX := (p.center.X - oldCenter.X) * sx
	offY := (p.center.Y - oldCenter.Y) * sy
	p.SetTransform(
		p.x+axes.X.X*offX+axes.Y.X*offY,
		p.y+axes.X.Y*offX+axes.Y.Y*offY,
		p.size.X*sx,
		p.size.Y*sy,
		p.rot, false)
}

// ToWorld maps a vertex to world space.
func (p *Path) ToWorld(v geom.Vec2) geom.Vec2 {
	sx, sy := p.scale()
	return p.cached.Transform(v.Sub(p.center).ScaleXY(sx, sy))
}

// ToLocal maps a world point into vertex space.
func (p *Path) ToLocal(pt geom.Vec2) geom.Vec2 {
	q := p.cached.InverseTransform(pt)
	return geom.V(q.X*p.size.X/p.width+p.center.X, q.Y*p.size.Y/p.height+p.center.Y)
}

// Contains tests the polygon interior with the even-odd rule when the
// path is filled (or unstroked), otherwise the distance to its segments.
func (p *Path) Contains(x, y float64) bool {
	n := len(p.vertices)
	if n <= 1 || p.width < 2 || p.height < 2 {
		return p.containsBox(x, y)
	}
	pt := p.ToLocal(geom.V(x, y))
	vs := p.vertices

	if n > 2 && !p.outlineOnly() {
		inside := false
		for i := range vs {
			if geom.CrossesLeft(pt, vs[i], vs[(i+1)%n]) {
				inside = !inside
			}
		}
		return inside
	}

	limit := p.strokeHitWidth() * math.Max(p.size.X/p.width, p.size.Y/p.height)
	limit *= limit
	for i := 1; i < n; i++ {
		if geom.SquaredDistanceToSegment(pt, vs[i-1], vs[i]) <= limit {
			return true
		}
	}
	return p.closed && geom.SquaredDistanceToSegment(pt, vs[n-1], vs[0]) <= limit
}

func (p *Path) Encode() *etree.Element {
	var d []string
	for i, v := range p.outline().Points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		d = append(d, op, formatNumber(v.X), formatNumber(v.Y))
	}
	if p.closed && len(p.vertices) > 0 {
		d = append(d, "Z")
	}

	el := etree.NewElement("path")
	el.CreateAttr("shape", p.variant())
	el.CreateAttr("d", strings.Join(d, " "))
	p.encodeStyle(el)

	c := p.pivot()
	el.CreateAttr("transform", fmt.Sprintf("translate(%s,%s) rotate(%s %s %s)",
		formatNumber(p.x-c.X), formatNumber(p.y-c.Y),
		formatNumber(p.rot), formatNumber(c.X), formatNumber(c.Y)))
	return el
}

var pathTokenRe = regexp.MustCompile(`[A-Za-z]|[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// parsePathData reads absolute move/line/close path data.
func parsePathData(d string) ([]geom.Vec2, bool, error) {
	var nums []float64
	closed := false
	for _, tok := range pathTokenRe.FindAllString(d, -1) {
		switch {
		case tok == "M" || tok == "L":
		case tok == "Z" || tok == "z":
			closed = true
		case unicode.IsLetter(rune(tok[0])):
			return nil, false, fmt.Errorf("%w: %q", ErrUnsupportedSegment, tok)
		default:
			v, err := parseNumber(tok)
			if err != nil {
				return nil, false, err
			}
			nums = append(nums, v)
		}
	}

	vertices := make([]geom.Vec2, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		vertices = append(vertices, geom.V(nums[i], nums[i+1]))
	}
	return vertices, closed, nil
}

func (p *Path) variant() string {
	if p.closed {
		return "polygon"
	}
	return "polyline"
}

// decodePathAs decodes a path whose shape attribute fixes whether it is
// closed, regardless of a trailing Z in its data.
func decodePathAs(closed bool) decodeFunc {
	return func(sf surface.Surface, el *etree.Element) (Shape, error) {
		return decodePathClosed(sf, el, &closed)
	}
}

func decodePath(sf surface.Surface, el *etree.Element) (Shape, error) {
	return decodePathClosed(sf, el, nil)
}

func decodePathClosed(sf surface.Surface, el *etree.Element, force *bool) (Shape, error) {
	vertices, closed, err := parsePathData(el.SelectAttrValue("d", ""))
	if err != nil {
		return nil, err
	}
	if force != nil {
		closed = *force
	}

	p := &Path{styled: newStyled(sf, nil, nil), vertices: vertices, closed: closed}
	p.center, p.size = p.vertexBounds()
	p.width, p.height = p.size.X, p.size.Y

	p.decodeStyle(el)
	p.decodeTransform(el)
	p.x += p.center.X
	p.y += p.center.Y
	p.Reconstruct()
	return p, nil
}
