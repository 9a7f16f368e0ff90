// Package surface defines the drawing surface shapes and handles render
// onto, plus a retained in-memory implementation that compiles the
// current scene into draw commands.
package surface

import "github.com/inamate/drawkit/internal/geom"

// Layer selects the group an element is drawn into. Handles always
// paint above shapes.
type Layer int

const (
	ShapeLayer Layer = iota
	HandleLayer
)

func (l Layer) String() string {
	if l == HandleLayer {
		return "handles"
	}
	return "shapes"
}

// Stroke is an outline style. A nil *Stroke means no outline.
type Stroke struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// Fill is a solid paint. A nil *Fill means no fill.
type Fill struct {
	Color string  `json:"color"`
	Alpha float64 `json:"alpha"`
}

// SolidFill returns an opaque fill.
func SolidFill(color string) *Fill {
	return &Fill{Color: color, Alpha: 1}
}

// Font describes the face used by text elements.
type Font struct {
	Size   float64 `json:"size"`
	Family string  `json:"family"`
}

// Path is a polyline made of move/line segments, optionally closed.
type Path struct {
	Points []geom.Vec2
	Closed bool
}

// Element is a handle to something drawn on a surface. Operations that
// do not apply to an element's kind are ignored.
type Element interface {
	// SetTransformation places the element with
	// translate(x, y) rotate(rot, cx, cy).
	SetTransformation(x, y, rot, cx, cy float64)
	SetStroke(s *Stroke)
	SetFill(f *Fill)
	SetPosition(x, y float64)
	SetSize(w, h float64)
	SetRadius(rx, ry float64)
	SetPath(p Path)
	SetText(text string)
	// SetBaseline moves the line a text element is laid out along.
	SetBaseline(from, to geom.Vec2)
	SetSource(url string)
	Remove()
}

// Surface creates elements. All coordinates are in the element's local
// frame; placement is applied through Element.SetTransformation.
type Surface interface {
	DrawRect(l Layer, x, y, w, h float64, s *Stroke, f *Fill) Element
	DrawEllipse(l Layer, cx, cy, rx, ry float64, s *Stroke, f *Fill) Element
	DrawPath(l Layer, p Path, s *Stroke, f *Fill) Element
	// DrawText lays text out centred along the baseline from-to.
	DrawText(l Layer, text string, from, to geom.Vec2, font Font, s *Stroke, f *Fill) Element
	DrawImage(l Layer, x, y, w, h float64, url string) Element
	Clear(l Layer)
	Size() (w, h float64)
}
