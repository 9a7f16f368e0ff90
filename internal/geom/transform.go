package geom

import "math"

// MinimumValue is the smallest half extent a shape may have. It also
// guards divisions by near zero lengths.
const MinimumValue = 0.01

// Axes holds the rotated unit x and y axes of a local frame.
type Axes struct {
	X Vec2
	Y Vec2
}

// ComputeAxes returns the axes for a clockwise rotation in degrees
// (screen coordinates, y pointing down).
func ComputeAxes(degrees float64) Axes {
	rad := degrees * math.Pi / 180.0
	c, s := math.Cos(rad), math.Sin(rad)
	return Axes{X: Vec2{c, s}, Y: Vec2{-s, c}}
}

// Transform maps local shape coordinates to world coordinates:
// world = Origin + Axes.X*local.X + Axes.Y*local.Y.
type Transform struct {
	Origin Vec2
	Axes   Axes
}

// NewTransform builds the transform of a shape centred at (x, y) and
// rotated by rot degrees.
func NewTransform(x, y, rot float64) Transform {
	return Transform{Origin: Vec2{x, y}, Axes: ComputeAxes(rot)}
}

// Transform maps a local point into world space.
func (t Transform) Transform(p Vec2) Vec2 {
	return t.Origin.Add(t.Axes.X.Scale(p.X)).Add(t.Axes.Y.Scale(p.Y))
}

// InverseTransform maps a world point into local space.
func (t Transform) InverseTransform(p Vec2) Vec2 {
	d := p.Sub(t.Origin)
	return Vec2{d.Dot(t.Axes.X), d.Dot(t.Axes.Y)}
}
