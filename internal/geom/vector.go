package geom

import "math"

// Vec2 is a point or displacement in the drawing plane.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale multiplies both components by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// ScaleXY multiplies each component independently.
func (v Vec2) ScaleXY(sx, sy float64) Vec2 {
	return Vec2{v.X * sx, v.Y * sy}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) SquaredMagnitude() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.SquaredMagnitude())
}

// SquaredDistance returns |a-b|².
func SquaredDistance(a, b Vec2) float64 {
	return a.Sub(b).SquaredMagnitude()
}

// Lerp interpolates between a (t=0) and b (t=1).
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// SquaredDistanceToSegment returns the squared distance from p to the
// segment a-b. Degenerate segments measure the distance to a.
func SquaredDistanceToSegment(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	vv := ab.Dot(ab)
	t := 0.0
	if vv >= MinimumValue {
		t = p.Sub(a).Dot(ab) / vv
		t = math.Max(0, math.Min(1, t))
	}
	return SquaredDistance(p, a.Add(ab.Scale(t)))
}

// CrossesLeft reports whether the horizontal ray cast from p towards -x
// crosses the segment a-b. Summing it over a closed polygon gives the
// even-odd inside test.
func CrossesLeft(p, a, b Vec2) bool {
	lo, hi := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	if p.Y < lo || p.Y >= hi {
		return false
	}
	x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
	return x < p.X
}
