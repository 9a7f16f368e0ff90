package geom

import "math"

// Box is a rotated rectangle described by its centre and half extents.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the centre of the box.
func (b Box) Center() Vec2 {
	return Vec2{b.X, b.Y}
}

// ComputeBounds returns the box spanned by a dragged point p1 and an
// anchor p2, both in world space, measured in the local frame t. With
// square set the shorter extent grows to match the longer one, away from
// the anchor.
func ComputeBounds(p1, p2 Vec2, t Transform, square bool) Box {
	l1 := t.InverseTransform(p1)
	l2 := t.InverseTransform(p2)
	lt := Vec2{math.Min(l1.X, l2.X), math.Min(l1.Y, l2.Y)}
	rb := Vec2{math.Max(l1.X, l2.X), math.Max(l1.Y, l2.Y)}
	c := Lerp(lt, rb, 0.5)
	size := rb.Sub(c)

	if square {
		if size.X < size.Y {
			adjust := size.Y - size.X
			sign := 1.0
			if l1.X < l2.X {
				sign = -1
			}
			c.X += adjust * sign
			size.X += adjust
		} else {
			adjust := size.X - size.Y
			sign := 1.0
			if l1.Y < l2.Y {
				sign = -1
			}
			c.Y += adjust * sign
			size.Y += adjust
		}
	}

	w := t.Transform(c)
	return Box{X: w.X, Y: w.Y, W: size.X, H: size.Y}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the axis-aligned bounds of pts.
func RectFromPoints(pts ...Vec2) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = Vec2{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)}
		hi = Vec2{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)}
	}
	return Rect{X: lo.X, Y: lo.Y, Width: hi.X - lo.X, Height: hi.Y - lo.Y}
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// IsEmpty returns true if the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}
