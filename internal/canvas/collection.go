package canvas

import (
	"fmt"
	"slices"

	"github.com/inamate/drawkit/internal/shape"
	"github.com/inamate/drawkit/internal/surface"
)

// Shape returns the shape at index, or nil. Index 0 is the topmost shape.
func (c *Canvas) Shape(index int) shape.Shape {
	if index < 0 || index >= len(c.shapes) {
		return nil
	}
	return c.shapes[index]
}

func (c *Canvas) ShapeCount() int {
	return len(c.shapes)
}

// ShapeIndexAt returns the index of the topmost shape containing the
// canvas point, or -1.
func (c *Canvas) ShapeIndexAt(x, y float64) int {
	for i, s := range c.shapes {
		if s.Contains(x, y) {
			return i
		}
	}
	return -1
}

// AddShape puts a shape on top of the stack.
func (c *Canvas) AddShape(s shape.Shape) {
	if c.frozen {
		return
	}
	c.shapes = slices.Insert(c.shapes, 0, s)
	if c.current >= 0 {
		c.current++
	}
}

// DeleteShape removes and disposes the shape at index. The selection
// keeps pointing at the same shape, or is cleared when it was deleted.
func (c *Canvas) DeleteShape(index int) {
	if c.frozen || index < 0 || index >= len(c.shapes) {
		return
	}
	switch {
	case c.current == index:
		c.SetCurrentShapeIndex(-1)
	case index < c.current:
		c.current--
	}
	s := c.shapes[index]
	c.shapes = slices.Delete(c.shapes, index, index+1)
	s.Dispose()
}

// Clear removes every shape and returns to move mode.
func (c *Canvas) Clear() {
	if c.frozen {
		return
	}
	c.SetMode(ModeMove)
	c.SetCurrentShapeIndex(-1)
	for _, s := range c.shapes {
		s.Dispose()
	}
	c.sf.Clear(surface.ShapeLayer)
	c.shapes = nil
}

// ReconstructShapes redraws every shape bottom to top so the surface
// order matches the collection.
func (c *Canvas) ReconstructShapes() {
	c.sf.Clear(surface.ShapeLayer)
	for i := len(c.shapes) - 1; i >= 0; i-- {
		c.shapes[i].Reconstruct()
	}
}

func (c *Canvas) CurrentShapeIndex() int {
	return c.current
}

// SetCurrentShapeIndex selects a shape, or clears the selection with -1.
// Selecting shows corner and rotation handles and adopts the shape's
// style as the current style.
func (c *Canvas) SetCurrentShapeIndex(index int) {
	if index < 0 || index >= len(c.shapes) {
		index = -1
	}
	if c.frozen || c.current == index {
		return
	}
	c.RemoveAllHandles()
	c.current = index
	if index >= 0 {
		s := c.shapes[index]
		for _, label := range cornerLabels {
			c.AddHandle(label, HandleCorner)
		}
		c.AddHandle(LabelRotation, HandleRotation)
		c.UpdateCornerHandles()
		c.adoptStyle(s)
	}
	c.emitStatus()
}

func (c *Canvas) adoptStyle(s shape.Shape) {
	if st, ok := s.(shape.Styled); ok {
		if stroke := st.Stroke(); stroke != nil {
			c.strokeWidth = stroke.Width
			c.strokeColor = stroke.Color
		}
		c.fill = cloneFill(st.Fill())
	}
	if t, ok := s.(*shape.Text); ok {
		c.font = t.Font()
	}
}

// BringTo moves the selected shape to pos in the stack, or by pos when
// relative is set, clamped to the stack, and keeps it selected.
func (c *Canvas) BringTo(pos int, relative bool) {
	n := len(c.shapes)
	if c.frozen || n < 2 || c.current < 0 {
		return
	}
	index := c.current
	if relative {
		pos += index
	}
	pos = max(0, min(pos, n-1))
	if pos == index {
		return
	}

	s := c.shapes[index]
	c.SetCurrentShapeIndex(-1)
	c.shapes = slices.Delete(c.shapes, index, index+1)
	c.shapes = slices.Insert(c.shapes, pos, s)
	c.ReconstructShapes()
	c.SetCurrentShapeIndex(pos)
}

// CopyShape duplicates the shape at index through its markup and
// selects the copy in move mode.
func (c *Canvas) CopyShape(index int) error {
	s := c.Shape(index)
	if s == nil || c.frozen {
		return nil
	}
	c.SetCurrentShapeIndex(-1)
	c.SetMode(ModeMove)

	dup, err := shape.Decode(c.sf, s.Encode())
	if err != nil {
		return fmt.Errorf("copy shape %d: %w", index, err)
	}
	c.AddShape(dup)
	c.SetCurrentShapeIndex(0)
	return nil
}

// indexOf returns the index of s in the collection, or -1.
func (c *Canvas) indexOf(s shape.Shape) int {
	for i, t := range c.shapes {
		if t == s {
			return i
		}
	}
	return -1
}
