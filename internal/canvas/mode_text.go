package canvas

import (
	"math"

	"github.com/inamate/drawkit/internal/drag"
	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/shape"
)

const (
	textPrompt = "Specify text to display"
	// clickTolerance is the squared drag length still treated as a click.
	clickTolerance = 3 * 3
	// minTextWidth is the narrowest box a new text gets before it is
	// widened by textMargin on both sides.
	minTextWidth = 16
	textMargin   = 8
)

// textMode places new text in a dragged box, or edits an existing text
// when it is clicked.
type textMode struct {
	baseMode
	start geom.Vec2
}

func newTextMode(c *Canvas) Handler {
	return &textMode{baseMode: baseMode{c: c}}
}

func (m *textMode) PointerDown(ev drag.Pointer) {
	c := m.c
	if c.Dragging() {
		return
	}
	m.start = c.ClientToCanvas(ev)
	if c.AddHandle(LabelNewText, HandleBox) != nil {
		c.BeginDrag(ev, m.drag, m.dragEnd)
	}
}

// textBounds spans two points with the height of one line of text.
func (m *textMode) textBounds(pt geom.Vec2) geom.Rect {
	r := geom.RectFromPoints(pt, m.start)
	r.Height = m.c.font.Size
	return r
}

func (m *textMode) drag(ev drag.Pointer) {
	r := m.textBounds(m.c.ClientToCanvas(ev))
	r.Width = math.Max(1, r.Width)
	r.Height = math.Max(1, r.Height)
	m.c.SetHandleBox(LabelNewText, r)
}

func (m *textMode) dragEnd(ev drag.Pointer) {
	c := m.c
	pt := c.ClientToCanvas(ev)
	if geom.SquaredDistance(pt, m.start) < clickTolerance {
		if t, ok := c.Shape(c.ShapeIndexAt(m.start.X, m.start.Y)).(*shape.Text); ok {
			c.RemoveAllHandles()
			c.EndDrag()
			c.showPrompt(textPrompt, t.Text(), t.SetText)
			return
		}
	}

	r := geom.RectFromPoints(pt, m.start)
	c.RemoveAllHandles()
	c.EndDrag()
	c.SetMode(ModeMove)
	if r.Width < minTextWidth {
		r.X -= textMargin
		r.Width += 2 * textMargin
	}
	c.showPrompt(textPrompt, "", func(text string) {
		font := c.CurrentFont()
		r.Height = font.Size
		t := shape.NewText(c.sf, c.CurrentStroke(), c.CurrentFill(), font, text)
		c.AddShape(t)
		center := r.Center()
		t.SetTransform(center.X, center.Y, r.Width/2, r.Height/2, 0, false)
		c.SetCurrentShapeIndex(0)
	})
}
