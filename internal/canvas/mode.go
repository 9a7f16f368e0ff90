package canvas

import "github.com/inamate/drawkit/internal/drag"

// Mode names an interaction mode.
type Mode string

const (
	ModeMove    Mode = "move"
	ModeModify  Mode = "modify"
	ModeRect    Mode = "rect"
	ModeEllipse Mode = "ellipse"
	ModePath    Mode = "path"
	ModeText    Mode = "text"
)

// Handler interprets pointer events for one mode.
type Handler interface {
	// Enter activates the mode with the shape index the previous mode
	// returned from Exit.
	Enter(index int)
	// Exit deactivates the mode and returns the index to hand over.
	Exit() int
	PointerDown(ev drag.Pointer)
	PointerMove(ev drag.Pointer)
}

// ModeSpec binds a mode name to its handler constructor.
type ModeSpec struct {
	Mode Mode
	New  func(c *Canvas) Handler
}

// DefaultModes returns the built-in modes.
func DefaultModes() []ModeSpec {
	return []ModeSpec{
		{ModeMove, newMoveMode},
		{ModeModify, newModifyMode},
		{ModeRect, newRectMode},
		{ModeEllipse, newEllipseMode},
		{ModePath, newPathMode},
		{ModeText, newTextMode},
	}
}

// baseMode supplies the default hooks.
type baseMode struct {
	c *Canvas
}

func (m *baseMode) Enter(int) {}

func (m *baseMode) Exit() int {
	return m.c.current
}

func (m *baseMode) PointerMove(drag.Pointer) {}

func (c *Canvas) handler() Handler {
	return c.modes[c.mode]
}

// Mode returns the active mode.
func (c *Canvas) Mode() Mode {
	return c.mode
}

// SetMode switches modes. The old mode's Exit result is handed to the
// new mode's Enter. Unknown modes and the active mode are ignored.
func (c *Canvas) SetMode(m Mode) {
	next, ok := c.modes[m]
	if !ok || m == c.mode || c.frozen {
		return
	}
	index := c.handler().Exit()
	c.EndDrag()
	c.SetCurrentShapeIndex(-1)
	c.RemoveAllHandles()

	c.log.Debug("mode changed", "from", c.mode, "to", m)
	c.mode = m
	c.emitStatus()
	next.Enter(index)
}
