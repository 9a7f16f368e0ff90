// Package canvas is the interactive drawing core: an ordered shape
// collection with a selection and its handles, a set of interaction
// modes driven by pointer events, editing commands and SVG import and
// export. Rendering goes through a surface.Surface; dialogs and
// toolbars are collaborators outside this package.
package canvas

import (
	"errors"
	"log/slog"
	"time"

	"github.com/inamate/drawkit/internal/drag"
	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/shape"
	"github.com/inamate/drawkit/internal/surface"
)

// DoubleClickInterval is the longest gap between two pointer-downs that
// still counts as a double click.
const DoubleClickInterval = 500 * time.Millisecond

// ErrFrozen is returned while a prompt is waiting for its answer.
var ErrFrozen = errors.New("canvas is waiting for a prompt")

// Canvas owns the shapes of one drawing and the interaction state
// around them. It is not safe for concurrent use.
type Canvas struct {
	sf       surface.Surface
	log      *slog.Logger
	prompter Prompter
	origin   geom.Vec2

	modes map[Mode]Handler
	mode  Mode

	shapes  []shape.Shape
	current int
	handles []*Handle

	drag     drag.Tracker
	frozen   bool
	pending  func(result string)
	prompt   Prompt
	lastDown time.Time

	strokeWidth float64
	strokeColor string
	fill        *surface.Fill
	font        surface.Font

	handleStroke *surface.Stroke
	handleFill   *surface.Fill

	listeners []func(Status)
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Canvas) { c.log = l }
}

// WithPrompter sets the collaborator that asks the user for text.
// Without one, prompts are answered with an empty string.
func WithPrompter(p Prompter) Option {
	return func(c *Canvas) { c.prompter = p }
}

// WithOrigin sets the client position of the canvas' top-left corner.
func WithOrigin(x, y float64) Option {
	return func(c *Canvas) { c.origin = geom.V(x, y) }
}

// WithModes replaces the interaction modes.
func WithModes(specs ...ModeSpec) Option {
	return func(c *Canvas) {
		c.modes = make(map[Mode]Handler, len(specs))
		for _, s := range specs {
			c.modes[s.Mode] = s.New(c)
		}
	}
}

// WithInitialMode sets the mode the canvas starts in.
func WithInitialMode(m Mode) Option {
	return func(c *Canvas) { c.mode = m }
}

// New creates an empty canvas drawing onto sf.
func New(sf surface.Surface, opts ...Option) *Canvas {
	c := &Canvas{
		sf:           sf,
		log:          slog.Default(),
		mode:         ModeRect,
		current:      -1,
		strokeWidth:  2,
		strokeColor:  "#000000",
		fill:         surface.SolidFill("#ffff00"),
		font:         surface.Font{Size: shape.DefaultFontSize, Family: "sans-serif"},
		handleStroke: &surface.Stroke{Width: 1, Color: "#000000"},
		handleFill:   &surface.Fill{Color: "#ffffff", Alpha: 0.8},
	}
	WithModes(DefaultModes()...)(c)
	for _, opt := range opts {
		opt(c)
	}
	if _, ok := c.modes[c.mode]; !ok {
		c.mode = ModeMove
	}
	c.handler().Enter(c.current)
	return c
}

// Surface returns the surface shapes are drawn on.
func (c *Canvas) Surface() surface.Surface {
	return c.sf
}

// SetOrigin moves the client position of the canvas' top-left corner.
func (c *Canvas) SetOrigin(x, y float64) {
	c.origin = geom.V(x, y)
}

// ClientToCanvas converts client coordinates to canvas coordinates.
func (c *Canvas) ClientToCanvas(ev drag.Pointer) geom.Vec2 {
	return geom.V(ev.ClientX-c.origin.X, ev.ClientY-c.origin.Y)
}

// Frozen reports whether a prompt is open.
func (c *Canvas) Frozen() bool {
	return c.frozen
}

// PointerDown dispatches a pointer press to the current mode. A second
// press shortly after the first leaves the drawing modes for move mode.
func (c *Canvas) PointerDown(ev drag.Pointer) {
	if c.frozen {
		return
	}
	if !ev.Time.IsZero() && !c.lastDown.IsZero() &&
		ev.Time.Sub(c.lastDown) < DoubleClickInterval &&
		c.mode != ModeMove && c.mode != ModeModify {
		c.SetMode(ModeMove)
	}
	c.lastDown = ev.Time
	c.handler().PointerDown(ev)
}

// PointerMove feeds the active drag, then the current mode.
func (c *Canvas) PointerMove(ev drag.Pointer) {
	if c.frozen {
		return
	}
	c.drag.Move(ev)
	c.handler().PointerMove(ev)
}

// PointerUp finishes the active drag, if any.
func (c *Canvas) PointerUp(ev drag.Pointer) {
	if c.frozen {
		return
	}
	c.drag.Release(ev)
}

// BeginDrag starts a drag session. It fails while frozen or when a drag
// is already running.
func (c *Canvas) BeginDrag(ev drag.Pointer, onMove, onEnd drag.Func) bool {
	if c.frozen {
		return false
	}
	return c.drag.Begin(ev, onMove, onEnd)
}

// EndDrag stops the active drag. It is safe to call at any time.
func (c *Canvas) EndDrag() {
	c.drag.End()
}

func (c *Canvas) Dragging() bool {
	return c.drag.Dragging()
}

// CurrentStroke returns a fresh copy of the stroke new shapes get.
func (c *Canvas) CurrentStroke() *surface.Stroke {
	return &surface.Stroke{Width: c.strokeWidth, Color: c.strokeColor}
}

// CurrentFill returns a copy of the fill new shapes get, or nil.
func (c *Canvas) CurrentFill() *surface.Fill {
	return cloneFill(c.fill)
}

func (c *Canvas) CurrentFont() surface.Font {
	return c.font
}

func cloneFill(f *surface.Fill) *surface.Fill {
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}
