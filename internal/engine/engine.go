// Package engine exposes a drawing canvas to the browser: it owns the
// canvas and its retained surface, accepts pointer events and commands
// from the frontend and answers queries as JSON strings.
package engine

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/inamate/drawkit/internal/canvas"
	"github.com/inamate/drawkit/internal/document"
	"github.com/inamate/drawkit/internal/drag"
	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/surface"
)

// Engine is the browser-side drawing engine.
type Engine struct {
	rec *surface.Recorder
	cv  *canvas.Canvas

	// revision increments on every change the frontend may need to
	// repaint for.
	revision int

	onPrompt func(message, value string)
	onStatus func(status string)
}

// NewEngine creates an engine with an empty drawing of the given size.
func NewEngine(width, height float64) *Engine {
	rec := surface.NewRecorder(width, height)
	e := &Engine{rec: rec}
	e.cv = canvas.New(rec,
		canvas.WithLogger(slog.Default().With("component", "engine")),
		canvas.WithPrompter(canvas.PromptFunc(e.showPrompt)),
		canvas.WithInitialMode(canvas.ModeMove),
	)
	e.cv.OnStatusChanged(e.statusChanged)
	return e
}

// OnPrompt registers a callback for prompts opened by the canvas. The
// frontend answers through ClosePrompt.
func (e *Engine) OnPrompt(fn func(message, value string)) {
	e.onPrompt = fn
}

// OnStatus registers a callback receiving the toolbar status as JSON
// whenever it changes.
func (e *Engine) OnStatus(fn func(status string)) {
	e.onStatus = fn
}

func (e *Engine) showPrompt(message, value string) {
	e.touch()
	if e.onPrompt != nil {
		e.onPrompt(message, value)
	}
}

func (e *Engine) statusChanged(canvas.Status) {
	e.touch()
	if e.onStatus != nil {
		e.onStatus(e.Status())
	}
}

// Canvas returns the underlying canvas.
func (e *Engine) Canvas() *canvas.Canvas {
	return e.cv
}

// --- Commands (frontend → backend) ---

// LoadSVG replaces the drawing with the shapes in markup.
func (e *Engine) LoadSVG(markup string) error {
	defer e.touch()
	return e.cv.ImportString(markup)
}

// LoadSampleDrawing loads the built-in sample drawing.
func (e *Engine) LoadSampleDrawing() error {
	markup, err := document.SampleMarkup(e.rec.Size())
	if err != nil {
		return err
	}
	return e.LoadSVG(markup)
}

// Resize changes the drawing size used for new images and exports.
func (e *Engine) Resize(width, height float64) {
	e.rec.Resize(width, height)
	e.touch()
}

// SetOrigin sets the client position of the canvas element.
func (e *Engine) SetOrigin(x, y float64) {
	e.cv.SetOrigin(x, y)
}

// PointerDown forwards a press. timeMs is the event timestamp in
// milliseconds; zero disables double click detection for the event.
func (e *Engine) PointerDown(x, y float64, shift bool, timeMs float64) {
	e.cv.PointerDown(pointer(x, y, shift, timeMs))
	e.touch()
}

func (e *Engine) PointerMove(x, y float64, shift bool, timeMs float64) {
	e.cv.PointerMove(pointer(x, y, shift, timeMs))
	e.touch()
}

func (e *Engine) PointerUp(x, y float64, shift bool, timeMs float64) {
	e.cv.PointerUp(pointer(x, y, shift, timeMs))
	e.touch()
}

// Exec runs a toolbar command.
func (e *Engine) Exec(cmd, arg string) error {
	defer e.touch()
	return e.cv.Exec(canvas.Command(cmd), arg)
}

// ClosePrompt answers the pending prompt. An empty result cancels it.
func (e *Engine) ClosePrompt(result string) {
	e.cv.ClosePrompt(result)
	e.touch()
}

func (e *Engine) touch() {
	e.revision++
}

func pointer(x, y float64, shift bool, timeMs float64) drag.Pointer {
	ev := drag.Pointer{ClientX: x, ClientY: y, Shift: shift}
	if timeMs > 0 {
		ev.Time = time.UnixMilli(0).Add(time.Duration(timeMs * float64(time.Millisecond)))
	}
	return ev
}

// --- Queries (frontend ← backend) ---

// Render returns the draw commands of the current scene as JSON.
func (e *Engine) Render() string {
	result, _ := surface.DrawCommandsToJSON(e.rec.Commands())
	return result
}

// Revision returns a counter that changes whenever the scene may have.
func (e *Engine) Revision() int {
	return e.revision
}

// ExportSVG returns the drawing as SVG markup.
func (e *Engine) ExportSVG() (string, error) {
	return e.cv.ExportString()
}

// Status returns the toolbar status as JSON.
func (e *Engine) Status() string {
	data, _ := json.Marshal(e.cv.Status())
	return string(data)
}

// HitTest returns the index of the topmost shape at a canvas point, or -1.
func (e *Engine) HitTest(x, y float64) int {
	return e.cv.ShapeIndexAt(x, y)
}

// SelectionBounds returns the axis-aligned bounds of the selected shape
// as JSON. Without a selection the rectangle is empty.
func (e *Engine) SelectionBounds() string {
	var r geom.Rect
	if s := e.cv.Shape(e.cv.CurrentShapeIndex()); s != nil {
		g := s.Geometry()
		t := s.Transform()
		r = geom.RectFromPoints(
			t.Transform(geom.V(-g.Width, -g.Height)),
			t.Transform(geom.V(g.Width, -g.Height)),
			t.Transform(geom.V(g.Width, g.Height)),
			t.Transform(geom.V(-g.Width, g.Height)),
		)
	}
	data, _ := json.Marshal(r)
	return string(data)
}

// PendingPrompt returns the open prompt as JSON, or "null".
func (e *Engine) PendingPrompt() string {
	p, ok := e.cv.PendingPrompt()
	if !ok {
		return "null"
	}
	data, _ := json.Marshal(p)
	return string(data)
}

// Mode returns the active interaction mode.
func (e *Engine) Mode() string {
	return string(e.cv.Mode())
}

// ShapeCount returns the number of shapes in the drawing.
func (e *Engine) ShapeCount() int {
	return e.cv.ShapeCount()
}
