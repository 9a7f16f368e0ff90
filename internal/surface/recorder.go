package surface

import (
	"encoding/json"
	"slices"

	"github.com/inamate/drawkit/internal/geom"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"` // "rect", "ellipse", "path", "text", "image"
	ID          int           `json:"id"`
	Layer       string        `json:"layer"`
	Transform   []float64     `json:"transform"` // [a, b, c, d, e, f] affine matrix
	X           float64       `json:"x,omitempty"`
	Y           float64       `json:"y,omitempty"`
	Width       float64       `json:"width,omitempty"`
	Height      float64       `json:"height,omitempty"`
	RX          float64       `json:"rx,omitempty"`
	RY          float64       `json:"ry,omitempty"`
	Path        []PathCommand `json:"path,omitempty"`
	Text        string        `json:"text,omitempty"`
	From        *geom.Vec2    `json:"from,omitempty"`
	To          *geom.Vec2    `json:"to,omitempty"`
	Font        *Font         `json:"font,omitempty"`
	Href        string        `json:"href,omitempty"`
	Fill        string        `json:"fill,omitempty"`
	FillAlpha   float64       `json:"fillAlpha,omitempty"`
	Stroke      string        `json:"stroke,omitempty"`
	StrokeWidth float64       `json:"strokeWidth,omitempty"`
}

// PathCommand is a single segment: ["M", x, y], ["L", x, y] or ["Z"].
type PathCommand []interface{}

// Recorder is a retained Surface. It keeps every live element per layer
// in creation order and compiles them into draw commands on demand.
type Recorder struct {
	width, height float64
	layers        [2][]*recElement
	nextID        int
}

// NewRecorder creates a recorder for a surface of the given pixel size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Size() (float64, float64) {
	return r.width, r.height
}

// Resize changes the reported surface size.
func (r *Recorder) Resize(width, height float64) {
	r.width, r.height = width, height
}

func (r *Recorder) add(l Layer, e *recElement) Element {
	r.nextID++
	e.rec = r
	e.id = r.nextID
	e.layer = l
	e.matrix = geom.Identity()
	r.layers[l] = append(r.layers[l], e)
	return e
}

func (r *Recorder) DrawRect(l Layer, x, y, w, h float64, s *Stroke, f *Fill) Element {
	return r.add(l, &recElement{op: "rect", x: x, y: y, w: w, h: h, stroke: s, fill: f})
}

func (r *Recorder) DrawEllipse(l Layer, cx, cy, rx, ry float64, s *Stroke, f *Fill) Element {
	return r.add(l, &recElement{op: "ellipse", x: cx, y: cy, rx: rx, ry: ry, stroke: s, fill: f})
}

func (r *Recorder) DrawPath(l Layer, p Path, s *Stroke, f *Fill) Element {
	return r.add(l, &recElement{op: "path", path: clonePath(p), stroke: s, fill: f})
}

func (r *Recorder) DrawText(l Layer, text string, from, to geom.Vec2, font Font, s *Stroke, f *Fill) Element {
	return r.add(l, &recElement{op: "text", text: text, from: from, to: to, font: font, stroke: s, fill: f})
}

func (r *Recorder) DrawImage(l Layer, x, y, w, h float64, url string) Element {
	return r.add(l, &recElement{op: "image", x: x, y: y, w: w, h: h, url: url})
}

// Clear drops every element of a layer.
func (r *Recorder) Clear(l Layer) {
	for _, e := range r.layers[l] {
		e.removed = true
	}
	r.layers[l] = nil
}

// Len returns the number of live elements in a layer.
func (r *Recorder) Len(l Layer) int {
	return len(r.layers[l])
}

// Commands compiles the live elements into draw commands.
// Commands are in painter's order (back to front), shapes before handles.
func (r *Recorder) Commands() []DrawCommand {
	var commands []DrawCommand
	for l := range r.layers {
		for _, e := range r.layers[l] {
			commands = append(commands, e.command())
		}
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

type recElement struct {
	rec     *Recorder
	id      int
	layer   Layer
	op      string
	x, y    float64
	w, h    float64
	rx, ry  float64
	path    Path
	text    string
	from    geom.Vec2
	to      geom.Vec2
	font    Font
	url     string
	stroke  *Stroke
	fill    *Fill
	matrix  geom.Matrix2D
	removed bool
}

func (e *recElement) SetTransformation(x, y, rot, cx, cy float64) {
	e.matrix = geom.Placement(x, y, rot, cx, cy)
}

func (e *recElement) SetStroke(s *Stroke)  { e.stroke = s }
func (e *recElement) SetFill(f *Fill)      { e.fill = f }
func (e *recElement) SetText(text string)  { e.text = text }
func (e *recElement) SetSource(url string) { e.url = url }

func (e *recElement) SetBaseline(from, to geom.Vec2) {
	e.from, e.to = from, to
}

func (e *recElement) SetPosition(x, y float64) {
	e.x, e.y = x, y
}

func (e *recElement) SetSize(w, h float64) {
	e.w, e.h = w, h
}

func (e *recElement) SetRadius(rx, ry float64) {
	e.rx, e.ry = rx, ry
}

func (e *recElement) SetPath(p Path) {
	e.path = clonePath(p)
}

func (e *recElement) Remove() {
	if e.removed {
		return
	}
	e.removed = true
	layer := e.rec.layers[e.layer]
	if i := slices.Index(layer, e); i >= 0 {
		e.rec.layers[e.layer] = slices.Delete(layer, i, i+1)
	}
}

func (e *recElement) command() DrawCommand {
	cmd := DrawCommand{
		Op:        e.op,
		ID:        e.id,
		Layer:     e.layer.String(),
		Transform: e.matrix.ToSlice(),
	}
	if e.stroke != nil {
		cmd.Stroke = e.stroke.Color
		cmd.StrokeWidth = e.stroke.Width
	}
	if e.fill != nil {
		cmd.Fill = e.fill.Color
		cmd.FillAlpha = e.fill.Alpha
	}

	switch e.op {
	case "rect", "image":
		cmd.X, cmd.Y, cmd.Width, cmd.Height = e.x, e.y, e.w, e.h
		cmd.Href = e.url
	case "ellipse":
		cmd.X, cmd.Y, cmd.RX, cmd.RY = e.x, e.y, e.rx, e.ry
	case "path":
		cmd.Path = pathCommands(e.path)
	case "text":
		from, to, font := e.from, e.to, e.font
		cmd.Text = e.text
		cmd.From, cmd.To, cmd.Font = &from, &to, &font
	}
	return cmd
}

func pathCommands(p Path) []PathCommand {
	out := make([]PathCommand, 0, len(p.Points)+1)
	for i, pt := range p.Points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		out = append(out, PathCommand{op, pt.X, pt.Y})
	}
	if p.Closed && len(p.Points) > 0 {
		out = append(out, PathCommand{"Z"})
	}
	return out
}

func clonePath(p Path) Path {
	return Path{Points: slices.Clone(p.Points), Closed: p.Closed}
}
