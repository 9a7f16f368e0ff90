package canvas

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/shape"
	"github.com/inamate/drawkit/internal/surface"
)

func worldVertices(p *shape.Path) []geom.Vec2 {
	var pts []geom.Vec2
	for _, v := range p.Vertices() {
		pts = append(pts, p.ToWorld(v))
	}
	return pts
}

func drawTriangle(t *testing.T, c *Canvas) *shape.Path {
	t.Helper()
	c.SetMode(ModePath)
	click(c, 0, 0)
	click(c, 50, 0)
	c.PointerMove(at(48, 30))
	click(c, 50, 50)
	click(c, 2, 2)
	p, ok := c.Shape(0).(*shape.Path)
	if !ok {
		t.Fatalf("shape 0 is %T, want *shape.Path", c.Shape(0))
	}
	return p
}

func TestSetModeIgnoresUnknownAndSame(t *testing.T) {
	c, _ := newCanvas(t)
	var calls int
	c.OnStatusChanged(func(Status) { calls++ })

	c.SetMode("lasso")
	c.SetMode(ModeRect)
	if c.Mode() != ModeRect || calls != 0 {
		t.Errorf("mode %q after %d notifications, want rect and none", c.Mode(), calls)
	}
	c.SetMode(ModeEllipse)
	if c.Mode() != ModeEllipse || calls != 1 {
		t.Errorf("mode %q after %d notifications, want ellipse and 1", c.Mode(), calls)
	}
}

func TestDrawRect(t *testing.T) {
	c, _ := newCanvas(t)
	s := drawRect(t, c, 10, 20, 50, 40)

	if s.Kind() != shape.KindRect {
		t.Fatalf("Kind = %q, want rect", s.Kind())
	}
	want := shape.Geometry{X: 30, Y: 30, Width: 20, Height: 10}
	if diff := cmp.Diff(want, s.Geometry(), approx); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
	st := s.(shape.Styled)
	if st.Stroke().Width != 2 || st.Fill().Color != "#ffff00" {
		t.Errorf("style = %+v %+v, want current style", st.Stroke(), st.Fill())
	}
}

func TestDrawEllipseDraggingUpLeft(t *testing.T) {
	c, _ := newCanvas(t, WithInitialMode(ModeEllipse))
	dragTo(c, 100, 100, 60, 80)

	s := c.Shape(0)
	if s.Kind() != shape.KindEllipse {
		t.Fatalf("Kind = %q, want ellipse", s.Kind())
	}
	want := shape.Geometry{X: 80, Y: 90, Width: 20, Height: 10}
	if diff := cmp.Diff(want, s.Geometry(), approx); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveDragsSelection(t *testing.T) {
	c, _ := newCanvas(t)
	s := drawRect(t, c, 10, 20, 50, 40)

	dragTo(c, 35, 32, 45, 42)
	want := shape.Geometry{X: 40, Y: 40, Width: 20, Height: 10}
	if diff := cmp.Diff(want, s.Geometry(), approx); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.V(20, 30), c.Handle(LabelLeftTop).Pos, approx); diff != "" {
		t.Errorf("handle not following (-want +got):\n%s", diff)
	}
}

func TestMoveSelectsAndDeselects(t *testing.T) {
	c, _ := newCanvas(t)
	drawRect(t, c, 10, 10, 30, 30)
	drawRect(t, c, 110, 10, 130, 30)

	click(c, 20, 20)
	if c.CurrentShapeIndex() != 1 {
		t.Errorf("CurrentShapeIndex = %d, want 1", c.CurrentShapeIndex())
	}
	click(c, 300, 250)
	if c.CurrentShapeIndex() != -1 {
		t.Errorf("CurrentShapeIndex = %d, want -1", c.CurrentShapeIndex())
	}
}

func TestCornerResizeKeepsOppositeCorner(t *testing.T) {
	c, _ := newCanvas(t)
	s := drawRect(t, c, 10, 20, 50, 40)

	dragTo(c, 50, 40, 70, 60)
	want := shape.Geometry{X: 40, Y: 40, Width: 30, Height: 20}
	if diff := cmp.Diff(want, s.Geometry(), approx); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.V(10, 20), c.Handle(LabelLeftTop).Pos, approx); diff != "" {
		t.Errorf("anchor moved (-want +got):\n%s", diff)
	}
}

func TestTextResizeKeepsPaintOrder(t *testing.T) {
	c, rec := newCanvas(t, WithInitialMode(ModeMove))
	text := shape.NewText(rec, nil, surface.SolidFill("#000000"), surface.Font{Size: 16, Family: "sans-serif"}, "hi")
	text.SetTransform(100, 100, 40, 10, 0, true)
	c.AddShape(text)
	box := shape.NewRect(rec, &surface.Stroke{Width: 1, Color: "#000000"}, surface.SolidFill("#ff0000"))
	box.SetTransform(300, 200, 20, 20, 0, true)
	c.AddShape(box)

	c.SetCurrentShapeIndex(1)
	dragTo(c, 140, 110, 160, 120)

	if got := text.Geometry().Width; got != 50 {
		t.Fatalf("text width = %v, want 50", got)
	}
	var order []string
	var baseline float64
	for _, cmd := range rec.Commands() {
		if cmd.Layer != surface.ShapeLayer.String() {
			continue
		}
		order = append(order, cmd.Op)
		if cmd.Op == "text" {
			baseline = cmd.From.X
		}
	}
	if diff := cmp.Diff([]string{"text", "rect"}, order); diff != "" {
		t.Errorf("paint order (-want +got):\n%s", diff)
	}
	if baseline != -50 {
		t.Errorf("baseline starts at %v, want -50", baseline)
	}
}

func TestRotationHandle(t *testing.T) {
	c, _ := newCanvas(t)
	s := drawRect(t, c, 10, 20, 50, 40)

	dragTo(c, 30, -10, 70, 30)
	want := shape.Geometry{X: 30, Y: 30, Width: 20, Height: 10, Rot: 90}
	if diff := cmp.Diff(want, s.Geometry(), approx); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
}

func TestPathClosesNearStart(t *testing.T) {
	c, _ := newCanvas(t)
	p := drawTriangle(t, c)

	if !p.Closed() {
		t.Error("path not closed")
	}
	want := []geom.Vec2{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}}
	if diff := cmp.Diff(want, worldVertices(p), approx); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	if c.Mode() != ModeMove || c.CurrentShapeIndex() != 0 {
		t.Errorf("mode %q index %d, want move 0", c.Mode(), c.CurrentShapeIndex())
	}
	if !c.Status().IsPath {
		t.Error("status does not report a path")
	}
}

func TestPathFinishesOpenOnRepeatedClick(t *testing.T) {
	c, _ := newCanvas(t, WithInitialMode(ModePath))
	click(c, 0, 0)
	click(c, 50, 0)
	click(c, 50, 50)
	click(c, 50, 50.5)

	p := c.Shape(0).(*shape.Path)
	if p.Closed() {
		t.Error("path closed")
	}
	if got := len(p.Vertices()); got != 3 {
		t.Errorf("vertices = %d, want 3", got)
	}
}

func TestTwoVertexPathIsOpen(t *testing.T) {
	c, _ := newCanvas(t, WithInitialMode(ModePath))
	click(c, 0, 0)
	click(c, 50, 0)
	click(c, 50, 0.5)

	if c.ShapeCount() != 1 {
		t.Fatalf("ShapeCount = %d, want 1", c.ShapeCount())
	}
	p := c.Shape(0).(*shape.Path)
	if p.Closed() || len(p.Vertices()) != 2 {
		t.Errorf("closed=%v vertices=%d, want open with 2", p.Closed(), len(p.Vertices()))
	}
}

func TestPathWithOneVertexIsDiscarded(t *testing.T) {
	c, _ := newCanvas(t, WithInitialMode(ModePath))
	click(c, 0, 0)
	click(c, 1, 1)

	if c.ShapeCount() != 0 {
		t.Errorf("ShapeCount = %d, want 0", c.ShapeCount())
	}
	if c.Mode() != ModePath {
		t.Errorf("Mode = %q, want path", c.Mode())
	}
}

func TestRubberBandFollowsPointer(t *testing.T) {
	c, _ := newCanvas(t, WithInitialMode(ModePath))
	click(c, 0, 0)
	c.PointerMove(at(30, 40))

	p := c.Shape(0).(*shape.Path)
	want := []geom.Vec2{{X: 0, Y: 0}, {X: 30, Y: 40}}
	if diff := cmp.Diff(want, p.Vertices()); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestLeavingPathModeDropsUnfinishedPath(t *testing.T) {
	c, _ := newCanvas(t)
	drawRect(t, c, 10, 10, 30, 30)
	c.SetMode(ModePath)
	click(c, 100, 100)
	click(c, 150, 100)

	c.SetMode(ModeMove)
	if c.ShapeCount() != 1 || c.Shape(0).Kind() != shape.KindRect {
		t.Errorf("ShapeCount = %d, want only the rect", c.ShapeCount())
	}
}

func TestModifyDragsVertex(t *testing.T) {
	c, _ := newCanvas(t)
	p := drawTriangle(t, c)

	c.SetMode(ModeModify)
	want := []string{VertexLabel(0), VertexLabel(1), VertexLabel(2)}
	if diff := cmp.Diff(want, c.Handles()); diff != "" {
		t.Fatalf("handles mismatch (-want +got):\n%s", diff)
	}

	dragTo(c, 50, 50, 60, 70)
	wantPts := []geom.Vec2{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 60, Y: 70}}
	if diff := cmp.Diff(wantPts, worldVertices(p), approx); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	wantGeom := shape.Geometry{X: 30, Y: 35, Width: 30, Height: 35}
	if diff := cmp.Diff(wantGeom, p.Geometry(), approx); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.V(60, 70), c.Handle(VertexLabel(2)).Pos, approx); diff != "" {
		t.Errorf("handle mismatch (-want +got):\n%s", diff)
	}
}

func TestModifyHandsSelectionBack(t *testing.T) {
	c, _ := newCanvas(t)
	drawTriangle(t, c)
	drawRect(t, c, 200, 200, 240, 220)

	c.SetMode(ModeModify)
	if len(c.Handles()) != 0 {
		t.Fatalf("rect got vertex handles: %v", c.Handles())
	}
	// Select the triangle by its body.
	dragTo(c, 40, 10, 40, 10)
	if got := len(c.Handles()); got != 3 {
		t.Fatalf("handles = %d, want 3", got)
	}

	c.SetMode(ModeMove)
	if c.CurrentShapeIndex() != 1 {
		t.Errorf("CurrentShapeIndex = %d, want 1", c.CurrentShapeIndex())
	}
}

func TestTextCreatedFromPrompt(t *testing.T) {
	fp := &fakePrompter{}
	c, _ := newCanvas(t, WithInitialMode(ModeText), WithPrompter(fp))

	c.PointerDown(at(100, 100))
	c.PointerMove(at(140, 110))
	if h := c.Handle(LabelNewText); h == nil {
		t.Fatal("no text box handle while dragging")
	}
	c.PointerUp(at(140, 110))

	if !c.Frozen() {
		t.Fatal("canvas not frozen while prompting")
	}
	if diff := cmp.Diff([]Prompt{{Message: textPrompt}}, fp.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if err := c.Exec(CmdDelete, ""); err != ErrFrozen {
		t.Errorf("Exec while frozen = %v, want ErrFrozen", err)
	}

	c.ClosePrompt("hello")
	if c.Frozen() {
		t.Fatal("still frozen")
	}
	txt, ok := c.Shape(0).(*shape.Text)
	if !ok {
		t.Fatalf("shape 0 is %T, want *shape.Text", c.Shape(0))
	}
	if txt.Text() != "hello" {
		t.Errorf("Text = %q, want hello", txt.Text())
	}
	want := shape.Geometry{X: 120, Y: 108, Width: 20, Height: 8}
	if diff := cmp.Diff(want, txt.Geometry(), approx); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
	if c.Mode() != ModeMove || c.CurrentShapeIndex() != 0 || !c.Status().IsText {
		t.Errorf("mode %q index %d, want move 0 on text", c.Mode(), c.CurrentShapeIndex())
	}
}

func TestTextNarrowBoxIsWidened(t *testing.T) {
	fp := &fakePrompter{}
	c, _ := newCanvas(t, WithInitialMode(ModeText), WithPrompter(fp))
	dragTo(c, 100, 100, 104, 100)
	c.ClosePrompt("x")

	g := c.Shape(0).Geometry()
	if g.X != 102 || g.Width != 10 {
		t.Errorf("geometry = %+v, want centre 102 half width 10", g)
	}
}

func TestTextClickEditsExisting(t *testing.T) {
	fp := &fakePrompter{}
	c, _ := newCanvas(t, WithInitialMode(ModeText), WithPrompter(fp))
	dragTo(c, 100, 100, 140, 110)
	c.ClosePrompt("hello")

	c.SetMode(ModeText)
	dragTo(c, 120, 108, 121, 108)
	if diff := cmp.Diff(Prompt{Message: textPrompt, Value: "hello"}, fp.prompts[1]); diff != "" {
		t.Fatalf("prompt mismatch (-want +got):\n%s", diff)
	}
	if len(c.Handles()) != 0 {
		t.Errorf("handles left while editing: %v", c.Handles())
	}
	c.ClosePrompt("world")

	if c.ShapeCount() != 1 {
		t.Fatalf("ShapeCount = %d, want 1", c.ShapeCount())
	}
	if got := c.Shape(0).(*shape.Text).Text(); got != "world" {
		t.Errorf("Text = %q, want world", got)
	}
}

func TestEmptyPromptCreatesNothing(t *testing.T) {
	c, _ := newCanvas(t, WithInitialMode(ModeText))
	dragTo(c, 100, 100, 140, 110)

	if c.Frozen() || c.ShapeCount() != 0 {
		t.Errorf("frozen=%v shapes=%d, want unfrozen and empty", c.Frozen(), c.ShapeCount())
	}
	if c.Mode() != ModeMove {
		t.Errorf("Mode = %q, want move", c.Mode())
	}
}
