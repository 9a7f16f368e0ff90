package canvas

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/inamate/drawkit/internal/drag"
	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/shape"
	"github.com/inamate/drawkit/internal/surface"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

type fakePrompter struct {
	prompts []Prompt
}

func (f *fakePrompter) ShowPrompt(message, value string) {
	f.prompts = append(f.prompts, Prompt{Message: message, Value: value})
}

func newCanvas(t *testing.T, opts ...Option) (*Canvas, *surface.Recorder) {
	t.Helper()
	rec := surface.NewRecorder(400, 300)
	return New(rec, opts...), rec
}

// at builds a pointer event without a timestamp, so consecutive presses
// never count as double clicks.
func at(x, y float64) drag.Pointer {
	return drag.Pointer{ClientX: x, ClientY: y}
}

func click(c *Canvas, x, y float64) {
	c.PointerDown(at(x, y))
	c.PointerUp(at(x, y))
}

func dragTo(c *Canvas, x1, y1, x2, y2 float64) {
	c.PointerDown(at(x1, y1))
	c.PointerMove(at(x2, y2))
	c.PointerUp(at(x2, y2))
}

// drawRect draws a rectangle spanning two corners and leaves it
// selected in move mode.
func drawRect(t *testing.T, c *Canvas, x1, y1, x2, y2 float64) shape.Shape {
	t.Helper()
	c.SetMode(ModeRect)
	dragTo(c, x1, y1, x2, y2)
	if c.Mode() != ModeMove || c.CurrentShapeIndex() != 0 {
		t.Fatalf("after drawing: mode %q index %d, want move 0", c.Mode(), c.CurrentShapeIndex())
	}
	return c.Shape(0)
}

func TestNewDefaults(t *testing.T) {
	c, _ := newCanvas(t)

	want := Status{Mode: ModeRect, StrokeWidth: 2, StrokeColor: "#000000", FillColor: "#ffff00", FontSize: 16}
	if diff := cmp.Diff(want, c.Status()); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if c.CurrentShapeIndex() != -1 {
		t.Errorf("CurrentShapeIndex = %d, want -1", c.CurrentShapeIndex())
	}
}

func TestUnknownInitialModeFallsBackToMove(t *testing.T) {
	c, _ := newCanvas(t, WithInitialMode("lasso"))
	if c.Mode() != ModeMove {
		t.Errorf("Mode = %q, want move", c.Mode())
	}
}

func TestClientToCanvas(t *testing.T) {
	c, _ := newCanvas(t, WithOrigin(10, 20))
	got := c.ClientToCanvas(at(15, 40))
	if diff := cmp.Diff(geom.V(5, 20), got); diff != "" {
		t.Errorf("point mismatch (-want +got):\n%s", diff)
	}
}

func TestAddShapeKeepsSelection(t *testing.T) {
	c, rec := newCanvas(t)
	a := drawRect(t, c, 10, 10, 30, 30)

	c.AddShape(shape.NewEllipse(rec, nil, surface.SolidFill("#ff0000")))
	if c.CurrentShapeIndex() != 1 {
		t.Fatalf("CurrentShapeIndex = %d, want 1", c.CurrentShapeIndex())
	}
	if c.Shape(c.CurrentShapeIndex()) != a {
		t.Error("selection moved to a different shape")
	}
}

func TestDeleteShapeRevalidatesSelection(t *testing.T) {
	c, _ := newCanvas(t)
	a := drawRect(t, c, 10, 10, 30, 30)
	drawRect(t, c, 60, 10, 80, 30)
	drawRect(t, c, 110, 10, 130, 30)

	c.SetCurrentShapeIndex(2)
	c.DeleteShape(0)
	if c.CurrentShapeIndex() != 1 || c.Shape(1) != a {
		t.Fatalf("selection = %d, want 1 pointing at the first rect", c.CurrentShapeIndex())
	}

	c.DeleteShape(c.CurrentShapeIndex())
	if c.CurrentShapeIndex() != -1 {
		t.Errorf("CurrentShapeIndex = %d, want -1", c.CurrentShapeIndex())
	}
	if c.ShapeCount() != 1 {
		t.Errorf("ShapeCount = %d, want 1", c.ShapeCount())
	}
	if len(c.Handles()) != 0 {
		t.Errorf("handles left after deleting the selection: %v", c.Handles())
	}
}

func TestSelectionShowsHandles(t *testing.T) {
	c, _ := newCanvas(t)
	drawRect(t, c, 10, 20, 50, 40)

	want := []string{LabelLeftTop, LabelRightTop, LabelLeftBottom, LabelRightBottom, LabelRotation}
	if diff := cmp.Diff(want, c.Handles()); diff != "" {
		t.Fatalf("handles mismatch (-want +got):\n%s", diff)
	}
	positions := map[string]geom.Vec2{
		LabelLeftTop:     geom.V(10, 20),
		LabelRightTop:    geom.V(50, 20),
		LabelLeftBottom:  geom.V(10, 40),
		LabelRightBottom: geom.V(50, 40),
		LabelRotation:    geom.V(30, -10),
	}
	for label, want := range positions {
		if diff := cmp.Diff(want, c.Handle(label).Pos, approx); diff != "" {
			t.Errorf("%s position mismatch (-want +got):\n%s", label, diff)
		}
	}
	if got := c.HandleLabelAt(geom.V(52, 41)); got != LabelRightBottom {
		t.Errorf("HandleLabelAt = %q, want %q", got, LabelRightBottom)
	}
	if got := c.HandleLabelAt(geom.V(30, 30)); got != "" {
		t.Errorf("HandleLabelAt(centre) = %q, want none", got)
	}
}

func TestSelectionAdoptsStyle(t *testing.T) {
	c, rec := newCanvas(t)
	e := shape.NewEllipse(rec, &surface.Stroke{Width: 5, Color: "#00ff00"}, nil)
	e.SetTransform(100, 100, 20, 20, 0, false)
	c.AddShape(e)

	c.SetCurrentShapeIndex(0)
	st := c.Status()
	if st.StrokeWidth != 5 || st.StrokeColor != "#00ff00" || st.FillColor != "" {
		t.Errorf("status = %+v, want stroke 5 #00ff00 and no fill", st)
	}
}

func TestStatusNotifications(t *testing.T) {
	c, _ := newCanvas(t)
	var got []Status
	c.OnStatusChanged(func(s Status) { got = append(got, s) })

	drawRect(t, c, 10, 10, 30, 30)
	if len(got) == 0 {
		t.Fatal("no status emitted")
	}
	last := got[len(got)-1]
	if last.Mode != ModeMove || last.IsPath || last.IsText {
		t.Errorf("last status = %+v", last)
	}
}

func TestClear(t *testing.T) {
	c, rec := newCanvas(t)
	drawRect(t, c, 10, 10, 30, 30)
	drawRect(t, c, 60, 10, 80, 30)

	c.Clear()
	if c.ShapeCount() != 0 || c.CurrentShapeIndex() != -1 {
		t.Errorf("after Clear: %d shapes, selection %d", c.ShapeCount(), c.CurrentShapeIndex())
	}
	if n := len(rec.Commands()); n != 0 {
		t.Errorf("%d draw commands left", n)
	}
}

func TestDoubleClickLeavesDrawingMode(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newCanvas(t, WithInitialMode(ModePath))

	c.PointerDown(drag.Pointer{ClientX: 10, ClientY: 10, Time: t0})
	c.PointerDown(drag.Pointer{ClientX: 80, ClientY: 80, Time: t0.Add(200 * time.Millisecond)})

	if c.Mode() != ModeMove {
		t.Errorf("Mode = %q, want move", c.Mode())
	}
	if c.ShapeCount() != 0 {
		t.Errorf("unfinished path kept: %d shapes", c.ShapeCount())
	}
}

func TestSlowClicksStayInMode(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newCanvas(t, WithInitialMode(ModePath))

	c.PointerDown(drag.Pointer{ClientX: 10, ClientY: 10, Time: t0})
	c.PointerDown(drag.Pointer{ClientX: 80, ClientY: 80, Time: t0.Add(DoubleClickInterval)})

	if c.Mode() != ModePath {
		t.Errorf("Mode = %q, want path", c.Mode())
	}
	if got := len(c.Shape(0).(*shape.Path).Vertices()); got != 3 {
		t.Errorf("vertices = %d, want 3", got)
	}
}

func TestBeginDragRejectsSecondSession(t *testing.T) {
	c, _ := newCanvas(t)
	var moves []string
	if !c.BeginDrag(at(0, 0), func(drag.Pointer) { moves = append(moves, "first") }, nil) {
		t.Fatal("first drag refused")
	}
	if c.BeginDrag(at(0, 0), func(drag.Pointer) { moves = append(moves, "second") }, nil) {
		t.Fatal("second drag accepted")
	}
	c.drag.Move(at(1, 1))
	if diff := cmp.Diff([]string{"first"}, moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	c.EndDrag()
	c.EndDrag()
	if c.Dragging() {
		t.Error("still dragging after EndDrag")
	}
}
