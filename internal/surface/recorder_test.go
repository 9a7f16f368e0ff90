package surface

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/inamate/drawkit/internal/geom"
)

func TestRecorderPaintersOrder(t *testing.T) {
	r := NewRecorder(100, 100)
	handle := r.DrawRect(HandleLayer, -3, -3, 6, 6, &Stroke{Width: 1, Color: "#000000"}, nil)
	r.DrawEllipse(ShapeLayer, 0, 0, 4, 2, nil, SolidFill("#ff0000"))
	r.DrawPath(ShapeLayer, Path{Points: []geom.Vec2{geom.V(0, 0), geom.V(3, 4)}, Closed: true}, nil, nil)
	handle.SetTransformation(10, 20, 0, 0, 0)

	var ops []string
	for _, c := range r.Commands() {
		ops = append(ops, c.Layer+":"+c.Op)
	}
	want := []string{"shapes:ellipse", "shapes:path", "handles:rect"}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	path := r.Commands()[1].Path
	wantPath := []PathCommand{{"M", 0.0, 0.0}, {"L", 3.0, 4.0}, {"Z"}}
	if diff := cmp.Diff(wantPath, path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorderRemoveAndClear(t *testing.T) {
	r := NewRecorder(100, 100)
	a := r.DrawRect(ShapeLayer, 0, 0, 1, 1, nil, nil)
	r.DrawRect(ShapeLayer, 0, 0, 2, 2, nil, nil)
	r.DrawRect(HandleLayer, 0, 0, 3, 3, nil, nil)

	a.Remove()
	a.Remove()
	if got := r.Len(ShapeLayer); got != 1 {
		t.Errorf("shape layer has %d elements, want 1", got)
	}

	r.Clear(HandleLayer)
	if got := r.Len(HandleLayer); got != 0 {
		t.Errorf("handle layer has %d elements, want 0", got)
	}
}

func TestRecorderElementUpdates(t *testing.T) {
	r := NewRecorder(100, 100)
	e := r.DrawText(ShapeLayer, "a", geom.V(-5, 2), geom.V(5, 2), Font{Size: 12, Family: "serif"}, nil, SolidFill("#000000"))
	e.SetText("b")
	e.SetTransformation(1, 2, 90, 0, 0)
	e.SetStroke(&Stroke{Width: 2, Color: "red"})

	c := r.Commands()[0]
	if c.Text != "b" || c.Stroke != "red" || c.StrokeWidth != 2 {
		t.Errorf("unexpected command %+v", c)
	}
	want := []float64{0, 1, -1, 0, 1, 2}
	if diff := cmp.Diff(want, c.Transform, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("transform mismatch (-want +got):\n%s", diff)
	}
}

func TestDrawCommandsToJSON(t *testing.T) {
	s, err := DrawCommandsToJSON(nil)
	if err != nil || s != "[]" {
		t.Fatalf("empty = %q, %v", s, err)
	}

	r := NewRecorder(10, 10)
	r.DrawImage(ShapeLayer, -1, -1, 2, 2, "a.png")
	s, err = DrawCommandsToJSON(r.Commands())
	if err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded[0]["op"] != "image" || decoded[0]["href"] != "a.png" {
		t.Errorf("unexpected json %s", s)
	}
}
