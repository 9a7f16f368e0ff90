package shape

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/surface"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func newRecorder() *surface.Recorder {
	return surface.NewRecorder(640, 480)
}

func stroke(w float64) *surface.Stroke {
	return &surface.Stroke{Width: w, Color: "#000000"}
}

func TestNewShapeDefaults(t *testing.T) {
	rec := newRecorder()
	r := NewRect(rec, stroke(1), nil)

	want := Geometry{Width: 0.5, Height: 0.5}
	if diff := cmp.Diff(want, r.Geometry()); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
	if rec.Len(surface.ShapeLayer) != 1 {
		t.Errorf("expected one element, got %d", rec.Len(surface.ShapeLayer))
	}
}

func TestSetTransformClampsSize(t *testing.T) {
	r := NewRect(newRecorder(), stroke(1), nil)
	r.SetTransform(3, 4, 0, -5, 10, false)

	want := Geometry{X: 3, Y: 4, Width: geom.MinimumValue, Height: geom.MinimumValue, Rot: 10}
	if diff := cmp.Diff(want, r.Geometry()); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
}

func TestSetTransformUpdatesElement(t *testing.T) {
	rec := newRecorder()
	r := NewRect(rec, stroke(1), surface.SolidFill("#ff0000"))
	r.SetTransform(50, 60, 10, 5, 0, false)

	cmds := rec.Commands()
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
	got := cmds[0]
	if got.X != -10 || got.Y != -5 || got.Width != 20 || got.Height != 10 {
		t.Errorf("box = (%v,%v,%v,%v), want (-10,-5,20,10)", got.X, got.Y, got.Width, got.Height)
	}
	if diff := cmp.Diff([]float64{1, 0, 0, 1, 50, 60}, got.Transform, approx); diff != "" {
		t.Errorf("transform mismatch (-want +got):\n%s", diff)
	}
}

func TestRectContains(t *testing.T) {
	filled := NewRect(newRecorder(), stroke(2), surface.SolidFill("#ffffff"))
	filled.SetTransform(100, 100, 10, 5, 0, false)

	hollow := NewRect(newRecorder(), stroke(2), nil)
	hollow.SetTransform(100, 100, 10, 5, 0, false)

	rotated := NewRect(newRecorder(), stroke(2), surface.SolidFill("#ffffff"))
	rotated.SetTransform(0, 0, 10, 5, 90, false)

	tests := []struct {
		name  string
		shape *Rect
		x, y  float64
		want  bool
	}{
		{"filled centre", filled, 100, 100, true},
		{"filled inside margin", filled, 110.5, 100, true},
		{"filled outside", filled, 111, 100, false},
		{"hollow centre", hollow, 100, 100, false},
		{"hollow on edge", hollow, 110, 100, true},
		{"hollow within band", hollow, 111.9, 100, true},
		{"hollow beyond band", hollow, 112.1, 100, false},
		{"hollow top edge", hollow, 100, 95, true},
		{"rotated long axis", rotated, 0, 9, true},
		{"rotated short axis", rotated, 9, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestEllipseContains(t *testing.T) {
	filled := NewEllipse(newRecorder(), stroke(2), surface.SolidFill("#ffffff"))
	filled.SetTransform(0, 0, 10, 5, 0, false)

	hollow := NewEllipse(newRecorder(), stroke(2), nil)
	hollow.SetTransform(0, 0, 10, 5, 0, false)

	tests := []struct {
		name  string
		shape *Ellipse
		x, y  float64
		want  bool
	}{
		{"filled long axis", filled, 9, 0, true},
		{"filled beyond short axis", filled, 0, 5.5, false},
		{"hollow centre", hollow, 0, 0, false},
		{"hollow on outline", hollow, 10, 0, true},
		{"hollow near outline", hollow, 0, 6.9, true},
		{"hollow outside band", hollow, 0, 7.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSmallShapesUseBoxTest(t *testing.T) {
	e := NewEllipse(newRecorder(), stroke(2), nil)
	e.SetTransform(0, 0, 1.5, 1.5, 0, false)

	if !e.Contains(0, 0) {
		t.Error("expected tiny hollow ellipse to be hit at its centre")
	}
	if e.Contains(2.6, 0) {
		t.Error("expected point beyond the grown box to miss")
	}
}

func TestReconstructDrawsOnTop(t *testing.T) {
	rec := newRecorder()
	a := NewRect(rec, stroke(1), nil)
	b := NewEllipse(rec, stroke(1), nil)
	a.SetTransform(10, 10, 5, 5, 0, false)
	b.SetTransform(20, 20, 5, 5, 0, false)

	a.Reconstruct()

	cmds := rec.Commands()
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	if cmds[1].Op != "rect" {
		t.Errorf("expected rect to paint last, got %q", cmds[1].Op)
	}
	if diff := cmp.Diff([]float64{1, 0, 0, 1, 10, 10}, cmds[1].Transform, approx); diff != "" {
		t.Errorf("transform mismatch (-want +got):\n%s", diff)
	}
}

func TestDisposeRemovesElement(t *testing.T) {
	rec := newRecorder()
	img := NewImage(rec, "a.png")
	img.Dispose()
	if rec.Len(surface.ShapeLayer) != 0 {
		t.Errorf("expected no elements after dispose, got %d", rec.Len(surface.ShapeLayer))
	}
}
