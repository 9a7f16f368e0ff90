package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/surface"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(nil)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func render(t *testing.T, rec *surface.Recorder, opts Options) image.Image {
	t.Helper()
	if opts.Background == nil {
		opts.Background = white
	}
	w, h := rec.Size()
	img, err := newRenderer(t).Render(context.Background(), rec.Commands(), int(w), int(h), opts)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func pixel(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// near compares colours allowing for resampling error.
func near(a, b color.NRGBA) bool {
	d := func(x, y uint8) bool { return int(x)-int(y) <= 2 && int(y)-int(x) <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#f00", color.NRGBA{R: 255, A: 255}},
		{"#00FF00", color.NRGBA{G: 255, A: 255}},
		{"#0000ff80", color.NRGBA{B: 255, A: 128}},
		{"red", color.NRGBA{R: 255, A: 255}},
		{" White ", white},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseColor(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
	for _, in := range []string{"", "none", "#12", "#gggggg"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q): expected an error", in)
		}
	}
}

func TestRenderFilledRect(t *testing.T) {
	rec := surface.NewRecorder(100, 80)
	el := rec.DrawRect(surface.ShapeLayer, -20, -10, 40, 20, nil, surface.SolidFill("#ff0000"))
	el.SetTransformation(50, 40, 0, 0, 0)

	img := render(t, rec, Options{})
	if got := pixel(img, 50, 40); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("centre = %v, want red", got)
	}
	if got := pixel(img, 5, 5); got != white {
		t.Errorf("corner = %v, want white", got)
	}
}

func TestRenderRotatedRect(t *testing.T) {
	rec := surface.NewRecorder(100, 100)
	el := rec.DrawRect(surface.ShapeLayer, -30, -5, 60, 10, nil, surface.SolidFill("#0000ff"))
	el.SetTransformation(50, 50, 90, 0, 0)

	img := render(t, rec, Options{})
	if got := pixel(img, 50, 75); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("below centre = %v, want blue", got)
	}
	if got := pixel(img, 75, 50); got != white {
		t.Errorf("right of centre = %v, want white", got)
	}
}

func TestRenderClosedPath(t *testing.T) {
	rec := surface.NewRecorder(100, 100)
	p := surface.Path{Points: []geom.Vec2{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 90, Y: 90}}, Closed: true}
	rec.DrawPath(surface.ShapeLayer, p, nil, surface.SolidFill("#00ff00"))

	img := render(t, rec, Options{})
	if got := pixel(img, 70, 30); got != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("inside = %v, want green", got)
	}
	if got := pixel(img, 30, 70); got != white {
		t.Errorf("outside = %v, want white", got)
	}
}

func TestRenderSkipsHandles(t *testing.T) {
	rec := surface.NewRecorder(40, 40)
	rec.DrawRect(surface.HandleLayer, 0, 0, 40, 40, nil, surface.SolidFill("#000000"))

	if got := pixel(render(t, rec, Options{}), 20, 20); got != white {
		t.Errorf("without handles = %v, want white", got)
	}
	if got := pixel(render(t, rec, Options{Handles: true}), 20, 20); got != (color.NRGBA{A: 255}) {
		t.Errorf("with handles = %v, want black", got)
	}
}

func TestRenderImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 128, A: 255})
		}
	}
	var hrefs []string
	loader := ImageLoaderFunc(func(_ context.Context, href string) (image.Image, error) {
		hrefs = append(hrefs, href)
		if href != "a.png" {
			return nil, errors.New("not found")
		}
		return src, nil
	})

	rec := surface.NewRecorder(100, 100)
	el := rec.DrawImage(surface.ShapeLayer, -20, -20, 40, 40, "a.png")
	el.SetTransformation(30, 30, 0, 0, 0)
	rec.DrawImage(surface.ShapeLayer, 60, 60, 30, 30, "missing.png")

	img := render(t, rec, Options{Images: loader})
	if got := pixel(img, 30, 30); !near(got, color.NRGBA{R: 255, G: 128, A: 255}) {
		t.Errorf("image centre = %v, want orange", got)
	}
	if got := pixel(img, 75, 75); got == white {
		t.Error("no placeholder drawn for the missing image")
	}
	if diff := cmp.Diff([]string{"a.png", "missing.png"}, hrefs); diff != "" {
		t.Errorf("hrefs mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderText(t *testing.T) {
	rec := surface.NewRecorder(120, 40)
	font := surface.Font{Size: 24, Family: "sans-serif"}
	rec.DrawText(surface.ShapeLayer, "HHHH", geom.V(0, 30), geom.V(120, 30), font, nil, surface.SolidFill("#000000"))

	img := render(t, rec, Options{})
	dark := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			if pixel(img, x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no text pixels drawn")
	}
}

func TestRenderInvalidSize(t *testing.T) {
	if _, err := newRenderer(t).Render(context.Background(), nil, 0, 10, Options{}); err == nil {
		t.Error("expected an error for an empty image")
	}
}

func TestEncodePNG(t *testing.T) {
	img := render(t, surface.NewRecorder(8, 8), Options{})

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := decoded.Bounds(); got != image.Rect(0, 0, 8, 8) {
		t.Errorf("bounds = %v", got)
	}
}
