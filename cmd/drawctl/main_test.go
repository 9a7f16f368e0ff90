package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="30"><g>` +
	`<rect x="-5" y="-5" width="10" height="10" fill="#0000ff" stroke="none" transform="translate(20,15) rotate(0 0 0)"/>` +
	`<circle r="3"/>` +
	`</g></svg>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRender(t *testing.T) {
	in := writeFile(t, "in.svg", square)
	out := filepath.Join(t.TempDir(), "out.png")

	if err := run(context.Background(), []string{"render", "-bg", "white", in, out}, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 40, 30) {
		t.Errorf("bounds = %v", got)
	}
	if got := color.NRGBAModel.Convert(img.At(20, 15)); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("centre = %v, want blue", got)
	}
	if got := color.NRGBAModel.Convert(img.At(1, 1)); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("corner = %v, want white", got)
	}
}

func TestNormalize(t *testing.T) {
	in := writeFile(t, "in.svg", square)
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"normalize", in}, &stdout); err != nil {
		t.Fatal(err)
	}
	got := stdout.String()
	if strings.Contains(got, "circle") || !strings.Contains(got, "<rect") || !strings.Contains(got, `width="40"`) {
		t.Errorf("normalized = %s", got)
	}

	out := filepath.Join(t.TempDir(), "out.svg")
	if err := run(context.Background(), []string{"normalize", "-w", "90", "-h", "70", in, out}, &stdout); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `width="90"`) {
		t.Errorf("resized = %s", data)
	}
}

func TestSample(t *testing.T) {
	var stdout bytes.Buffer
	if err := run(context.Background(), []string{"sample"}, &stdout); err != nil {
		t.Fatal(err)
	}
	for _, tag := range []string{"<rect", "<ellipse", "<path", "<text", `width="800"`} {
		if !strings.Contains(stdout.String(), tag) {
			t.Errorf("sample lacks %s", tag)
		}
	}
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"render", "only-one"},
		{"explode"},
		{"render", "-nope", "a", "b"},
	} {
		if err := run(context.Background(), args, &bytes.Buffer{}); !errors.Is(err, errUsage) {
			t.Errorf("run(%q) err = %v, want usage", args, err)
		}
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pic.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	load := fileLoader(dir)
	got, err := load.LoadImage(context.Background(), "./pic.png")
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Dx() != 2 {
		t.Errorf("bounds = %v", got.Bounds())
	}
	if _, err := load.LoadImage(context.Background(), "http://example.com/pic.png"); err == nil {
		t.Error("remote image loaded")
	}
}
