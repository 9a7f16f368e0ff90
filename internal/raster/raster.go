// Package raster paints recorded draw commands into images.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/surface"
)

// ImageLoader fetches the bitmap an image element refers to.
type ImageLoader interface {
	LoadImage(ctx context.Context, href string) (image.Image, error)
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(ctx context.Context, href string) (image.Image, error)

func (f ImageLoaderFunc) LoadImage(ctx context.Context, href string) (image.Image, error) {
	return f(ctx, href)
}

// Options controls rendering.
type Options struct {
	// Background fills the image first. Nil leaves it transparent.
	Background color.Color
	// Images resolves image hrefs. Without it images draw as placeholders.
	Images ImageLoader
	// Handles includes the handle layer.
	Handles bool
	Logger  *slog.Logger
}

// Renderer paints draw commands. It caches font faces per size and is
// safe for concurrent use.
type Renderer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewRenderer creates a renderer using the given TrueType or OpenType
// data for text, or Go Regular when fontData is nil.
func NewRenderer(fontData []byte) (*Renderer, error) {
	if fontData == nil {
		fontData = goregular.TTF
	}
	f, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{font: f, faces: make(map[float64]font.Face)}, nil
}

func (r *Renderer) face(size float64) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %v: %w", size, err)
	}
	r.faces[size] = f
	return f, nil
}

// Render paints cmds, in order, onto a width x height image.
func (r *Renderer) Render(ctx context.Context, cmds []surface.DrawCommand, width, height int, opts Options) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	dc := gg.NewContext(width, height)
	if opts.Background != nil {
		dc.SetColor(opts.Background)
		dc.Clear()
	}

	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cmd.Layer == surface.HandleLayer.String() && !opts.Handles {
			continue
		}
		dc.Push()
		place(dc, cmd.Transform)
		if err := r.draw(ctx, dc, cmd, opts); err != nil {
			log.Warn("draw command skipped", "op", cmd.Op, "id", cmd.ID, "error", err)
			dc.ClearPath()
		}
		dc.Pop()
	}
	return dc.Image(), nil
}

// place applies an element matrix [a b c d e f]. Element matrices are
// rigid, so a translation and a rotation reproduce them.
func place(dc *gg.Context, m []float64) {
	if len(m) != 6 {
		return
	}
	mat := geom.Matrix2D(m)
	origin := mat.TransformPoint(geom.Vec2{})
	dc.Translate(origin.X, origin.Y)
	dc.Rotate(mat.Rotation())
}

func (r *Renderer) draw(ctx context.Context, dc *gg.Context, cmd surface.DrawCommand, opts Options) error {
	switch cmd.Op {
	case "rect":
		dc.DrawRectangle(cmd.X, cmd.Y, cmd.Width, cmd.Height)
		return paint(dc, cmd)
	case "ellipse":
		dc.DrawEllipse(cmd.X, cmd.Y, cmd.RX, cmd.RY)
		return paint(dc, cmd)
	case "path":
		if err := tracePath(dc, cmd.Path); err != nil {
			return err
		}
		return paint(dc, cmd)
	case "text":
		return r.drawText(dc, cmd)
	case "image":
		return drawImage(ctx, dc, cmd, opts.Images)
	}
	return fmt.Errorf("unknown op %q", cmd.Op)
}

// paint fills, then strokes, the current path.
func paint(dc *gg.Context, cmd surface.DrawCommand) error {
	if cmd.Fill != "" {
		c, err := ParseColor(cmd.Fill)
		if err != nil {
			return err
		}
		dc.SetColor(withAlpha(c, cmd.FillAlpha))
		dc.FillPreserve()
	}
	if cmd.Stroke != "" && cmd.StrokeWidth > 0 {
		c, err := ParseColor(cmd.Stroke)
		if err != nil {
			return err
		}
		dc.SetColor(c)
		dc.SetLineWidth(cmd.StrokeWidth)
		dc.StrokePreserve()
	}
	dc.ClearPath()
	return nil
}

func tracePath(dc *gg.Context, segs []surface.PathCommand) error {
	for _, seg := range segs {
		if len(seg) == 0 {
			continue
		}
		op, _ := seg[0].(string)
		if op == "Z" {
			dc.ClosePath()
			continue
		}
		if len(seg) != 3 {
			return fmt.Errorf("malformed path segment %v", seg)
		}
		x, okX := seg[1].(float64)
		y, okY := seg[2].(float64)
		if !okX || !okY {
			return fmt.Errorf("malformed path segment %v", seg)
		}
		switch op {
		case "M":
			dc.MoveTo(x, y)
		case "L":
			dc.LineTo(x, y)
		default:
			return fmt.Errorf("unknown path op %q", op)
		}
	}
	return nil
}

// drawText centres the text on the midpoint of its baseline.
func (r *Renderer) drawText(dc *gg.Context, cmd surface.DrawCommand) error {
	if cmd.Font == nil || cmd.From == nil || cmd.To == nil || cmd.Text == "" {
		return nil
	}
	face, err := r.face(math.Max(cmd.Font.Size, 1))
	if err != nil {
		return err
	}
	colour := cmd.Fill
	if colour == "" {
		colour = cmd.Stroke
	}
	if colour == "" {
		return nil
	}
	c, err := ParseColor(colour)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawStringAnchored(cmd.Text, (cmd.From.X+cmd.To.X)/2, (cmd.From.Y+cmd.To.Y)/2, 0.5, 0)
	return nil
}

func drawImage(ctx context.Context, dc *gg.Context, cmd surface.DrawCommand, loader ImageLoader) error {
	if cmd.Width <= 0 || cmd.Height <= 0 {
		return nil
	}
	var img image.Image
	if loader != nil && cmd.Href != "" {
		var err error
		if img, err = loader.LoadImage(ctx, cmd.Href); err != nil {
			img = nil
		}
	}
	if img == nil {
		placeholder(dc, cmd.X, cmd.Y, cmd.Width, cmd.Height)
		return nil
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	dc.Translate(cmd.X, cmd.Y)
	dc.Scale(cmd.Width/float64(b.Dx()), cmd.Height/float64(b.Dy()))
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	return nil
}

// placeholder marks an image that could not be loaded with a crossed frame.
func placeholder(dc *gg.Context, x, y, w, h float64) {
	dc.SetRGB255(0xcc, 0xcc, 0xcc)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, w, h)
	dc.MoveTo(x, y)
	dc.LineTo(x+w, y+h)
	dc.MoveTo(x+w, y)
	dc.LineTo(x, y+h)
	dc.Stroke()
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(w)
}
