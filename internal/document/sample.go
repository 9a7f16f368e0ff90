package document

import (
	"time"

	"github.com/inamate/drawkit/internal/geom"
	"github.com/inamate/drawkit/internal/shape"
	"github.com/inamate/drawkit/internal/surface"
)

// SampleMarkup draws the sample drawing on a canvas of the given size
// and returns it as markup.
func SampleMarkup(width, height float64) (string, error) {
	c, rec, err := Open("", width, height)
	if err != nil {
		return "", err
	}
	shapes := sampleShapes(rec, width, height)
	for i := len(shapes) - 1; i >= 0; i-- {
		c.AddShape(shapes[i])
	}
	c.ReconstructShapes()
	return c.ExportString()
}

// sampleShapes returns the sample shapes, topmost first.
func sampleShapes(sf surface.Surface, width, height float64) []shape.Shape {
	cx, cy := width/2, height/2

	title := shape.NewText(sf, nil, surface.SolidFill("#16213e"),
		surface.Font{Size: 24, Family: "sans-serif"}, "Hello, drawkit")
	title.SetTransform(cx, height/8, width/4, 12, 0, true)

	rect := shape.NewRect(sf, &surface.Stroke{Width: 2, Color: "#000000"}, surface.SolidFill("#e94560"))
	rect.SetTransform(width/4, cy, width/8, height/8, 0, true)

	ellipse := shape.NewEllipse(sf, &surface.Stroke{Width: 2, Color: "#16213e"}, surface.SolidFill("#0f3460"))
	ellipse.SetTransform(cx, cy, width/10, height/10, 15, true)

	triangle := shape.NewPath(sf, &surface.Stroke{Width: 2, Color: "#2d6a4f"}, surface.SolidFill("#53d769"))
	left, right := width*5/8, width*7/8
	triangle.AddVertex(geom.V(left, cy+height/8))
	triangle.AddVertex(geom.V((left+right)/2, cy-height/8))
	triangle.AddVertex(geom.V(right, cy+height/8))
	triangle.SetClosed(true)
	triangle.UpdateBounds()

	return []shape.Shape{title, triangle, ellipse, rect}
}

// NewSampleDocument creates a document holding the sample drawing.
func NewSampleDocument(drawingID string) (*Document, error) {
	markup, err := SampleMarkup(DefaultWidth, DefaultHeight)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return &Document{
		Drawing: Drawing{
			ID:        drawingID,
			Name:      "Untitled",
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Markup: markup,
	}, nil
}
